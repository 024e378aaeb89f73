package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/pkg/pagination"
)

// SessionRepository defines the interface for cash session operations
type SessionRepository interface {
	Create(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error)

	// GetOpenForBranch returns the branch's open session, or nil when the
	// register is closed
	GetOpenForBranch(ctx context.Context, branchID uuid.UUID) (*entity.CashSession, error)

	Update(ctx context.Context, session *entity.CashSession) error
	List(ctx context.Context, branchID *uuid.UUID, params *pagination.PaginationParams) ([]entity.CashSession, int64, error)
}
