package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account (tab) data operations
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error

	// GetByID retrieves an account without its lines
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// GetWithItems retrieves an account with its lines ordered by position
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	Update(ctx context.Context, account *entity.Account) error

	// Delete soft-deletes an account and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, params *AccountFilterParams) ([]entity.Account, int64, error)

	// CreateItem appends a line to an account
	CreateItem(ctx context.Context, item *entity.AccountItem) error

	UpdateItem(ctx context.Context, item *entity.AccountItem) error

	DeleteItem(ctx context.Context, id uuid.UUID) error

	// DeleteItems removes a batch of lines by id
	DeleteItems(ctx context.Context, ids []uuid.UUID) error

	// MaxItemPosition returns the highest line position on the account, or -1
	// when the account has no lines
	MaxItemPosition(ctx context.Context, accountID uuid.UUID) (int, error)
}

// AccountFilterParams contains filtering parameters for account queries
type AccountFilterParams struct {
	Pagination *pagination.PaginationParams
	BranchID   *uuid.UUID
	Closed     *bool
	Search     string
}

// PaymentRepository defines the interface for payment record operations.
// Records are append-only; there is no update or delete.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.PaymentRecord) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]entity.PaymentRecord, error)
}

// SaleRepository defines the interface for finalized sale operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, params *SaleCursorFilterParams) ([]entity.Sale, error)

	// SumCollectedForSession totals the collected amounts of a cash
	// session's sales
	SumCollectedForSession(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	BranchID   *uuid.UUID
	SessionID  *uuid.UUID
}

// SaleCursorFilterParams contains cursor-based filtering for sale queries
type SaleCursorFilterParams struct {
	Cursor    *pagination.CursorParams
	BranchID  *uuid.UUID
	SessionID *uuid.UUID
}
