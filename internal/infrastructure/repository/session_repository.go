package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
	domainRepo "github.com/mesaposte/mesa-api/internal/domain/repository"
	"github.com/mesaposte/mesa-api/pkg/pagination"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new cash session repository
func NewSessionRepository(db *gorm.DB) domainRepo.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.CashSession) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := dbFor(ctx, r.db).WithContext(ctx).
		Scopes(TenantScope(ctx)).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) GetOpenForBranch(ctx context.Context, branchID uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := dbFor(ctx, r.db).WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("branch_id = ? AND status = ?", branchID, enum.SessionOpen).
		Order("opened_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) Update(ctx context.Context, session *entity.CashSession) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(session).Error
}

func (r *sessionRepository) List(ctx context.Context, branchID *uuid.UUID, params *pagination.PaginationParams) ([]entity.CashSession, int64, error) {
	var sessions []entity.CashSession
	var total int64

	query := dbFor(ctx, r.db).WithContext(ctx).Model(&entity.CashSession{}).Scopes(TenantScope(ctx))
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}
