package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	domainRepo "github.com/mesaposte/mesa-api/internal/domain/repository"
	"github.com/mesaposte/mesa-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFor(ctx, r.db).WithContext(ctx).
		Scopes(TenantScope(ctx)).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFor(ctx, r.db).WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Items").
		Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := dbFor(ctx, r.db).WithContext(ctx).Model(&entity.Sale{}).Scopes(TenantScope(ctx))
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.SessionID != nil {
		query = query.Where("session_id = ?", *params.SessionID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}

// ListWithCursor returns sales using cursor-based pagination
// Uses keyset pagination on (created_at, id) for stable ordering
func (r *saleRepository) ListWithCursor(ctx context.Context, params *domainRepo.SaleCursorFilterParams) ([]entity.Sale, error) {
	var sales []entity.Sale

	params.Cursor.Validate()
	query := dbFor(ctx, r.db).WithContext(ctx).Model(&entity.Sale{}).Scopes(TenantScope(ctx))
	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.SessionID != nil {
		query = query.Where("session_id = ?", *params.SessionID)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Order("created_at ASC, id ASC").
		Find(&sales).Error

	return sales, err
}

func (r *saleRepository) SumCollectedForSession(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := dbFor(ctx, r.db).WithContext(ctx).Model(&entity.Sale{}).
		Select("SUM(collected)").
		Where("session_id = ?", sessionID).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
