package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	domainRepo "github.com/mesaposte/mesa-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) domainRepo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(account).Error
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var account entity.Account
	err := dbFor(ctx, r.db).WithContext(ctx).
		Scopes(TenantScope(ctx)).
		First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *accountRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var account entity.Account
	err := dbFor(ctx, r.db).WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Product").
		First(&account, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	// Lines are persisted through the item methods; Save only writes the
	// account row itself
	return dbFor(ctx, r.db).WithContext(ctx).
		Omit(clause.Associations).
		Save(account).Error
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFor(ctx, r.db).WithContext(ctx)
	if err := db.Delete(&entity.AccountItem{}, "account_id = ?", id).Error; err != nil {
		return err
	}
	return db.Delete(&entity.Account{}, "id = ?", id).Error
}

func (r *accountRepository) List(ctx context.Context, params *domainRepo.AccountFilterParams) ([]entity.Account, int64, error) {
	var accounts []entity.Account
	var total int64

	query := dbFor(ctx, r.db).WithContext(ctx).Model(&entity.Account{}).Scopes(TenantScope(ctx))

	if params.BranchID != nil {
		query = query.Where("branch_id = ?", *params.BranchID)
	}
	if params.Closed != nil {
		query = query.Where("closed = ?", *params.Closed)
	}
	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&accounts).Error

	return accounts, total, err
}

func (r *accountRepository) CreateItem(ctx context.Context, item *entity.AccountItem) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(item).Error
}

func (r *accountRepository) UpdateItem(ctx context.Context, item *entity.AccountItem) error {
	return dbFor(ctx, r.db).WithContext(ctx).Save(item).Error
}

func (r *accountRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return dbFor(ctx, r.db).WithContext(ctx).Delete(&entity.AccountItem{}, "id = ?", id).Error
}

func (r *accountRepository) DeleteItems(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbFor(ctx, r.db).WithContext(ctx).Delete(&entity.AccountItem{}, "id IN ?", ids).Error
}

func (r *accountRepository) MaxItemPosition(ctx context.Context, accountID uuid.UUID) (int, error) {
	var max *int
	err := dbFor(ctx, r.db).WithContext(ctx).Model(&entity.AccountItem{}).
		Where("account_id = ?", accountID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return -1, err
	}
	if max == nil {
		return -1, nil
	}
	return *max, nil
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment record repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.PaymentRecord) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]entity.PaymentRecord, error) {
	var payments []entity.PaymentRecord
	err := dbFor(ctx, r.db).WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}
