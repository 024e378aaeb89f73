package service

import (
	"context"

	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/apperror"
)

// TenantService handles tenant-related operations
type TenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// GetCurrentTenant retrieves the caller's tenant
func (s *TenantService) GetCurrentTenant(ctx context.Context) (*entity.Tenant, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

// UpdateSettingsInput represents the tenant settings update input
type UpdateSettingsInput struct {
	Name          *string
	Currency      *string
	ReceiptFooter *string
	StoreName     *string
	Address       *string
	Phone         *string
	TaxID         *string
}

// UpdateSettings updates the tenant name and receipt branding
func (s *TenantService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.Tenant, error) {
	tenant, err := s.GetCurrentTenant(ctx)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "name", Message: "Tenant name cannot be empty"},
			})
		}
		tenant.Name = *input.Name
	}
	if input.Currency != nil {
		tenant.Settings.Currency = *input.Currency
	}
	if input.ReceiptFooter != nil {
		tenant.Settings.ReceiptFooter = *input.ReceiptFooter
	}
	if input.StoreName != nil {
		tenant.Settings.StoreName = *input.StoreName
	}
	if input.Address != nil {
		tenant.Settings.Address = *input.Address
	}
	if input.Phone != nil {
		tenant.Settings.Phone = *input.Phone
	}
	if input.TaxID != nil {
		tenant.Settings.TaxID = *input.TaxID
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}
