package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/apperror"
	"github.com/mesaposte/mesa-api/pkg/pagination"
)

// BranchService handles branch operations
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// CreateBranchInput represents the create branch input
type CreateBranchInput struct {
	Name    string
	Address string
	Phone   string
}

// CreateBranch creates a new branch for the caller's tenant
func (s *BranchService) CreateBranch(ctx context.Context, input *CreateBranchInput) (*entity.Branch, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Branch name is required"},
		})
	}

	branch := &entity.Branch{
		TenantID: tenantID,
		Name:     input.Name,
		Address:  input.Address,
		Phone:    input.Phone,
	}

	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}
	return branch, nil
}

// ListBranches lists the tenant's branches
func (s *BranchService) ListBranches(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Branch], error) {
	branches, total, err := s.branchRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(branches, pag), nil
}

// UpdateBranchInput represents the update branch input
type UpdateBranchInput struct {
	Name    *string
	Address *string
	Phone   *string
}

// UpdateBranch updates a branch
func (s *BranchService) UpdateBranch(ctx context.Context, id uuid.UUID, input *UpdateBranchInput) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}

	if input.Name != nil {
		branch.Name = *input.Name
	}
	if input.Address != nil {
		branch.Address = *input.Address
	}
	if input.Phone != nil {
		branch.Phone = *input.Phone
	}

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch deletes a branch
func (s *BranchService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if branch == nil {
		return apperror.NewNotFoundError("Branch")
	}
	return s.branchRepo.Delete(ctx, id)
}
