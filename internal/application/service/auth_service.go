package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	"github.com/mesaposte/mesa-api/pkg/apperror"
	"github.com/mesaposte/mesa-api/pkg/utils"
)

// AuthService handles authentication. Accounts are local JWT identities; a
// registration creates the tenant, its first branch, and the owner user in
// one step.
type AuthService struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	branchRepo repository.BranchRepository
	jwtManager *utils.JWTManager
	tx         repository.TxManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	branchRepo repository.BranchRepository,
	jwtManager *utils.JWTManager,
	tx repository.TxManager,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		branchRepo: branchRepo,
		jwtManager: jwtManager,
		tx:         tx,
	}
}

// RegisterInput represents the registration input
type RegisterInput struct {
	CompanyName string
	BranchName  string
	FirstName   string
	LastName    string
	Email       string
	Password    string
}

// RegisterOutput represents the registration output
type RegisterOutput struct {
	Tenant *entity.Tenant
	Branch *entity.Branch
	User   *entity.User
}

// Register creates a tenant with its first branch and owner user
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	var fieldErrors []apperror.FieldError
	if input.CompanyName == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "company_name", Message: "Company name is required"})
	}
	if input.Email == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "Email is required"})
	}
	if len(input.Password) < 8 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	slug := utils.Slugify(input.CompanyName)
	taken, err := s.tenantRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.NewConflictError("Company name already taken")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	branchName := input.BranchName
	if branchName == "" {
		branchName = "Main"
	}

	var result *RegisterOutput
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		ownerID := uuid.New()
		tenant := &entity.Tenant{
			Name:    input.CompanyName,
			Slug:    slug,
			OwnerID: ownerID,
		}
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			return err
		}

		owner := &entity.User{
			ID:        ownerID,
			TenantID:  tenant.ID,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Email:     input.Email,
			Password:  hashedPassword,
			Role:      entity.RoleOwner,
		}
		if err := s.userRepo.Create(ctx, owner); err != nil {
			return err
		}

		branch := &entity.Branch{
			TenantID: tenant.ID,
			Name:     branchName,
		}
		if err := s.branchRepo.Create(ctx, branch); err != nil {
			return err
		}

		result = &RegisterOutput{Tenant: tenant, Branch: branch, User: owner}
		return nil
	})
	return result, err
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.TenantID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.TenantID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// GetProfile retrieves the authenticated user
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
