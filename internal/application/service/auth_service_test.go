package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/pkg/apperror"
	"github.com/mesaposte/mesa-api/pkg/pagination"
	"github.com/mesaposte/mesa-api/pkg/utils"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(users, nil, nil, jwt, fakeTx{})
	return svc, users
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.RefreshToken(context.Background(), "not-a-token")
	if !errors.Is(err, apperror.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestRefreshTokenRejectsUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture()

	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	token, err := jwt.GenerateRefreshToken(uuid.New())
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	_, err = svc.RefreshToken(context.Background(), token)
	if !errors.Is(err, apperror.ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	svc, users := newAuthFixture()

	user := &entity.User{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Email:    "owner@example.com",
		Role:     entity.RoleOwner,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	token, err := jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	out, err := svc.RefreshToken(context.Background(), token)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		t.Fatalf("expected a fresh token pair, got %+v", out)
	}
	if out.User.ID != user.ID {
		t.Fatalf("expected user %v, got %v", user.ID, out.User.ID)
	}
}
