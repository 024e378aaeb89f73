package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/apperror"
	"github.com/mesaposte/mesa-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// SessionService manages cash register shifts. A branch holds at most one
// open session at a time; account closing requires one.
type SessionService struct {
	sessionRepo repository.SessionRepository
	saleRepo    repository.SaleRepository
	branchRepo  repository.BranchRepository
	tx          repository.TxManager
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	saleRepo repository.SaleRepository,
	branchRepo repository.BranchRepository,
	tx repository.TxManager,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		saleRepo:    saleRepo,
		branchRepo:  branchRepo,
		tx:          tx,
	}
}

// OpenSession opens a register shift at a branch with a starting float
func (s *SessionService) OpenSession(ctx context.Context, branchID, userID uuid.UUID, openingAmount decimal.Decimal) (*entity.CashSession, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if openingAmount.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "opening_amount", Message: "Opening amount cannot be negative"},
		})
	}

	var result *entity.CashSession
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		branch, err := s.branchRepo.GetByID(ctx, branchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return apperror.NewNotFoundError("Branch")
		}

		open, err := s.sessionRepo.GetOpenForBranch(ctx, branchID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperror.NewConflictError("Branch already has an open cash session")
		}

		session := &entity.CashSession{
			TenantID:      tenantID,
			BranchID:      branchID,
			OpenedByID:    userID,
			Status:        enum.SessionOpen,
			OpeningAmount: openingAmount,
			OpenedAt:      time.Now(),
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			return err
		}
		result = session
		return nil
	})
	return result, err
}

// CloseSessionResult carries the closed session and what the shift took in.
type CloseSessionResult struct {
	Session    *entity.CashSession `json:"session"`
	SalesTotal decimal.Decimal     `json:"sales_total"`
}

// CloseSession ends a register shift. The closing amount is the counted
// drawer value; the sales total is computed from the shift's finalized sales
// so the two can be reconciled.
func (s *SessionService) CloseSession(ctx context.Context, sessionID uuid.UUID, closingAmount decimal.Decimal) (*CloseSessionResult, error) {
	var result *CloseSessionResult
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		session, err := s.sessionRepo.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperror.NewNotFoundError("Cash session")
		}
		if !session.IsOpen() {
			return apperror.NewConflictError("Cash session is already closed")
		}

		salesTotal, err := s.saleRepo.SumCollectedForSession(ctx, sessionID)
		if err != nil {
			return err
		}

		now := time.Now()
		session.Status = enum.SessionClosed
		session.ClosingAmount = &closingAmount
		session.ClosedAt = &now

		if err := s.sessionRepo.Update(ctx, session); err != nil {
			return err
		}
		result = &CloseSessionResult{Session: session, SalesTotal: salesTotal}
		return nil
	})
	return result, err
}

// GetSession retrieves a session by ID
func (s *SessionService) GetSession(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}
	return session, nil
}

// GetOpenSession returns a branch's open session, if any
func (s *SessionService) GetOpenSession(ctx context.Context, branchID uuid.UUID) (*entity.CashSession, error) {
	return s.sessionRepo.GetOpenForBranch(ctx, branchID)
}

// ListSessions lists sessions, optionally filtered by branch
func (s *SessionService) ListSessions(ctx context.Context, branchID *uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashSession], error) {
	sessions, total, err := s.sessionRepo.List(ctx, branchID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}
