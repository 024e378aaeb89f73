package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/apperror"
	"github.com/mesaposte/mesa-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// AccountService owns the open-tab ledger: item edits, split bookkeeping,
// the split status projection, and closing a tab into a finalized sale.
// Every mutating operation runs read-compute-write inside one transaction.
type AccountService struct {
	accountRepo repository.AccountRepository
	paymentRepo repository.PaymentRepository
	saleRepo    repository.SaleRepository
	sessionRepo repository.SessionRepository
	productRepo repository.ProductRepository
	tx          repository.TxManager
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repository.AccountRepository,
	paymentRepo repository.PaymentRepository,
	saleRepo repository.SaleRepository,
	sessionRepo repository.SessionRepository,
	productRepo repository.ProductRepository,
	tx repository.TxManager,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		saleRepo:    saleRepo,
		sessionRepo: sessionRepo,
		productRepo: productRepo,
		tx:          tx,
	}
}

// CreateAccountInput represents the create account input
type CreateAccountInput struct {
	BranchID uuid.UUID
	Name     string
}

// CreateAccount opens a new tab under a branch
func (s *AccountService) CreateAccount(ctx context.Context, input *CreateAccountInput) (*entity.Account, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Account name is required"},
		})
	}

	account := &entity.Account{
		TenantID: tenantID,
		BranchID: input.BranchID,
		Name:     input.Name,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves an account with its lines in stored order
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	account, err := s.accountRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}
	return account, nil
}

// ListAccounts lists accounts with filtering
func (s *AccountService) ListAccounts(ctx context.Context, params *repository.AccountFilterParams) (*pagination.PaginatedResult[entity.Account], error) {
	accounts, total, err := s.accountRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(accounts, pag), nil
}

// DeleteAccount removes an open tab. Closed accounts are permanent records
// and cannot be deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Account")
		}
		if account.Closed {
			return apperror.NewConflictError("Account is already closed")
		}
		return s.accountRepo.Delete(ctx, id)
	})
}

// AddItemInput represents the add item input
type AddItemInput struct {
	ProductID      uuid.UUID
	Quantity       int
	Customizations []string
}

// AddItem puts units of a product on the tab. When an unpaid line for the
// same product already exists the units merge into it; otherwise a new line
// is appended with the catalog price captured at this moment. Either way the
// structural edit restarts split-share bookkeeping.
func (s *AccountService) AddItem(ctx context.Context, accountID uuid.UUID, input *AddItemInput) (*entity.Account, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be positive"},
		})
	}

	var result *entity.Account
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetWithItems(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Account")
		}
		if account.Closed {
			return apperror.NewConflictError("Account is already closed")
		}

		product, err := s.productRepo.GetByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}

		merged := false
		for i := range account.Items {
			line := &account.Items[i]
			if line.ProductID == input.ProductID && !line.Paid {
				line.Quantity += input.Quantity
				if err := s.accountRepo.UpdateItem(ctx, line); err != nil {
					return err
				}
				merged = true
				break
			}
		}

		if !merged {
			maxPos, err := s.accountRepo.MaxItemPosition(ctx, accountID)
			if err != nil {
				return err
			}
			item := &entity.AccountItem{
				AccountID:      accountID,
				ProductID:      product.ID,
				Quantity:       input.Quantity,
				UnitPrice:      product.Price,
				Customizations: input.Customizations,
				Position:       maxPos + 1,
			}
			if err := s.accountRepo.CreateItem(ctx, item); err != nil {
				return err
			}
		}

		account.ResetSplit()
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return err
		}

		result, err = s.accountRepo.GetWithItems(ctx, accountID)
		return err
	})
	return result, err
}

// RemoveItem deletes one line from the tab and restarts split bookkeeping
func (s *AccountService) RemoveItem(ctx context.Context, accountID, itemID uuid.UUID) (*entity.Account, error) {
	var result *entity.Account
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetWithItems(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Account")
		}
		if account.Closed {
			return apperror.NewConflictError("Account is already closed")
		}

		if findItem(account, itemID) == nil {
			return apperror.NewNotFoundError("Account item")
		}

		if err := s.accountRepo.DeleteItem(ctx, itemID); err != nil {
			return err
		}

		account.ResetSplit()
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return err
		}

		result, err = s.accountRepo.GetWithItems(ctx, accountID)
		return err
	})
	return result, err
}

// UpdateQuantity sets a line's quantity. Unpaid duplicate lines for the same
// product are purged so the product keeps a single unpaid line afterwards.
// Restarts split bookkeeping.
func (s *AccountService) UpdateQuantity(ctx context.Context, accountID, itemID uuid.UUID, quantity int) (*entity.Account, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "quantity", Message: "Quantity must be positive"},
		})
	}

	var result *entity.Account
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetWithItems(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Account")
		}
		if account.Closed {
			return apperror.NewConflictError("Account is already closed")
		}

		target := findItem(account, itemID)
		if target == nil {
			return apperror.NewNotFoundError("Account item")
		}
		if target.Paid {
			return apperror.NewConflictError("Paid lines cannot be requantified")
		}

		var siblings []uuid.UUID
		for i := range account.Items {
			line := &account.Items[i]
			if line.ID != itemID && line.ProductID == target.ProductID && !line.Paid {
				siblings = append(siblings, line.ID)
			}
		}
		if len(siblings) > 0 {
			if err := s.accountRepo.DeleteItems(ctx, siblings); err != nil {
				return err
			}
		}

		target.Quantity = quantity
		if err := s.accountRepo.UpdateItem(ctx, target); err != nil {
			return err
		}

		account.ResetSplit()
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return err
		}

		result, err = s.accountRepo.GetWithItems(ctx, accountID)
		return err
	})
	return result, err
}

// InitOrUpdateSplit divides the tab's balance into shares. Both the share
// count and the remaining counter are set to the new value, so re-splitting
// forgets any shares already consumed.
func (s *AccountService) InitOrUpdateSplit(ctx context.Context, accountID uuid.UUID, shares int) (*entity.Account, error) {
	if shares < 1 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "shares", Message: "Share count must be at least 1"},
		})
	}

	var result *entity.Account
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Account")
		}
		if account.Closed {
			return apperror.NewConflictError("Account is already closed")
		}

		total := shares
		remaining := shares
		account.SplitTotal = &total
		account.SplitRemaining = &remaining

		if err := s.accountRepo.Update(ctx, account); err != nil {
			return err
		}
		result = account
		return nil
	})
	return result, err
}

// CoveredLine reports how many units of one line the greedy walk attributes
// to payments already recorded.
type CoveredLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
	Covered  int       `json:"covered"`
}

// SplitStatus is the read-side projection of a tab's payment state.
type SplitStatus struct {
	TotalShares     int             `json:"total_shares"`
	RemainingShares int             `json:"remaining_shares"`
	PaidMoney       decimal.Decimal `json:"paid_money"`
	CurrentTotal    decimal.Decimal `json:"current_total"`
	ShareAmount     decimal.Decimal `json:"share_amount"`
	CoveredLines    []CoveredLine   `json:"covered_lines"`
}

// GetSplitStatus computes the split projection for an account
func (s *AccountService) GetSplitStatus(ctx context.Context, accountID uuid.UUID) (*SplitStatus, error) {
	var status SplitStatus
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetWithItems(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Account")
		}

		payments, err := s.paymentRepo.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}

		status = ComputeSplitStatus(account, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ComputeSplitStatus projects the split state of a tab from its lines and
// payment history. Paid money is attributed to lines greedily in stored
// order: each line is covered in full while money remains, then the last
// reachable line gets floor(leftover / unitPrice) whole units. The walk is a
// display heuristic; nothing records which payment actually bought which
// unit.
func ComputeSplitStatus(account *entity.Account, payments []entity.PaymentRecord) SplitStatus {
	totalShares := 0
	if account.SplitTotal != nil {
		totalShares = *account.SplitTotal
	}
	remainingShares := totalShares
	if account.SplitRemaining != nil {
		remainingShares = *account.SplitRemaining
	}

	paidMoney := entity.SumPayments(payments)
	currentTotal := account.CurrentTotal()

	covered := make([]CoveredLine, 0)
	leftover := paidMoney
	for i := range account.Items {
		line := &account.Items[i]
		lineTotal := line.LineTotal()
		if leftover.GreaterThanOrEqual(lineTotal) {
			covered = append(covered, CoveredLine{
				ItemID:   line.ID,
				Quantity: line.Quantity,
				Covered:  line.Quantity,
			})
			leftover = leftover.Sub(lineTotal)
			continue
		}
		// Partial money never covers a fractional unit.
		if line.UnitPrice.IsPositive() {
			units := int(leftover.Div(line.UnitPrice).Floor().IntPart())
			if units > 0 {
				covered = append(covered, CoveredLine{
					ItemID:   line.ID,
					Quantity: line.Quantity,
					Covered:  units,
				})
			}
		}
		break
	}

	remainingMoney := currentTotal.Sub(paidMoney)
	if remainingMoney.IsNegative() {
		remainingMoney = decimal.Zero
	}

	share := decimal.Zero
	if remainingShares > 0 {
		share = remainingMoney.DivRound(decimal.NewFromInt(int64(remainingShares)), 2)
	}

	return SplitStatus{
		TotalShares:     totalShares,
		RemainingShares: remainingShares,
		PaidMoney:       paidMoney,
		CurrentTotal:    currentTotal,
		ShareAmount:     share,
		CoveredLines:    covered,
	}
}

// CloseAccountResult carries the finalized sale plus how much money was
// actually collected through payment records. The sale total is the full tab
// value even when partial payments were taken beforehand, so the two figures
// can differ.
type CloseAccountResult struct {
	Sale      *entity.Sale    `json:"sale"`
	Collected decimal.Decimal `json:"collected"`
}

// CloseAccount settles an open tab into an immutable sale. Requires an open
// cash session for the account's branch.
func (s *AccountService) CloseAccount(ctx context.Context, accountID, userID uuid.UUID) (*CloseAccountResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	var result *CloseAccountResult
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		account, err := s.accountRepo.GetWithItems(ctx, accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return apperror.NewNotFoundError("Account")
		}
		if account.Closed {
			return apperror.NewConflictError("Account is already closed")
		}

		session, err := s.sessionRepo.GetOpenForBranch(ctx, account.BranchID)
		if err != nil {
			return err
		}
		if session == nil {
			return apperror.NewAppError(http.StatusPreconditionFailed, "No open cash session for this branch")
		}

		payments, err := s.paymentRepo.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		collected := entity.SumPayments(payments)

		sale := &entity.Sale{
			TenantID:  tenantID,
			BranchID:  account.BranchID,
			SessionID: session.ID,
			UserID:    userID,
			AccountID: account.ID,
			Number:    fmt.Sprintf("SALE-%s", uuid.New().String()[:8]),
			Total:     account.CurrentTotal(),
			Collected: collected,
			Label:     account.Name,
			CreatedAt: time.Now(),
		}
		for i := range account.Items {
			line := &account.Items[i]
			sale.Items = append(sale.Items, entity.SaleItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			})
		}

		if err := s.saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		account.Closed = true
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return err
		}

		result = &CloseAccountResult{Sale: sale, Collected: collected}
		return nil
	})
	return result, err
}

func findItem(account *entity.Account, itemID uuid.UUID) *entity.AccountItem {
	for i := range account.Items {
		if account.Items[i].ID == itemID {
			return &account.Items[i]
		}
	}
	return nil
}
