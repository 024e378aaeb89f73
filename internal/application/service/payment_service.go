package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// PaymentService records money against open tabs. Records are append-only;
// all validation happens before the first write so a rejected call leaves
// the tab untouched.
type PaymentService struct {
	accountRepo repository.AccountRepository
	paymentRepo repository.PaymentRepository
	tx          repository.TxManager
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	accountRepo repository.AccountRepository,
	paymentRepo repository.PaymentRepository,
	tx repository.TxManager,
) *PaymentService {
	return &PaymentService{
		accountRepo: accountRepo,
		paymentRepo: paymentRepo,
		tx:          tx,
	}
}

// PayItemsResult carries the outcome of an item-targeted payment.
type PayItemsResult struct {
	AmountCharged decimal.Decimal       `json:"amount_charged"`
	Payment       *entity.PaymentRecord `json:"payment"`
	Account       *entity.Account       `json:"account"`
}

// PayItems settles specific units of specific lines. The item id list may
// repeat an id; each occurrence pays one unit of that line. A line paid in
// part splits into a paid sub-line appended at the end of the tab plus the
// unpaid remainder; a line paid whole flips in place. One PARTIALLY_PAID
// record covers the whole batch. This path never closes the account, even
// when the batch happens to cover the balance.
func (s *PaymentService) PayItems(ctx context.Context, accountID uuid.UUID, itemIDs []uuid.UUID, payerName string) (*PayItemsResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if len(itemIDs) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "item_ids", Message: "At least one item is required"},
		})
	}

	var result *PayItemsResult
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

		// Occurrences of the same id mean units of the same line. First
		// appearance fixes the processing order so split sub-lines land in
		// a stable position.
		unitsRequested := make(map[uuid.UUID]int)
		var order []uuid.UUID
		for _, id := range itemIDs {
			if unitsRequested[id] == 0 {
				order = append(order, id)
			}
			unitsRequested[id]++
		}

		// Validate every targeted line before mutating any of them.
		targets := make(map[uuid.UUID]*entity.AccountItem, len(unitsRequested))
		for _, id := range order {
			units := unitsRequested[id]
			line := findItem(account, id)
			if line == nil {
				return apperror.NewNotFoundError(fmt.Sprintf("Account item %s", id))
			}
			if line.Paid {
				return apperror.NewValidationError([]apperror.FieldError{
					{Field: "item_ids", Message: fmt.Sprintf("Line %s is already paid", id)},
				})
			}
			if units > line.Quantity {
				return apperror.NewValidationError([]apperror.FieldError{
					{Field: "item_ids", Message: fmt.Sprintf("Line %s has %d units, %d requested", id, line.Quantity, units)},
				})
			}
			targets[id] = line
		}

		maxPos, err := s.accountRepo.MaxItemPosition(ctx, accountID)
		if err != nil {
			return err
		}

		charged := decimal.Zero
		for _, id := range order {
			units := unitsRequested[id]
			line := targets[id]
			charged = charged.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(units))))

			if units == line.Quantity {
				line.Paid = true
				if err := s.accountRepo.UpdateItem(ctx, line); err != nil {
					return err
				}
				continue
			}

			// Split: the original keeps the unpaid remainder, a paid
			// sub-line for the settled units goes to the end of the tab.
			line.Quantity -= units
			if err := s.accountRepo.UpdateItem(ctx, line); err != nil {
				return err
			}

			maxPos++
			paidLine := &entity.AccountItem{
				AccountID:      account.ID,
				ProductID:      line.ProductID,
				Quantity:       units,
				UnitPrice:      line.UnitPrice,
				Paid:           true,
				Customizations: line.Customizations,
				Position:       maxPos,
			}
			if err := s.accountRepo.CreateItem(ctx, paidLine); err != nil {
				return err
			}
		}

		payment := &entity.PaymentRecord{
			TenantID:  tenantID,
			AccountID: account.ID,
			Amount:    charged,
			PayerName: payerName,
			Status:    enum.PaymentPartiallyPaid,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		updated, err := s.accountRepo.GetWithItems(ctx, accountID)
		if err != nil {
			return err
		}

		result = &PayItemsResult{
			AmountCharged: charged,
			Payment:       payment,
			Account:       updated,
		}
		return nil
	})
	return result, err
}

// AddPaymentInput represents the money-amount payment input
type AddPaymentInput struct {
	Amount     decimal.Decimal
	PayerName  string
	CloseAfter bool
}

// AddPayment records a money amount against the tab. Status compares the
// cumulative paid total against the tab total at call time. A PAID_IN_FULL
// payment with CloseAfter set flips the account closed without generating a
// sale. When a split is active, one call consumes exactly one share no
// matter the amount; callers are trusted to pass the computed share value.
func (s *PaymentService) AddPayment(ctx context.Context, accountID uuid.UUID, input *AddPaymentInput) (*entity.PaymentRecord, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "Amount must be greater than zero"},
		})
	}

	var result *entity.PaymentRecord
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

		payments, err := s.paymentRepo.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}

		paidSoFar := entity.SumPayments(payments)
		newTotal := paidSoFar.Add(input.Amount)
		accountTotal := account.CurrentTotal()

		status := enum.PaymentPartiallyPaid
		if newTotal.GreaterThanOrEqual(accountTotal) {
			status = enum.PaymentPaidInFull
		}

		if status == enum.PaymentPaidInFull && input.CloseAfter {
			account.Closed = true
		}

		if account.ActiveSplit() {
			remaining := *account.SplitRemaining - 1
			account.SplitRemaining = &remaining
		}

		payment := &entity.PaymentRecord{
			TenantID:  tenantID,
			AccountID: account.ID,
			Amount:    input.Amount,
			PayerName: input.PayerName,
			Status:    status,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		if err := s.accountRepo.Update(ctx, account); err != nil {
			return err
		}

		result = payment
		return nil
	})
	return result, err
}

// ListPayments returns an account's payment history, oldest first
func (s *PaymentService) ListPayments(ctx context.Context, accountID uuid.UUID) ([]entity.PaymentRecord, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}
	return s.paymentRepo.ListByAccount(ctx, accountID)
}
