package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/pkg/apperror"
)

func TestAddItemMergesIntoUnpaidLine(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	if _, err := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 2}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	got, err := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(got.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(got.Items))
	}
	if got.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", got.Items[0].Quantity)
	}
}

func TestAddItemDoesNotMergeIntoPaidLine(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, err := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := f.paymentSvc.PayItems(f.ctx, account.ID, []uuid.UUID{got.Items[0].ID}, ""); err != nil {
		t.Fatalf("pay failed: %v", err)
	}

	got, err = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add after payment failed: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected a fresh line next to the paid one, got %d lines", len(got.Items))
	}
}

func TestAddItemCapturesPriceAtAddTime(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, err := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// Catalog re-pricing must not touch lines already on the tab.
	burger.Price = money("12.50")
	_ = f.products.Update(context.Background(), burger)

	refetched, err := f.accountSvc.GetAccount(f.ctx, account.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !refetched.Items[0].UnitPrice.Equal(money("10.00")) {
		t.Fatalf("expected captured price 10.00, got %s", got.Items[0].UnitPrice)
	}
}

func TestUpdateQuantityPurgesUnpaidDuplicates(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, err := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 4})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	target := got.Items[0].ID

	// Pay one unit so the line splits: unpaid remainder plus a paid
	// sub-line for the same product.
	if _, err := f.paymentSvc.PayItems(f.ctx, account.ID, []uuid.UUID{target}, ""); err != nil {
		t.Fatalf("pay failed: %v", err)
	}

	// A second unpaid line for the same product appears when the paid line
	// blocks merging; simulate it directly.
	extra := &entity.AccountItem{
		AccountID: account.ID,
		ProductID: burger.ID,
		Quantity:  2,
		UnitPrice: money("10.00"),
		Position:  10,
	}
	_ = f.accounts.CreateItem(context.Background(), extra)

	got, err = f.accountSvc.UpdateQuantity(f.ctx, account.ID, target, 7)
	if err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}

	unpaid := 0
	for _, line := range got.Items {
		if line.ProductID == burger.ID && !line.Paid {
			unpaid++
			if line.Quantity != 7 {
				t.Fatalf("expected surviving unpaid line quantity 7, got %d", line.Quantity)
			}
		}
	}
	if unpaid != 1 {
		t.Fatalf("expected exactly one unpaid line after purge, got %d", unpaid)
	}
}

func TestUpdateQuantityRejectsPaidLine(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	if _, err := f.paymentSvc.PayItems(f.ctx, account.ID, []uuid.UUID{got.Items[0].ID}, ""); err != nil {
		t.Fatalf("pay failed: %v", err)
	}

	if _, err := f.accountSvc.UpdateQuantity(f.ctx, account.ID, got.Items[0].ID, 3); err == nil {
		t.Fatalf("expected requantifying a paid line to fail")
	}
}

func TestStructuralEditsResetSplitRemaining(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 3})
	if _, err := f.accountSvc.InitOrUpdateSplit(f.ctx, account.ID, 3); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	// Consume one share.
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("10.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	status, _ := f.accountSvc.GetSplitStatus(f.ctx, account.ID)
	if status.RemainingShares != 2 {
		t.Fatalf("expected 2 shares remaining, got %d", status.RemainingShares)
	}

	// Any structural edit restarts the share countdown.
	if _, err := f.accountSvc.UpdateQuantity(f.ctx, account.ID, got.Items[0].ID, 4); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	status, _ = f.accountSvc.GetSplitStatus(f.ctx, account.ID)
	if status.RemainingShares != 3 {
		t.Fatalf("expected shares reset to 3, got %d", status.RemainingShares)
	}
}

func TestInitSplitRejectsZeroShares(t *testing.T) {
	f := newLedgerFixture()
	account := f.openAccount("Table 4")

	if _, err := f.accountSvc.InitOrUpdateSplit(f.ctx, account.ID, 0); err == nil {
		t.Fatalf("expected zero shares to be rejected")
	}
}

func TestSplitStatusEvenThreeWay(t *testing.T) {
	// Worked example: 3 × 10.00 split three ways. After one 10.00 payment
	// the remaining two shares still owe 10.00 each, and the walk covers
	// exactly one unit of the line.
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 3})
	if _, err := f.accountSvc.InitOrUpdateSplit(f.ctx, account.ID, 3); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("10.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	status, err := f.accountSvc.GetSplitStatus(f.ctx, account.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.CurrentTotal.Equal(money("30.00")) {
		t.Fatalf("expected total 30.00, got %s", status.CurrentTotal)
	}
	if !status.PaidMoney.Equal(money("10.00")) {
		t.Fatalf("expected paid 10.00, got %s", status.PaidMoney)
	}
	if status.RemainingShares != 2 {
		t.Fatalf("expected 2 remaining shares, got %d", status.RemainingShares)
	}
	if !status.ShareAmount.Equal(money("10.00")) {
		t.Fatalf("expected share 10.00, got %s", status.ShareAmount)
	}
	if len(status.CoveredLines) != 1 || status.CoveredLines[0].ItemID != got.Items[0].ID || status.CoveredLines[0].Covered != 1 {
		t.Fatalf("expected one unit of the line covered, got %+v", status.CoveredLines)
	}
}

func TestSplitStatusGreedyWalkIsOrderDependent(t *testing.T) {
	// Lines in stored order: 2 × 4.00 then 1 × 9.00. 10.00 paid covers the
	// first line in full and no whole unit of the second; the leftover 2.00
	// is not attributed anywhere.
	f := newLedgerFixture()
	fries := f.addProduct("fries", "4.00")
	steak := f.addProduct("steak", "9.00")
	account := f.openAccount("Table 4")

	first, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: fries.ID, Quantity: 2})
	if _, err := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: steak.ID, Quantity: 1}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("10.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	status, err := f.accountSvc.GetSplitStatus(f.ctx, account.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if len(status.CoveredLines) != 1 {
		t.Fatalf("expected only the first line covered, got %+v", status.CoveredLines)
	}
	if status.CoveredLines[0].ItemID != first.Items[0].ID || status.CoveredLines[0].Covered != 2 {
		t.Fatalf("expected first line covered in full, got %+v", status.CoveredLines[0])
	}
	if !status.ShareAmount.IsZero() {
		t.Fatalf("expected share 0 with no split configured, got %s", status.ShareAmount)
	}
}

func TestSplitStatusNoSplitConfiguredShareIsZero(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 2})
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("10.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	status, err := f.accountSvc.GetSplitStatus(f.ctx, account.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.TotalShares != 0 || status.RemainingShares != 0 {
		t.Fatalf("expected no shares without a split, got %d/%d", status.RemainingShares, status.TotalShares)
	}
	if !status.ShareAmount.IsZero() {
		t.Fatalf("expected share 0 without a split, got %s", status.ShareAmount)
	}
}

type countingTx struct {
	calls int
}

func (c *countingTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	c.calls++
	return fn(ctx)
}

func TestSplitStatusReadsInsideOneTransaction(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 3})
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("10.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	tx := &countingTx{}
	svc := NewAccountService(f.accounts, f.payments, f.sales, f.sessions, f.products, tx)
	status, err := svc.GetSplitStatus(f.ctx, account.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("expected account and payment reads in one transaction, got %d", tx.calls)
	}
	if !status.PaidMoney.Equal(money("10.00")) {
		t.Fatalf("expected paid 10.00, got %s", status.PaidMoney)
	}
}

func TestSplitStatusOverpaymentClampsAtZero(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	if _, err := f.accountSvc.InitOrUpdateSplit(f.ctx, account.ID, 2); err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("25.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	status, err := f.accountSvc.GetSplitStatus(f.ctx, account.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.ShareAmount.IsZero() {
		t.Fatalf("expected share 0 after overpayment, got %s", status.ShareAmount)
	}
}

func TestSplitStatusShareRoundsHalfUp(t *testing.T) {
	// 10.00 across 3 shares: 3.3333... rounds to 3.33.
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	if _, err := f.accountSvc.InitOrUpdateSplit(f.ctx, account.ID, 3); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	status, err := f.accountSvc.GetSplitStatus(f.ctx, account.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.ShareAmount.Equal(money("3.33")) {
		t.Fatalf("expected share 3.33, got %s", status.ShareAmount)
	}
}

func TestCloseAccountRequiresOpenSession(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})

	_, err := f.accountSvc.CloseAccount(f.ctx, account.ID, f.userID)
	if err == nil {
		t.Fatalf("expected close without a cash session to fail")
	}
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 412 {
		t.Fatalf("expected 412 precondition failure, got %v", err)
	}
}

func TestCloseAccountTotalIgnoresPriorPayments(t *testing.T) {
	// The sale records the full tab value even when money was already
	// collected; the collected figure travels separately.
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	f.openSession()

	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 3})
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("10.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}

	result, err := f.accountSvc.CloseAccount(f.ctx, account.ID, f.userID)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !result.Sale.Total.Equal(money("30.00")) {
		t.Fatalf("expected sale total 30.00, got %s", result.Sale.Total)
	}
	if !result.Collected.Equal(money("10.00")) {
		t.Fatalf("expected collected 10.00, got %s", result.Collected)
	}
	if len(result.Sale.Items) != 1 || result.Sale.Items[0].Quantity != 3 {
		t.Fatalf("expected sale to copy the full line set, got %+v", result.Sale.Items)
	}
}

func TestCloseAccountTwiceConflicts(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	f.openSession()
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})

	if _, err := f.accountSvc.CloseAccount(f.ctx, account.ID, f.userID); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	_, err := f.accountSvc.CloseAccount(f.ctx, account.ID, f.userID)
	if err == nil {
		t.Fatalf("expected second close to conflict")
	}
	appErr, ok := err.(*apperror.AppError)
	if !ok || appErr.Code != 409 {
		t.Fatalf("expected 409 conflict, got %v", err)
	}
}

func TestDeleteClosedAccountRejected(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	f.openSession()
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	if _, err := f.accountSvc.CloseAccount(f.ctx, account.ID, f.userID); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if err := f.accountSvc.DeleteAccount(f.ctx, account.ID); err == nil {
		t.Fatalf("expected deleting a closed account to fail")
	}
}
