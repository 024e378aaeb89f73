package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
)

func TestPayItemsFlipsFullyPaidLine(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 2})
	lineID := got.Items[0].ID

	result, err := f.paymentSvc.PayItems(f.ctx, account.ID, []uuid.UUID{lineID, lineID}, "Alice")
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}

	if !result.AmountCharged.Equal(money("20.00")) {
		t.Fatalf("expected charge 20.00, got %s", result.AmountCharged)
	}
	if len(result.Account.Items) != 1 {
		t.Fatalf("expected the line to flip in place, got %d lines", len(result.Account.Items))
	}
	if !result.Account.Items[0].Paid {
		t.Fatalf("expected the line to be paid")
	}
	if result.Payment.Status != enum.PaymentPartiallyPaid {
		t.Fatalf("item payments always record PARTIALLY_PAID, got %s", result.Payment.Status)
	}
	if result.Payment.PayerName != "Alice" {
		t.Fatalf("expected payer Alice, got %s", result.Payment.PayerName)
	}
}

func TestPayItemsSplitsPartiallyPaidLine(t *testing.T) {
	// Paying 2 of 5 units at 4.00 charges 8.00 and splits the line: the
	// original keeps 3 unpaid units, a paid 2-unit sub-line lands at the
	// end of the tab.
	f := newLedgerFixture()
	fries := f.addProduct("fries", "4.00")
	account := f.openAccount("Table 4")

	got, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: fries.ID, Quantity: 5})
	lineID := got.Items[0].ID

	result, err := f.paymentSvc.PayItems(f.ctx, account.ID, []uuid.UUID{lineID, lineID}, "")
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}

	if !result.AmountCharged.Equal(money("8.00")) {
		t.Fatalf("expected charge 8.00, got %s", result.AmountCharged)
	}
	if len(result.Account.Items) != 2 {
		t.Fatalf("expected line to split in two, got %d", len(result.Account.Items))
	}

	original := result.Account.Items[0]
	sub := result.Account.Items[1]
	if original.Paid || original.Quantity != 3 {
		t.Fatalf("expected unpaid remainder of 3, got paid=%v qty=%d", original.Paid, original.Quantity)
	}
	if !sub.Paid || sub.Quantity != 2 {
		t.Fatalf("expected paid sub-line of 2, got paid=%v qty=%d", sub.Paid, sub.Quantity)
	}
	if sub.Position <= original.Position {
		t.Fatalf("expected the sub-line appended after the original")
	}
	if !sub.UnitPrice.Equal(original.UnitPrice) {
		t.Fatalf("sub-line must keep the captured unit price")
	}

	// The tab total is unchanged; payment does not remove lines.
	if !result.Account.CurrentTotal().Equal(money("20.00")) {
		t.Fatalf("expected total still 20.00, got %s", result.Account.CurrentTotal())
	}
}

func TestPayItemsRejectsOverRequestWithoutMutation(t *testing.T) {
	f := newLedgerFixture()
	fries := f.addProduct("fries", "4.00")
	account := f.openAccount("Table 4")

	got, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: fries.ID, Quantity: 5})
	lineID := got.Items[0].ID

	ids := []uuid.UUID{lineID, lineID, lineID, lineID, lineID, lineID}
	if _, err := f.paymentSvc.PayItems(f.ctx, account.ID, ids, ""); err == nil {
		t.Fatalf("expected 6 units of a 5-unit line to be rejected")
	}

	// Validation happens before the first write.
	after, _ := f.accountSvc.GetAccount(f.ctx, account.ID)
	if len(after.Items) != 1 || after.Items[0].Quantity != 5 || after.Items[0].Paid {
		t.Fatalf("expected the tab untouched after rejection, got %+v", after.Items)
	}
	payments, _ := f.paymentSvc.ListPayments(f.ctx, account.ID)
	if len(payments) != 0 {
		t.Fatalf("expected no payment recorded, got %d", len(payments))
	}
}

func TestPayItemsRejectsAlreadyPaidLine(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	lineID := got.Items[0].ID
	if _, err := f.paymentSvc.PayItems(f.ctx, account.ID, []uuid.UUID{lineID}, ""); err != nil {
		t.Fatalf("first pay failed: %v", err)
	}

	if _, err := f.paymentSvc.PayItems(f.ctx, account.ID, []uuid.UUID{lineID}, ""); err == nil {
		t.Fatalf("expected paying a paid line to fail")
	}
}

func TestPayItemsNeverClosesAccount(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")

	got, _ := f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	result, err := f.paymentSvc.PayItems(f.ctx, account.ID, []uuid.UUID{got.Items[0].ID}, "")
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if result.Account.Closed {
		t.Fatalf("item payments must not close the account even when they cover it")
	}
}

func TestAddPaymentStatusByCumulativeTotal(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 3})

	p1, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("12.00")})
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if p1.Status != enum.PaymentPartiallyPaid {
		t.Fatalf("12.00 of 30.00 should be PARTIALLY_PAID, got %s", p1.Status)
	}

	p2, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("18.00")})
	if err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if p2.Status != enum.PaymentPaidInFull {
		t.Fatalf("cumulative 30.00 of 30.00 should be PAID_IN_FULL, got %s", p2.Status)
	}
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	f := newLedgerFixture()
	account := f.openAccount("Table 4")

	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("0")}); err == nil {
		t.Fatalf("expected zero amount to be rejected")
	}
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("-5.00")}); err == nil {
		t.Fatalf("expected negative amount to be rejected")
	}
}

func TestAddPaymentCloseAfterOnlyWhenPaidInFull(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 2})

	// Partial payment with CloseAfter set leaves the tab open.
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("5.00"), CloseAfter: true}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	got, _ := f.accountSvc.GetAccount(f.ctx, account.ID)
	if got.Closed {
		t.Fatalf("partial payment must not close the tab")
	}

	// Covering payment with CloseAfter flips the tab closed without a sale.
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("15.00"), CloseAfter: true}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	got, _ = f.accountSvc.GetAccount(f.ctx, account.ID)
	if !got.Closed {
		t.Fatalf("expected the tab closed after covering payment")
	}
	if len(f.sales.sales) != 0 {
		t.Fatalf("close-after must not materialize a sale")
	}
}

func TestAddPaymentConsumesExactlyOneShare(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 4})
	if _, err := f.accountSvc.InitOrUpdateSplit(f.ctx, account.ID, 4); err != nil {
		t.Fatalf("split failed: %v", err)
	}

	// The decrement is per call, not per share value paid.
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("20.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	status, _ := f.accountSvc.GetSplitStatus(f.ctx, account.ID)
	if status.RemainingShares != 3 {
		t.Fatalf("expected 3 shares after one call, got %d", status.RemainingShares)
	}
}

func TestAddPaymentDefaultsPayerToGuest(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})

	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("5.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	payments, _ := f.paymentSvc.ListPayments(f.ctx, account.ID)
	if len(payments) != 1 || payments[0].PayerName != "Guest" {
		t.Fatalf("expected payer placeholder Guest, got %+v", payments)
	}
}

func TestAddPaymentRejectsClosedAccount(t *testing.T) {
	f := newLedgerFixture()
	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	f.openSession()
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 1})
	if _, err := f.accountSvc.CloseAccount(f.ctx, account.ID, f.userID); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("5.00")}); err == nil {
		t.Fatalf("expected payment on a closed tab to fail")
	}
}
