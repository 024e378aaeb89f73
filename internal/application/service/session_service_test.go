package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/pkg/pagination"
)

type fakeBranchRepo struct {
	branches map[uuid.UUID]*entity.Branch
}

func newFakeBranchRepo() *fakeBranchRepo {
	return &fakeBranchRepo{branches: make(map[uuid.UUID]*entity.Branch)}
}

func (r *fakeBranchRepo) Create(_ context.Context, branch *entity.Branch) error {
	if branch.ID == uuid.Nil {
		branch.ID = uuid.New()
	}
	cp := *branch
	r.branches[branch.ID] = &cp
	return nil
}

func (r *fakeBranchRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBranchRepo) Update(_ context.Context, branch *entity.Branch) error {
	cp := *branch
	r.branches[branch.ID] = &cp
	return nil
}

func (r *fakeBranchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.branches, id)
	return nil
}

func (r *fakeBranchRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.Branch, int64, error) {
	var out []entity.Branch
	for _, b := range r.branches {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func newSessionFixture() (*ledgerFixture, *SessionService) {
	f := newLedgerFixture()
	branches := newFakeBranchRepo()
	branches.branches[f.branchID] = &entity.Branch{ID: f.branchID, TenantID: f.tenantID, Name: "Main"}
	svc := NewSessionService(f.sessions, f.sales, branches, fakeTx{})
	return f, svc
}

func TestOpenSessionRejectsSecondOpenOnBranch(t *testing.T) {
	f, svc := newSessionFixture()

	if _, err := svc.OpenSession(f.ctx, f.branchID, f.userID, money("100.00")); err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	if _, err := svc.OpenSession(f.ctx, f.branchID, f.userID, money("100.00")); err == nil {
		t.Fatalf("expected second open on the same branch to conflict")
	}
}

func TestOpenSessionRejectsUnknownBranch(t *testing.T) {
	f, svc := newSessionFixture()

	if _, err := svc.OpenSession(f.ctx, uuid.New(), f.userID, money("100.00")); err == nil {
		t.Fatalf("expected open on unknown branch to fail")
	}
}

func TestCloseSessionTotalsCollectedMoney(t *testing.T) {
	// The shift total reconciles against collected money, not sale face
	// values: a tab that was partly paid before close contributes what was
	// actually taken in.
	f, svc := newSessionFixture()

	session, err := svc.OpenSession(f.ctx, f.branchID, f.userID, money("100.00"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}

	burger := f.addProduct("burger", "10.00")
	account := f.openAccount("Table 4")
	_, _ = f.accountSvc.AddItem(f.ctx, account.ID, &AddItemInput{ProductID: burger.ID, Quantity: 3})
	if _, err := f.paymentSvc.AddPayment(f.ctx, account.ID, &AddPaymentInput{Amount: money("10.00")}); err != nil {
		t.Fatalf("payment failed: %v", err)
	}
	if _, err := f.accountSvc.CloseAccount(f.ctx, account.ID, f.userID); err != nil {
		t.Fatalf("close account failed: %v", err)
	}

	result, err := svc.CloseSession(f.ctx, session.ID, money("110.00"))
	if err != nil {
		t.Fatalf("close session failed: %v", err)
	}
	if !result.SalesTotal.Equal(money("10.00")) {
		t.Fatalf("expected sales total 10.00, got %s", result.SalesTotal)
	}
	if result.Session.ClosingAmount == nil || !result.Session.ClosingAmount.Equal(money("110.00")) {
		t.Fatalf("expected closing amount recorded")
	}
}

func TestCloseSessionTwiceConflicts(t *testing.T) {
	f, svc := newSessionFixture()

	session, err := svc.OpenSession(f.ctx, f.branchID, f.userID, money("100.00"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if _, err := svc.CloseSession(f.ctx, session.ID, money("100.00")); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := svc.CloseSession(f.ctx, session.ID, money("100.00")); err == nil {
		t.Fatalf("expected second close to conflict")
	}
}
