package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// In-memory repositories for exercising the ledger services without a
// database. Mutations are immediate; transaction rollback is not modeled,
// which the validate-before-mutate tests account for by asserting nothing
// was written.

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*entity.Account
	items    map[uuid.UUID]*entity.AccountItem
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[uuid.UUID]*entity.Account),
		items:    make(map[uuid.UUID]*entity.AccountItem),
	}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *entity.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	cp := *account
	cp.Items = nil
	r.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.Items = nil
	return &cp, nil
}

func (r *fakeAccountRepo) GetWithItems(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	cp.Items = nil
	for _, item := range r.items {
		if item.AccountID == id {
			cp.Items = append(cp.Items, *item)
		}
	}
	sort.Slice(cp.Items, func(i, j int) bool {
		return cp.Items[i].Position < cp.Items[j].Position
	})
	return &cp, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, account *entity.Account) error {
	cp := *account
	cp.Items = nil
	r.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.accounts, id)
	for itemID, item := range r.items {
		if item.AccountID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

func (r *fakeAccountRepo) List(_ context.Context, _ *repository.AccountFilterParams) ([]entity.Account, int64, error) {
	var out []entity.Account
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAccountRepo) CreateItem(_ context.Context, item *entity.AccountItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) UpdateItem(_ context.Context, item *entity.AccountItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) DeleteItem(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeAccountRepo) DeleteItems(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.items, id)
	}
	return nil
}

func (r *fakeAccountRepo) MaxItemPosition(_ context.Context, accountID uuid.UUID) (int, error) {
	max := -1
	for _, item := range r.items {
		if item.AccountID == accountID && item.Position > max {
			max = item.Position
		}
	}
	return max, nil
}

type fakePaymentRepo struct {
	payments []entity.PaymentRecord
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *entity.PaymentRecord) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	if payment.PayerName == "" {
		payment.PayerName = entity.DefaultPayerName
	}
	r.payments = append(r.payments, *payment)
	return nil
}

func (r *fakePaymentRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]entity.PaymentRecord, error) {
	var out []entity.PaymentRecord
	for _, p := range r.payments {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSaleRepo struct {
	sales map[uuid.UUID]*entity.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*entity.Sale)}
}

func (r *fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	cp := *sale
	r.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeSaleRepo) List(_ context.Context, _ *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *fakeSaleRepo) ListWithCursor(_ context.Context, params *repository.SaleCursorFilterParams) ([]entity.Sale, error) {
	params.Cursor.Validate()
	var out []entity.Sale
	for _, s := range r.sales {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > params.Cursor.Limit+1 {
		out = out[:params.Cursor.Limit+1]
	}
	return out, nil
}

func (r *fakeSaleRepo) SumCollectedForSession(_ context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range r.sales {
		if s.SessionID == sessionID {
			total = total.Add(s.Collected)
		}
	}
	return total, nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.CashSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.CashSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.CashSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetOpenForBranch(_ context.Context, branchID uuid.UUID) (*entity.CashSession, error) {
	for _, s := range r.sessions {
		if s.BranchID == branchID && s.Status == enum.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *entity.CashSession) error {
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) List(_ context.Context, _ *uuid.UUID, _ *pagination.PaginationParams) ([]entity.CashSession, int64, error) {
	var out []entity.CashSession
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) ListActive(_ context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ledgerFixture wires the account and payment services against the fakes.
type ledgerFixture struct {
	ctx      context.Context
	tenantID uuid.UUID
	branchID uuid.UUID
	userID   uuid.UUID

	accounts *fakeAccountRepo
	payments *fakePaymentRepo
	sales    *fakeSaleRepo
	sessions *fakeSessionRepo
	products *fakeProductRepo

	accountSvc *AccountService
	paymentSvc *PaymentService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		tenantID: uuid.New(),
		branchID: uuid.New(),
		userID:   uuid.New(),
		accounts: newFakeAccountRepo(),
		payments: &fakePaymentRepo{},
		sales:    newFakeSaleRepo(),
		sessions: newFakeSessionRepo(),
		products: newFakeProductRepo(),
	}
	f.ctx = infraRepo.WithTenant(context.Background(), f.tenantID)
	f.accountSvc = NewAccountService(f.accounts, f.payments, f.sales, f.sessions, f.products, fakeTx{})
	f.paymentSvc = NewPaymentService(f.accounts, f.payments, fakeTx{})
	return f
}

func (f *ledgerFixture) addProduct(name, price string) *entity.Product {
	p := &entity.Product{
		TenantID: f.tenantID,
		Name:     name,
		Code:     "PROD-" + name,
		Price:    decimal.RequireFromString(price),
		Active:   true,
	}
	_ = f.products.Create(context.Background(), p)
	return p
}

func (f *ledgerFixture) openAccount(name string) *entity.Account {
	a := &entity.Account{
		TenantID: f.tenantID,
		BranchID: f.branchID,
		Name:     name,
	}
	_ = f.accounts.Create(context.Background(), a)
	return a
}

func (f *ledgerFixture) openSession() *entity.CashSession {
	s := &entity.CashSession{
		TenantID:   f.tenantID,
		BranchID:   f.branchID,
		OpenedByID: f.userID,
		Status:     enum.SessionOpen,
	}
	_ = f.sessions.Create(context.Background(), s)
	return s
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
