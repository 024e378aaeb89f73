package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/apperror"
	"github.com/mesaposte/mesa-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrintService assembles receipts and enqueues them as persisted print
// jobs. Nothing here touches the printer; a dispatcher drains the queue in
// the background, so a dead printer never fails the request that asked for
// the receipt.
type PrintService struct {
	printJobRepo repository.PrintJobRepository
	accountRepo  repository.AccountRepository
	paymentRepo  repository.PaymentRepository
	saleRepo     repository.SaleRepository
	tenantRepo   repository.TenantRepository
	printer      printer.Printer
	printerType  string
}

// NewPrintService creates a new print service
func NewPrintService(
	printJobRepo repository.PrintJobRepository,
	accountRepo repository.AccountRepository,
	paymentRepo repository.PaymentRepository,
	saleRepo repository.SaleRepository,
	tenantRepo repository.TenantRepository,
	p printer.Printer,
	printerType string,
) *PrintService {
	return &PrintService{
		printJobRepo: printJobRepo,
		accountRepo:  accountRepo,
		paymentRepo:  paymentRepo,
		saleRepo:     saleRepo,
		tenantRepo:   tenantRepo,
		printer:      p,
		printerType:  printerType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrintService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// EnqueueAccountReceipt builds a receipt for an open tab, including the
// split status block, and queues it for printing.
func (s *PrintService) EnqueueAccountReceipt(ctx context.Context, accountID uuid.UUID) (*entity.PrintJob, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	account, err := s.accountRepo.GetWithItems(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}

	payments, err := s.paymentRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	header, footer, err := s.receiptBranding(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	status := ComputeSplitStatus(account, payments)

	receipt := entity.Receipt{
		Header: header,
		Number: account.ID.String()[:8],
		Date:   time.Now().Format("2006-01-02 15:04"),
		Label:  account.Name,
		Total:  status.CurrentTotal.StringFixed(2),
		Paid:   status.PaidMoney.StringFixed(2),
		Footer: footer,
	}

	due := status.CurrentTotal.Sub(status.PaidMoney)
	if due.IsPositive() {
		receipt.Due = due.StringFixed(2)
	}

	for i := range account.Items {
		line := &account.Items[i]
		name := line.Product.Name
		if name == "" {
			name = "Product"
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Total:     line.LineTotal().StringFixed(2),
			Paid:      line.Paid,
		})
	}

	if status.TotalShares > 0 {
		receipt.Split = &entity.ReceiptSplit{
			TotalShares:     status.TotalShares,
			RemainingShares: status.RemainingShares,
			ShareAmount:     status.ShareAmount.StringFixed(2),
		}
	}

	return s.enqueue(ctx, tenantID, account.BranchID, entity.PrintJobKindReceipt, receipt)
}

// EnqueueSaleReceipt builds a receipt for a finalized sale and queues it
func (s *PrintService) EnqueueSaleReceipt(ctx context.Context, saleID uuid.UUID) (*entity.PrintJob, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	sale, err := s.saleRepo.GetWithItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	header, footer, err := s.receiptBranding(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	receipt := entity.Receipt{
		Header: header,
		Number: sale.Number,
		Date:   sale.CreatedAt.Format("2006-01-02 15:04"),
		Label:  sale.Label,
		Total:  sale.Total.StringFixed(2),
		Paid:   sale.Collected.StringFixed(2),
		Footer: footer,
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		name := item.Product.Name
		if name == "" {
			name = "Product"
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Total:     lineTotal.StringFixed(2),
		})
	}

	return s.enqueue(ctx, tenantID, sale.BranchID, entity.PrintJobKindReceipt, receipt)
}

// EnqueueTestPage queues a printer test page
func (s *PrintService) EnqueueTestPage(ctx context.Context, branchID uuid.UUID) (*entity.PrintJob, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	receipt := entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "PRINTER TEST",
		},
		Number: "TEST-001",
		Date:   time.Now().Format("2006-01-02 15:04"),
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: "10.00", Total: "10.00"},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: "5.00", Total: "10.00"},
		},
		Total: "20.00",
	}

	return s.enqueue(ctx, tenantID, branchID, entity.PrintJobKindTest, receipt)
}

// GetJob retrieves a print job by ID
func (s *PrintService) GetJob(ctx context.Context, id uuid.UUID) (*entity.PrintJob, error) {
	job, err := s.printJobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, apperror.NewNotFoundError("Print job")
	}
	return job, nil
}

// ListJobs returns the tenant's recent print jobs
func (s *PrintService) ListJobs(ctx context.Context, limit int) ([]entity.PrintJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.printJobRepo.ListByTenant(ctx, limit)
}

func (s *PrintService) enqueue(ctx context.Context, tenantID, branchID uuid.UUID, kind string, receipt entity.Receipt) (*entity.PrintJob, error) {
	job := &entity.PrintJob{
		TenantID: tenantID,
		BranchID: branchID,
		Kind:     kind,
		Payload:  receipt,
	}
	if err := s.printJobRepo.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *PrintService) receiptBranding(ctx context.Context, tenantID uuid.UUID) (entity.ReceiptHeader, string, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return entity.ReceiptHeader{}, "", err
	}
	if tenant == nil {
		return entity.ReceiptHeader{}, "", apperror.NewNotFoundError("Tenant")
	}
	return tenant.ReceiptHeaderFor(), tenant.Settings.ReceiptFooter, nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.Number).
		KeyValue("Date:", r.Date)

	if r.Label != "" {
		doc.KeyValue("Table:", r.Label)
	}
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		name := item.Name
		if item.Paid {
			name = name + " *"
		}
		doc.ItemLine(item.Quantity, name, item.Total)
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice)
		}
	}

	doc.Separator('-')

	// Totals
	doc.SetBold(true).
		KeyValue("TOTAL:", r.Total).
		SetBold(false)

	if r.Paid != "" && r.Paid != "0.00" {
		doc.KeyValue("Paid:", r.Paid)
	}
	if r.Due != "" {
		doc.KeyValue("Due:", r.Due)
	}

	// Split block
	if r.Split != nil {
		doc.Separator('-')
		doc.TextF("Split %d ways, %d to pay", r.Split.TotalShares, r.Split.RemainingShares).
			KeyValue("Per share:", r.Split.ShareAmount)
	}

	doc.Separator('-')

	// Footer
	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your visit!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
