package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpdateTenantSettingsRequest updates the tenant name and receipt branding
type UpdateTenantSettingsRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=2,max=255"`
	Currency      *string `json:"currency" binding:"omitempty,max=10"`
	ReceiptFooter *string `json:"receipt_footer" binding:"omitempty,max=500"`
	StoreName     *string `json:"store_name" binding:"omitempty,max=255"`
	Address       *string `json:"address" binding:"omitempty,max=500"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	TaxID         *string `json:"tax_id" binding:"omitempty,max=100"`
}

// CreateBranchRequest represents a branch creation request
type CreateBranchRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Address string `json:"address" binding:"omitempty,max=500"`
	Phone   string `json:"phone" binding:"omitempty,max=50"`
}

// UpdateBranchRequest represents a branch update request
type UpdateBranchRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
}

// OpenSessionRequest opens a cash register shift
type OpenSessionRequest struct {
	BranchID      uuid.UUID       `json:"branch_id" binding:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CloseSessionRequest closes a cash register shift with the counted drawer
type CloseSessionRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount" binding:"required"`
}

// PrintTestRequest queues a test page for a branch printer
type PrintTestRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
}
