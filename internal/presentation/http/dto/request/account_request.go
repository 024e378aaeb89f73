package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest opens a new tab
type CreateAccountRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
	Name     string    `json:"name" binding:"required,min=1,max=255"`
}

// AccountFilterRequest represents account filter parameters
type AccountFilterRequest struct {
	BranchID string `form:"branch_id"`
	Closed   *bool  `form:"closed"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}

// AddItemRequest puts product units on a tab
type AddItemRequest struct {
	ProductID      uuid.UUID `json:"product_id" binding:"required"`
	Quantity       int       `json:"quantity" binding:"omitempty,min=1"`
	Customizations []string  `json:"customizations"`
}

// UpdateQuantityRequest changes a line's quantity
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// SplitRequest divides the tab balance into equal shares
type SplitRequest struct {
	Shares int `json:"shares" binding:"required,min=1"`
}

// PayItemsRequest settles specific line units. Repeating an id pays
// multiple units of that line.
type PayItemsRequest struct {
	ItemIDs   []uuid.UUID `json:"item_ids" binding:"required,min=1"`
	PayerName string      `json:"payer_name" binding:"omitempty,max=255"`
}

// AddPaymentRequest records a money amount against a tab
type AddPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	PayerName  string          `json:"payer_name" binding:"omitempty,max=255"`
	CloseAfter bool            `json:"close_after"`
}
