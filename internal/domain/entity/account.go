package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account represents an open tab for a table or customer. Items accumulate on
// the tab until it is settled; an optional split divides the remaining balance
// into equal shares across payers.
type Account struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"branch_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Closed         bool           `gorm:"default:false" json:"closed"`
	SplitTotal     *int           `json:"split_total,omitempty"`
	SplitRemaining *int           `json:"split_remaining,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branch Branch        `gorm:"foreignKey:BranchID" json:"-"`
	Items  []AccountItem `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}

// CurrentTotal sums unit price times quantity over all current lines.
// The arithmetic is decimal-exact; rounding happens only at display time.
func (a *Account) CurrentTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range a.Items {
		total = total.Add(a.Items[i].LineTotal())
	}
	return total
}

// ResetSplit restores the remaining share counter to the full share count.
// Any structural edit to the item set invalidates prior share bookkeeping,
// even though money already collected stays recorded.
func (a *Account) ResetSplit() {
	if a.SplitTotal == nil {
		return
	}
	remaining := *a.SplitTotal
	a.SplitRemaining = &remaining
}

// ActiveSplit reports whether the account has unpaid shares outstanding.
func (a *Account) ActiveSplit() bool {
	return a.SplitRemaining != nil && *a.SplitRemaining > 0
}

// AccountItem is one ordered line on a tab. The unit price is captured when
// the product is added and never re-priced. A line is paid only when its
// entire remaining quantity has been settled; partial unit payments split the
// line instead of flagging it.
type AccountItem struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	AccountID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"account_id"`
	ProductID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity       int            `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Paid           bool           `gorm:"default:false" json:"paid"`
	Customizations StringSet      `gorm:"type:jsonb;serializer:json" json:"customizations,omitempty"`
	Position       int            `gorm:"not null;default:0" json:"position"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new account item
func (i *AccountItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AccountItem model
func (AccountItem) TableName() string {
	return "account_items"
}

// LineTotal returns unit price times quantity for this line.
func (i *AccountItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StringSet holds ingredient customizations as an unordered set of labels.
// Customizations never affect price calculation.
type StringSet []string

// Contains reports whether the set holds the given label.
func (s StringSet) Contains(label string) bool {
	for _, v := range s {
		if v == label {
			return true
		}
	}
	return false
}
