package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is the immutable finalized record produced when an account is closed.
// Its total reflects the full tab value regardless of how much was collected
// through partial payments beforehand (source behavior, preserved).
type Sale struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	SessionID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"session_id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Number     string          `gorm:"size:100;unique;not null" json:"number"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Collected  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"collected"`
	Label      string          `gorm:"size:255" json:"label"`
	CreatedAt  time.Time       `json:"created_at"`

	// Relationships
	Branch Branch     `gorm:"foreignKey:BranchID" json:"-"`
	Items  []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is an immutable copy of an account line taken at close time.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
