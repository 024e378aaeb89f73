package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a company in the multitenant system. Every branch,
// account, and sale belongs to exactly one tenant.
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships. OwnerID is a plain column, not a foreign key, because
	// the owner user is created after its tenant.
	Branches []Branch `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantSettings holds per-company configuration, including the header
// printed at the top of receipts.
type TenantSettings struct {
	Currency      string `json:"currency,omitempty"`
	ReceiptFooter string `json:"receipt_footer,omitempty"`
	StoreName     string `json:"store_name,omitempty"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	TaxID         string `json:"tax_id,omitempty"`
}

// ReceiptHeaderFor builds the receipt header for this tenant, falling back
// to the tenant name when no store name is configured.
func (t *Tenant) ReceiptHeaderFor() ReceiptHeader {
	name := t.Settings.StoreName
	if name == "" {
		name = t.Name
	}
	return ReceiptHeader{
		StoreName: name,
		Address:   t.Settings.Address,
		Phone:     t.Settings.Phone,
		TaxID:     t.Settings.TaxID,
	}
}
