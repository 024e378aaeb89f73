package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a menu item. The catalog price is only a template:
// account lines capture the price at add time and keep it even if the
// catalog changes later.
type Product struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Code       string          `gorm:"size:100;not null;index" json:"code"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Active     bool            `gorm:"default:true" json:"active"`
	Notes      *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
