package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultPayerName labels payments recorded without an explicit payer.
const DefaultPayerName = "Guest"

// PaymentRecord is a money transaction against an account. Records are
// append-only: corrections happen via new records, never edits.
type PaymentRecord struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	AccountID uuid.UUID          `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount    decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"amount"`
	PayerName string             `gorm:"size:255;not null" json:"payer_name"`
	Status    enum.PaymentStatus `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time          `json:"created_at"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

// BeforeCreate generates a UUID and fills the payer placeholder
func (p *PaymentRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PayerName == "" {
		p.PayerName = DefaultPayerName
	}
	return nil
}

// TableName returns the table name for the PaymentRecord model
func (PaymentRecord) TableName() string {
	return "payment_records"
}

// SumPayments totals a list of payment records.
func SumPayments(payments []PaymentRecord) decimal.Decimal {
	total := decimal.Zero
	for i := range payments {
		total = total.Add(payments[i].Amount)
	}
	return total
}
