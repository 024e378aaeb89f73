package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CashSession is an open cash register shift at a branch. Closing an account
// into a finalized sale requires an open session for the account's branch.
type CashSession struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"branch_id"`
	OpenedByID    uuid.UUID          `gorm:"type:uuid;not null" json:"opened_by_id"`
	Status        enum.SessionStatus `gorm:"size:20;not null;default:'OPEN'" json:"status"`
	OpeningAmount decimal.Decimal    `gorm:"type:numeric(12,2);not null" json:"opening_amount"`
	ClosingAmount *decimal.Decimal   `gorm:"type:numeric(12,2)" json:"closing_amount,omitempty"`
	OpenedAt      time.Time          `json:"opened_at"`
	ClosedAt      *time.Time         `json:"closed_at,omitempty"`

	// Relationships
	Branch Branch `gorm:"foreignKey:BranchID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new cash session
func (s *CashSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashSession model
func (CashSession) TableName() string {
	return "cash_sessions"
}

// IsOpen reports whether the session is still accepting sales.
func (s *CashSession) IsOpen() bool {
	return s.Status == enum.SessionOpen
}
