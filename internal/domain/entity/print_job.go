package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Print job kinds.
const (
	PrintJobKindReceipt = "receipt"
	PrintJobKindTest    = "test"
)

// PrintJob is one queued document awaiting delivery to a thermal printer.
// Jobs form a FIFO per tenant and are delivered at least once: a job that
// fails goes back to PENDING until it exhausts its attempts, then lands in
// ERROR.
type PrintJob struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"tenant_id"`
	BranchID  uuid.UUID           `gorm:"type:uuid;index" json:"branch_id"`
	Kind      string              `gorm:"size:50;not null" json:"kind"`
	Payload   Receipt             `gorm:"type:jsonb;serializer:json" json:"payload"`
	Status    enum.PrintJobStatus `gorm:"size:20;not null;index;default:'PENDING'" json:"status"`
	Attempts  int                 `gorm:"not null;default:0" json:"attempts"`
	LastError *string             `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new print job
func (j *PrintJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PrintJob model
func (PrintJob) TableName() string {
	return "print_jobs"
}
