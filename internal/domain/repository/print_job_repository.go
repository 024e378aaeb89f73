package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
)

// PrintJobRepository defines the interface for the persisted print queue.
// Jobs are dequeued oldest-first within a tenant; delivery is at-least-once.
type PrintJobRepository interface {
	Create(ctx context.Context, job *entity.PrintJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PrintJob, error)

	// DequeuePending atomically claims the oldest PENDING job and flips it to
	// IN_PROGRESS. Returns nil when the queue is empty. Concurrent dispatchers
	// never claim the same job twice.
	DequeuePending(ctx context.Context) (*entity.PrintJob, error)

	// MarkDone flips a claimed job to DONE
	MarkDone(ctx context.Context, id uuid.UUID) error

	// MarkFailed records the failure. The job returns to PENDING while
	// attempts remain, otherwise it is parked in ERROR.
	MarkFailed(ctx context.Context, id uuid.UUID, reason string, maxAttempts int) error

	// ListByTenant returns the tenant's jobs, newest first
	ListByTenant(ctx context.Context, limit int) ([]entity.PrintJob, error)
}
