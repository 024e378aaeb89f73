package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
	domainRepo "github.com/mesaposte/mesa-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type printJobRepository struct {
	db *gorm.DB
}

// NewPrintJobRepository creates a new print job repository
func NewPrintJobRepository(db *gorm.DB) domainRepo.PrintJobRepository {
	return &printJobRepository{db: db}
}

func (r *printJobRepository) Create(ctx context.Context, job *entity.PrintJob) error {
	return dbFor(ctx, r.db).WithContext(ctx).Create(job).Error
}

func (r *printJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PrintJob, error) {
	var job entity.PrintJob
	err := dbFor(ctx, r.db).WithContext(ctx).
		Scopes(TenantScope(ctx)).
		First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &job, err
}

// DequeuePending claims the oldest PENDING job across all tenants using
// FOR UPDATE SKIP LOCKED, so multiple dispatchers can poll the same table
// without handing out the same job twice.
func (r *printJobRepository) DequeuePending(ctx context.Context) (*entity.PrintJob, error) {
	var job *entity.PrintJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate entity.PrintJob
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", enum.PrintJobPending).
			Order("created_at ASC").
			First(&candidate).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		candidate.Status = enum.PrintJobInProgress
		candidate.Attempts++
		if err := tx.Model(&entity.PrintJob{}).
			Where("id = ?", candidate.ID).
			Updates(map[string]interface{}{
				"status":   enum.PrintJobInProgress,
				"attempts": candidate.Attempts,
			}).Error; err != nil {
			return err
		}

		job = &candidate
		return nil
	})

	return job, err
}

func (r *printJobRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.PrintJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     enum.PrintJobDone,
			"last_error": nil,
		}).Error
}

func (r *printJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string, maxAttempts int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job entity.PrintJob
		if err := tx.First(&job, "id = ?", id).Error; err != nil {
			return err
		}

		status := enum.PrintJobPending
		if job.Attempts >= maxAttempts {
			status = enum.PrintJobError
		}

		return tx.Model(&entity.PrintJob{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     status,
				"last_error": reason,
			}).Error
	})
}

func (r *printJobRepository) ListByTenant(ctx context.Context, limit int) ([]entity.PrintJob, error) {
	var jobs []entity.PrintJob
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
