package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/enum"
)

type fakePrintJobRepo struct {
	jobs map[uuid.UUID]*entity.PrintJob
}

func newFakePrintJobRepo() *fakePrintJobRepo {
	return &fakePrintJobRepo{jobs: make(map[uuid.UUID]*entity.PrintJob)}
}

func (r *fakePrintJobRepo) Create(_ context.Context, job *entity.PrintJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.Status == "" {
		job.Status = enum.PrintJobPending
	}
	job.CreatedAt = time.Now()
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *fakePrintJobRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.PrintJob, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (r *fakePrintJobRepo) DequeuePending(_ context.Context) (*entity.PrintJob, error) {
	var oldest *entity.PrintJob
	for _, j := range r.jobs {
		if j.Status != enum.PrintJobPending {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest == nil {
		return nil, nil
	}
	oldest.Status = enum.PrintJobInProgress
	oldest.Attempts++
	cp := *oldest
	return &cp, nil
}

func (r *fakePrintJobRepo) MarkDone(_ context.Context, id uuid.UUID) error {
	j, ok := r.jobs[id]
	if !ok {
		return errors.New("job not found")
	}
	j.Status = enum.PrintJobDone
	j.LastError = nil
	return nil
}

func (r *fakePrintJobRepo) MarkFailed(_ context.Context, id uuid.UUID, reason string, maxAttempts int) error {
	j, ok := r.jobs[id]
	if !ok {
		return errors.New("job not found")
	}
	j.LastError = &reason
	if j.Attempts >= maxAttempts {
		j.Status = enum.PrintJobError
	} else {
		j.Status = enum.PrintJobPending
	}
	return nil
}

func (r *fakePrintJobRepo) ListByTenant(_ context.Context, _ int) ([]entity.PrintJob, error) {
	var out []entity.PrintJob
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	return out, nil
}

type fakePrinter struct {
	failures int
	printed  [][]byte
}

func (p *fakePrinter) Print(data []byte) error {
	if p.failures > 0 {
		p.failures--
		return errors.New("paper jam")
	}
	p.printed = append(p.printed, data)
	return nil
}

func (p *fakePrinter) Close() error { return nil }

func (p *fakePrinter) IsConnected() bool { return true }

func queueJob(repo *fakePrintJobRepo, number string) *entity.PrintJob {
	job := &entity.PrintJob{
		TenantID: uuid.New(),
		Kind:     entity.PrintJobKindReceipt,
		Payload: entity.Receipt{
			Header: entity.ReceiptHeader{StoreName: "Mesa Cantina"},
			Number: number,
			Date:   "2026-08-31 19:45",
			Total:  "10.00",
		},
	}
	_ = repo.Create(context.Background(), job)
	return job
}

func TestDrainPrintsAndMarksDone(t *testing.T) {
	repo := newFakePrintJobRepo()
	p := &fakePrinter{}
	d := NewPrintDispatcher(repo, p, time.Second, 3)

	first := queueJob(repo, "R-001")
	second := queueJob(repo, "R-002")

	d.drain(context.Background())

	if len(p.printed) != 2 {
		t.Fatalf("expected 2 documents printed, got %d", len(p.printed))
	}
	for _, id := range []uuid.UUID{first.ID, second.ID} {
		job, _ := repo.GetByID(context.Background(), id)
		if job.Status != enum.PrintJobDone {
			t.Fatalf("expected job %s DONE, got %s", id, job.Status)
		}
	}
}

func TestFailedJobReturnsToQueueThenParks(t *testing.T) {
	repo := newFakePrintJobRepo()
	p := &fakePrinter{failures: 2}
	d := NewPrintDispatcher(repo, p, time.Second, 2)

	job := queueJob(repo, "R-001")

	// First attempt fails; the job goes back to PENDING and the same drain
	// pass claims it again. Second failure exhausts the attempts.
	d.drain(context.Background())

	got, _ := repo.GetByID(context.Background(), job.ID)
	if got.Status != enum.PrintJobError {
		t.Fatalf("expected job parked in ERROR after exhausting attempts, got %s", got.Status)
	}
	if got.LastError == nil || *got.LastError != "paper jam" {
		t.Fatalf("expected last error recorded, got %v", got.LastError)
	}
	if len(p.printed) != 0 {
		t.Fatalf("expected nothing printed, got %d", len(p.printed))
	}
}

func TestRetrySucceedsWithinAttemptBudget(t *testing.T) {
	repo := newFakePrintJobRepo()
	p := &fakePrinter{failures: 1}
	d := NewPrintDispatcher(repo, p, time.Second, 3)

	job := queueJob(repo, "R-001")
	d.drain(context.Background())

	got, _ := repo.GetByID(context.Background(), job.ID)
	if got.Status != enum.PrintJobDone {
		t.Fatalf("expected job DONE after retry, got %s", got.Status)
	}
	if got.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", got.Attempts)
	}
	if len(p.printed) != 1 {
		t.Fatalf("expected one document printed, got %d", len(p.printed))
	}
}
