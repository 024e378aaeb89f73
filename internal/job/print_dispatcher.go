package job

import (
	"context"
	"log"
	"time"

	"github.com/mesaposte/mesa-api/internal/application/service"
	"github.com/mesaposte/mesa-api/internal/domain/entity"
	"github.com/mesaposte/mesa-api/internal/domain/repository"
	infraRepo "github.com/mesaposte/mesa-api/internal/infrastructure/repository"
	"github.com/mesaposte/mesa-api/pkg/printer"
)

// PrintDispatcher drains the persisted print queue in the background. Jobs
// are claimed one at a time with a locking dequeue, so several dispatcher
// instances can run against the same database without double-printing.
// Delivery is at-least-once: a failed job returns to the queue until it
// exhausts its attempts.
type PrintDispatcher struct {
	printJobRepo repository.PrintJobRepository
	printer      printer.Printer
	stopCh       chan struct{}
	interval     time.Duration
	maxAttempts  int
}

// NewPrintDispatcher creates a new print dispatcher
func NewPrintDispatcher(printJobRepo repository.PrintJobRepository, p printer.Printer, interval time.Duration, maxAttempts int) *PrintDispatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &PrintDispatcher{
		printJobRepo: printJobRepo,
		printer:      p,
		stopCh:       make(chan struct{}),
		interval:     interval,
		maxAttempts:  maxAttempts,
	}
}

// Start polls the queue until the context is cancelled or Stop is called.
// Blocks; run it in its own goroutine.
func (d *PrintDispatcher) Start(ctx context.Context) {
	log.Println("[PrintDispatcher] started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[PrintDispatcher] context cancelled, exiting")
			return
		case <-d.stopCh:
			log.Println("[PrintDispatcher] stopped")
			return
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

// Stop signals the dispatcher to exit after the current job
func (d *PrintDispatcher) Stop() {
	close(d.stopCh)
}

// drain claims and processes jobs until the queue is empty
func (d *PrintDispatcher) drain(ctx context.Context) {
	for {
		job, err := d.dequeue(ctx)
		if err != nil {
			log.Printf("[PrintDispatcher] dequeue failed: %v", err)
			return
		}
		if job == nil {
			return
		}
		d.process(ctx, job)
	}
}

// dequeue claims the oldest pending job with the tenant scope disabled;
// the dispatcher serves every tenant's queue.
func (d *PrintDispatcher) dequeue(ctx context.Context) (*entity.PrintJob, error) {
	return d.printJobRepo.DequeuePending(infraRepo.WithSkipTenantScope(ctx, true))
}

func (d *PrintDispatcher) process(ctx context.Context, job *entity.PrintJob) {
	data := service.FormatReceipt(&job.Payload)

	if err := d.printer.Print(data); err != nil {
		log.Printf("[PrintDispatcher] job %s print failed (attempt %d): %v", job.ID, job.Attempts, err)
		if markErr := d.printJobRepo.MarkFailed(ctx, job.ID, err.Error(), d.maxAttempts); markErr != nil {
			log.Printf("[PrintDispatcher] job %s status update failed: %v", job.ID, markErr)
		}
		return
	}

	if err := d.printJobRepo.MarkDone(ctx, job.ID); err != nil {
		log.Printf("[PrintDispatcher] job %s done-mark failed: %v", job.ID, err)
	}
}
