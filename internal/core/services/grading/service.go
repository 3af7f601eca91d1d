package grading

import (
	"context"

	"github.com/google/uuid"
)

// BatchSummary counts the outcome of one batch run. Skipped covers submissions deleted mid-flight,
// already claimed by a reanalyze, or left queued after cancellation.
type BatchSummary struct {
	Selected  int `json:"selected"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// BatchStatus is a point-in-time view of the orchestrator
type BatchStatus struct {
	Running   bool          `json:"running"`
	Selected  int           `json:"selected"`
	Processed int           `json:"processed"`
	InFlight  []uuid.UUID   `json:"inFlight"`
	Last      *BatchSummary `json:"last,omitempty"`
}

// IGradingService drives submissions through the grading backend
type IGradingService interface {
	// GradeAll grades every PENDING or retryable ERROR submission and returns once all are processed.
	// It fails with errs.BatchRunning when another batch is active.
	GradeAll(ctx context.Context) (BatchSummary, error)

	// StartBatch selects the batch synchronously and grades it in the background
	StartBatch(ctx context.Context) (int, error)

	// Reanalyze grades one COMPLETED or ERROR submission again and returns when its call resolves
	Reanalyze(ctx context.Context, id uuid.UUID) error

	// StartReanalyze validates and claims the submission, then grades it in the background
	StartReanalyze(ctx context.Context, id uuid.UUID) error

	Status() BatchStatus

	// Wait blocks until background work started so far has finished
	Wait()

	// Close cancels background work and waits for it to finish
	Close()
}
