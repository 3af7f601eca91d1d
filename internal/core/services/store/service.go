package store

import (
	"github.com/google/uuid"

	"gitlab.com/gradepro.net/internal/domain"
)

// Observer receives every committed change together with the snapshot it produced.
// Observers run on the writer's goroutine and must not call back into the store.
type Observer func(change domain.StoreChange, snapshot []domain.Submission)

// StatusUpdate is the target state of an UpdateStatus call
type StatusUpdate struct {
	Status domain.GradingStatus
	Result *domain.GradingResult
	Error  *domain.SubmissionError
}

// ISubmissionStore is the single owner of the submission collection
type ISubmissionStore interface {
	// Add appends submissions in order as one change
	Add(submissions ...domain.Submission)

	// Remove deletes a submission regardless of status
	Remove(id uuid.UUID) bool

	// UpdateStatus moves a submission to a new status. It is a no-op returning false if the id is gone.
	UpdateStatus(id uuid.UUID, update StatusUpdate) (bool, error)

	// UpdateContent replaces the extracted content of a submission
	UpdateContent(id uuid.UUID, kind domain.ContentKind, content string) bool

	// ReplaceResult overwrites the result of a COMPLETED submission
	ReplaceResult(id uuid.UUID, result domain.GradingResult) error

	// Get returns a copy of one submission
	Get(id uuid.UUID) (domain.Submission, bool)

	// List returns copies of all submissions in insertion order
	List() []domain.Submission

	// Subscribe registers an observer and returns a function removing it
	Subscribe(observer Observer) func()
}
