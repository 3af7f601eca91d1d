package submission

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/gradepro.net/internal/domain"
)

type ISubmissionService interface {
	// AddSubmissions extracts every file and inserts the whole batch in one store update
	AddSubmissions(ctx context.Context, files []domain.UploadedFile) ([]domain.Submission, error)
	DeleteSubmission(ctx context.Context, id uuid.UUID) error
	// EditResult replaces the result of a COMPLETED submission with an operator-supplied one
	EditResult(ctx context.Context, id uuid.UUID, result domain.GradingResult) (domain.Submission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (domain.Submission, error)
	ListSubmissions(ctx context.Context) []domain.Submission
}
