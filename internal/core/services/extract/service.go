package extract

import (
	"context"

	"gitlab.com/gradepro.net/internal/domain"
)

// IExtractService turns uploaded files into submissions
type IExtractService interface {
	// ExtractAll converts every file independently and returns one submission per file in upload order.
	// It never fails; extraction problems become ERROR submissions.
	ExtractAll(ctx context.Context, files []domain.UploadedFile) []domain.Submission

	// Reextract runs extraction again on the raw upload kept by a failed submission
	Reextract(ctx context.Context, fileName string, source domain.SourceFile) (domain.ContentKind, string, error)
}
