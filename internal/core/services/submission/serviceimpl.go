package submission

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/services/extract"
	"gitlab.com/gradepro.net/internal/core/services/store"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

var _ ISubmissionService = (*SubmissionService)(nil)

type SubmissionService struct {
	store     store.ISubmissionStore
	extractor extract.IExtractService
	logger    primary.Logger
}

func NewSubmissionService(submissions store.ISubmissionStore, extractor extract.IExtractService, logger primary.Logger) *SubmissionService {
	return &SubmissionService{
		store:     submissions,
		extractor: extractor,
		logger:    logger,
	}
}

func (s *SubmissionService) AddSubmissions(ctx context.Context, files []domain.UploadedFile) ([]domain.Submission, error) {
	if len(files) == 0 {
		return nil, errs.NoFiles
	}

	subs := s.extractor.ExtractAll(ctx, files)
	s.store.Add(subs...)

	failed := 0
	for _, sub := range subs {
		if sub.Status == domain.StatusError {
			failed++
		}
	}
	s.logger.Info("Submissions uploaded", "count", len(subs), "extractionFailures", failed)
	return subs, nil
}

func (s *SubmissionService) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	if !s.store.Remove(id) {
		return errs.SubmissionNotFound
	}
	return nil
}

func (s *SubmissionService) EditResult(ctx context.Context, id uuid.UUID, result domain.GradingResult) (domain.Submission, error) {
	if err := result.Validate(); err != nil {
		return domain.Submission{}, fmt.Errorf("%w: %v", errs.InvalidResult, err)
	}
	if err := s.store.ReplaceResult(id, result); err != nil {
		return domain.Submission{}, err
	}
	s.logger.Info("Grading result edited", "submissionId", id, "score", result.Score, "letterGrade", result.LetterGrade)

	sub, ok := s.store.Get(id)
	if !ok {
		return domain.Submission{}, errs.SubmissionNotFound
	}
	return sub, nil
}

func (s *SubmissionService) GetSubmission(ctx context.Context, id uuid.UUID) (domain.Submission, error) {
	sub, ok := s.store.Get(id)
	if !ok {
		return domain.Submission{}, errs.SubmissionNotFound
	}
	return sub, nil
}

func (s *SubmissionService) ListSubmissions(ctx context.Context) []domain.Submission {
	return s.store.List()
}
