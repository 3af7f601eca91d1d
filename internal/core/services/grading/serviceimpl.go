package grading

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"gitlab.com/gradepro.net/internal/config"
	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/ports/secondary"
	"gitlab.com/gradepro.net/internal/core/services/extract"
	"gitlab.com/gradepro.net/internal/core/services/store"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
	"gitlab.com/gradepro.net/internal/utils"
)

var _ IGradingService = (*GradingService)(nil)

type outcome int

const (
	outcomeCompleted outcome = iota
	outcomeFailed
	outcomeSkipped
)

type GradingService struct {
	store     store.ISubmissionStore
	backend   secondary.GradingBackend
	extractor extract.IExtractService
	configs   *ConfigHolder
	cfg       *config.OrchestratorCfg
	logger    primary.Logger

	mu        sync.Mutex
	inFlight  map[uuid.UUID]struct{}
	running   bool
	selected  int
	processed int
	last      *BatchSummary

	// background runs derive from root so Close can stop them
	root   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGradingService(
	submissions store.ISubmissionStore,
	backend secondary.GradingBackend,
	extractor extract.IExtractService,
	configs *ConfigHolder,
	cfg *config.OrchestratorCfg,
	logger primary.Logger,
) *GradingService {
	root, cancel := context.WithCancel(context.Background())
	return &GradingService{
		store:     submissions,
		backend:   backend,
		extractor: extractor,
		configs:   configs,
		cfg:       cfg,
		logger:    logger,
		inFlight:  make(map[uuid.UUID]struct{}),
		root:      root,
		cancel:    cancel,
	}
}

// claim marks id as in flight. It returns false if a call for id is already queued or running.
func (s *GradingService) claim(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *GradingService) release(id uuid.UUID) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

// beginBatch reserves the batch slot and claims every eligible submission in store order
func (s *GradingService) beginBatch() ([]uuid.UUID, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil, 0, errs.BatchRunning
	}

	var ids []uuid.UUID
	busy := 0
	for _, sub := range s.store.List() {
		if !sub.BatchEligible() {
			continue
		}
		if _, ok := s.inFlight[sub.ID]; ok {
			busy++
			continue
		}
		s.inFlight[sub.ID] = struct{}{}
		ids = append(ids, sub.ID)
	}

	s.running = true
	s.selected = len(ids)
	s.processed = 0
	return ids, busy, nil
}

func (s *GradingService) endBatch(summary BatchSummary) {
	s.mu.Lock()
	s.running = false
	s.last = &summary
	s.mu.Unlock()
}

func (s *GradingService) GradeAll(ctx context.Context) (BatchSummary, error) {
	ids, busy, err := s.beginBatch()
	if err != nil {
		return BatchSummary{}, err
	}
	return s.runBatch(ctx, ids, busy), nil
}

func (s *GradingService) StartBatch(ctx context.Context) (int, error) {
	ids, busy, err := s.beginBatch()
	if err != nil {
		return 0, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runBatch(s.root, ids, busy)
	}()
	return len(ids), nil
}

func (s *GradingService) runBatch(ctx context.Context, ids []uuid.UUID, busy int) BatchSummary {
	summary := BatchSummary{Selected: len(ids), Skipped: busy}
	defer func() { s.endBatch(summary) }()

	if len(ids) == 0 {
		s.logger.Info("No submissions to grade")
		return summary
	}

	workerSize := s.cfg.Workers
	if workerSize > len(ids) {
		workerSize = len(ids)
	}
	s.logger.Info("Grading batch started", "selected", len(ids), "workers", workerSize)

	idCh := make(chan uuid.UUID, len(ids))
	for _, id := range ids {
		idCh <- id
	}
	close(idCh)

	resultCh := make(chan outcome, len(ids))
	var wg sync.WaitGroup
	wg.Add(workerSize)
	for i := 0; i < workerSize; i++ {
		go func() {
			defer wg.Done()
			for id := range idCh {
				if ctx.Err() != nil {
					s.release(id)
					resultCh <- outcomeSkipped
					continue
				}
				resultCh <- s.gradeClaimed(ctx, id)
				s.mu.Lock()
				s.processed++
				s.mu.Unlock()
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for o := range resultCh {
		switch o {
		case outcomeCompleted:
			summary.Completed++
		case outcomeFailed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}

	s.logger.Info("Grading batch finished",
		"selected", summary.Selected,
		"completed", summary.Completed,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
	return summary
}

// claimForReanalyze claims id and checks the submission may be graded again
func (s *GradingService) claimForReanalyze(id uuid.UUID) error {
	if !s.claim(id) {
		return errs.AlreadyProcessing
	}
	sub, ok := s.store.Get(id)
	if !ok {
		s.release(id)
		return errs.SubmissionNotFound
	}
	if !sub.Reanalyzable() {
		s.release(id)
		return errs.NotReanalyzable
	}
	return nil
}

func (s *GradingService) Reanalyze(ctx context.Context, id uuid.UUID) error {
	if err := s.claimForReanalyze(id); err != nil {
		return err
	}
	s.gradeClaimed(ctx, id)
	return nil
}

func (s *GradingService) StartReanalyze(ctx context.Context, id uuid.UUID) error {
	if err := s.claimForReanalyze(id); err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.gradeClaimed(s.root, id)
	}()
	return nil
}

// gradeClaimed runs one PROCESSING -> COMPLETED/ERROR transition for an id the caller has claimed.
// Every failure ends up in the store; nothing is returned to the caller.
func (s *GradingService) gradeClaimed(ctx context.Context, id uuid.UUID) (o outcome) {
	defer s.release(id)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Grading panicked", "submissionId", id, "panic", r)
			o = s.fail(id, domain.ErrorKindBackend, "unexpected grading failure", true)
		}
	}()

	sub, ok := s.store.Get(id)
	if !ok {
		return outcomeSkipped
	}

	if sub.ContentKind == domain.ContentExtractionError {
		if !s.reextract(ctx, &sub) {
			return outcomeFailed
		}
	}

	applied, err := s.store.UpdateStatus(id, store.StatusUpdate{Status: domain.StatusProcessing})
	if err != nil || !applied {
		return outcomeSkipped
	}

	snapshot := s.configs.Snapshot()
	result, err := utils.Retry(ctx, s.cfg.MaxAttempts, s.cfg.RetryBaseDelay, func() (*domain.GradingResult, error) {
		return s.backend.Grade(ctx, sub.Content, sub.ContentKind, snapshot)
	})
	if err == nil && result == nil {
		err = &domain.BackendError{Message: "empty result"}
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("Grading cancelled", "submissionId", id, "fileName", sub.FileName)
			return s.fail(id, domain.ErrorKindBackend, "grading was cancelled", true)
		}
		s.logger.Warn("Grading failed", "submissionId", id, "fileName", sub.FileName, "error", err)
		return s.fail(id, domain.ErrorKindBackend, err.Error(), true)
	}

	applied, err = s.store.UpdateStatus(id, store.StatusUpdate{Status: domain.StatusCompleted, Result: result})
	if err != nil {
		s.logger.Error("Storing grading result failed", "submissionId", id, "error", err)
		return outcomeFailed
	}
	if !applied {
		s.logger.Debug("Submission deleted while grading; result discarded", "submissionId", id)
		return outcomeSkipped
	}
	s.logger.Info("Submission graded", "submissionId", id, "score", result.Score, "letterGrade", result.LetterGrade)
	return outcomeCompleted
}

// reextract runs extraction again for a submission whose upload could not be read.
// On success sub carries the new content.
func (s *GradingService) reextract(ctx context.Context, sub *domain.Submission) bool {
	if sub.Source == nil || s.extractor == nil {
		s.fail(sub.ID, domain.ErrorKindExtraction, sub.Content, false)
		return false
	}
	kind, content, err := s.extractor.Reextract(ctx, sub.FileName, *sub.Source)
	if err != nil {
		message := err.Error()
		var ee *domain.ExtractionError
		if errors.As(err, &ee) && ee.Reason != "" {
			message = ee.Reason
		}
		s.logger.Warn("Re-extraction failed", "submissionId", sub.ID, "fileName", sub.FileName, "error", err)
		s.fail(sub.ID, domain.ErrorKindExtraction, message, false)
		return false
	}
	if !s.store.UpdateContent(sub.ID, kind, content) {
		return false
	}
	sub.ContentKind = kind
	sub.Content = content
	return true
}

func (s *GradingService) fail(id uuid.UUID, kind domain.ErrorKind, message string, retryable bool) outcome {
	applied, err := s.store.UpdateStatus(id, store.StatusUpdate{
		Status: domain.StatusError,
		Error:  &domain.SubmissionError{Kind: kind, Message: message, Retryable: retryable},
	})
	if err != nil || !applied {
		return outcomeSkipped
	}
	return outcomeFailed
}

func (s *GradingService) Status() BatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := BatchStatus{
		Running:   s.running,
		Selected:  s.selected,
		Processed: s.processed,
		InFlight:  make([]uuid.UUID, 0, len(s.inFlight)),
	}
	for id := range s.inFlight {
		status.InFlight = append(status.InFlight, id)
	}
	if s.last != nil {
		last := *s.last
		status.Last = &last
	}
	return status
}

func (s *GradingService) Wait() {
	s.wg.Wait()
}

func (s *GradingService) Close() {
	s.cancel()
	s.wg.Wait()
}
