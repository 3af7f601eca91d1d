package store

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/domain"
	"gitlab.com/gradepro.net/internal/static/errs"
)

var _ ISubmissionStore = (*SubmissionStore)(nil)

// SubmissionStore keeps submissions in memory. Every mutation builds a new slice and swaps it in,
// so a slice obtained by a reader is never modified afterwards.
type SubmissionStore struct {
	writeMu   sync.Mutex
	current   atomic.Pointer[[]domain.Submission]
	obsMu     sync.RWMutex
	observers map[int]Observer
	nextObsID int
	logger    primary.Logger
	now       func() time.Time
}

// NewSubmissionStore creates an empty store
func NewSubmissionStore(logger primary.Logger) *SubmissionStore {
	s := &SubmissionStore{
		observers: make(map[int]Observer),
		logger:    logger,
		now:       time.Now,
	}
	empty := make([]domain.Submission, 0)
	s.current.Store(&empty)
	return s
}

func (s *SubmissionStore) snapshot() []domain.Submission {
	return *s.current.Load()
}

func indexOf(subs []domain.Submission, id uuid.UUID) int {
	for i := range subs {
		if subs[i].ID == id {
			return i
		}
	}
	return -1
}

// commit publishes next as the current version and notifies observers. Caller holds writeMu.
func (s *SubmissionStore) commit(next []domain.Submission, kind domain.ChangeKind, ids ...uuid.UUID) {
	s.current.Store(&next)

	s.obsMu.RLock()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.obsMu.RUnlock()

	if len(observers) == 0 {
		return
	}
	change := domain.StoreChange{Kind: kind, IDs: ids, At: s.now()}
	for _, o := range observers {
		o(change, cloneAll(next))
	}
}

func cloneAll(subs []domain.Submission) []domain.Submission {
	out := make([]domain.Submission, len(subs))
	for i := range subs {
		out[i] = subs[i].Clone()
	}
	return out
}

// replaceAt copies cur with the entry at i swapped for sub
func replaceAt(cur []domain.Submission, i int, sub domain.Submission) []domain.Submission {
	next := make([]domain.Submission, len(cur))
	copy(next, cur)
	next[i] = sub
	return next
}

func (s *SubmissionStore) Add(submissions ...domain.Submission) {
	if len(submissions) == 0 {
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.snapshot()
	next := make([]domain.Submission, 0, len(cur)+len(submissions))
	next = append(next, cur...)
	ids := make([]uuid.UUID, 0, len(submissions))
	for _, sub := range submissions {
		next = append(next, sub.Clone())
		ids = append(ids, sub.ID)
	}
	s.commit(next, domain.ChangeAdded, ids...)
	s.logger.Debug("Submissions added", "count", len(submissions), "total", len(next))
}

func (s *SubmissionStore) Remove(id uuid.UUID) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.snapshot()
	i := indexOf(cur, id)
	if i < 0 {
		return false
	}
	next := make([]domain.Submission, 0, len(cur)-1)
	next = append(next, cur[:i]...)
	next = append(next, cur[i+1:]...)
	s.commit(next, domain.ChangeRemoved, id)
	s.logger.Info("Submission removed", "submissionId", id, "status", cur[i].Status)
	return true
}

func validateUpdate(update StatusUpdate) error {
	switch update.Status {
	case domain.StatusCompleted:
		if update.Result == nil || update.Error != nil {
			return fmt.Errorf("status %s requires a result and no error", update.Status)
		}
	case domain.StatusError:
		if update.Error == nil || update.Error.Message == "" || update.Result != nil {
			return fmt.Errorf("status %s requires an error message and no result", update.Status)
		}
	case domain.StatusPending, domain.StatusProcessing:
		if update.Result != nil || update.Error != nil {
			return fmt.Errorf("status %s carries neither result nor error", update.Status)
		}
	default:
		return fmt.Errorf("unknown status %q", update.Status)
	}
	return nil
}

func (s *SubmissionStore) UpdateStatus(id uuid.UUID, update StatusUpdate) (bool, error) {
	if err := validateUpdate(update); err != nil {
		return false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.snapshot()
	i := indexOf(cur, id)
	if i < 0 {
		s.logger.Debug("Discarding status update for missing submission", "submissionId", id, "status", update.Status)
		return false, nil
	}

	sub := cur[i]
	sub.Status = update.Status
	sub.Result = nil
	sub.Error = nil
	if update.Result != nil {
		r := update.Result.Clone()
		sub.Result = &r
	}
	if update.Error != nil {
		e := *update.Error
		sub.Error = &e
	}
	s.commit(replaceAt(cur, i, sub), domain.ChangeUpdated, id)
	return true, nil
}

func (s *SubmissionStore) UpdateContent(id uuid.UUID, kind domain.ContentKind, content string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.snapshot()
	i := indexOf(cur, id)
	if i < 0 {
		return false
	}
	sub := cur[i]
	sub.ContentKind = kind
	sub.Content = content
	if kind != domain.ContentExtractionError {
		sub.Source = nil
	}
	s.commit(replaceAt(cur, i, sub), domain.ChangeUpdated, id)
	return true
}

func (s *SubmissionStore) ReplaceResult(id uuid.UUID, result domain.GradingResult) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cur := s.snapshot()
	i := indexOf(cur, id)
	if i < 0 {
		return errs.SubmissionNotFound
	}
	sub := cur[i]
	if sub.Status != domain.StatusCompleted {
		return errs.NotCompleted
	}
	r := result.Clone()
	sub.Result = &r
	s.commit(replaceAt(cur, i, sub), domain.ChangeUpdated, id)
	return nil
}

func (s *SubmissionStore) Get(id uuid.UUID) (domain.Submission, bool) {
	cur := s.snapshot()
	i := indexOf(cur, id)
	if i < 0 {
		return domain.Submission{}, false
	}
	return cur[i].Clone(), true
}

func (s *SubmissionStore) List() []domain.Submission {
	return cloneAll(s.snapshot())
}

func (s *SubmissionStore) Subscribe(observer Observer) func() {
	s.obsMu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = observer
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}
