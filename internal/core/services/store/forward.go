package store

import (
	"context"
	"sync"
	"time"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/ports/secondary"
	"gitlab.com/gradepro.net/internal/domain"
)

const publishTimeout = 5 * time.Second

type pendingChange struct {
	change   domain.StoreChange
	snapshot []domain.Submission
}

// ChangeForwarder hands store changes to a publisher from its own goroutine, so store
// writers never wait on the network. Changes are dropped when the queue is full.
type ChangeForwarder struct {
	publisher secondary.ChangePublisher
	logger    primary.Logger
	queue     chan pendingChange
	wg        sync.WaitGroup
}

func NewChangeForwarder(publisher secondary.ChangePublisher, logger primary.Logger, buffer int) *ChangeForwarder {
	if buffer < 1 {
		buffer = 1
	}
	return &ChangeForwarder{
		publisher: publisher,
		logger:    logger,
		queue:     make(chan pendingChange, buffer),
	}
}

// Observe is the store Observer
func (f *ChangeForwarder) Observe(change domain.StoreChange, snapshot []domain.Submission) {
	select {
	case f.queue <- pendingChange{change: change, snapshot: snapshot}:
	default:
		f.logger.Warn("Change queue full, dropping change", "kind", change.Kind, "ids", len(change.IDs))
	}
}

// Run forwards queued changes until ctx is cancelled, then drains what is left
func (f *ChangeForwarder) Run(ctx context.Context) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		for {
			select {
			case <-ctx.Done():
				f.drain()
				return
			case pc := <-f.queue:
				f.publish(context.Background(), pc)
			}
		}
	}()
}

func (f *ChangeForwarder) drain() {
	for {
		select {
		case pc := <-f.queue:
			f.publish(context.Background(), pc)
		default:
			return
		}
	}
}

func (f *ChangeForwarder) publish(ctx context.Context, pc pendingChange) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := f.publisher.Publish(ctx, pc.change, pc.snapshot); err != nil {
		f.logger.Warn("Publishing store change failed", "kind", pc.change.Kind, "error", err)
	}
}

// Wait blocks until Run has returned
func (f *ChangeForwarder) Wait() {
	f.wg.Wait()
}
