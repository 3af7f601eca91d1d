package changeport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/gradepro.net/internal/core/ports/primary"
	"gitlab.com/gradepro.net/internal/core/ports/secondary"
	"gitlab.com/gradepro.net/internal/domain"
)

const (
	snapshotKeySuffix  = ":latest"
	snapshotExpiration = 24 * time.Hour
)

var _ secondary.ChangePublisher = (*ChangePublisher)(nil)

// SubmissionState is the public part of a submission carried in change events
type SubmissionState struct {
	ID          uuid.UUID            `json:"id"`
	FileName    string               `json:"fileName"`
	Status      domain.GradingStatus `json:"status"`
	Score       *float64             `json:"score,omitempty"`
	LetterGrade string               `json:"letterGrade,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// ChangeEvent is published on the channel for every committed store change
type ChangeEvent struct {
	Kind    domain.ChangeKind `json:"kind"`
	IDs     []uuid.UUID       `json:"ids"`
	At      time.Time         `json:"at"`
	Total   int               `json:"total"`
	Changed []SubmissionState `json:"changed"`
}

func stateOf(sub domain.Submission) SubmissionState {
	st := SubmissionState{ID: sub.ID, FileName: sub.FileName, Status: sub.Status}
	if sub.Result != nil {
		score := sub.Result.Score
		st.Score = &score
		st.LetterGrade = sub.Result.LetterGrade
	}
	if sub.Error != nil {
		st.Error = sub.Error.Message
	}
	return st
}

// BuildEvent describes change against the snapshot taken right after it. Removed ids have no state.
func BuildEvent(change domain.StoreChange, snapshot []domain.Submission) ChangeEvent {
	wanted := make(map[uuid.UUID]bool, len(change.IDs))
	for _, id := range change.IDs {
		wanted[id] = true
	}
	event := ChangeEvent{
		Kind:    change.Kind,
		IDs:     change.IDs,
		At:      change.At,
		Total:   len(snapshot),
		Changed: make([]SubmissionState, 0, len(change.IDs)),
	}
	for _, sub := range snapshot {
		if wanted[sub.ID] {
			event.Changed = append(event.Changed, stateOf(sub))
		}
	}
	return event
}

// ChangePublisher publishes store changes on a Redis channel and keeps the latest
// listing under <channel>:latest
type ChangePublisher struct {
	redisClient *redis.Client
	channel     string
	logger      primary.Logger
}

func NewChangePublisher(redisClient *redis.Client, channel string, logger primary.Logger) *ChangePublisher {
	return &ChangePublisher{
		redisClient: redisClient,
		channel:     channel,
		logger:      logger,
	}
}

func (p *ChangePublisher) Publish(ctx context.Context, change domain.StoreChange, snapshot []domain.Submission) error {
	eventJSON, err := json.Marshal(BuildEvent(change, snapshot))
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	listing := make([]SubmissionState, len(snapshot))
	for i, sub := range snapshot {
		listing[i] = stateOf(sub)
	}
	listingJSON, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to marshal submission listing: %w", err)
	}

	pipe := p.redisClient.TxPipeline()
	pipe.Set(ctx, p.channel+snapshotKeySuffix, listingJSON, snapshotExpiration)
	pipe.Publish(ctx, p.channel, eventJSON)
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Error("Failed to publish store change", "kind", change.Kind, "error", err)
		return fmt.Errorf("failed to publish store change: %w", err)
	}
	return nil
}
