package secondary

import (
	"context"

	"gitlab.com/gradepro.net/internal/domain"
)

// ChangePublisher forwards committed store changes to external observers
type ChangePublisher interface {
	Publish(ctx context.Context, change domain.StoreChange, snapshot []domain.Submission) error
}
