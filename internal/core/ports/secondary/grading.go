package secondary

import (
	"context"

	"gitlab.com/gradepro.net/internal/domain"
)

// GradingBackend scores one submission against the grading configuration
type GradingBackend interface {
	// Grade performs exactly one backend call. Failures are returned as *domain.BackendError.
	Grade(ctx context.Context, content string, kind domain.ContentKind, cfg domain.GradingConfig) (*domain.GradingResult, error)
}
