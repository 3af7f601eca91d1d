package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gitlab.com/gradepro.net/internal/domain"
)

// IsTransient reports whether err is a backend failure worth an immediate retry
func IsTransient(err error) bool {
	var be *domain.BackendError
	return errors.As(err, &be) && be.Transient
}

// Retry runs fn until it succeeds, fails with a non-transient error or attempts run out.
// The wait starts at backoff and doubles after every failure, plus up to backoff of jitter.
func Retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var res T
	if attempts < 1 {
		return res, fmt.Errorf("retry: attempts must be positive, got %d", attempts)
	}

	wait := backoff
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		out, err := fn()
		switch {
		case err == nil:
			return out, nil
		case !IsTransient(err):
			return res, err
		case n == attempts && attempts == 1:
			return res, err
		case n == attempts:
			return res, fmt.Errorf("after %d attempts: %w", attempts, err)
		}

		if err := sleep(ctx, wait+jitter(backoff)); err != nil {
			return res, err
		}
		wait *= 2
	}
}

func jitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(limit)))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
