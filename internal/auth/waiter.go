package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTokenUnavailable is returned when the token source never became ready
// within the configured attempt budget.
var ErrTokenUnavailable = errors.New("token source unavailable")

// Waiter polls a TokenSource with a fixed delay until it yields a token.
// The poll is bounded: after MaxAttempts failures the wait fails instead of
// retrying forever.
type Waiter struct {
	Source      TokenSource
	Interval    time.Duration
	MaxAttempts int
}

// NewWaiter returns a Waiter with the given source and sane defaults
// (500ms between attempts, 20 attempts).
func NewWaiter(src TokenSource) *Waiter {
	return &Waiter{
		Source:      src,
		Interval:    500 * time.Millisecond,
		MaxAttempts: 20,
	}
}

// Wait returns a token as soon as the source is ready. While the source
// reports ErrNotReady it sleeps Interval between attempts; any other error
// aborts immediately. Context cancellation aborts the wait.
func (w *Waiter) Wait(ctx context.Context) (string, error) {
	attempts := w.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		tok, err := w.Source.Token(ctx)
		if err == nil {
			return tok, nil
		}
		if !errors.Is(err, ErrNotReady) {
			return "", fmt.Errorf("acquire token: %w", err)
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("acquire token: %w", ctx.Err())
		case <-time.After(w.Interval):
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrTokenUnavailable, attempts)
}
