package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("boom")
	err := Do(context.Background(), 3, nil, nil, func(ctx context.Context) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestDoReturnsOnFirstSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, nil, nil, func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestDoRespectsRetryablePredicate(t *testing.T) {
	calls := 0
	permanent := errors.New("permanent")
	err := Do(context.Background(), 5, nil, func(err error) bool { return !errors.Is(err, permanent) }, func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls)
	}
}

func TestDoAbortsBackoffOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := Do(ctx, 3, Linear(time.Hour), nil, func(ctx context.Context) error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt before cancel, got %d", calls)
	}
}

func TestLinearBackoffGrowsWithAttempt(t *testing.T) {
	b := Linear(2 * time.Second)
	if b(1) != 2*time.Second || b(2) != 4*time.Second || b(3) != 6*time.Second {
		t.Fatalf("unexpected backoff schedule: %v %v %v", b(1), b(2), b(3))
	}
}
