package provider

import (
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	limiter := NewRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if err := limiter.CheckAndConsume(); err != nil {
			t.Fatalf("request %d unexpectedly limited: %v", i+1, err)
		}
	}

	err := limiter.CheckAndConsume()
	if err == nil {
		t.Fatal("expected rate limit error after exhausting window")
	}
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected *RateLimitError, got %T", err)
	}
	if rateErr.RetryAfter <= 0 || rateErr.RetryAfter > time.Minute {
		t.Fatalf("unexpected retry-after: %s", rateErr.RetryAfter)
	}
}

func TestRateLimiter_WindowReset(t *testing.T) {
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(2, time.Minute)
	limiter.now = func() time.Time { return current }

	for i := 0; i < 2; i++ {
		if err := limiter.CheckAndConsume(); err != nil {
			t.Fatalf("request %d unexpectedly limited: %v", i+1, err)
		}
	}
	if err := limiter.CheckAndConsume(); err == nil {
		t.Fatal("expected limit to be hit")
	}

	// Счётчик обнуляется строго по границе окна, не раньше.
	current = current.Add(59 * time.Second)
	if err := limiter.CheckAndConsume(); err == nil {
		t.Fatal("window must not reset before it elapses")
	}

	current = current.Add(time.Second)
	if err := limiter.CheckAndConsume(); err != nil {
		t.Fatalf("expected reset window to allow request, got %v", err)
	}
}

func TestRateLimiter_Status(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	if err := limiter.CheckAndConsume(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := limiter.Status()
	if status.RequestCount != 1 {
		t.Fatalf("expected count 1, got %d", status.RequestCount)
	}
	if status.Limited {
		t.Fatal("limiter must not report limited below the cap")
	}
}
