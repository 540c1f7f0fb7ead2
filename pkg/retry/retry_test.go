package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   10 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(), func() (string, error) {
		calls++
		return "clicked", nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result != "clicked" {
		t.Errorf("result = %q, want %q", result, "clicked")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), fastConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", Retryable(errors.New("element not interactable"))
		}
		return "clicked", nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if result != "clicked" {
		t.Errorf("result = %q, want %q", result, "clicked")
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastConfig(), func() (string, error) {
		calls++
		return "", errors.New("invalid session id")
	})
	if err == nil {
		t.Fatal("expected the error back")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 for a non-retryable error", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	cfg := fastConfig()
	cfg.MaxRetries = 2

	calls := 0
	_, err := Do(context.Background(), cfg, func() (string, error) {
		calls++
		return "", Retryable(errors.New("element not interactable"))
	})
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if calls != 3 {
		// Initial attempt plus two retries.
		t.Errorf("fn called %d times, want 3", calls)
	}
	if IsRetryable(err) {
		t.Error("final error should be unwrapped")
	}
}

func TestDoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.BaseDelay = 100 * time.Millisecond

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, cfg, func() (string, error) {
		return "", Retryable(errors.New("keep retrying"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error is not retryable")
	}
	if !IsRetryable(Retryable(errors.New("flaky"))) {
		t.Error("wrapped error should be retryable")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should stay nil")
	}
}

func TestCalculateDelay(t *testing.T) {
	cfg := Config{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   500 * time.Millisecond,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 500 * time.Millisecond}, // capped
		{10, 500 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := cfg.calculateDelay(tt.attempt); got != tt.want {
			t.Errorf("calculateDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestCalculateDelayJitterBounds(t *testing.T) {
	cfg := Config{
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    time.Second,
		Multiplier:  2.0,
		JitterRatio: 0.1,
	}
	for i := 0; i < 100; i++ {
		d := cfg.calculateDelay(0)
		if d < 90*time.Millisecond || d > 110*time.Millisecond {
			t.Fatalf("jittered delay %v outside +-10%% of base", d)
		}
	}
}
