package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edgard/grossessebot/internal/resilience"
)

var errBoom = errors.New("boom")

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	b := resilience.NewCircuitBreaker(resilience.BreakerConfig{
		Name:        "test",
		MaxFailures: 2,
		OpenFor:     time.Hour,
	}, nil)

	fail := func(context.Context) error { return errBoom }
	for range 2 {
		if err := b.Execute(context.Background(), fail); !errors.Is(err, errBoom) {
			t.Fatalf("Execute() error = %v, expected %v", err, errBoom)
		}
	}

	if b.State() != resilience.StateOpen {
		t.Fatalf("State() = %s, expected open", b.State())
	}

	called := false
	err := b.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("Execute() on open breaker error = %v", err)
	}
	if called {
		t.Error("operation ran while the breaker was open")
	}
}

func TestCircuitBreakerTimeout(t *testing.T) {
	t.Parallel()

	b := resilience.NewCircuitBreaker(resilience.BreakerConfig{Name: "slow", Timeout: 10 * time.Millisecond}, nil)

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, resilience.ErrTimeout) {
		t.Errorf("Execute() error = %v, expected ErrTimeout", err)
	}
}

func TestWithRetry(t *testing.T) {
	t.Parallel()

	cfg := resilience.RetryConfig{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      2,
	}

	testCases := []struct {
		name      string
		failures  int
		opErr     error
		wantCalls int
		wantErr   error
	}{
		{"succeeds first time", 0, errBoom, 1, nil},
		{"succeeds after retries", 2, errBoom, 3, nil},
		{"exhausts attempts", 5, errBoom, 3, resilience.ErrExhaustedRetries},
		{"open circuit is not retried", 5, resilience.ErrCircuitOpen, 1, resilience.ErrCircuitOpen},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			calls := 0
			err := resilience.WithRetry(context.Background(), cfg, func(context.Context) error {
				calls++
				if calls <= tc.failures {
					return tc.opErr
				}
				return nil
			})

			if calls != tc.wantCalls {
				t.Errorf("calls = %d, expected %d", calls, tc.wantCalls)
			}
			if tc.wantErr == nil && err != nil {
				t.Errorf("unexpected error %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, expected %v", err, tc.wantErr)
			}
		})
	}
}

func TestWithRetryCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := resilience.WithRetry(ctx, resilience.DefaultRetryConfig(), func(context.Context) error { return errBoom })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, expected context.Canceled", err)
	}
}
