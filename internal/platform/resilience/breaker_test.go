package resilience

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestBreakerTransitions(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1})

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	boom := errors.New("upstream 503")
	_ = b.Execute(func() error { return boom }, nil)
	if state := b.State(); state != BreakerClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	_ = b.Execute(func() error { return boom }, nil)
	if state := b.State(); state != BreakerOpen {
		t.Fatalf("expected open after threshold, got %s", state)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, nil)
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Fatalf("expected open circuit to short-circuit, err=%v called=%v", err, called)
	}

	now = now.Add(6 * time.Second)
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != BreakerClosed {
		t.Fatalf("expected closed after probe success, got %s", state)
	}
}

func TestBreakerIgnoresUncountableErrors(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: true, FailureThreshold: 1})
	notFound := errors.New("404")

	for i := 0; i < 3; i++ {
		_ = b.Execute(func() error { return notFound }, func(error) bool { return false })
	}
	if state := b.State(); state != BreakerClosed {
		t.Fatalf("uncountable errors must not trip, got %s", state)
	}
}

func TestNilBreakerAllows(t *testing.T) {
	b := NewBreaker(BreakerConfig{Enabled: false})
	if b != nil {
		t.Fatalf("disabled config should yield nil breaker")
	}
	if err := b.Execute(func() error { return nil }, nil); err != nil {
		t.Fatalf("nil breaker should allow: %v", err)
	}
	if b.State() != BreakerClosed {
		t.Fatalf("nil breaker should report closed")
	}
}
