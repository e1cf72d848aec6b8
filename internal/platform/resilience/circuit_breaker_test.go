package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, timeout time.Duration, trials int) (*Breaker, *time.Time) {
	b := NewBreaker(Config{Enabled: true, FailureThreshold: threshold, OpenTimeout: timeout, HalfOpenTrials: trials})
	now := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreaker_OpensAndRecovers(t *testing.T) {
	b, now := newTestBreaker(2, 5*time.Second, 1)

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	*now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open trial to pass, got %v", err)
	}
	if state := b.State(); state != StateHalfOpen {
		t.Fatalf("expected half-open state, got %s", state)
	}

	b.RecordSuccess()
	if state := b.State(); state != StateClosed {
		t.Fatalf("expected closed after successful trial, got %s", state)
	}
}

func TestBreaker_FailedTrialReopens(t *testing.T) {
	b, now := newTestBreaker(1, time.Second, 1)

	b.RecordFailure()
	*now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected trial to pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second trial to be rejected, got %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != StateOpen {
		t.Fatalf("expected open after failed trial, got %s", state)
	}
}

func TestBreaker_Execute(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute, 1)
	errClient := errors.New("bad request")
	errNetwork := errors.New("connection reset")
	transient := func(err error) bool { return errors.Is(err, errNetwork) }

	if err := b.Execute(func() error { return errClient }, transient); !errors.Is(err, errClient) {
		t.Fatalf("expected client error, got %v", err)
	}
	if state := b.State(); state != StateClosed {
		t.Fatalf("non-transient errors must not trip the breaker, got %s", state)
	}

	if err := b.Execute(func() error { return errNetwork }, transient); !errors.Is(err, errNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}

	called := false
	err := b.Execute(func() error { called = true; return nil }, transient)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open, got %v", err)
	}
	if called {
		t.Fatalf("fn must not run while the breaker is open")
	}
}

func TestBreaker_NilAllowsEverything(t *testing.T) {
	var b *Breaker
	called := false
	if err := b.Execute(func() error { called = true; return nil }, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected fn to run")
	}
}
