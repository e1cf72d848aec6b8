package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// Config tunes a Breaker. Zero values fall back to DefaultConfig.
type Config struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenTrials   int
}

func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenTrials:   2,
	}
}

func (c Config) normalized() Config {
	defaults := DefaultConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenTrials < 1 {
		c.HalfOpenTrials = defaults.HalfOpenTrials
	}
	return c
}

// Breaker stops calls to a dependency after consecutive failures and lets a
// bounded number of trials through once the open timeout has elapsed.
// A nil *Breaker allows everything.
type Breaker struct {
	mu  sync.Mutex
	cfg Config

	state     State
	failures  int
	openedAt  time.Time
	inFlight  int
	successes int
	now       func() time.Time
}

func NewBreaker(cfg Config) *Breaker {
	return &Breaker{
		cfg:   cfg.normalized(),
		state: StateClosed,
		now:   time.Now,
	}
}

// Execute runs fn when the breaker admits the call. Errors for which
// countsAsFailure returns true trip the breaker; everything else, including
// nil, counts as success.
func (b *Breaker) Execute(fn func() error, countsAsFailure func(error) bool) error {
	if b == nil {
		return fn()
	}
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && (countsAsFailure == nil || countsAsFailure(err)) {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return err
}

func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return ErrCircuitOpen
		}
		b.reset(StateHalfOpen)
	}

	if b.state == StateHalfOpen {
		if b.inFlight >= b.cfg.HalfOpenTrials {
			return ErrCircuitOpen
		}
		b.inFlight++
	}
	return nil
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.releaseTrial()
		b.successes++
		if b.successes >= b.cfg.HalfOpenTrials && b.inFlight == 0 {
			b.reset(StateClosed)
		}
	}
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case StateHalfOpen:
		b.releaseTrial()
		b.trip()
	case StateOpen:
		b.openedAt = b.now()
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) releaseTrial() {
	if b.inFlight > 0 {
		b.inFlight--
	}
}

func (b *Breaker) trip() {
	b.reset(StateOpen)
	b.openedAt = b.now()
}

func (b *Breaker) reset(state State) {
	b.state = state
	b.failures = 0
	b.inFlight = 0
	b.successes = 0
	if state == StateClosed {
		b.openedAt = time.Time{}
	}
}
