// Package breaker guards the chat-completion provider with a circuit
// breaker so the service sheds load instead of piling requests onto an
// unhealthy upstream.
package breaker

import (
	"context"
	"sync"
	"time"

	"github.com/resurrectethos/citation-verifier/internal/domain/analysis"
)

// State klasifikasi kesehatan provider
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Breaker is one process-wide state machine shared by all credentials; it
// reflects provider health, not per-credential state.
type Breaker struct {
	mu            sync.Mutex
	threshold     int
	cooldown      time.Duration
	clock         Clock
	state         State
	failures      int
	openedUntil   time.Time
	trialInFlight bool
}

func New(threshold int, cooldown time.Duration) *Breaker {
	return NewWithClock(threshold, cooldown, systemClock{})
}

func NewWithClock(threshold int, cooldown time.Duration, clock Clock) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 60 * time.Second
	}
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		clock:     clock,
		state:     StateClosed,
	}
}

// State returns the current classification.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Do runs fn under the breaker. While Open and before the cooldown expires
// every call fails with ErrCircuitOpen without touching the network; at the
// cooldown boundary exactly one trial call is admitted.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if err := b.allow(); err != nil {
		return "", err
	}
	out, err := fn(ctx)
	if err != nil {
		b.onFailure()
		return "", err
	}
	b.onSuccess()
	return out, nil
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.clock.Now().Before(b.openedUntil) {
			return analysis.ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.trialInFlight = true
		return nil
	case StateHalfOpen:
		if b.trialInFlight {
			return analysis.ErrCircuitOpen
		}
		b.trialInFlight = true
		return nil
	default:
		return nil
	}
}

func (b *Breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.state = StateClosed
	b.trialInFlight = false
}

func (b *Breaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trialInFlight = false

	if b.state == StateHalfOpen {
		// failed trial re-arms the cooldown
		b.state = StateOpen
		b.openedUntil = b.clock.Now().Add(b.cooldown)
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.state = StateOpen
		b.openedUntil = b.clock.Now().Add(b.cooldown)
	}
}
