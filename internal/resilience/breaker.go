package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrBreakerOpen is returned while the breaker is rejecting calls.
var ErrBreakerOpen = eris.New("record store temporarily unavailable: circuit open")

// BreakerState is the state of a Breaker.
type BreakerState int

const (
	// BreakerClosed passes calls through.
	BreakerClosed BreakerState = iota
	// BreakerOpen rejects calls until the cool-down elapses.
	BreakerOpen
	// BreakerHalfOpen lets one probe call through.
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker stops calling a failing record store after Threshold consecutive
// transient failures and lets a single probe through once Cooldown has
// passed. A zero Threshold disables the breaker.
type Breaker struct {
	Threshold int
	Cooldown  time.Duration
	Name      string

	mu       sync.Mutex
	state    BreakerState
	failures int
	openedAt time.Time
	probing  bool

	now func() time.Time
}

// NewBreaker creates a closed breaker.
func NewBreaker(name string, threshold int, cooldown time.Duration) *Breaker {
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{Name: name, Threshold: threshold, Cooldown: cooldown, now: time.Now}
}

// Call runs fn through the breaker. Only transient errors count as failures:
// a malformed payload says nothing about store availability.
func Call[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if b == nil || b.Threshold <= 0 {
		return fn(ctx)
	}
	if !b.allow() {
		return zero, ErrBreakerOpen
	}
	val, err := fn(ctx)
	b.record(err)
	return val, err
}

// State reports the current state.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.Cooldown {
		return BreakerHalfOpen
	}
	return b.state
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.Cooldown {
			return false
		}
		b.setState(BreakerHalfOpen)
		b.probing = true
		return true
	case BreakerHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return true
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	if err == nil || !IsTransient(err) {
		b.failures = 0
		if b.state != BreakerClosed {
			b.setState(BreakerClosed)
		}
		return
	}

	b.failures++
	if b.state == BreakerHalfOpen || b.failures >= b.Threshold {
		b.openedAt = b.now()
		b.setState(BreakerOpen)
	}
}

func (b *Breaker) setState(to BreakerState) {
	if b.state == to {
		return
	}
	zap.L().Warn("circuit breaker state change",
		zap.String("breaker", b.Name),
		zap.Stringer("from", b.state),
		zap.Stringer("to", to),
	)
	b.state = to
}
