package store

import (
	"context"
	"time"

	"github.com/sells-group/vc-data/internal/resilience"
)

// GuardOptions configures the fetch policy applied by Guarded.
type GuardOptions struct {
	Backend string
	// RetryAttempts is the total number of tries per fetch; <= 0 means 2.
	RetryAttempts int
	// Timeout bounds a whole fetch including its retry; 0 disables it.
	Timeout time.Duration
	// Breaker is shared across fetches; nil disables circuit breaking.
	Breaker *resilience.Breaker
}

// Guarded wraps a RecordStore with a per-fetch timeout, a single retry on
// transient failures, and an optional circuit breaker. Every error it returns
// is a FetchError.
type Guarded struct {
	inner RecordStore
	opts  GuardOptions
}

// NewGuarded wraps inner with the fetch policy in opts.
func NewGuarded(inner RecordStore, opts GuardOptions) *Guarded {
	if opts.Backend == "" {
		opts.Backend = "store"
	}
	return &Guarded{inner: inner, opts: opts}
}

// FetchAll implements RecordStore.
func (g *Guarded) FetchAll(ctx context.Context, table string) ([]map[string]string, error) {
	return g.do(ctx, table, "fetch_all", func(ctx context.Context) ([]map[string]string, error) {
		return g.inner.FetchAll(ctx, table)
	})
}

// FetchFiltered implements RecordStore.
func (g *Guarded) FetchFiltered(ctx context.Context, table string, p Predicate) ([]map[string]string, error) {
	return g.do(ctx, table, "fetch_filtered", func(ctx context.Context) ([]map[string]string, error) {
		return g.inner.FetchFiltered(ctx, table, p)
	})
}

// Close implements RecordStore.
func (g *Guarded) Close() error { return g.inner.Close() }

func (g *Guarded) do(ctx context.Context, table, op string, fn func(context.Context) ([]map[string]string, error)) ([]map[string]string, error) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	cfg := resilience.FetchRetryConfig(g.opts.RetryAttempts, g.opts.Backend+"."+op)
	rows, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]map[string]string, error) {
		return resilience.Call(ctx, g.opts.Breaker, fn)
	})
	if err != nil {
		return nil, fetchErr(g.opts.Backend, table, err)
	}
	return rows, nil
}
