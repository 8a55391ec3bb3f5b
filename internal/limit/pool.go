// Package limit provides shared concurrency caps for outbound API calls.
package limit

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool caps concurrent calls to a paid external API using a weighted
// semaphore. One Pool is shared per upstream so a burst of merchants
// asking for copy suggestions cannot fan out into unbounded requests.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a Pool that allows at most limit concurrent calls.
func NewPool(limit int) *Pool {
	if limit < 1 {
		limit = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(limit))}
}

// Run acquires a slot, runs fn, and releases the slot. Blocks if all
// slots are busy and returns ctx.Err() if the context is cancelled while
// waiting. A nil pool runs fn directly.
func (p *Pool) Run(ctx context.Context, fn func() error) error {
	if p == nil || p.sem == nil {
		return fn()
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	return fn()
}
