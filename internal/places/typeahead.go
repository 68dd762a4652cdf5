package places

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultDebounce is how long a query must stay unchanged before it is resolved.
const DefaultDebounce = 300 * time.Millisecond

// ErrSuperseded is returned for a query that a newer one replaced.
var ErrSuperseded = errors.New("superseded by a newer query")

// CandidateResolver is satisfied by *Resolver.
type CandidateResolver interface {
	Resolve(ctx context.Context, query string) []Candidate
}

// Typeahead debounces suggestion requests so that only the newest query is
// answered. Calls may come from any goroutine.
type Typeahead struct {
	resolver CandidateResolver
	delay    time.Duration

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewTypeahead(resolver CandidateResolver, delay time.Duration) *Typeahead {
	if delay < 0 {
		delay = 0
	}
	return &Typeahead{resolver: resolver, delay: delay}
}

// Suggest waits out the debounce delay, resolves query and returns the
// result. It returns ErrSuperseded if another Suggest started meanwhile.
func (t *Typeahead) Suggest(ctx context.Context, query string) ([]Candidate, error) {
	ctx, seq := t.begin(ctx)
	defer t.finish(seq)

	timer := time.NewTimer(t.delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		if !t.latest(seq) {
			return nil, ErrSuperseded
		}
		return nil, ctx.Err()
	case <-timer.C:
	}

	out := t.resolver.Resolve(ctx, query)
	if !t.latest(seq) {
		return nil, ErrSuperseded
	}
	return out, nil
}

// begin claims the next sequence number and cancels the pending call.
func (t *Typeahead) begin(parent context.Context) (context.Context, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	t.seq++
	t.cancel = cancel
	return ctx, t.seq
}

// finish releases the context of call seq unless a newer call already did.
func (t *Typeahead) finish(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seq == seq && t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *Typeahead) latest(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq == seq
}
