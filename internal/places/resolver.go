package places

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// DefaultMinLength is the shortest query worth sending upstream.
const DefaultMinLength = 2

// Resolver suggests places from a primary geocoder, falling back to a
// secondary one when the primary fails or finds nothing. It never fails.
type Resolver struct {
	primary   Geocoder
	secondary Geocoder
	minLength int
	log       zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMinLength sets the minimum query length in runes.
func WithMinLength(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.minLength = n
		}
	}
}

// NewResolver creates a Resolver. secondary may be nil.
func NewResolver(primary, secondary Geocoder, logger zerolog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		primary:   primary,
		secondary: secondary,
		minLength: DefaultMinLength,
		log:       logger.With().Str("component", "places").Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns at most MaxCandidates places for query, or nothing.
func (r *Resolver) Resolve(ctx context.Context, query string) []Candidate {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < r.minLength {
		return nil
	}

	if out := r.search(ctx, r.primary, query); len(out) > 0 {
		return out
	}
	return r.search(ctx, r.secondary, query)
}

func (r *Resolver) search(ctx context.Context, g Geocoder, query string) []Candidate {
	if g == nil {
		return nil
	}

	out, err := g.Search(ctx, query)
	if err != nil {
		r.log.Warn().Err(err).Str("geocoder", g.Name()).Str("query", query).Msg("place search failed")
		return nil
	}
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}
