package store

import (
	"encoding/binary"
	"time"

	"github.com/coocood/freecache"

	"github.com/i474232898/weather-outlook/internal/metrics"
)

// Purpose selects the freshness policy applied to an entry on read.
type Purpose int

const (
	// PurposeCurrent entries live for CurrentTTL.
	PurposeCurrent Purpose = iota
	// PurposeDaily entries live for DailyTTL and only within the calendar
	// day they were stored on.
	PurposeDaily
)

const (
	CurrentTTL = 10 * time.Minute
	DailyTTL   = 3 * time.Hour

	// freecache drops entries on its own after this long regardless of purpose.
	backstopTTL = DailyTTL + time.Minute

	dayKeyLayout = "2006-01-02"
	headerSize   = 8 + len(dayKeyLayout)

	// MinSizeMB keeps freecache's per-entry limit (size/1024) above a fully
	// enriched snapshot.
	MinSizeMB = 8
)

func (p Purpose) String() string {
	switch p {
	case PurposeCurrent:
		return "current"
	case PurposeDaily:
		return "daily"
	default:
		return "unknown"
	}
}

// TTL returns the maximum age of an entry read under p.
func (p Purpose) TTL() time.Duration {
	if p == PurposeDaily {
		return DailyTTL
	}
	return CurrentTTL
}

// Clock supplies the current time; tests inject a fixed one.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// freecacheTimer drives freecache's own expiry from the same clock.
type freecacheTimer struct{ clock Clock }

func (t freecacheTimer) Now() uint32 { return uint32(t.clock.Now().Unix()) }

// Store is a process-lifetime cache keyed by normalized location name. Stale
// entries are deleted when read; nothing sweeps them proactively.
type Store struct {
	cache   *freecache.Cache
	clock   Clock
	loc     *time.Location
	metrics metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLocation sets the time zone calendar days are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithMetrics records hits and misses.
func WithMetrics(m metrics.Recorder) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates a Store holding up to sizeMB megabytes, never less than
// MinSizeMB.
func New(sizeMB int, opts ...Option) *Store {
	s := &Store{
		clock:   ClockFunc(time.Now),
		loc:     time.Local,
		metrics: metrics.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	size := max(sizeMB, MinSizeMB) * 1024 * 1024
	s.cache = freecache.NewCacheCustomTimer(size, freecacheTimer{clock: s.clock})
	return s
}

// Get returns the payload stored under key if it is still fresh for purpose.
func (s *Store) Get(key string, purpose Purpose) ([]byte, bool) {
	raw, err := s.cache.Get([]byte(key))
	if err != nil {
		s.metrics.IncCacheMisses(purpose.String())
		return nil, false
	}

	if len(raw) < headerSize || !s.fresh(raw, purpose) {
		s.cache.Del([]byte(key))
		s.metrics.IncCacheMisses(purpose.String())
		return nil, false
	}

	s.metrics.IncCacheHits(purpose.String())
	return raw[headerSize:], true
}

// Set stores payload under key, replacing any previous entry.
func (s *Store) Set(key string, payload []byte, purpose Purpose) error {
	now := s.clock.Now()

	buf := make([]byte, headerSize+len(payload))
	binary.BigEndian.PutUint64(buf[:8], uint64(now.UnixNano()))
	copy(buf[8:headerSize], s.dayKey(now))
	copy(buf[headerSize:], payload)

	return s.cache.Set([]byte(key), buf, int(backstopTTL.Seconds()))
}

// Len reports the number of entries, expired ones included.
func (s *Store) Len() int64 {
	return s.cache.EntryCount()
}

func (s *Store) fresh(raw []byte, purpose Purpose) bool {
	now := s.clock.Now()
	storedAt := time.Unix(0, int64(binary.BigEndian.Uint64(raw[:8])))

	if now.Sub(storedAt) >= purpose.TTL() {
		return false
	}
	if purpose == PurposeDaily && string(raw[8:headerSize]) != s.dayKey(now) {
		return false
	}
	return true
}

func (s *Store) dayKey(t time.Time) string {
	return t.In(s.loc).Format(dayKeyLayout)
}
