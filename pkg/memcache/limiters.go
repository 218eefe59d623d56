// Package memcache keeps short-lived per-client state in process memory.
package memcache

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type LimiterStore interface {
	// Allow reports whether key may make another request now.
	Allow(key string) bool
	// Sweep drops limiters idle for longer than the store's TTL.
	Sweep() int
	Len() int
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiters struct {
	mu    sync.Mutex
	data  map[string]*entry
	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time
}

func NewLimiters(perSecond float64, burst int, ttl time.Duration) *Limiters {
	if burst <= 0 {
		burst = 1
	}
	return &Limiters{
		data:  make(map[string]*entry),
		limit: rate.Limit(perSecond),
		burst: burst,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Limiters) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.data[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.data[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func (s *Limiters) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for k, e := range s.data {
		if e.lastSeen.Before(cutoff) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

func (s *Limiters) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
