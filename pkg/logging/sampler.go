package logging

import (
	"sync"
)

// ErrorSampler thins out repeated errors: the first occurrence of a key is
// logged, then every Nth.
type ErrorSampler struct {
	mu       sync.Mutex
	counts   map[string]int
	interval int
}

// NewErrorSampler returns a sampler logging every interval-th occurrence.
// Values below 1 fall back to 10.
func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		counts:   make(map[string]int),
		interval: interval,
	}
}

// ShouldLog counts one occurrence of key and reports whether to log it.
func (s *ErrorSampler) ShouldLog(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[key]++
	count := s.counts[key]
	return count == 1 || count%s.interval == 0
}

// GetCount returns how many times key has been seen.
func (s *ErrorSampler) GetCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key]
}

// Reset forgets key, so its next occurrence is logged again.
func (s *ErrorSampler) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, key)
}
