package code

import (
	"slices"
	"sync"
)

// Seen is the set of codes already issued in a session. It only grows.
// A Seen is safe for concurrent use.
type Seen struct {
	mu    sync.RWMutex
	codes map[string]struct{}
}

// NewSeen creates a set holding the given codes.
func NewSeen(codes ...string) *Seen {
	s := &Seen{codes: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		s.codes[c] = struct{}{}
	}
	return s
}

// Add inserts c and reports whether it was not already present.
// The check and insert are atomic.
func (s *Seen) Add(c string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.codes[c]; ok {
		return false
	}
	s.codes[c] = struct{}{}
	return true
}

// AddAll inserts every code and returns how many were new.
func (s *Seen) AddAll(codes []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, c := range codes {
		if _, ok := s.codes[c]; !ok {
			s.codes[c] = struct{}{}
			added++
		}
	}
	return added
}

// Contains reports whether c has been issued.
func (s *Seen) Contains(c string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.codes[c]
	return ok
}

// Len returns the number of codes in the set.
func (s *Seen) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.codes)
}

// Codes returns the codes in sorted order.
func (s *Seen) Codes() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}
