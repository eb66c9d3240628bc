package store

import "sync"

// Sequence hands out strictly increasing ids for one entity type.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

// NewSequence returns a sequence whose first Next is initial.
func NewSequence(initial int64) *Sequence {
	return &Sequence{next: initial}
}

// Next returns the next unused id.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

// Reset rearms the sequence so the next call to Next returns to.
func (s *Sequence) Reset(to int64) {
	s.mu.Lock()
	s.next = to
	s.mu.Unlock()
}
