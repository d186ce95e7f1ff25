package producer

import "sync"

// SeenSet tracks review ids already published by this producer
// instance. Its lifecycle is the process lifetime: a restart starts
// empty, and downstream consumers must tolerate the resulting
// redeliveries.
type SeenSet interface {
	Seen(reviewID string) bool
	Add(reviewID string)
	Len() int
}

// MemorySeenSet is the in-memory SeenSet used in the deployed pipeline
type MemorySeenSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewMemorySeenSet creates an empty in-memory seen set
func NewMemorySeenSet() *MemorySeenSet {
	return &MemorySeenSet{
		ids: make(map[string]struct{}),
	}
}

// Seen reports whether the review id has been published before
func (s *MemorySeenSet) Seen(reviewID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[reviewID]
	return ok
}

// Add records a review id as published
func (s *MemorySeenSet) Add(reviewID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[reviewID] = struct{}{}
}

// Len returns the number of tracked review ids
func (s *MemorySeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
