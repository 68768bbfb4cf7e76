// Package testutil provides deterministic test doubles for the dice packages.
package testutil

import (
	"sync"
	"testing"
)

// SequenceSource is a dice.Source that replays a fixed list of die faces,
// cycling when exhausted. It is safe for concurrent use.
type SequenceSource struct {
	mu    sync.Mutex
	faces []int
	next  int
	calls []int
}

// NewSequenceSource returns a SequenceSource that yields faces in order, so
// a group rolled against it produces exactly those face values.
//
// Precondition: faces must be non-empty and every face must be >= 1.
// Postcondition: The i-th Intn(n) call returns (faces[i%len(faces)]-1) % n.
func NewSequenceSource(t testing.TB, faces ...int) *SequenceSource {
	t.Helper()
	if len(faces) == 0 {
		t.Fatal("testutil: NewSequenceSource requires at least one face")
	}
	for _, f := range faces {
		if f < 1 {
			t.Fatalf("testutil: face %d must be >= 1", f)
		}
	}
	return &SequenceSource{faces: faces}
}

// Intn returns the next scripted face as a zero-based value in [0, n).
func (s *SequenceSource) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	face := s.faces[s.next%len(s.faces)]
	s.next++
	s.calls = append(s.calls, n)
	return (face - 1) % n
}

// Calls returns the n argument of every Intn call so far.
func (s *SequenceSource) Calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.calls))
	copy(out, s.calls)
	return out
}
