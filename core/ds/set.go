// Package ds provides generic data structures used by the actor runtime
// and its consumers.
package ds

import "fmt"

// Set is an insertion-ordered set with O(1) membership testing.
//
// Set is not safe for concurrent use. Inside an actor that is not a
// concern: the actor lock already serializes every access.
type Set[T comparable] struct {
	items map[T]struct{}
	order []T
}

// NewSet creates a set holding the given items.
func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{items: make(map[T]struct{}, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *Set[T]) String() string {
	return fmt.Sprintf("%v", s.order)
}

// Add adds v to the set and reports whether it was newly added.
func (s *Set[T]) Add(v T) bool {
	if s.Contains(v) {
		return false
	}
	s.items[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

// Remove removes v from the set and reports whether it was present.
// This operation is O(n) in the set size.
func (s *Set[T]) Remove(v T) bool {
	if !s.Contains(v) {
		return false
	}
	delete(s.items, v)
	for i, o := range s.order {
		if o == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.items[v]
	return ok
}

// Len returns the number of elements in the set.
func (s *Set[T]) Len() int { return len(s.items) }

// IsEmpty reports whether the set has no elements.
func (s *Set[T]) IsEmpty() bool { return len(s.items) == 0 }

// Values returns a copy of the elements in insertion order.
func (s *Set[T]) Values() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}
