// Package entity provides the handle-indexed storage substrate used by the
// tiling engine. Entities are addressed by stable opaque handles so tree
// nodes can hold parent back-references without pointer cycles.
package entity

// Handle identifies one stored entity. The zero handle is never allocated
// and acts as the "absent" sentinel everywhere a reference is optional.
type Handle uint32

// None is the absent handle.
const None Handle = 0

// IsSome reports whether the handle refers to an entity.
func (h Handle) IsSome() bool {
	return h != None
}

// Store is a generic arena keyed by Handle. Deleted handles are never
// reissued, which keeps stale back-references detectable as lookup misses
// instead of silently aliasing a new entity.
type Store[T any] struct {
	items map[Handle]*T
	next  Handle
}

// NewStore returns an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[Handle]*T), next: 1}
}

// Create stores value under a fresh handle and returns the handle.
func (s *Store[T]) Create(value T) Handle {
	h := s.next
	s.next++
	s.items[h] = &value
	return h
}

// Insert replaces the entity stored under an existing handle. Inserting
// under None is a no-op.
func (s *Store[T]) Insert(h Handle, value T) {
	if h == None {
		return
	}
	s.items[h] = &value
	if h >= s.next {
		s.next = h + 1
	}
}

// Get returns the entity for h, or ok=false if h is absent or was deleted.
func (s *Store[T]) Get(h Handle) (*T, bool) {
	v, ok := s.items[h]
	return v, ok
}

// Delete removes the entity for h. Deleting an absent handle is a no-op.
func (s *Store[T]) Delete(h Handle) {
	delete(s.items, h)
}

// Contains reports whether h refers to a live entity.
func (s *Store[T]) Contains(h Handle) bool {
	_, ok := s.items[h]
	return ok
}

// Len returns the number of live entities.
func (s *Store[T]) Len() int {
	return len(s.items)
}

// Each calls fn for every live entity until fn returns false. Iteration
// order is unspecified.
func (s *Store[T]) Each(fn func(Handle, *T) bool) {
	for h, v := range s.items {
		if !fn(h, v) {
			return
		}
	}
}
