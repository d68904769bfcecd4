package ecs

import "iter"

// ComponentReader is anything that can look up a component by entity and kind.
// Both *World and *Storage satisfy it.
type ComponentReader interface {
	GetComponent(id EntityId, kind Kind) (Component, bool)
}

// GetComponent implements ComponentReader.
func (s *Storage) GetComponent(id EntityId, kind Kind) (Component, bool) {
	return s.Get(id, kind)
}

// Get returns the typed component T attached to id.
func Get[T any, PT ComponentPtr[T]](r ComponentReader, id EntityId) (*T, bool) {
	c, ok := r.GetComponent(id, KindOf[T, PT]())
	if !ok {
		return nil, false
	}
	typed, ok := c.(PT)
	if !ok {
		return nil, false
	}
	return (*T)(typed), true
}

// Has reports whether id holds a component of type T.
func Has[T any, PT ComponentPtr[T]](r ComponentReader, id EntityId) bool {
	_, ok := Get[T, PT](r, id)
	return ok
}

// iterKind yields every (entity, component) pair of kind. The entity list is
// copied first, so systems may add or remove components while iterating;
// entries removed mid-iteration are skipped.
func (s *Storage) iterKind(kind Kind) iter.Seq2[EntityId, Component] {
	return func(yield func(EntityId, Component) bool) {
		ks, ok := s.stores[kind]
		if !ok {
			return
		}
		ids := make([]EntityId, len(ks.entities))
		copy(ids, ks.entities)

		for _, id := range ids {
			c, ok := ks.get(id)
			if !ok {
				continue
			}
			if !yield(id, c) {
				return
			}
		}
	}
}

// Each iterates every entity holding component T.
func Each[T any, PT ComponentPtr[T]](s *Storage) iter.Seq2[EntityId, *T] {
	return func(yield func(EntityId, *T) bool) {
		for id, c := range s.iterKind(KindOf[T, PT]()) {
			typed, ok := c.(PT)
			if !ok {
				continue
			}
			if !yield(id, (*T)(typed)) {
				return
			}
		}
	}
}

// Pair holds two components of one entity, as yielded by Each2.
type Pair[A, B any] struct {
	Id     EntityId
	First  *A
	Second *B
}

// Each2 iterates every entity holding both A and B.
func Each2[A any, B any, PA ComponentPtr[A], PB ComponentPtr[B]](s *Storage) iter.Seq[Pair[A, B]] {
	return func(yield func(Pair[A, B]) bool) {
		for id, a := range Each[A, PA](s) {
			b, ok := Get[B, PB](s, id)
			if !ok {
				continue
			}
			if !yield(Pair[A, B]{Id: id, First: a, Second: b}) {
				return
			}
		}
	}
}
