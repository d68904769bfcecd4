package persist

import (
	"cmp"
	"slices"

	"github.com/rotisserie/eris"
)

// Pair is one key/value entry of an encoded map.
type Pair[K cmp.Ordered, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Pairs is the canonical encoding of a keyed collection: an ordered list of
// key/value entries sorted by key.
type Pairs[K cmp.Ordered, V any] []Pair[K, V]

// PairsFromMap encodes m with entries sorted by key.
func PairsFromMap[K cmp.Ordered, V any](m map[K]V) Pairs[K, V] {
	pairs := make(Pairs[K, V], 0, len(m))
	for k, v := range m {
		pairs = append(pairs, Pair[K, V]{Key: k, Value: v})
	}
	slices.SortFunc(pairs, func(a, b Pair[K, V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return pairs
}

// Map decodes the pairs. A repeated key is an error.
func (p Pairs[K, V]) Map() (map[K]V, error) {
	m := make(map[K]V, len(p))
	for _, pair := range p {
		if _, dup := m[pair.Key]; dup {
			return nil, eris.Errorf("duplicate key %v", pair.Key)
		}
		m[pair.Key] = pair.Value
	}
	return m, nil
}

// Elements is the canonical encoding of a unique-element collection: an
// ascending list.
type Elements[T cmp.Ordered] []T

// ElementsFromSet encodes s in ascending order.
func ElementsFromSet[T cmp.Ordered](s map[T]struct{}) Elements[T] {
	elements := make(Elements[T], 0, len(s))
	for v := range s {
		elements = append(elements, v)
	}
	slices.Sort(elements)
	return elements
}

// Set decodes the elements. A repeated element is an error.
func (e Elements[T]) Set() (map[T]struct{}, error) {
	s := make(map[T]struct{}, len(e))
	for _, v := range e {
		if _, dup := s[v]; dup {
			return nil, eris.Errorf("duplicate element %v", v)
		}
		s[v] = struct{}{}
	}
	return s, nil
}
