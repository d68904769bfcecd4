package ecs

import (
	"reflect"
	"slices"
	"strconv"

	"github.com/kamstrup/intmap"
)

// kindStorage is a sparse set holding every instance of one component kind.
// Dense slices keep iteration cheap; the intmap maps an entity to its slot.
type kindStorage struct {
	kind     Kind
	index    *intmap.Map[EntityId, int]
	entities []EntityId
	data     []Component
}

func newKindStorage(kind Kind) *kindStorage {
	return &kindStorage{
		kind:     kind,
		index:    intmap.New[EntityId, int](64),
		entities: make([]EntityId, 0, 64),
		data:     make([]Component, 0, 64),
	}
}

func (ks *kindStorage) set(id EntityId, c Component) {
	if pos, ok := ks.index.Get(id); ok {
		ks.data[pos] = c
		return
	}
	ks.index.Put(id, len(ks.entities))
	ks.entities = append(ks.entities, id)
	ks.data = append(ks.data, c)
}

func (ks *kindStorage) get(id EntityId) (Component, bool) {
	pos, ok := ks.index.Get(id)
	if !ok {
		return nil, false
	}
	return ks.data[pos], true
}

func (ks *kindStorage) has(id EntityId) bool {
	_, ok := ks.index.Get(id)
	return ok
}

// remove swaps the last slot into the removed one.
func (ks *kindStorage) remove(id EntityId) bool {
	pos, ok := ks.index.Get(id)
	if !ok {
		return false
	}

	last := len(ks.entities) - 1
	if pos != last {
		moved := ks.entities[last]
		ks.entities[pos] = moved
		ks.data[pos] = ks.data[last]
		ks.index.Put(moved, pos)
	}
	ks.data[last] = nil
	ks.entities = ks.entities[:last]
	ks.data = ks.data[:last]
	ks.index.Del(id)
	return true
}

func (ks *kindStorage) len() int {
	return len(ks.entities)
}

func (ks *kindStorage) clear() {
	clear(ks.data)
	ks.entities = ks.entities[:0]
	ks.data = ks.data[:0]
	ks.index.Clear()
}

// Storage maps each entity to at most one component per kind.
// It does not check entity liveness; components may be attached to ids the
// registry does not know about.
type Storage struct {
	registry *ComponentRegistry
	stores   map[Kind]*kindStorage
	kinds    []Kind // kinds with a store, ascending
}

// NewStorage creates a component store bound to the given registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry: registry,
		stores:   make(map[Kind]*kindStorage),
	}
}

// Registry returns the component registry backing this storage.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func (s *Storage) storeFor(kind Kind) *kindStorage {
	if ks, ok := s.stores[kind]; ok {
		return ks
	}
	if !s.registry.Registered(kind) {
		panic("component kind " + kindLabel(kind) + " not registered")
	}

	ks := newKindStorage(kind)
	s.stores[kind] = ks
	pos, _ := slices.BinarySearch(s.kinds, kind)
	s.kinds = slices.Insert(s.kinds, pos, kind)
	return ks
}

// Add attaches c to id, replacing any component of the same kind. A nil
// component, typed or not, is ignored so Get never hands out a nil pointer.
func (s *Storage) Add(id EntityId, c Component) {
	if isNilComponent(c) {
		return
	}
	s.storeFor(c.Kind()).set(id, c)
}

// Get returns the component of kind attached to id.
func (s *Storage) Get(id EntityId, kind Kind) (Component, bool) {
	ks, ok := s.stores[kind]
	if !ok {
		return nil, false
	}
	return ks.get(id)
}

// Has reports whether id holds a component of kind.
func (s *Storage) Has(id EntityId, kind Kind) bool {
	ks, ok := s.stores[kind]
	if !ok {
		return false
	}
	return ks.has(id)
}

// Remove detaches the component of kind from id. It returns false if there was none.
func (s *Storage) Remove(id EntityId, kind Kind) bool {
	ks, ok := s.stores[kind]
	if !ok {
		return false
	}
	return ks.remove(id)
}

// RemoveAll detaches every component of every kind from id and returns how many
// were removed.
func (s *Storage) RemoveAll(id EntityId) int {
	removed := 0
	for _, kind := range s.kinds {
		if s.stores[kind].remove(id) {
			removed++
		}
	}
	return removed
}

// EntityComponents returns every component attached to id, ordered by kind.
func (s *Storage) EntityComponents(id EntityId) []Component {
	var components []Component
	for _, kind := range s.kinds {
		if c, ok := s.stores[kind].get(id); ok {
			components = append(components, c)
		}
	}
	return components
}

// Entities returns every entity holding at least one component, ascending.
func (s *Storage) Entities() []EntityId {
	return s.WithAny(s.kinds...)
}

// WithAll returns the entities holding every one of kinds, ascending.
// With no kinds it returns every entity known to the store.
func (s *Storage) WithAll(kinds ...Kind) []EntityId {
	if len(kinds) == 0 {
		return s.Entities()
	}

	var smallest *kindStorage
	for _, kind := range kinds {
		ks, ok := s.stores[kind]
		if !ok || ks.len() == 0 {
			return []EntityId{}
		}
		if smallest == nil || ks.len() < smallest.len() {
			smallest = ks
		}
	}

	result := make([]EntityId, 0, smallest.len())
	for _, id := range smallest.entities {
		matches := true
		for _, kind := range kinds {
			if !s.stores[kind].has(id) {
				matches = false
				break
			}
		}
		if matches {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

// WithAny returns the entities holding at least one of kinds, each once, ascending.
// With no kinds it returns an empty result.
func (s *Storage) WithAny(kinds ...Kind) []EntityId {
	seen := intmap.New[EntityId, struct{}](64)
	result := make([]EntityId, 0)
	for _, kind := range kinds {
		ks, ok := s.stores[kind]
		if !ok {
			continue
		}
		for _, id := range ks.entities {
			if _, dup := seen.Get(id); dup {
				continue
			}
			seen.Put(id, struct{}{})
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

// Count returns the number of components of kind.
func (s *Storage) Count(kind Kind) int {
	ks, ok := s.stores[kind]
	if !ok {
		return 0
	}
	return ks.len()
}

// Clear drops every component of every kind.
func (s *Storage) Clear() {
	for _, ks := range s.stores {
		ks.clear()
	}
}

func isNilComponent(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func kindLabel(kind Kind) string {
	return "#" + strconv.Itoa(int(kind))
}
