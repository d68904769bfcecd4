package ecs

import (
	"fmt"
	"slices"
)

// Kind identifies one category of component data. Two components share a kind
// only if they are the same category of data.
type Kind uint16

// Component is a plain data record attached to an entity. Implementations are
// pointer types to structs so systems can mutate them in place.
type Component interface {
	Kind() Kind
}

// ComponentPtr constrains PT to be a pointer to T that implements Component.
type ComponentPtr[T any] interface {
	*T
	Component
}

type kindInfo struct {
	kind    Kind
	name    string
	factory func() Component
}

// ComponentRegistry holds the closed set of component kinds a world may store.
// Each World has its own registry so independent worlds never interfere.
type ComponentRegistry struct {
	kinds  map[Kind]kindInfo
	byName map[string]Kind
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		kinds:  make(map[Kind]kindInfo),
		byName: make(map[string]Kind),
	}
}

// KindOf returns the kind of component type T without needing an instance.
func KindOf[T any, PT ComponentPtr[T]]() Kind {
	return PT(new(T)).Kind()
}

// RegisterComponent registers component type T under name. It must be called for
// each component type before it can be stored. Registering two types under the
// same kind or the same name panics.
func RegisterComponent[T any, PT ComponentPtr[T]](r *ComponentRegistry, name string) {
	kind := KindOf[T, PT]()
	if existing, ok := r.kinds[kind]; ok {
		panic(fmt.Sprintf("component kind %d already registered as %q", kind, existing.name))
	}
	if _, ok := r.byName[name]; ok {
		panic("component name " + name + " already registered")
	}

	r.kinds[kind] = kindInfo{
		kind: kind,
		name: name,
		factory: func() Component {
			return PT(new(T))
		},
	}
	r.byName[name] = kind
}

// Registered reports whether kind is part of this registry.
func (r *ComponentRegistry) Registered(kind Kind) bool {
	_, ok := r.kinds[kind]
	return ok
}

// Name returns the registered name of kind, or "" if unknown.
func (r *ComponentRegistry) Name(kind Kind) string {
	return r.kinds[kind].name
}

// Lookup resolves a registered name back to its kind.
func (r *ComponentRegistry) Lookup(name string) (Kind, bool) {
	kind, ok := r.byName[name]
	return kind, ok
}

// New returns a zero-valued instance of kind, or nil if kind is unknown.
func (r *ComponentRegistry) New(kind Kind) Component {
	info, ok := r.kinds[kind]
	if !ok {
		return nil
	}
	return info.factory()
}

// Kinds returns every registered kind in ascending order.
func (r *ComponentRegistry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.kinds))
	for kind := range r.kinds {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
