package ecs

import "fmt"

// System is a behavior unit plugged into a World. Systems never hold the
// registry, store or bus directly; they go through the World handed to
// Initialize and find collaborators by name.
type System interface {
	// Name is the unique key other systems use to look this one up.
	Name() string
	// Interests lists the component kinds this system works with. It is
	// informational and does not filter scheduling.
	Interests() []Kind
	// Initialize is called once, in registration order, before the first Update.
	Initialize(w *World) error
	// Update is called once per tick, in registration order.
	Update(dt float64)
}

// SystemBase carries the boilerplate every system needs. Embed it and call
// Bind from Initialize.
type SystemBase struct {
	name      string
	interests []Kind
	World     *World
}

// NewSystemBase returns a base with the given name and component interests.
func NewSystemBase(name string, interests ...Kind) SystemBase {
	return SystemBase{name: name, interests: interests}
}

// Name implements System.
func (b *SystemBase) Name() string {
	return b.name
}

// Interests implements System.
func (b *SystemBase) Interests() []Kind {
	return b.interests
}

// Bind stores the world facade for later use.
func (b *SystemBase) Bind(w *World) {
	b.World = w
}

// Update is a no-op so purely event-driven systems need not define one.
func (b *SystemBase) Update(dt float64) {}

// Resolve looks up the system registered under name and asserts it provides
// capability C. Call it from Initialize and keep the result.
func Resolve[C any](w *World, name string) (C, error) {
	var zero C
	sys, ok := w.GetSystem(name)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrSystemNotFound, name)
	}
	capability, ok := sys.(C)
	if !ok {
		return zero, fmt.Errorf("system %q (%T) does not provide %T", name, sys, &zero)
	}
	return capability, nil
}
