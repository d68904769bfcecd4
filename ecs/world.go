package ecs

import (
	"context"
	"errors"
	"log"
	"os"
	"time"
)

var (
	// ErrSystemNotFound is returned by Resolve when no system has the name.
	ErrSystemNotFound = errors.New("system not found")
	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("world already initialized")
)

// State is the lifecycle state of a World.
type State int

const (
	StateUninitialized State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

func defaultLogger() *log.Logger {
	return log.New(os.Stderr, "ecs: ", log.LstdFlags)
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger used for isolated failures.
func WithLogger(logger *log.Logger) WorldOption {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock overrides the clock stamping emitted events.
func WithClock(clock func() time.Time) WorldOption {
	return func(w *World) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// World is the composition root. It owns the entity registry, the component
// store, the event bus and the registered systems, and is the only surface
// systems use to reach any of them.
type World struct {
	entities  *EntityRegistry
	storage   *Storage
	bus       *EventBus
	scheduler *scheduler
	commands  *Commands
	state     State
	ticks     int64
	logger    *log.Logger
	clock     func() time.Time
}

// NewWorld creates a world storing the component kinds in registry.
func NewWorld(registry *ComponentRegistry, opts ...WorldOption) *World {
	w := &World{
		logger: defaultLogger(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.entities = NewEntityRegistry()
	w.storage = NewStorage(registry)
	w.bus = NewEventBus(w.clock, w.logger)
	w.scheduler = newScheduler(w.logger)
	w.commands = newCommands()
	return w
}

// Entities returns the entity registry.
func (w *World) Entities() *EntityRegistry { return w.entities }

// Storage returns the component store.
func (w *World) Storage() *Storage { return w.storage }

// Bus returns the event bus.
func (w *World) Bus() *EventBus { return w.bus }

// Commands returns the deferred command buffer flushed after each tick.
func (w *World) Commands() *Commands { return w.commands }

// Logger returns the world's logger.
func (w *World) Logger() *log.Logger { return w.logger }

// State returns the lifecycle state.
func (w *World) State() State { return w.state }

// Ticks returns how many times Update has run.
func (w *World) Ticks() int64 { return w.ticks }

// Now reads the world's clock.
func (w *World) Now() time.Time { return w.clock() }

// CreateEntity allocates an entity, optionally with an explicit id.
func (w *World) CreateEntity(explicit ...EntityId) Entity {
	return w.entities.Create(explicit...)
}

// DestroyEntity removes id and every component attached to it.
// It returns false if id was not live.
func (w *World) DestroyEntity(id EntityId) bool {
	if !w.entities.Destroy(id) {
		return false
	}
	w.storage.RemoveAll(id)
	return true
}

// HasEntity reports whether id is live.
func (w *World) HasEntity(id EntityId) bool {
	return w.entities.Exists(id)
}

// GetEntity returns the entity for id if it is live.
func (w *World) GetEntity(id EntityId) (Entity, bool) {
	return w.entities.Get(id)
}

// AllEntities returns every live entity in creation order.
func (w *World) AllEntities() []Entity {
	return w.entities.List()
}

// AddComponent attaches c to id, overwriting any component of the same kind.
func (w *World) AddComponent(id EntityId, c Component) {
	w.storage.Add(id, c)
}

// GetComponent implements ComponentReader.
func (w *World) GetComponent(id EntityId, kind Kind) (Component, bool) {
	return w.storage.Get(id, kind)
}

// HasComponent reports whether id holds a component of kind.
func (w *World) HasComponent(id EntityId, kind Kind) bool {
	return w.storage.Has(id, kind)
}

// RemoveComponent detaches the component of kind from id.
func (w *World) RemoveComponent(id EntityId, kind Kind) bool {
	return w.storage.Remove(id, kind)
}

// EntityComponents returns every component attached to id.
func (w *World) EntityComponents(id EntityId) []Component {
	return w.storage.EntityComponents(id)
}

// EntitiesWithComponents returns the entities holding all of kinds. With no
// kinds it returns every live entity.
func (w *World) EntitiesWithComponents(kinds ...Kind) []EntityId {
	if len(kinds) == 0 {
		return w.entities.Ids()
	}
	return w.storage.WithAll(kinds...)
}

// EntitiesWithAnyComponent returns the entities holding at least one of kinds.
// With no kinds it returns nothing.
func (w *World) EntitiesWithAnyComponent(kinds ...Kind) []EntityId {
	return w.storage.WithAny(kinds...)
}

// AddSystem registers a system. Systems run in registration order. Adding a
// system after Initialize, or two systems with one name, panics.
func (w *World) AddSystem(system System) {
	if w.state != StateUninitialized {
		panic("cannot add system " + system.Name() + " after initialize")
	}
	w.scheduler.register(system)
}

// GetSystem returns the system registered under name.
func (w *World) GetSystem(name string) (System, bool) {
	return w.scheduler.lookup(name)
}

// Systems returns the registered systems in registration order.
func (w *World) Systems() []System {
	systems := make([]System, len(w.scheduler.systems))
	copy(systems, w.scheduler.systems)
	return systems
}

// Initialize calls Initialize on every system once, in registration order.
// A failing system is logged and does not stop the others; all failures are
// joined into the returned error.
func (w *World) Initialize() error {
	if w.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	w.state = StateRunning
	return w.scheduler.initialize(w)
}

// Update runs every system once with dt, then flushes deferred commands.
func (w *World) Update(dt float64) {
	if w.state != StateRunning {
		w.logger.Printf("update called on %s world, ignoring", w.state)
		return
	}
	w.scheduler.once(dt)
	w.ticks++
	if w.commands.Pending() {
		w.commands.Flush(w)
	}
}

// Run calls Update at the given interval until the context is cancelled.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			w.Update(dt)
		}
	}
}

// Subscribe registers handler for kind on the world's bus.
func (w *World) Subscribe(kind EventKind, handler Handler) Subscription {
	return w.bus.Subscribe(kind, handler)
}

// Unsubscribe removes a handler from the world's bus.
func (w *World) Unsubscribe(kind EventKind, sub Subscription) bool {
	return w.bus.Unsubscribe(kind, sub)
}

// Emit publishes ev synchronously.
func (w *World) Emit(ev Event) {
	w.bus.Emit(ev)
}

// Reset drops every entity and component and rewinds the id counter. Systems
// and subscriptions are kept. Snapshot restore uses it before recreating state.
func (w *World) Reset() {
	w.storage.Clear()
	w.entities.Reset()
}

// Stats returns per-system execution statistics.
func (w *World) Stats() *SchedulerStats {
	return w.scheduler.stats()
}
