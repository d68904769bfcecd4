package ecs

// Commands buffers structural changes requested during a tick. The World
// flushes them after every system has run, so a system can destroy entities
// while another one is still iterating them.
type Commands struct {
	destroys []EntityId
	adds     []addComponentCommand
	removes  []removeComponentCommand
	defers   []func()
	failures int64
}

func newCommands() *Commands {
	return &Commands{}
}

type addComponentCommand struct {
	entity    EntityId
	component Component
}

type removeComponentCommand struct {
	entity EntityId
	kind   Kind
}

// Defer queues a function to run at the end of the tick.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity EntityId) {
	c.destroys = append(c.destroys, entity)
}

// Add queues a component addition.
func (c *Commands) Add(entity EntityId, component Component) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// Remove queues a component removal.
func (c *Commands) Remove(entity EntityId, kind Kind) {
	c.removes = append(c.removes, removeComponentCommand{
		entity: entity,
		kind:   kind,
	})
}

// Pending reports whether any command is queued.
func (c *Commands) Pending() bool {
	return len(c.destroys)+len(c.adds)+len(c.removes)+len(c.defers) > 0
}

// Flush applies all queued commands to w and resets the buffer. Destroys run
// first; adds and removes aimed at an entity destroyed in the same flush are
// dropped. A command that panics is logged and counted, and the flush goes on
// with the next one.
func (c *Commands) Flush(w *World) {
	destroyed := make(map[EntityId]bool, len(c.destroys))

	// Swap the buffers out first: deferred functions may queue new commands,
	// which land in the next flush.
	destroys, removes, adds, defers := c.destroys, c.removes, c.adds, c.defers
	c.destroys, c.removes, c.adds, c.defers = nil, nil, nil, nil

	for _, id := range destroys {
		c.apply(w, "destroy", func() { w.DestroyEntity(id) })
		destroyed[id] = true
	}

	for _, cmd := range removes {
		if !destroyed[cmd.entity] {
			c.apply(w, "remove", func() { w.RemoveComponent(cmd.entity, cmd.kind) })
		}
	}

	for _, cmd := range adds {
		if !destroyed[cmd.entity] {
			c.apply(w, "add", func() { w.AddComponent(cmd.entity, cmd.component) })
		}
	}

	for _, fn := range defers {
		c.apply(w, "deferred function", fn)
	}
}

func (c *Commands) apply(w *World, what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.failures++
			w.logger.Printf("%s panicked during command flush: %v", what, r)
		}
	}()
	fn()
}

// Failures returns how many queued commands have panicked while flushing.
func (c *Commands) Failures() int64 {
	return c.failures
}
