package ecs

import "github.com/kamstrup/intmap"

// EntityId is an opaque, positive entity identifier. Zero is never allocated.
type EntityId uint64

// Entity is an inert identity value. All data lives in components.
type Entity struct {
	Id EntityId
}

const firstEntityId EntityId = 1

// EntityRegistry allocates entity ids and tracks which entities are live.
// Ids are never reused within one registry lifetime.
type EntityRegistry struct {
	next  EntityId
	slots []EntityId // creation order, 0 marks a destroyed slot
	index *intmap.Map[EntityId, int]
	dead  int
}

// NewEntityRegistry creates an empty registry whose first auto id is 1.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{
		next:  firstEntityId,
		slots: make([]EntityId, 0, 256),
		index: intmap.New[EntityId, int](256),
	}
}

// Create allocates a new entity. With an explicit id the id is used as is and the
// auto counter is advanced past it when needed, so ids restored from a save never
// collide with fresh ones. Creating an id that is already live returns that entity.
func (r *EntityRegistry) Create(explicit ...EntityId) Entity {
	var id EntityId
	if len(explicit) > 0 && explicit[0] != 0 {
		id = explicit[0]
		if id >= r.next {
			r.next = id + 1
		}
		if _, ok := r.index.Get(id); ok {
			return Entity{Id: id}
		}
	} else {
		id = r.next
		r.next++
	}

	r.index.Put(id, len(r.slots))
	r.slots = append(r.slots, id)
	return Entity{Id: id}
}

// Exists reports whether id is live.
func (r *EntityRegistry) Exists(id EntityId) bool {
	_, ok := r.index.Get(id)
	return ok
}

// Get returns the entity for id if it is live.
func (r *EntityRegistry) Get(id EntityId) (Entity, bool) {
	if !r.Exists(id) {
		return Entity{}, false
	}
	return Entity{Id: id}, true
}

// Destroy forgets id. It returns false if id was not live.
// The auto counter is left untouched.
func (r *EntityRegistry) Destroy(id EntityId) bool {
	pos, ok := r.index.Get(id)
	if !ok {
		return false
	}
	r.index.Del(id)
	r.slots[pos] = 0
	r.dead++

	if r.dead > 64 && r.dead > len(r.slots)/2 {
		r.compact()
	}
	return true
}

// compact drops destroyed slots while keeping creation order.
func (r *EntityRegistry) compact() {
	write := 0
	for _, id := range r.slots {
		if id == 0 {
			continue
		}
		r.slots[write] = id
		r.index.Put(id, write)
		write++
	}
	clear(r.slots[write:])
	r.slots = r.slots[:write]
	r.dead = 0
}

// List returns all live entities in creation order.
func (r *EntityRegistry) List() []Entity {
	entities := make([]Entity, 0, r.Count())
	for _, id := range r.slots {
		if id != 0 {
			entities = append(entities, Entity{Id: id})
		}
	}
	return entities
}

// Ids returns all live entity ids in creation order.
func (r *EntityRegistry) Ids() []EntityId {
	ids := make([]EntityId, 0, r.Count())
	for _, id := range r.slots {
		if id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// Count returns the number of live entities.
func (r *EntityRegistry) Count() int {
	return r.index.Len()
}

// Next returns the id the next auto allocation will use.
func (r *EntityRegistry) Next() EntityId {
	return r.next
}

// Advance moves the auto counter forward to at least next. It never moves it back.
func (r *EntityRegistry) Advance(next EntityId) {
	if next > r.next {
		r.next = next
	}
}

// Reset clears every entity and rewinds the counter to its initial value.
// Only snapshot restore and tests should call this.
func (r *EntityRegistry) Reset() {
	r.next = firstEntityId
	r.slots = r.slots[:0]
	r.index.Clear()
	r.dead = 0
}
