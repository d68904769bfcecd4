package unit

import (
	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/event"
)

// AffinityOptions bounds relationship levels. Zero values take the defaults.
type AffinityOptions struct {
	Min int
	Max int
}

const (
	DefaultMinAffinity = -100
	DefaultMaxAffinity = 100
)

// AffinitySystem tracks how entities feel about each other.
type AffinitySystem struct {
	ecs.SystemBase
	min, max int
}

var _ RelationshipTracker = (*AffinitySystem)(nil)

func NewAffinitySystem(opts AffinityOptions) *AffinitySystem {
	if opts.Min == 0 && opts.Max == 0 {
		opts.Min, opts.Max = DefaultMinAffinity, DefaultMaxAffinity
	}
	return &AffinitySystem{
		SystemBase: ecs.NewSystemBase(NameAffinity, component.KindAffinity),
		min:        opts.Min,
		max:        opts.Max,
	}
}

func (s *AffinitySystem) Initialize(w *ecs.World) error {
	s.Bind(w)
	return nil
}

// Level returns from's affinity toward to, zero when none is recorded.
func (s *AffinitySystem) Level(from, to ecs.EntityId) int {
	aff, ok := ecs.Get[component.Affinity](s.World, from)
	if !ok {
		return 0
	}
	return aff.Levels[to]
}

// SetLevel clamps level into range and stores it, emitting AffinityChanged if
// the stored value moved.
func (s *AffinitySystem) SetLevel(from, to ecs.EntityId, level int) {
	if from == to {
		return
	}
	level = max(s.min, min(s.max, level))

	aff, ok := ecs.Get[component.Affinity](s.World, from)
	if !ok {
		aff = &component.Affinity{}
		s.World.AddComponent(from, aff)
	}
	if aff.Levels == nil {
		aff.Levels = make(map[ecs.EntityId]int)
	}

	old := aff.Levels[to]
	if old == level {
		return
	}
	if level == 0 {
		delete(aff.Levels, to)
	} else {
		aff.Levels[to] = level
	}
	s.World.Emit(event.AffinityChanged{From: from, To: to, Old: old, New: level})
}

// Adjust moves from's affinity toward to by delta and returns the new level.
func (s *AffinitySystem) Adjust(from, to ecs.EntityId, delta int) int {
	s.SetLevel(from, to, s.Level(from, to)+delta)
	return s.Level(from, to)
}
