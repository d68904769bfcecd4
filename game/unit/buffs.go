package unit

import (
	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/event"
)

// BuffSystem counts down timed buffs and drops them when they run out.
type BuffSystem struct {
	ecs.SystemBase
}

func NewBuffSystem() *BuffSystem {
	return &BuffSystem{SystemBase: ecs.NewSystemBase(NameBuffs, component.KindBuffs)}
}

func (s *BuffSystem) Initialize(w *ecs.World) error {
	s.Bind(w)
	return nil
}

// Apply adds buff to target. A buff with the same name is replaced, which
// refreshes its duration.
func (s *BuffSystem) Apply(target ecs.EntityId, buff component.Buff) {
	if buff.Name == "" || buff.Remaining <= 0 {
		return
	}
	buffs, ok := ecs.Get[component.Buffs](s.World, target)
	if !ok {
		buffs = &component.Buffs{}
		s.World.AddComponent(target, buffs)
	}

	replaced := false
	for i := range buffs.Active {
		if buffs.Active[i].Name == buff.Name {
			buffs.Active[i] = buff
			replaced = true
			break
		}
	}
	if !replaced {
		buffs.Active = append(buffs.Active, buff)
	}
	s.World.Emit(event.BuffApplied{Entity: target, Name: buff.Name, Duration: buff.Remaining})
}

// Total sums the amounts of target's active buffs on stat.
func (s *BuffSystem) Total(target ecs.EntityId, stat string) int {
	buffs, ok := ecs.Get[component.Buffs](s.World, target)
	if !ok {
		return 0
	}
	total := 0
	for _, b := range buffs.Active {
		if b.Stat == stat {
			total += b.Amount
		}
	}
	return total
}

func (s *BuffSystem) Update(dt float64) {
	for id, buffs := range ecs.Each[component.Buffs](s.World.Storage()) {
		var expired []string
		kept := buffs.Active[:0]
		for _, b := range buffs.Active {
			b.Remaining -= dt
			if b.Remaining <= 0 {
				expired = append(expired, b.Name)
				continue
			}
			kept = append(kept, b)
		}
		clear(buffs.Active[len(kept):])
		buffs.Active = kept

		for _, name := range expired {
			s.World.Emit(event.BuffExpired{Entity: id, Name: name})
		}
	}
}
