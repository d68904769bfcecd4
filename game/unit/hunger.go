package unit

import (
	"errors"
	"fmt"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/event"
)

var (
	ErrNotFood  = errors.New("item is not food")
	ErrNoHunger = errors.New("entity does not get hungry")
)

// HungerSystem grows hunger over time and relieves it when food is eaten.
// Foods maps an item name to how much hunger eating one relieves.
type HungerSystem struct {
	ecs.SystemBase
	foods map[string]float64
	items ItemStore
}

var _ Feeder = (*HungerSystem)(nil)

func NewHungerSystem(foods map[string]float64) *HungerSystem {
	s := &HungerSystem{
		SystemBase: ecs.NewSystemBase(NameHunger, component.KindHunger),
		foods:      make(map[string]float64, len(foods)),
	}
	for item, n := range foods {
		s.foods[item] = n
	}
	return s
}

func (s *HungerSystem) Initialize(w *ecs.World) error {
	s.Bind(w)
	items, err := ecs.Resolve[ItemStore](w, NameInventory)
	if err != nil {
		return err
	}
	s.items = items

	// Cooked dishes are worth their recipe's nourishment when eaten later
	ecs.On(w.Bus(), func(done event.CookingCompleted, _ ecs.Envelope) {
		if done.Dish != "" && done.Nourishment > 0 {
			if _, known := s.foods[done.Dish]; !known {
				s.foods[done.Dish] = done.Nourishment
			}
		}
	})
	return nil
}

func (s *HungerSystem) Update(dt float64) {
	for id, h := range ecs.Each[component.Hunger](s.World.Storage()) {
		h.Current = min(h.Max, h.Current+h.Rate*dt)
		if h.Current >= h.Max && !h.Starving {
			h.Starving = true
			s.World.Emit(event.Starving{Entity: id})
		}
	}
}

// Feed lowers entity's hunger by amount. It returns false when the entity has
// no hunger to feed.
func (s *HungerSystem) Feed(entity ecs.EntityId, amount float64) bool {
	h, ok := ecs.Get[component.Hunger](s.World, entity)
	if !ok || amount <= 0 {
		return false
	}
	h.Current = max(0, h.Current-amount)
	if h.Current < h.Max {
		h.Starving = false
	}
	s.World.Emit(event.Fed{Entity: entity, Amount: amount})
	return true
}

// Eat consumes one item from entity's inventory and feeds its nourishment.
func (s *HungerSystem) Eat(entity ecs.EntityId, item string) error {
	value, ok := s.foods[item]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFood, item)
	}
	if !ecs.Has[component.Hunger](s.World, entity) {
		return fmt.Errorf("%w: entity %d", ErrNoHunger, entity)
	}
	if !s.items.TakeItem(entity, item, 1) {
		return fmt.Errorf("%w: %q", ErrNotHeld, item)
	}
	s.Feed(entity, value)
	return nil
}
