package unit

import (
	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/event"
)

// InventorySystem owns item counts. Finished dishes land in the cook's
// inventory.
type InventorySystem struct {
	ecs.SystemBase
}

var _ ItemStore = (*InventorySystem)(nil)

func NewInventorySystem() *InventorySystem {
	return &InventorySystem{
		SystemBase: ecs.NewSystemBase(NameInventory, component.KindInventory),
	}
}

func (s *InventorySystem) Initialize(w *ecs.World) error {
	s.Bind(w)
	ecs.On(w.Bus(), func(done event.CookingCompleted, _ ecs.Envelope) {
		if done.Dish == "" {
			return
		}
		if !s.AddItem(done.Entity, done.Dish, 1) {
			w.Logger().Printf("inventory: no room for %s on entity %d", done.Dish, done.Entity)
		}
	})
	return nil
}

// Count returns how many of item owner holds.
func (s *InventorySystem) Count(owner ecs.EntityId, item string) int {
	inv, ok := ecs.Get[component.Inventory](s.World, owner)
	if !ok {
		return 0
	}
	return inv.Items[item]
}

// AddItem gives owner n of item, creating the inventory if needed. It fails
// when n is not positive or the inventory would exceed its capacity.
func (s *InventorySystem) AddItem(owner ecs.EntityId, item string, n int) bool {
	if n <= 0 || item == "" {
		return false
	}
	inv, ok := ecs.Get[component.Inventory](s.World, owner)
	if !ok {
		inv = &component.Inventory{}
		s.World.AddComponent(owner, inv)
	}
	if inv.Capacity > 0 && inv.Total()+n > inv.Capacity {
		return false
	}
	if inv.Items == nil {
		inv.Items = make(map[string]int)
	}
	inv.Items[item] += n
	s.World.Emit(event.InventoryChanged{Entity: owner, Item: item, Delta: n, Count: inv.Items[item]})
	return true
}

// TakeItem removes n of item from owner. It fails without change when owner
// holds fewer than n.
func (s *InventorySystem) TakeItem(owner ecs.EntityId, item string, n int) bool {
	if n <= 0 {
		return false
	}
	inv, ok := ecs.Get[component.Inventory](s.World, owner)
	if !ok || inv.Items[item] < n {
		return false
	}
	inv.Items[item] -= n
	left := inv.Items[item]
	if left == 0 {
		delete(inv.Items, item)
	}
	s.World.Emit(event.InventoryChanged{Entity: owner, Item: item, Delta: -n, Count: left})
	return true
}

// Swap takes one take from owner and gives one give back in a single step,
// so the exchange needs no free room. It fails without change when owner
// does not hold take.
func (s *InventorySystem) Swap(owner ecs.EntityId, take, give string) bool {
	if take == "" || give == "" {
		return false
	}
	inv, ok := ecs.Get[component.Inventory](s.World, owner)
	if !ok || inv.Items[take] < 1 {
		return false
	}
	if take == give {
		return true
	}
	inv.Items[take]--
	left := inv.Items[take]
	if left == 0 {
		delete(inv.Items, take)
	}
	inv.Items[give]++
	got := inv.Items[give]
	s.World.Emit(event.InventoryChanged{Entity: owner, Item: take, Delta: -1, Count: left})
	s.World.Emit(event.InventoryChanged{Entity: owner, Item: give, Delta: 1, Count: got})
	return true
}
