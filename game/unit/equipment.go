package unit

import (
	"errors"
	"fmt"
	"slices"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/event"
)

var (
	ErrUnknownSlot = errors.New("unknown equipment slot")
	ErrNotHeld     = errors.New("item not in inventory")
)

// DefaultSlots are used when NewEquipmentSystem is given none.
var DefaultSlots = []string{"head", "body", "hands", "feet"}

// EquipmentSystem moves items between an entity's inventory and its slots.
type EquipmentSystem struct {
	ecs.SystemBase
	slots []string
	items ItemStore
}

func NewEquipmentSystem(slots []string) *EquipmentSystem {
	if len(slots) == 0 {
		slots = DefaultSlots
	}
	return &EquipmentSystem{
		SystemBase: ecs.NewSystemBase(NameEquipment, component.KindEquipment, component.KindInventory),
		slots:      slices.Clone(slots),
	}
}

func (s *EquipmentSystem) Initialize(w *ecs.World) error {
	s.Bind(w)
	items, err := ecs.Resolve[ItemStore](w, NameInventory)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// Equipped returns the item in slot.
func (s *EquipmentSystem) Equipped(owner ecs.EntityId, slot string) (string, bool) {
	eq, ok := ecs.Get[component.Equipment](s.World, owner)
	if !ok {
		return "", false
	}
	item, ok := eq.Slots[slot]
	return item, ok
}

// Equip takes item from owner's inventory and puts it in slot. Whatever the
// slot held is exchanged for it in one inventory step, so a full inventory
// never loses the old item.
func (s *EquipmentSystem) Equip(owner ecs.EntityId, slot, item string) error {
	if !slices.Contains(s.slots, slot) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	if old, occupied := s.Equipped(owner, slot); occupied {
		if !s.items.Swap(owner, item, old) {
			return fmt.Errorf("%w: %q", ErrNotHeld, item)
		}
		if eq, ok := ecs.Get[component.Equipment](s.World, owner); ok {
			delete(eq.Slots, slot)
		}
		s.World.Emit(event.ItemUnequipped{Entity: owner, Slot: slot, Item: old})
	} else if !s.items.TakeItem(owner, item, 1) {
		return fmt.Errorf("%w: %q", ErrNotHeld, item)
	}

	eq, ok := ecs.Get[component.Equipment](s.World, owner)
	if !ok {
		eq = &component.Equipment{}
		s.World.AddComponent(owner, eq)
	}
	if eq.Slots == nil {
		eq.Slots = make(map[string]string)
	}
	eq.Slots[slot] = item
	s.World.Emit(event.ItemEquipped{Entity: owner, Slot: slot, Item: item})
	return nil
}

// Unequip empties slot back into the inventory. It returns false when the
// slot was already empty or the inventory had no room.
func (s *EquipmentSystem) Unequip(owner ecs.EntityId, slot string) bool {
	eq, ok := ecs.Get[component.Equipment](s.World, owner)
	if !ok {
		return false
	}
	item, ok := eq.Slots[slot]
	if !ok {
		return false
	}
	if !s.items.AddItem(owner, item, 1) {
		return false
	}
	delete(eq.Slots, slot)
	s.World.Emit(event.ItemUnequipped{Entity: owner, Slot: slot, Item: item})
	return true
}
