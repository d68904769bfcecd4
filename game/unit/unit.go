// Package unit holds the game's behavior units. Each is an ecs.System that
// other units reach by name through the capability interfaces declared here.
package unit

import "github.com/plus3/hearth/ecs"

const (
	NameAffinity  = "affinity"
	NameInventory = "inventory"
	NameCooking   = "cooking"
	NameEquipment = "equipment"
	NameBuffs     = "buffs"
	NameHunger    = "hunger"
)

// RelationshipTracker is provided by the affinity unit.
type RelationshipTracker interface {
	Level(from, to ecs.EntityId) int
	SetLevel(from, to ecs.EntityId, level int)
	Adjust(from, to ecs.EntityId, delta int) int
}

// ItemStore is provided by the inventory unit.
type ItemStore interface {
	Count(owner ecs.EntityId, item string) int
	AddItem(owner ecs.EntityId, item string, n int) bool
	TakeItem(owner ecs.EntityId, item string, n int) bool
	Swap(owner ecs.EntityId, take, give string) bool
}

// Feeder is provided by the hunger unit.
type Feeder interface {
	Feed(entity ecs.EntityId, amount float64) bool
}

// Defaults returns one of each unit with default settings and no recipes, in
// the order they should be added to a world.
func Defaults() []ecs.System {
	return []ecs.System{
		NewInventorySystem(),
		NewAffinitySystem(AffinityOptions{}),
		NewCookingSystem(nil),
		NewEquipmentSystem(nil),
		NewBuffSystem(),
		NewHungerSystem(nil),
	}
}
