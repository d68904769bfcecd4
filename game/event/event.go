// Package event defines the closed set of events game systems exchange over
// the world's bus.
package event

import "github.com/plus3/hearth/ecs"

const (
	KindInventoryChanged ecs.EventKind = "inventory-changed"
	KindAffinityChanged  ecs.EventKind = "affinity-changed"
	KindCookingStarted   ecs.EventKind = "cooking-started"
	KindCookingCompleted ecs.EventKind = "cooking-completed"
	KindItemEquipped     ecs.EventKind = "item-equipped"
	KindItemUnequipped   ecs.EventKind = "item-unequipped"
	KindBuffApplied      ecs.EventKind = "buff-applied"
	KindBuffExpired      ecs.EventKind = "buff-expired"
	KindStarving         ecs.EventKind = "starving"
	KindFed              ecs.EventKind = "fed"
)

// InventoryChanged reports a change of Delta to Item, leaving Count held.
type InventoryChanged struct {
	Entity ecs.EntityId
	Item   string
	Delta  int
	Count  int
}

func (InventoryChanged) EventKind() ecs.EventKind { return KindInventoryChanged }

// AffinityChanged reports From's feeling toward To moving from Old to New.
type AffinityChanged struct {
	From ecs.EntityId
	To   ecs.EntityId
	Old  int
	New  int
}

func (AffinityChanged) EventKind() ecs.EventKind { return KindAffinityChanged }

type CookingStarted struct {
	Entity   ecs.EntityId
	Recipe   string
	Duration float64
}

func (CookingStarted) EventKind() ecs.EventKind { return KindCookingStarted }

// CookingCompleted is emitted when a dish is done. Nourishment is how much
// hunger eating it relieves.
type CookingCompleted struct {
	Entity      ecs.EntityId
	Recipe      string
	Dish        string
	Nourishment float64
}

func (CookingCompleted) EventKind() ecs.EventKind { return KindCookingCompleted }

type ItemEquipped struct {
	Entity ecs.EntityId
	Slot   string
	Item   string
}

func (ItemEquipped) EventKind() ecs.EventKind { return KindItemEquipped }

type ItemUnequipped struct {
	Entity ecs.EntityId
	Slot   string
	Item   string
}

func (ItemUnequipped) EventKind() ecs.EventKind { return KindItemUnequipped }

type BuffApplied struct {
	Entity   ecs.EntityId
	Name     string
	Duration float64
}

func (BuffApplied) EventKind() ecs.EventKind { return KindBuffApplied }

type BuffExpired struct {
	Entity ecs.EntityId
	Name   string
}

func (BuffExpired) EventKind() ecs.EventKind { return KindBuffExpired }

// Starving is emitted once when hunger reaches its maximum.
type Starving struct {
	Entity ecs.EntityId
}

func (Starving) EventKind() ecs.EventKind { return KindStarving }

type Fed struct {
	Entity ecs.EntityId
	Amount float64
}

func (Fed) EventKind() ecs.EventKind { return KindFed }

// Kinds lists every game event kind.
func Kinds() []ecs.EventKind {
	return []ecs.EventKind{
		KindInventoryChanged,
		KindAffinityChanged,
		KindCookingStarted,
		KindCookingCompleted,
		KindItemEquipped,
		KindItemUnequipped,
		KindBuffApplied,
		KindBuffExpired,
		KindStarving,
		KindFed,
	}
}
