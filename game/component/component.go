// Package component defines the closed set of component kinds the game stores
// on entities.
package component

import "github.com/plus3/hearth/ecs"

const (
	KindName ecs.Kind = iota + 1
	KindHunger
	KindInventory
	KindAffinity
	KindCooker
	KindEquipment
	KindBuffs
)

// Name labels an entity for display and carries free-form tags.
type Name struct {
	Value string
	Tags  map[string]struct{}
}

func (*Name) Kind() ecs.Kind { return KindName }

// HasTag reports whether tag is set.
func (n *Name) HasTag(tag string) bool {
	_, ok := n.Tags[tag]
	return ok
}

// Hunger grows by Rate per second until it reaches Max.
type Hunger struct {
	Current  float64
	Max      float64
	Rate     float64
	Starving bool
}

func (*Hunger) Kind() ecs.Kind { return KindHunger }

// Inventory maps item names to positive counts. Capacity caps the total item
// count; zero means unlimited.
type Inventory struct {
	Items    map[string]int
	Capacity int
}

func (*Inventory) Kind() ecs.Kind { return KindInventory }

// Total returns the number of items held across all names.
func (inv *Inventory) Total() int {
	total := 0
	for _, n := range inv.Items {
		total += n
	}
	return total
}

// Affinity holds how the owning entity feels about other entities.
type Affinity struct {
	Levels map[ecs.EntityId]int
}

func (*Affinity) Kind() ecs.Kind { return KindAffinity }

// Cooker tracks a cook's known recipes and the dish in progress.
type Cooker struct {
	Known     map[string]struct{}
	Recipe    string
	Remaining float64
	Active    bool
}

func (*Cooker) Kind() ecs.Kind { return KindCooker }

// Knows reports whether recipe has been learned.
func (c *Cooker) Knows(recipe string) bool {
	_, ok := c.Known[recipe]
	return ok
}

// Equipment maps slot names to the item worn in them.
type Equipment struct {
	Slots map[string]string
}

func (*Equipment) Kind() ecs.Kind { return KindEquipment }

// Buff is one timed modifier of a stat.
type Buff struct {
	Name      string
	Stat      string
	Amount    int
	Remaining float64
}

// Buffs is the list of active buffs, at most one per name.
type Buffs struct {
	Active []Buff
}

func (*Buffs) Kind() ecs.Kind { return KindBuffs }

// Register adds every game component kind to registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Name](registry, "name")
	ecs.RegisterComponent[Hunger](registry, "hunger")
	ecs.RegisterComponent[Inventory](registry, "inventory")
	ecs.RegisterComponent[Affinity](registry, "affinity")
	ecs.RegisterComponent[Cooker](registry, "cooker")
	ecs.RegisterComponent[Equipment](registry, "equipment")
	ecs.RegisterComponent[Buffs](registry, "buffs")
}

// NewRegistry returns a registry holding every game component kind.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	Register(registry)
	return registry
}
