// Package village wires the game units into a small self-running village
// used by the simulation and viewer commands.
package village

import (
	"fmt"
	"maps"
	"math/rand"
	"slices"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/unit"
)

// Recipes every cook may learn.
var Recipes = []unit.Recipe{
	{Name: "omelette", Ingredients: map[string]int{"egg": 2}, Duration: 2, Dish: "omelette", Nourishment: 30},
	{Name: "bread", Ingredients: map[string]int{"flour": 2, "water": 1}, Duration: 4, Dish: "bread", Nourishment: 20},
	{Name: "stew", Ingredients: map[string]int{"onion": 1, "carrot": 2, "water": 1}, Duration: 6, Dish: "stew", Nourishment: 50},
}

// Foods are raw items villagers can eat without cooking.
var Foods = map[string]float64{"carrot": 5, "egg": 8}

var (
	ingredients = []string{"egg", "flour", "water", "onion", "carrot"}
	gear        = map[string][]string{
		"head":  {"straw-hat", "iron-helm"},
		"body":  {"apron", "tunic"},
		"hands": {"oven-mitts"},
	}
	blessings = []component.Buff{
		{Name: "well-rested", Stat: "speed", Amount: 1, Remaining: 8},
		{Name: "warm", Stat: "defense", Amount: 2, Remaining: 5},
		{Name: "inspired", Stat: "cooking", Amount: 3, Remaining: 12},
	}
)

// DirectorName is the name the director system registers under.
const DirectorName = "director"

// NewSimulation builds a world with every game unit and the director.
func NewSimulation(rng *rand.Rand, opts ...ecs.WorldOption) (*ecs.World, *Director) {
	world := ecs.NewWorld(component.NewRegistry(), opts...)
	world.AddSystem(unit.NewInventorySystem())
	world.AddSystem(unit.NewAffinitySystem(unit.AffinityOptions{}))
	world.AddSystem(unit.NewCookingSystem(Recipes))
	world.AddSystem(unit.NewEquipmentSystem(nil))
	world.AddSystem(unit.NewBuffSystem())
	world.AddSystem(unit.NewHungerSystem(Foods))

	d := &Director{SystemBase: ecs.NewSystemBase(DirectorName), rng: rng}
	world.AddSystem(d)
	return world, d
}

// SpawnVillagers creates n villagers with a random starting pantry.
func SpawnVillagers(world *ecs.World, rng *rand.Rand, n int) {
	for i := 0; i < n; i++ {
		id := world.CreateEntity().Id

		tags := map[string]struct{}{"villager": {}}
		known := map[string]struct{}{}
		for _, r := range Recipes {
			if rng.Intn(2) == 0 {
				known[r.Name] = struct{}{}
			}
		}
		if len(known) > 0 {
			tags["cook"] = struct{}{}
			world.AddComponent(id, &component.Cooker{Known: known})
		}
		world.AddComponent(id, &component.Name{Value: fmt.Sprintf("villager-%03d", i+1), Tags: tags})
		world.AddComponent(id, &component.Hunger{Max: 100, Rate: 1 + rng.Float64()*2})

		items := make(map[string]int)
		for _, item := range ingredients {
			if n := rng.Intn(4); n > 0 {
				items[item] = n
			}
		}
		world.AddComponent(id, &component.Inventory{Items: items, Capacity: 60})
	}
}

// Director drives villagers: cooking when idle, eating when hungry, and
// occasionally trading gear, gossiping or receiving blessings.
type Director struct {
	ecs.SystemBase
	rng *rand.Rand

	items     unit.ItemStore
	feeder    unit.Feeder
	relations unit.RelationshipTracker
	cooking   *unit.CookingSystem
	equipment *unit.EquipmentSystem
	buffs     *unit.BuffSystem
	hunger    *unit.HungerSystem

	failedStarts int
}

// FailedStarts counts cooking attempts the cooking unit rejected.
func (d *Director) FailedStarts() int {
	return d.failedStarts
}

func (d *Director) Initialize(w *ecs.World) error {
	d.Bind(w)

	var err error
	if d.items, err = ecs.Resolve[unit.ItemStore](w, unit.NameInventory); err != nil {
		return err
	}
	if d.feeder, err = ecs.Resolve[unit.Feeder](w, unit.NameHunger); err != nil {
		return err
	}
	if d.relations, err = ecs.Resolve[unit.RelationshipTracker](w, unit.NameAffinity); err != nil {
		return err
	}
	if d.cooking, err = ecs.Resolve[*unit.CookingSystem](w, unit.NameCooking); err != nil {
		return err
	}
	if d.equipment, err = ecs.Resolve[*unit.EquipmentSystem](w, unit.NameEquipment); err != nil {
		return err
	}
	if d.buffs, err = ecs.Resolve[*unit.BuffSystem](w, unit.NameBuffs); err != nil {
		return err
	}
	if d.hunger, err = ecs.Resolve[*unit.HungerSystem](w, unit.NameHunger); err != nil {
		return err
	}
	return nil
}

func (d *Director) Update(dt float64) {
	villagers := d.World.EntitiesWithComponents(component.KindName, component.KindInventory)
	if len(villagers) == 0 {
		return
	}

	for _, id := range villagers {
		d.restock(id)
		d.feed(id)

		if cooker, ok := ecs.Get[component.Cooker](d.World, id); ok && !cooker.Active {
			d.cook(id, cooker)
		}

		switch roll := d.rng.Intn(100); {
		case roll < 5:
			other := villagers[d.rng.Intn(len(villagers))]
			d.relations.Adjust(id, other, d.rng.Intn(21)-10)
		case roll < 8:
			d.dress(id)
		case roll < 10:
			d.buffs.Apply(id, blessings[d.rng.Intn(len(blessings))])
		}
	}
}

func (d *Director) restock(id ecs.EntityId) {
	if d.rng.Intn(10) == 0 {
		d.items.AddItem(id, ingredients[d.rng.Intn(len(ingredients))], 1)
	}
}

func (d *Director) feed(id ecs.EntityId) {
	h, ok := ecs.Get[component.Hunger](d.World, id)
	if !ok || h.Current < h.Max/2 {
		return
	}
	for _, r := range Recipes {
		if d.hunger.Eat(id, r.Dish) == nil {
			return
		}
	}
	for _, item := range slices.Sorted(maps.Keys(Foods)) {
		if d.hunger.Eat(id, item) == nil {
			return
		}
	}
	if h.Starving {
		// Villagers share when someone is starving
		d.feeder.Feed(id, 10)
	}
}

func (d *Director) cook(id ecs.EntityId, cooker *component.Cooker) {
	r := Recipes[d.rng.Intn(len(Recipes))]
	if !cooker.Knows(r.Name) {
		return
	}
	if err := d.cooking.Start(id, r.Name); err != nil {
		d.failedStarts++
	}
}

func (d *Director) dress(id ecs.EntityId) {
	slots := slices.Sorted(maps.Keys(gear))
	slot := slots[d.rng.Intn(len(slots))]
	item := gear[slot][d.rng.Intn(len(gear[slot]))]
	if d.items.AddItem(id, item, 1) {
		if err := d.equipment.Equip(id, slot, item); err != nil {
			d.World.Logger().Printf("director: %v", err)
		}
	}
}

// Label names a villager for display, falling back to its id.
func Label(w *ecs.World, id ecs.EntityId) string {
	if name, ok := ecs.Get[component.Name](w, id); ok && name.Value != "" {
		return name.Value
	}
	return fmt.Sprintf("#%d", id)
}
