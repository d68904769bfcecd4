package unit_test

import (
	"io"
	"log"
	"testing"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/event"
	"github.com/plus3/hearth/game/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var omelette = unit.Recipe{
	Name:        "omelette",
	Ingredients: map[string]int{"egg": 2},
	Duration:    3,
	Dish:        "omelette",
	Nourishment: 40,
}

type units struct {
	world     *ecs.World
	inventory *unit.InventorySystem
	affinity  *unit.AffinitySystem
	cooking   *unit.CookingSystem
	equipment *unit.EquipmentSystem
	buffs     *unit.BuffSystem
	hunger    *unit.HungerSystem
}

func newUnits(t *testing.T) *units {
	t.Helper()
	u := &units{
		world:     ecs.NewWorld(component.NewRegistry(), ecs.WithLogger(log.New(io.Discard, "", 0))),
		inventory: unit.NewInventorySystem(),
		affinity:  unit.NewAffinitySystem(unit.AffinityOptions{}),
		cooking:   unit.NewCookingSystem([]unit.Recipe{omelette}),
		equipment: unit.NewEquipmentSystem(nil),
		buffs:     unit.NewBuffSystem(),
		hunger:    unit.NewHungerSystem(map[string]float64{"bread": 10}),
	}
	// Dependents first: collaborators resolve by name regardless of order
	u.world.AddSystem(u.cooking)
	u.world.AddSystem(u.hunger)
	u.world.AddSystem(u.inventory)
	u.world.AddSystem(u.affinity)
	u.world.AddSystem(u.equipment)
	u.world.AddSystem(u.buffs)
	require.NoError(t, u.world.Initialize())
	return u
}

// record subscribes to kinds and appends each event's kind to the result.
func record(w *ecs.World, kinds ...ecs.EventKind) *[]ecs.Event {
	var seen []ecs.Event
	for _, kind := range kinds {
		w.Subscribe(kind, func(env ecs.Envelope) { seen = append(seen, env.Event) })
	}
	return &seen
}

func TestDefaultsInitialize(t *testing.T) {
	world := ecs.NewWorld(component.NewRegistry(), ecs.WithLogger(log.New(io.Discard, "", 0)))
	for _, sys := range unit.Defaults() {
		world.AddSystem(sys)
	}
	require.NoError(t, world.Initialize())
	assert.Len(t, world.Systems(), 6)
}

func TestCookingNeedsInventory(t *testing.T) {
	world := ecs.NewWorld(component.NewRegistry(), ecs.WithLogger(log.New(io.Discard, "", 0)))
	world.AddSystem(unit.NewCookingSystem(nil))
	err := world.Initialize()
	assert.ErrorIs(t, err, ecs.ErrSystemNotFound)
}

func TestInventory(t *testing.T) {
	u := newUnits(t)
	seen := record(u.world, event.KindInventoryChanged)
	owner := u.world.CreateEntity().Id

	assert.Equal(t, 0, u.inventory.Count(owner, "egg"))
	assert.True(t, u.inventory.AddItem(owner, "egg", 3))
	assert.Equal(t, 3, u.inventory.Count(owner, "egg"))
	assert.True(t, u.world.HasComponent(owner, component.KindInventory))

	assert.False(t, u.inventory.TakeItem(owner, "egg", 4))
	assert.True(t, u.inventory.TakeItem(owner, "egg", 3))
	assert.Equal(t, 0, u.inventory.Count(owner, "egg"))

	inv, _ := ecs.Get[component.Inventory](u.world, owner)
	assert.NotContains(t, inv.Items, "egg")

	assert.False(t, u.inventory.AddItem(owner, "egg", 0))
	assert.False(t, u.inventory.TakeItem(owner, "egg", -1))

	assert.Equal(t, []ecs.Event{
		event.InventoryChanged{Entity: owner, Item: "egg", Delta: 3, Count: 3},
		event.InventoryChanged{Entity: owner, Item: "egg", Delta: -3, Count: 0},
	}, *seen)
}

func TestInventoryCapacity(t *testing.T) {
	u := newUnits(t)
	owner := u.world.CreateEntity().Id
	u.world.AddComponent(owner, &component.Inventory{Capacity: 3})

	assert.True(t, u.inventory.AddItem(owner, "egg", 2))
	assert.False(t, u.inventory.AddItem(owner, "flour", 2))
	assert.True(t, u.inventory.AddItem(owner, "flour", 1))
}

func TestAffinity(t *testing.T) {
	u := newUnits(t)
	seen := record(u.world, event.KindAffinityChanged)
	a := u.world.CreateEntity().Id
	b := u.world.CreateEntity().Id

	assert.Equal(t, 0, u.affinity.Level(a, b))
	assert.Equal(t, 30, u.affinity.Adjust(a, b, 30))
	assert.Equal(t, 0, u.affinity.Level(b, a))

	u.affinity.SetLevel(a, b, 500)
	assert.Equal(t, unit.DefaultMaxAffinity, u.affinity.Level(a, b))

	// Unchanged levels and self-affinity are silent
	u.affinity.SetLevel(a, b, unit.DefaultMaxAffinity)
	u.affinity.SetLevel(a, a, 10)

	assert.Equal(t, []ecs.Event{
		event.AffinityChanged{From: a, To: b, Old: 0, New: 30},
		event.AffinityChanged{From: a, To: b, Old: 30, New: 100},
	}, *seen)
}

func TestAffinityCustomRange(t *testing.T) {
	world := ecs.NewWorld(component.NewRegistry(), ecs.WithLogger(log.New(io.Discard, "", 0)))
	affinity := unit.NewAffinitySystem(unit.AffinityOptions{Min: -5, Max: 5})
	world.AddSystem(affinity)
	require.NoError(t, world.Initialize())

	assert.Equal(t, -5, affinity.Adjust(1, 2, -40))
}

func TestCookingCompletionStocksInventory(t *testing.T) {
	u := newUnits(t)
	cook := u.world.CreateEntity().Id
	u.inventory.AddItem(cook, "egg", 2)
	require.NoError(t, u.cooking.Learn(cook, "omelette"))

	require.NoError(t, u.cooking.Start(cook, "omelette"))
	assert.Equal(t, 0, u.inventory.Count(cook, "egg"))

	var order []string
	ecs.On(u.world.Bus(), func(e event.InventoryChanged, _ ecs.Envelope) {
		order = append(order, "inventory:"+e.Item)
	})
	ecs.On(u.world.Bus(), func(e event.CookingCompleted, _ ecs.Envelope) {
		order = append(order, "completed:"+e.Recipe)
	})

	u.world.Update(2)
	assert.Empty(t, order)

	u.world.Update(1)
	// The inventory unit reacts to completion before later subscribers see it
	assert.Equal(t, []string{"inventory:omelette", "completed:omelette"}, order)
	assert.Equal(t, 1, u.inventory.Count(cook, "omelette"))

	cooker, _ := ecs.Get[component.Cooker](u.world, cook)
	assert.False(t, cooker.Active)
	assert.Empty(t, cooker.Recipe)
}

func TestCookingStartFailures(t *testing.T) {
	u := newUnits(t)
	cook := u.world.CreateEntity().Id

	assert.ErrorIs(t, u.cooking.Start(cook, "souffle"), unit.ErrUnknownRecipe)
	assert.ErrorIs(t, u.cooking.Start(cook, "omelette"), unit.ErrNotACook)

	u.world.AddComponent(cook, &component.Cooker{})
	assert.ErrorIs(t, u.cooking.Start(cook, "omelette"), unit.ErrRecipeNotLearned)

	require.NoError(t, u.cooking.Learn(cook, "omelette"))
	u.inventory.AddItem(cook, "egg", 1)
	assert.ErrorIs(t, u.cooking.Start(cook, "omelette"), unit.ErrMissingIngredients)
	assert.Equal(t, 1, u.inventory.Count(cook, "egg"))

	u.inventory.AddItem(cook, "egg", 3)
	require.NoError(t, u.cooking.Start(cook, "omelette"))
	assert.ErrorIs(t, u.cooking.Start(cook, "omelette"), unit.ErrAlreadyCooking)
	assert.Equal(t, 2, u.inventory.Count(cook, "egg"))
}

func TestEquipment(t *testing.T) {
	u := newUnits(t)
	seen := record(u.world, event.KindItemEquipped, event.KindItemUnequipped)
	owner := u.world.CreateEntity().Id
	u.inventory.AddItem(owner, "straw-hat", 1)
	u.inventory.AddItem(owner, "iron-helm", 1)

	assert.ErrorIs(t, u.equipment.Equip(owner, "tail", "straw-hat"), unit.ErrUnknownSlot)
	assert.ErrorIs(t, u.equipment.Equip(owner, "head", "crown"), unit.ErrNotHeld)

	require.NoError(t, u.equipment.Equip(owner, "head", "straw-hat"))
	require.NoError(t, u.equipment.Equip(owner, "head", "iron-helm"))

	item, ok := u.equipment.Equipped(owner, "head")
	require.True(t, ok)
	assert.Equal(t, "iron-helm", item)
	assert.Equal(t, 1, u.inventory.Count(owner, "straw-hat"))
	assert.Equal(t, 0, u.inventory.Count(owner, "iron-helm"))

	assert.True(t, u.equipment.Unequip(owner, "head"))
	assert.False(t, u.equipment.Unequip(owner, "head"))
	assert.Equal(t, 1, u.inventory.Count(owner, "iron-helm"))

	assert.Equal(t, []ecs.Event{
		event.ItemEquipped{Entity: owner, Slot: "head", Item: "straw-hat"},
		event.ItemUnequipped{Entity: owner, Slot: "head", Item: "straw-hat"},
		event.ItemEquipped{Entity: owner, Slot: "head", Item: "iron-helm"},
		event.ItemUnequipped{Entity: owner, Slot: "head", Item: "iron-helm"},
	}, *seen)
}

func TestEquipFullInventoryKeepsOldItem(t *testing.T) {
	u := newUnits(t)
	owner := u.world.CreateEntity().Id
	// Already over capacity, as after a load with a smaller limit
	u.world.AddComponent(owner, &component.Inventory{
		Items:    map[string]int{"iron-helm": 1, "bread": 1},
		Capacity: 1,
	})
	u.world.AddComponent(owner, &component.Equipment{Slots: map[string]string{"head": "straw-hat"}})

	require.NoError(t, u.equipment.Equip(owner, "head", "iron-helm"))

	item, ok := u.equipment.Equipped(owner, "head")
	require.True(t, ok)
	assert.Equal(t, "iron-helm", item)
	assert.Equal(t, 1, u.inventory.Count(owner, "straw-hat"))
	assert.Equal(t, 0, u.inventory.Count(owner, "iron-helm"))
	assert.Equal(t, 1, u.inventory.Count(owner, "bread"))
}

func TestEquipSurvivesRefillingHandler(t *testing.T) {
	u := newUnits(t)
	owner := u.world.CreateEntity().Id
	u.world.AddComponent(owner, &component.Inventory{Capacity: 1})
	require.True(t, u.inventory.AddItem(owner, "straw-hat", 1))
	require.NoError(t, u.equipment.Equip(owner, "head", "straw-hat"))
	require.True(t, u.inventory.AddItem(owner, "iron-helm", 1))

	// Fill any room freed by the swap before the slot is updated
	ecs.On(u.world.Bus(), func(ev event.InventoryChanged, _ ecs.Envelope) {
		if ev.Delta < 0 {
			u.inventory.AddItem(owner, "pebble", 1)
		}
	})

	require.NoError(t, u.equipment.Equip(owner, "head", "iron-helm"))
	item, _ := u.equipment.Equipped(owner, "head")
	assert.Equal(t, "iron-helm", item)
	assert.Equal(t, 1, u.inventory.Count(owner, "straw-hat"))
	assert.Equal(t, 0, u.inventory.Count(owner, "pebble"))
}

func TestInventorySwap(t *testing.T) {
	u := newUnits(t)
	seen := record(u.world, event.KindInventoryChanged)
	owner := u.world.CreateEntity().Id

	assert.False(t, u.inventory.Swap(owner, "egg", "flour"))
	u.world.AddComponent(owner, &component.Inventory{Items: map[string]int{"egg": 1}, Capacity: 1})
	*seen = nil

	assert.False(t, u.inventory.Swap(owner, "flour", "egg"))
	assert.False(t, u.inventory.Swap(owner, "egg", ""))
	assert.True(t, u.inventory.Swap(owner, "egg", "flour"))
	assert.Equal(t, 0, u.inventory.Count(owner, "egg"))
	assert.Equal(t, 1, u.inventory.Count(owner, "flour"))

	assert.Equal(t, []ecs.Event{
		event.InventoryChanged{Entity: owner, Item: "egg", Delta: -1, Count: 0},
		event.InventoryChanged{Entity: owner, Item: "flour", Delta: 1, Count: 1},
	}, *seen)
}

func TestBuffs(t *testing.T) {
	u := newUnits(t)
	seen := record(u.world, event.KindBuffExpired)
	target := u.world.CreateEntity().Id

	u.buffs.Apply(target, component.Buff{Name: "warm", Stat: "defense", Amount: 2, Remaining: 5})
	u.buffs.Apply(target, component.Buff{Name: "fed", Stat: "defense", Amount: 1, Remaining: 2})
	u.buffs.Apply(target, component.Buff{Name: "broken", Remaining: 0})
	assert.Equal(t, 3, u.buffs.Total(target, "defense"))
	assert.Equal(t, 0, u.buffs.Total(target, "speed"))

	u.world.Update(2)
	assert.Equal(t, 2, u.buffs.Total(target, "defense"))
	assert.Equal(t, []ecs.Event{event.BuffExpired{Entity: target, Name: "fed"}}, *seen)

	// Reapplying refreshes the duration
	u.buffs.Apply(target, component.Buff{Name: "warm", Stat: "defense", Amount: 2, Remaining: 10})
	u.world.Update(4)
	assert.Equal(t, 2, u.buffs.Total(target, "defense"))

	buffs, _ := ecs.Get[component.Buffs](u.world, target)
	require.Len(t, buffs.Active, 1)
	assert.InDelta(t, 6, buffs.Active[0].Remaining, 1e-9)
}

func TestHunger(t *testing.T) {
	u := newUnits(t)
	seen := record(u.world, event.KindStarving, event.KindFed)
	villager := u.world.CreateEntity().Id
	u.world.AddComponent(villager, &component.Hunger{Current: 0, Max: 10, Rate: 4})

	u.world.Update(2)
	u.world.Update(2)
	u.world.Update(2)

	h, _ := ecs.Get[component.Hunger](u.world, villager)
	assert.Equal(t, 10.0, h.Current)
	assert.True(t, h.Starving)

	assert.ErrorIs(t, u.hunger.Eat(villager, "bread"), unit.ErrNotHeld)
	u.inventory.AddItem(villager, "bread", 1)
	require.NoError(t, u.hunger.Eat(villager, "bread"))
	assert.Equal(t, 0.0, h.Current)
	assert.False(t, h.Starving)
	assert.ErrorIs(t, u.hunger.Eat(villager, "rock"), unit.ErrNotFood)

	stone := u.world.CreateEntity().Id
	u.inventory.AddItem(stone, "bread", 1)
	assert.ErrorIs(t, u.hunger.Eat(stone, "bread"), unit.ErrNoHunger)
	assert.Equal(t, 1, u.inventory.Count(stone, "bread"))

	assert.Equal(t, []ecs.Event{
		event.Starving{Entity: villager},
		event.Fed{Entity: villager, Amount: 10},
	}, *seen)
}

func TestCookedDishesBecomeFood(t *testing.T) {
	u := newUnits(t)
	cook := u.world.CreateEntity().Id
	u.world.AddComponent(cook, &component.Hunger{Current: 50, Max: 100})
	u.inventory.AddItem(cook, "egg", 2)
	require.NoError(t, u.cooking.Learn(cook, "omelette"))
	require.NoError(t, u.cooking.Start(cook, "omelette"))

	u.world.Update(5)
	require.NoError(t, u.hunger.Eat(cook, "omelette"))

	h, _ := ecs.Get[component.Hunger](u.world, cook)
	assert.Equal(t, 10.0, h.Current)
}
