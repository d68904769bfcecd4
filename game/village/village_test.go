package village

import (
	"io"
	"log"
	"math/rand"
	"testing"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSimulationStaysConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	world, director := NewSimulation(rng, ecs.WithLogger(quietLogger()))
	require.NoError(t, world.Initialize())
	SpawnVillagers(world, rng, 20)

	for i := 0; i < 200; i++ {
		world.Update(0.1)
	}

	assert.Equal(t, int64(0), world.Stats().TotalFailures)
	assert.GreaterOrEqual(t, director.FailedStarts(), 0)
	for id, inv := range ecs.Each[component.Inventory](world.Storage()) {
		assert.LessOrEqual(t, inv.Total(), inv.Capacity, "entity %d", id)
		for item, n := range inv.Items {
			assert.Positive(t, n, "entity %d item %s", id, item)
		}
	}
	for id, h := range ecs.Each[component.Hunger](world.Storage()) {
		assert.GreaterOrEqual(t, h.Current, 0.0, "entity %d", id)
		assert.LessOrEqual(t, h.Current, h.Max, "entity %d", id)
	}
}

func TestSimulationIsDeterministic(t *testing.T) {
	snapshot := func() map[ecs.EntityId]map[string]int {
		rng := rand.New(rand.NewSource(7))
		world, _ := NewSimulation(rng, ecs.WithLogger(quietLogger()))
		require.NoError(t, world.Initialize())
		SpawnVillagers(world, rng, 8)
		for i := 0; i < 50; i++ {
			world.Update(0.25)
		}
		out := make(map[ecs.EntityId]map[string]int)
		for id, inv := range ecs.Each[component.Inventory](world.Storage()) {
			out[id] = inv.Items
		}
		return out
	}

	assert.Equal(t, snapshot(), snapshot())
}

func TestSpawnVillagers(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	world, _ := NewSimulation(rng, ecs.WithLogger(quietLogger()))
	require.NoError(t, world.Initialize())
	SpawnVillagers(world, rng, 5)

	ids := world.EntitiesWithComponents(component.KindName, component.KindHunger, component.KindInventory)
	require.Len(t, ids, 5)
	for _, id := range ids {
		name, _ := ecs.Get[component.Name](world, id)
		assert.True(t, name.HasTag("villager"))
		_, isCook := ecs.Get[component.Cooker](world, id)
		assert.Equal(t, isCook, name.HasTag("cook"))
	}
	assert.Equal(t, "villager-001", Label(world, ids[0]))
}

func TestLabelFallsBackToId(t *testing.T) {
	world, _ := NewSimulation(rand.New(rand.NewSource(1)), ecs.WithLogger(quietLogger()))
	id := world.CreateEntity().Id
	assert.Equal(t, "#1", Label(world, id))
}
