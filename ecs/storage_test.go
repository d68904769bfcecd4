package ecs_test

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/plus3/hearth/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageAddGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Add(5, &Hunger{Current: 0, Max: 100})

	comp, ok := storage.Get(5, KindHunger)
	require.True(t, ok)
	assert.Equal(t, &Hunger{Current: 0, Max: 100}, comp)

	_, ok = storage.Get(5, KindHealth)
	assert.False(t, ok)
	_, ok = storage.Get(6, KindHunger)
	assert.False(t, ok)
}

func TestStorageAddOverwrites(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Add(1, &Health{Current: 10, Max: 100})
	storage.Add(1, &Health{Current: 80, Max: 100})

	assert.Equal(t, 1, storage.Count(KindHealth))
	health, ok := ecs.Get[Health](storage, 1)
	require.True(t, ok)
	assert.Equal(t, 80, health.Current)
}

func TestStorageIgnoresNilComponents(t *testing.T) {
	world := newTestWorld()
	e := world.CreateEntity()

	world.AddComponent(e.Id, (*Health)(nil))
	world.AddComponent(e.Id, nil)

	health, ok := ecs.Get[Health](world, e.Id)
	assert.False(t, ok)
	assert.Nil(t, health)
	assert.Zero(t, world.Storage().Count(KindHealth))

	// A nil does not clear an existing component either
	world.AddComponent(e.Id, &Health{Current: 3})
	world.AddComponent(e.Id, (*Health)(nil))
	health, ok = ecs.Get[Health](world, e.Id)
	require.True(t, ok)
	assert.Equal(t, 3, health.Current)
}

func TestStorageNoOwnershipCheck(t *testing.T) {
	// Components may be attached to ids no registry has allocated
	storage := ecs.NewStorage(newTestRegistry())
	storage.Add(12345, &Name{Value: "ghost"})
	assert.True(t, storage.Has(12345, KindName))
}

func TestStorageMutationInPlace(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Add(1, &Position{X: 1, Y: 1})

	pos, ok := ecs.Get[Position](storage, 1)
	require.True(t, ok)
	pos.X = 42

	again, _ := ecs.Get[Position](storage, 1)
	assert.Equal(t, float32(42), again.X)
}

func TestStorageUnregisteredKindPanics(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry, "position")
	storage := ecs.NewStorage(registry)

	assert.Panics(t, func() {
		storage.Add(1, &Velocity{})
	})
	// Reads of unregistered kinds are simply empty
	assert.False(t, storage.Has(1, KindVelocity))
}

func TestStorageRemove(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Add(1, &Position{})
	storage.Add(2, &Position{})
	storage.Add(3, &Position{X: 3})

	assert.True(t, storage.Remove(1, KindPosition))
	assert.False(t, storage.Remove(1, KindPosition))
	assert.False(t, storage.Remove(1, KindVelocity))

	assert.False(t, storage.Has(1, KindPosition))
	assert.True(t, storage.Has(2, KindPosition))

	// The swapped slot still resolves to the right entity
	pos, ok := ecs.Get[Position](storage, 3)
	require.True(t, ok)
	assert.Equal(t, float32(3), pos.X)
}

func TestStorageRemoveAll(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Add(7, &TagA{})
	storage.Add(7, &TagB{})
	storage.Add(7, &TagC{})
	storage.Add(8, &TagA{})

	assert.Equal(t, 3, storage.RemoveAll(7))

	assert.False(t, storage.Has(7, KindA))
	assert.False(t, storage.Has(7, KindB))
	assert.False(t, storage.Has(7, KindC))
	assert.Empty(t, storage.EntityComponents(7))
	assert.True(t, storage.Has(8, KindA))
	assert.Equal(t, 0, storage.RemoveAll(7))
}

func TestStorageEntityComponentsOrderedByKind(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Add(1, &Name{Value: "a"})
	storage.Add(1, &Position{X: 1})
	storage.Add(1, &Health{Current: 5})

	components := storage.EntityComponents(1)
	require.Len(t, components, 3)
	assert.Equal(t, KindPosition, components[0].Kind())
	assert.Equal(t, KindHealth, components[1].Kind())
	assert.Equal(t, KindName, components[2].Kind())
}

func TestStorageQueries(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Add(1, &TagA{})
	storage.Add(1, &TagB{})
	storage.Add(2, &TagA{})
	storage.Add(3, &TagB{})
	storage.Add(3, &TagC{})
	storage.Add(4, &TagA{})
	storage.Add(4, &TagB{})
	storage.Add(4, &TagC{})

	tests := []struct {
		name  string
		kinds []ecs.Kind
		all   []ecs.EntityId
		any   []ecs.EntityId
	}{
		{"a", []ecs.Kind{KindA}, []ecs.EntityId{1, 2, 4}, []ecs.EntityId{1, 2, 4}},
		{"a+b", []ecs.Kind{KindA, KindB}, []ecs.EntityId{1, 4}, []ecs.EntityId{1, 2, 3, 4}},
		{"b+c", []ecs.Kind{KindB, KindC}, []ecs.EntityId{3, 4}, []ecs.EntityId{1, 3, 4}},
		{"a+b+c", []ecs.Kind{KindA, KindB, KindC}, []ecs.EntityId{4}, []ecs.EntityId{1, 2, 3, 4}},
		{"unused kind", []ecs.Kind{KindHealth}, []ecs.EntityId{}, []ecs.EntityId{}},
		{"a+unused", []ecs.Kind{KindA, KindHealth}, []ecs.EntityId{}, []ecs.EntityId{1, 2, 4}},
		{"duplicate kinds", []ecs.Kind{KindC, KindC}, []ecs.EntityId{3, 4}, []ecs.EntityId{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.all, storage.WithAll(tt.kinds...))
			assert.Equal(t, tt.any, storage.WithAny(tt.kinds...))
		})
	}

	t.Run("empty kinds", func(t *testing.T) {
		assert.Equal(t, []ecs.EntityId{1, 2, 3, 4}, storage.WithAll())
		assert.Empty(t, storage.WithAny())
	})
}

func TestStorageQueriesMatchSetAlgebra(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	kinds := []ecs.Kind{KindA, KindB, KindC, KindName}

	for round := 0; round < 50; round++ {
		t.Run(fmt.Sprintf("round=%d", round), func(t *testing.T) {
			storage := ecs.NewStorage(newTestRegistry())
			membership := make(map[ecs.Kind]map[ecs.EntityId]bool)
			for _, k := range kinds {
				membership[k] = make(map[ecs.EntityId]bool)
			}

			for id := ecs.EntityId(1); id <= 40; id++ {
				for _, k := range kinds {
					if rng.Intn(2) == 0 {
						continue
					}
					membership[k][id] = true
					switch k {
					case KindA:
						storage.Add(id, &TagA{})
					case KindB:
						storage.Add(id, &TagB{})
					case KindC:
						storage.Add(id, &TagC{})
					case KindName:
						storage.Add(id, &Name{})
					}
				}
			}

			var subset []ecs.Kind
			for _, k := range kinds {
				if rng.Intn(2) == 0 {
					subset = append(subset, k)
				}
			}
			if len(subset) == 0 {
				subset = []ecs.Kind{KindA}
			}

			var wantAll, wantAny []ecs.EntityId
			for id := ecs.EntityId(1); id <= 40; id++ {
				inAll, inAny := true, false
				for _, k := range subset {
					if membership[k][id] {
						inAny = true
					} else {
						inAll = false
					}
				}
				if inAll {
					wantAll = append(wantAll, id)
				}
				if inAny {
					wantAny = append(wantAny, id)
				}
			}

			gotAll := storage.WithAll(subset...)
			gotAny := storage.WithAny(subset...)
			assert.Equal(t, len(wantAll), len(gotAll))
			assert.Equal(t, len(wantAny), len(gotAny))
			for _, id := range wantAll {
				assert.True(t, slices.Contains(gotAll, id))
			}
			for _, id := range wantAny {
				assert.True(t, slices.Contains(gotAny, id))
			}
		})
	}
}

func TestStorageClear(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Add(1, &Position{})
	storage.Add(2, &Health{})

	storage.Clear()

	assert.Empty(t, storage.Entities())
	assert.Equal(t, 0, storage.Count(KindPosition))
	storage.Add(1, &Position{X: 9})
	assert.Equal(t, 1, storage.Count(KindPosition))
}

func TestTypedHelpers(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Add(1, &Position{X: 1})
	storage.Add(1, &Velocity{DX: 2})
	storage.Add(2, &Position{X: 10})
	storage.Add(3, &Velocity{DX: 30})

	assert.True(t, ecs.Has[Position](storage, 1))
	assert.False(t, ecs.Has[Velocity](storage, 2))

	seen := map[ecs.EntityId]float32{}
	for id, pos := range ecs.Each[Position](storage) {
		seen[id] = pos.X
	}
	assert.Equal(t, map[ecs.EntityId]float32{1: 1, 2: 10}, seen)

	count := 0
	for pair := range ecs.Each2[Position, Velocity](storage) {
		count++
		assert.Equal(t, ecs.EntityId(1), pair.Id)
		pair.First.X += pair.Second.DX
	}
	assert.Equal(t, 1, count)
	pos, _ := ecs.Get[Position](storage, 1)
	assert.Equal(t, float32(3), pos.X)
}

func TestEachToleratesRemovalDuringIteration(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for id := ecs.EntityId(1); id <= 5; id++ {
		storage.Add(id, &Health{Current: int(id)})
	}

	visited := 0
	for id := range ecs.Each[Health](storage) {
		visited++
		// Remove the next entity before it is reached
		storage.Remove(id+1, KindHealth)
	}
	assert.Equal(t, 3, visited)
}

func TestComponentRegistry(t *testing.T) {
	registry := newTestRegistry()

	kind, ok := registry.Lookup("hunger")
	require.True(t, ok)
	assert.Equal(t, KindHunger, kind)
	assert.Equal(t, "hunger", registry.Name(KindHunger))
	assert.Equal(t, KindHunger, ecs.KindOf[Hunger]())

	fresh := registry.New(KindHunger)
	assert.IsType(t, &Hunger{}, fresh)
	assert.Nil(t, registry.New(999))

	assert.Equal(t, []ecs.Kind{KindPosition, KindVelocity, KindHealth, KindHunger, KindName, KindA, KindB, KindC}, registry.Kinds())

	assert.Panics(t, func() {
		ecs.RegisterComponent[Hunger](registry, "hunger-again")
	})
}
