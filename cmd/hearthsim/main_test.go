package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/village"
	"github.com/plus3/hearth/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRunWithSqliteStore(t *testing.T) {
	cfg := config.Config{
		Tick:      10 * time.Millisecond,
		Duration:  50 * time.Millisecond,
		SaveDB:    filepath.Join(t.TempDir(), "saves.db"),
		Slot:      "test",
		Entities:  5,
		Seed:      3,
		LogPrefix: "",
	}
	require.NoError(t, run(context.Background(), cfg, quietLogger(), false))
}

func TestReportGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	world, _ := village.NewSimulation(rng, ecs.WithLogger(quietLogger()))
	require.NoError(t, world.Initialize())
	village.SpawnVillagers(world, rng, 3)
	world.Update(0.5)

	report := &Report{
		Config:         config.Config{Duration: time.Second, Tick: 100 * time.Millisecond, Entities: 3},
		Scheduler:      world.Stats(),
		Storage:        world.CollectStats(),
		EventCounts:    map[ecs.EventKind]int{"starving": 1, "fed": 2},
		RestoreMatches: true,
	}
	report.UpdateTime.Samples = []time.Duration{3 * time.Millisecond, time.Millisecond}
	report.UpdateTime.Finalize()
	assert.Equal(t, time.Millisecond, report.UpdateTime.Min)
	assert.Equal(t, 2*time.Millisecond, report.UpdateTime.Avg)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "**director:** 1 runs")
	assert.Contains(t, out, "  - fed: 2\n  - starving: 1")
	assert.Contains(t, out, "**Round Trip Matches:** true")
}
