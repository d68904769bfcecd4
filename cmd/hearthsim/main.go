// Command hearthsim runs a headless village simulation, saves it to a slot,
// loads it back into a fresh world and prints a report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/event"
	"github.com/plus3/hearth/game/village"
	"github.com/plus3/hearth/internal/config"
	"github.com/plus3/hearth/persist"
	"github.com/plus3/hearth/persist/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	flag.DurationVar(&cfg.Duration, "duration", cfg.Duration, "How long the simulation runs.")
	flag.DurationVar(&cfg.Tick, "tick", cfg.Tick, "Simulated time per update.")
	flag.IntVar(&cfg.Entities, "entities", cfg.Entities, "Number of villagers to spawn.")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for the director.")
	flag.StringVar(&cfg.SaveDB, "db", cfg.SaveDB, "SQLite save file. Empty keeps saves in memory.")
	flag.StringVar(&cfg.Slot, "slot", cfg.Slot, "Save slot name.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Include GC pause metrics in the report.")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}

	logger := log.New(os.Stderr, cfg.LogPrefix, log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, logger, *gcPauseMetrics); err != nil {
		logger.Fatalf("hearthsim: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *log.Logger, gcPauseMetrics bool) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	world, director := village.NewSimulation(rng, ecs.WithLogger(logger))

	report := &Report{
		Config:         cfg,
		GCPauseMetrics: gcPauseMetrics,
		EventCounts:    make(map[ecs.EventKind]int),
	}
	for _, kind := range event.Kinds() {
		world.Subscribe(kind, func(env ecs.Envelope) { report.EventCounts[env.Kind]++ })
	}

	if err := world.Initialize(); err != nil {
		return fmt.Errorf("initialize world: %w", err)
	}

	logger.Printf("spawning %d villagers", cfg.Entities)
	village.SpawnVillagers(world, rng, cfg.Entities)

	runtime.ReadMemStats(&report.MemStatsStart)
	logger.Printf("running simulation for %s", cfg.Duration)

	simCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	dt := cfg.Tick.Seconds()
	startTime := time.Now()
Loop:
	for {
		select {
		case <-simCtx.Done():
			break Loop
		default:
			updateStart := time.Now()
			world.Update(dt)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = world.Ticks()
	report.SimulatedTime = time.Duration(world.Ticks()) * cfg.Tick
	report.UpdateTime.Finalize()
	report.FailedCookingStarts = director.FailedStarts()
	report.Scheduler = world.Stats()
	report.Storage = world.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := persist.Save(ctx, store, cfg.Slot, world, component.Codecs())
	if err != nil {
		return err
	}
	report.Save = SaveSummary{
		Slot:       cfg.Slot,
		SnapshotId: snap.Id.String(),
		Entities:   len(snap.Entities),
		Components: snap.ComponentCount(),
	}
	logger.Printf("saved %d entities to slot %q", len(snap.Entities), cfg.Slot)

	restored, _ := village.NewSimulation(rand.New(rand.NewSource(cfg.Seed)), ecs.WithLogger(logger))
	if err := restored.Initialize(); err != nil {
		return fmt.Errorf("initialize restored world: %w", err)
	}
	restoreReport, err := persist.Load(ctx, store, cfg.Slot, restored, component.Codecs())
	if err != nil {
		return err
	}
	report.Restore = restoreReport
	report.RestoreMatches = restoreReport.Entities == len(snap.Entities) &&
		restoreReport.Components == snap.ComponentCount() &&
		restored.Entities().Next() == world.Entities().Next()

	slots, err := store.List(ctx)
	if err != nil {
		return err
	}
	report.Slots = slots

	fmt.Println("\n\n--- Hearth Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (persist.SlotStore, func(), error) {
	if cfg.SaveDB == "" {
		return persist.NewMemoryStore(), func() {}, nil
	}
	store, err := sqlite.Open(ctx, cfg.SaveDB)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
