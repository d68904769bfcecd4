// Command hearthview runs the village in a window with the debug inspector.
// Space pauses the world and Escape quits. With -db and -slot set, the slot
// is loaded before the first tick.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/ecs/debugui"
	debugui_ebiten "github.com/plus3/hearth/ecs/debugui/ebiten"
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

	flag.DurationVar(&cfg.Tick, "tick", cfg.Tick, "Simulated time per update.")
	flag.IntVar(&cfg.Entities, "entities", cfg.Entities, "Number of villagers to spawn.")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for the director.")
	flag.StringVar(&cfg.SaveDB, "db", cfg.SaveDB, "SQLite save file to load from.")
	flag.StringVar(&cfg.Slot, "slot", cfg.Slot, "Save slot name.")
	paused := flag.Bool("paused", false, "Start with the world paused.")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	logger := log.New(os.Stderr, cfg.LogPrefix, log.LstdFlags)

	rng := rand.New(rand.NewSource(cfg.Seed))
	world, _ := village.NewSimulation(rng, ecs.WithLogger(logger))

	host := debugui_ebiten.NewHost(world, debugui_ebiten.Options{
		Title:  "Hearth",
		Width:  1280,
		Height: 720,
		Tick:   cfg.Tick.Seconds(),
		Paused: *paused,
	}, debugui.Options{
		EventKinds: event.Kinds(),
		Label:      village.Label,
	})

	if err := world.Initialize(); err != nil {
		logger.Fatalf("initialize world: %v", err)
	}

	if cfg.SaveDB != "" {
		if err := loadSlot(context.Background(), cfg, world); err != nil {
			logger.Fatalf("load slot: %v", err)
		}
	} else {
		village.SpawnVillagers(world, rng, cfg.Entities)
	}

	if err := host.Run(); err != nil {
		logger.Fatalf("hearthview: %v", err)
	}
}

func loadSlot(ctx context.Context, cfg config.Config, world *ecs.World) error {
	store, err := sqlite.Open(ctx, cfg.SaveDB)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := persist.Load(ctx, store, cfg.Slot, world, component.Codecs())
	if err != nil {
		return err
	}
	world.Logger().Printf("loaded slot %q: %d entities, %d components (skipped %d entities, %d components)",
		cfg.Slot, report.Entities, report.Components, report.SkippedEntities, report.SkippedComponents)
	return nil
}
