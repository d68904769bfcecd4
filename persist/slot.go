package persist

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/plus3/hearth/ecs"
	"github.com/rotisserie/eris"
)

// SlotInfo describes a saved slot without loading its payload.
type SlotInfo struct {
	Name       string
	SnapshotId ulid.ULID
	Version    int
	Entities   int
	SavedAt    time.Time
}

// SlotStore keeps snapshots under named slots.
type SlotStore interface {
	Save(ctx context.Context, slot string, snap *Snapshot) error
	// Load returns ErrSlotNotFound when slot has never been saved.
	Load(ctx context.Context, slot string) (*Snapshot, error)
	List(ctx context.Context) ([]SlotInfo, error)
	Delete(ctx context.Context, slot string) error
}

// Save captures w and writes it to slot.
func Save(ctx context.Context, store SlotStore, slot string, w *ecs.World, codecs Codecs) (*Snapshot, error) {
	snap, err := Capture(w, codecs)
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, slot, snap); err != nil {
		return nil, eris.Wrapf(err, "failed to save slot %q", slot)
	}
	return snap, nil
}

// Load reads slot and restores it into w.
func Load(ctx context.Context, store SlotStore, slot string, w *ecs.World, codecs Codecs) (RestoreReport, error) {
	snap, err := store.Load(ctx, slot)
	if err != nil {
		return RestoreReport{}, err
	}
	return Restore(w, snap, codecs)
}
