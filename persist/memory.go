package persist

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
)

// MemoryStore is a SlotStore that keeps encoded snapshots in memory.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Save(ctx context.Context, slot string, snap *Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = data
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, slot string) (*Snapshot, error) {
	m.mu.Lock()
	data, ok := m.slots[slot]
	m.mu.Unlock()
	if !ok {
		return nil, eris.Wrapf(ErrSlotNotFound, "slot %q", slot)
	}
	return Unmarshal(data)
}

func (m *MemoryStore) List(ctx context.Context) ([]SlotInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	infos := make([]SlotInfo, 0, len(m.slots))
	for name, data := range m.slots {
		snap, err := Unmarshal(data)
		if err != nil {
			return nil, err
		}
		infos = append(infos, SlotInfo{
			Name:       name,
			SnapshotId: snap.Id,
			Version:    snap.Version,
			Entities:   len(snap.Entities),
			SavedAt:    snap.SavedAt,
		})
	}
	slices.SortFunc(infos, func(a, b SlotInfo) int { return strings.Compare(a.Name, b.Name) })
	return infos, nil
}

func (m *MemoryStore) Delete(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[slot]; !ok {
		return eris.Wrapf(ErrSlotNotFound, "slot %q", slot)
	}
	delete(m.slots, slot)
	return nil
}
