// Package persist captures a world into a versioned snapshot and restores one
// back. Component data goes through an explicit codec per kind.
package persist

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/plus3/hearth/ecs"
	"github.com/rotisserie/eris"
)

const (
	// Version is the snapshot format this build writes.
	Version = 1
	// MinVersion is the oldest snapshot format this build can read.
	MinVersion = 1
)

var (
	ErrIncompatibleVersion = eris.New("incompatible snapshot version")
	ErrSlotNotFound        = eris.New("save slot not found")
)

// Snapshot is a whole-world save.
type Snapshot struct {
	Id       ulid.ULID      `json:"id"`
	Version  int            `json:"version"`
	SavedAt  time.Time      `json:"saved_at"`
	NextId   ecs.EntityId   `json:"next_id"`
	Entities []EntityRecord `json:"entities"`
}

// EntityRecord is one entity and its components, ordered by kind.
type EntityRecord struct {
	Id         ecs.EntityId      `json:"id"`
	Components []ComponentRecord `json:"components"`
}

// ComponentRecord stores a component under its registered kind name so saves
// survive renumbering of kinds.
type ComponentRecord struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// ComponentCount returns the number of component records across all entities.
func (s *Snapshot) ComponentCount() int {
	n := 0
	for _, e := range s.Entities {
		n += len(e.Components)
	}
	return n
}

// Marshal encodes snap as JSON.
func Marshal(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal snapshot")
	}
	return data, nil
}

// Unmarshal decodes a JSON snapshot. Version compatibility is checked by
// Restore, not here.
func Unmarshal(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, eris.Wrap(err, "failed to unmarshal snapshot")
	}
	return &snap, nil
}

// CheckVersion returns ErrIncompatibleVersion when version cannot be read.
func CheckVersion(version int) error {
	if version < MinVersion || version > Version {
		return eris.Wrapf(ErrIncompatibleVersion, "snapshot version %d, supported %d..%d", version, MinVersion, Version)
	}
	return nil
}
