package persist

import (
	"github.com/oklog/ulid/v2"
	"github.com/plus3/hearth/ecs"
	"github.com/rotisserie/eris"
)

// Capture walks every live entity in creation order and encodes its
// components. A component kind without a codec fails the whole capture.
func Capture(w *ecs.World, codecs Codecs) (*Snapshot, error) {
	registry := w.Storage().Registry()
	entities := w.AllEntities()

	snap := &Snapshot{
		Id:       ulid.Make(),
		Version:  Version,
		SavedAt:  w.Now().UTC(),
		NextId:   w.Entities().Next(),
		Entities: make([]EntityRecord, 0, len(entities)),
	}

	for _, e := range entities {
		components := w.EntityComponents(e.Id)
		record := EntityRecord{Id: e.Id, Components: make([]ComponentRecord, 0, len(components))}
		for _, c := range components {
			codec, ok := codecs[c.Kind()]
			if !ok {
				return nil, eris.Errorf("no codec for component kind %q", registry.Name(c.Kind()))
			}
			data, err := codec.Encode(c)
			if err != nil {
				return nil, eris.Wrapf(err, "failed to encode entity %d", e.Id)
			}
			record.Components = append(record.Components, ComponentRecord{
				Kind: registry.Name(c.Kind()),
				Data: data,
			})
		}
		snap.Entities = append(snap.Entities, record)
	}
	return snap, nil
}
