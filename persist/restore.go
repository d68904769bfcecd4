package persist

import (
	"github.com/plus3/hearth/ecs"
	"github.com/rotisserie/eris"
)

// RestoreReport summarizes what Restore loaded and what it had to drop.
type RestoreReport struct {
	Entities          int
	Components        int
	SkippedEntities   int
	SkippedComponents int
}

// Skipped reports whether any record was dropped.
func (r RestoreReport) Skipped() bool {
	return r.SkippedEntities > 0 || r.SkippedComponents > 0
}

// Restore replaces the world's entities and components with those in snap.
// Systems and subscriptions are kept. An unreadable version fails before the
// world is touched; after that, malformed records are logged and skipped.
func Restore(w *ecs.World, snap *Snapshot, codecs Codecs) (RestoreReport, error) {
	var report RestoreReport
	if snap == nil {
		return report, eris.New("nil snapshot")
	}
	if err := CheckVersion(snap.Version); err != nil {
		return report, err
	}

	registry := w.Storage().Registry()
	logger := w.Logger()

	w.Reset()
	for _, record := range snap.Entities {
		if record.Id == 0 {
			logger.Printf("restore: skipping entity with id 0")
			report.SkippedEntities++
			report.SkippedComponents += len(record.Components)
			continue
		}
		if w.HasEntity(record.Id) {
			logger.Printf("restore: skipping duplicate entity %d", record.Id)
			report.SkippedEntities++
			report.SkippedComponents += len(record.Components)
			continue
		}

		w.CreateEntity(record.Id)
		report.Entities++

		for _, cr := range record.Components {
			kind, ok := registry.Lookup(cr.Kind)
			if !ok {
				logger.Printf("restore: entity %d: unknown component kind %q", record.Id, cr.Kind)
				report.SkippedComponents++
				continue
			}
			codec, ok := codecs[kind]
			if !ok {
				logger.Printf("restore: entity %d: no codec for %q", record.Id, cr.Kind)
				report.SkippedComponents++
				continue
			}
			c, err := codec.Decode(cr.Data)
			if err != nil {
				logger.Printf("restore: entity %d: rejected %q: %v", record.Id, cr.Kind, err)
				report.SkippedComponents++
				continue
			}
			w.AddComponent(record.Id, c)
			report.Components++
		}
	}
	w.Entities().Advance(snap.NextId)

	return report, nil
}
