package ecs

// StorageStats summarizes what a world currently holds.
type StorageStats struct {
	EntityCount     int
	ComponentCount  int
	KindCount       int
	KindBreakdown   []KindStats
	Subscribers     int
	EventsEmitted   int64
	EventFailures   int64
	CommandFailures int64
}

// KindStats is the per-kind part of StorageStats.
type KindStats struct {
	Kind  Kind
	Name  string
	Count int
}

// CollectStats walks the registry, store and bus and reports their sizes.
func (w *World) CollectStats() *StorageStats {
	stats := &StorageStats{
		EntityCount:   w.entities.Count(),
		EventsEmitted: w.bus.Emitted(),
		EventFailures: w.bus.Failures(),

		CommandFailures: w.commands.Failures(),
	}

	for _, kind := range w.storage.kinds {
		count := w.storage.Count(kind)
		if count == 0 {
			continue
		}
		stats.KindBreakdown = append(stats.KindBreakdown, KindStats{
			Kind:  kind,
			Name:  w.storage.registry.Name(kind),
			Count: count,
		})
		stats.ComponentCount += count
	}
	stats.KindCount = len(stats.KindBreakdown)

	for _, subs := range w.bus.subscribers {
		stats.Subscribers += len(subs)
	}
	return stats
}
