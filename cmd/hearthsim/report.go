package main

import (
	"cmp"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/internal/config"
	"github.com/plus3/hearth/persist"
)

type Report struct {
	Config config.Config

	// Results
	TotalUpdates        int64
	TotalTime           time.Duration
	SimulatedTime       time.Duration
	UpdateTime          Stats
	FailedCookingStarts int
	Scheduler           *ecs.SchedulerStats
	Storage             *ecs.StorageStats
	EventCounts         map[ecs.EventKind]int

	Save           SaveSummary
	Restore        persist.RestoreReport
	RestoreMatches bool
	Slots          []persist.SlotInfo

	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type SaveSummary struct {
	Slot       string
	SnapshotId string
	Entities   int
	Components int
}

type EventCount struct {
	Kind  ecs.EventKind
	Count int
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = slices.Min(s.Samples)
	s.Max = slices.Max(s.Samples)
	for _, sample := range s.Samples {
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Events returns the event counts ordered by kind.
func (r *Report) Events() []EventCount {
	counts := make([]EventCount, 0, len(r.EventCounts))
	for kind, n := range r.EventCounts {
		counts = append(counts, EventCount{Kind: kind, Count: n})
	}
	slices.SortFunc(counts, func(a, b EventCount) int { return cmp.Compare(a.Kind, b.Kind) })
	return counts
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Hearth Simulation Report

## Configuration
- **Run Duration:** {{.Config.Duration}}
- **Tick:** {{.Config.Tick}}
- **Villagers:** {{.Config.Entities}}
- **Seed:** {{.Config.Seed}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Wall Time:** {{.TotalTime}}
- **Simulated Time:** {{.SimulatedTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
{{- range .Scheduler.Systems}}
- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}, failures {{.FailureCount}}
{{- end}}

## World
- **Entities:** {{.Storage.EntityCount}}
- **Components:** {{.Storage.ComponentCount}}
{{- range .Storage.KindBreakdown}}
  - {{.Name}}: {{.Count}}
{{- end}}
- **Events Emitted:** {{.Storage.EventsEmitted}} ({{.Storage.EventFailures}} handler failures)
{{- range .Events}}
  - {{.Kind}}: {{.Count}}
{{- end}}
- **Failed Cooking Starts:** {{.FailedCookingStarts}}

## Persistence
- **Slot:** {{.Save.Slot}} (snapshot {{.Save.SnapshotId}})
- **Saved:** {{.Save.Entities}} entities, {{.Save.Components}} components
- **Restored:** {{.Restore.Entities}} entities, {{.Restore.Components}} components
- **Skipped:** {{.Restore.SkippedEntities}} entities, {{.Restore.SkippedComponents}} components
- **Round Trip Matches:** {{.RestoreMatches}}
{{- range .Slots}}
- slot {{.Name}}: {{.Entities}} entities, version {{.Version}}, saved {{.SavedAt.Format "2006-01-02 15:04:05"}}
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
