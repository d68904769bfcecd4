package ecs

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	TotalFailures   int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	FailureCount   int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	failureCount   int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// scheduler runs systems in registration order, isolating each one so a
// panicking system is logged and the rest of the tick still runs.
type scheduler struct {
	systems     []System
	byName      map[string]int
	systemStats []*systemStatsInternal
	logger      *log.Logger
}

func newScheduler(logger *log.Logger) *scheduler {
	return &scheduler{
		systems: make([]System, 0),
		byName:  make(map[string]int),
		logger:  logger,
	}
}

func (s *scheduler) register(system System) {
	name := system.Name()
	if _, dup := s.byName[name]; dup {
		panic("system " + name + " already registered")
	}

	s.byName[name] = len(s.systems)
	s.systems = append(s.systems, system)
	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        name,
		minDuration: time.Duration(1<<63 - 1),
	})
}

func (s *scheduler) lookup(name string) (System, bool) {
	idx, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.systems[idx], true
}

// initialize calls Initialize on every system in order. Failures do not stop
// later systems; they are logged and joined into the returned error.
func (s *scheduler) initialize(w *World) error {
	var errs []error
	for i, system := range s.systems {
		if err := s.initializeOne(w, system); err != nil {
			s.systemStats[i].failureCount++
			s.logger.Printf("system %s failed to initialize: %v", system.Name(), err)
			errs = append(errs, fmt.Errorf("initialize %s: %w", system.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *scheduler) initializeOne(w *World, system System) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return system.Initialize(w)
}

// once executes all registered systems once with the given delta time.
func (s *scheduler) once(dt float64) {
	for i, system := range s.systems {
		start := time.Now()
		failed := s.runOne(system, dt)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration
		if failed {
			stats.failureCount++
		}

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}
}

func (s *scheduler) runOne(system System, dt float64) (failed bool) {
	defer func() {
		if r := recover(); r != nil {
			failed = true
			s.logger.Printf("system %s panicked during update: %v", system.Name(), r)
		}
	}()
	system.Update(dt)
	return false
}

func (s *scheduler) stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs, totalFailures int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			FailureCount:   internal.failureCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
		totalFailures += internal.failureCount
	}

	stats.TotalExecutions = totalExecs
	stats.TotalFailures = totalFailures
	return stats
}
