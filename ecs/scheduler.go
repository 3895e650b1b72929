package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats is a snapshot of a Scheduler's timings, one entry per
// registered system in run order.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats holds the timings recorded for one system. MinDuration is
// meaningless until ExecutionCount is non-zero.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(d time.Duration) {
	st.executionCount++
	st.lastDuration = d
	st.totalDuration += d
	st.minDuration = min(st.minDuration, d)
	st.maxDuration = max(st.maxDuration, d)
}

// Scheduler runs its systems against one registry in registration order and
// applies their queued commands at the end of every frame.
type Scheduler struct {
	registry      *Registry
	systems       []System
	systemStats   []*systemStatsInternal
	slowThreshold time.Duration
}

// NewScheduler returns a scheduler with no systems bound to registry.
func NewScheduler(registry *Registry) *Scheduler {
	return &Scheduler{
		registry: registry,
		systems:  make([]System, 0),
	}
}

// SetSlowThreshold makes the scheduler log a warning for every system run
// that takes longer than d. Zero disables the warning.
func (s *Scheduler) SetSlowThreshold(d time.Duration) {
	s.slowThreshold = d
}

// Register appends a system to the run order.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Pointer {
		systemType = systemType.Elem()
	}
	systemName := systemType.Name()

	for _, existing := range s.systemStats {
		if existing.name == systemName {
			s.registry.logger.Warn().Str("system", systemName).Msg("duplicate system registered")
		}
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName,
		minDuration: time.Duration(1<<63 - 1),
	})
	s.registry.logger.Debug().Str("system", systemName).Int("position", len(s.systems)-1).Msg("system registered")
}

// Once runs a single frame: every system sees the same UpdateFrame with dt
// seconds elapsed, then the frame's command buffer is flushed.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.registry)

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.record(duration)
		if s.slowThreshold > 0 && duration > s.slowThreshold {
			s.registry.logger.Warn().
				Str("system", stats.name).
				Dur("duration", duration).
				Dur("threshold", s.slowThreshold).
				Msg("slow system")
		}
	}

	frame.Commands.Flush(s.registry)
}

// Run calls Once on every tick of interval, passing the measured time since
// the previous tick, and returns when ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats copies the recorded timings out of the scheduler.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
