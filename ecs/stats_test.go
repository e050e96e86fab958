package ecs

import (
	"testing"
	"time"
)

func TestStorageStats(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)
	RegisterComponent[float64](registry)

	storage := NewStorage(registry)

	stats := storage.CollectStats()
	if stats.ArchetypeCount != 0 {
		t.Errorf("expected 0 archetypes, got %d", stats.ArchetypeCount)
	}
	if stats.TotalEntityCount != 0 {
		t.Errorf("expected 0 entities, got %d", stats.TotalEntityCount)
	}

	storage.Spawn(42, "hello")
	storage.Spawn(100, "world")
	storage.Spawn(200.0, "test")

	NewSingleton[float64](storage, 3.14)
	NewSingleton[string](storage, "singleton")

	stats = storage.CollectStats()

	if stats.ArchetypeCount != 2 {
		t.Errorf("expected 2 archetypes, got %d", stats.ArchetypeCount)
	}
	if stats.TotalEntityCount != 3 {
		t.Errorf("expected 3 entities, got %d", stats.TotalEntityCount)
	}
	if stats.SingletonCount != 2 {
		t.Errorf("expected 2 singletons, got %d", stats.SingletonCount)
	}
	if len(stats.SingletonTypes) != 2 || stats.SingletonTypes[0] != "float64" {
		t.Errorf("unexpected singleton types: %v", stats.SingletonTypes)
	}

	// creation order: (int, string) first, then (float64, string)
	if stats.ArchetypeBreakdown[0].EntityCount != 2 || stats.ArchetypeBreakdown[1].EntityCount != 1 {
		t.Errorf("archetype breakdown incorrect: %+v", stats.ArchetypeBreakdown)
	}
}

type sleepySystem struct {
	executeCount int
	sleepDur     time.Duration
}

func (s *sleepySystem) Execute(frame *UpdateFrame) {
	s.executeCount++
	time.Sleep(s.sleepDur)
}

func TestSchedulerStats(t *testing.T) {
	storage := NewStorage(NewComponentRegistry())
	scheduler := NewScheduler(storage)

	stats := scheduler.GetStats()
	if stats.SystemCount != 0 || stats.TotalExecutions != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	sys1 := &sleepySystem{sleepDur: 1 * time.Millisecond}
	sys2 := &sleepySystem{sleepDur: 2 * time.Millisecond}
	scheduler.Register(sys1)
	scheduler.Register(sys2)

	scheduler.Once(0.016)
	scheduler.Once(0.016)
	scheduler.Once(0.016)

	stats = scheduler.GetStats()
	if stats.TotalExecutions != 6 {
		t.Errorf("expected 6 total executions (2 systems * 3 runs), got %d", stats.TotalExecutions)
	}

	for _, sysStats := range stats.Systems {
		if sysStats.Name != "sleepySystem" {
			t.Errorf("expected system name 'sleepySystem', got '%s'", sysStats.Name)
		}
		if sysStats.ExecutionCount != 3 {
			t.Errorf("expected 3 executions, got %d", sysStats.ExecutionCount)
		}
		if sysStats.MinDuration == 0 || sysStats.MaxDuration == 0 || sysStats.LastDuration == 0 {
			t.Errorf("expected non-zero durations, got %+v", sysStats)
		}
		if sysStats.MinDuration > sysStats.AvgDuration || sysStats.AvgDuration > sysStats.MaxDuration {
			t.Errorf("expected min <= avg <= max, got %+v", sysStats)
		}
	}

	if sys1.executeCount != 3 || sys2.executeCount != 3 {
		t.Errorf("expected both systems to execute 3 times, got %d and %d", sys1.executeCount, sys2.executeCount)
	}
}
