package ecs

import (
	"context"
	"reflect"
	"runtime"
	"strings"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
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

// storageBinder is implemented by Query and Singleton fields.
type storageBinder interface {
	Init(storage *Storage)
}

// queryRefresher is implemented by Query fields.
type queryRefresher interface {
	Execute()
}

type scheduledSystem struct {
	system  System
	cond    RunCondition
	queries []queryRefresher
	stats   *systemStatsInternal
}

// Scheduler manages and executes systems in registration order.
type Scheduler struct {
	storage  *Storage
	commands *Commands

	update []*scheduledSystem
	// every system, including state hooks, in registration order
	all []*scheduledSystem

	states     map[reflect.Type]stateTransitioner
	stateOrder []stateTransitioner
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{
		storage:  storage,
		commands: newCommands(),
		states:   make(map[reflect.Type]stateTransitioner),
	}
}

// Storage returns the storage systems of this scheduler operate on.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register adds a system that runs on every Once.
func (s *Scheduler) Register(system System) {
	s.RegisterIf(nil, system)
}

// RegisterIf adds a system that runs on every Once for which cond holds.
// A nil cond always holds.
func (s *Scheduler) RegisterIf(cond RunCondition, system System) {
	s.update = append(s.update, s.prepare(system, cond))
}

func (s *Scheduler) prepare(system System, cond RunCondition) *scheduledSystem {
	entry := &scheduledSystem{
		system:  system,
		cond:    cond,
		queries: s.bindFields(system),
		stats: &systemStatsInternal{
			name:        systemName(system),
			minDuration: time.Duration(1<<63 - 1),
		},
	}
	s.all = append(s.all, entry)
	return entry
}

// bindFields initializes every Query and Singleton field of a struct system
// and returns the queries that need a refresh before each execution.
func (s *Scheduler) bindFields(system System) []queryRefresher {
	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	var queries []queryRefresher
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		binder, ok := field.Addr().Interface().(storageBinder)
		if !ok {
			continue
		}
		binder.Init(s.storage)

		if q, ok := binder.(queryRefresher); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

func systemName(system System) string {
	if fn, ok := system.(SystemFunc); ok {
		name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
		return name
	}

	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func (s *Scheduler) run(entry *scheduledSystem, frame *UpdateFrame) {
	if entry.cond != nil && !entry.cond(s.storage) {
		return
	}
	for _, q := range entry.queries {
		q.Execute()
	}

	start := time.Now()
	entry.system.Execute(frame)
	entry.stats.record(time.Since(start))
}

// Once executes all registered systems once with the given delta time, then
// flushes queued commands and applies pending state transitions.
func (s *Scheduler) Once(dt float64) {
	frame := &UpdateFrame{
		DeltaTime: dt,
		Commands:  s.commands,
		Storage:   s.storage,
	}

	// transitions requested outside of systems (including the initial state)
	s.applyTransitions(frame)

	for _, entry := range s.update {
		s.run(entry, frame)
	}
	s.commands.Flush(s.storage)

	s.applyTransitions(frame)
}

// runHooks executes state hook systems and flushes their commands.
func (s *Scheduler) runHooks(hooks []*scheduledSystem, frame *UpdateFrame) {
	for _, entry := range hooks {
		s.run(entry, frame)
	}
	s.commands.Flush(s.storage)
}

// maxChainedTransitions bounds state changes triggered by OnEnter/OnExit
// hooks within a single pass.
const maxChainedTransitions = 8

func (s *Scheduler) applyTransitions(frame *UpdateFrame) {
	for range maxChainedTransitions {
		changed := false
		for _, st := range s.stateOrder {
			if st.apply(s, frame) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
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

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.all),
		Systems:     make([]SystemStats, len(s.all)),
	}

	for i, entry := range s.all {
		internal := entry.stats
		var avg time.Duration
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avg = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avg,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}
	return stats
}
