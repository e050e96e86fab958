package ecs_test

import (
	"testing"

	"github.com/plus3/sheetdemo/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseDone
)

type phaseLog struct {
	events []string
}

func (l *phaseLog) hook(event string) ecs.System {
	return ecs.SystemFunc(func(*ecs.UpdateFrame) {
		l.events = append(l.events, event)
	})
}

func TestStateTransitions(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	log := &phaseLog{}

	ecs.AddState(scheduler, phaseLoading)
	ecs.OnEnter(scheduler, phaseLoading, log.hook("enter loading"))
	ecs.OnExit(scheduler, phaseLoading, log.hook("exit loading"))
	ecs.OnEnter(scheduler, phaseReady, log.hook("enter ready"))

	loadingFrames := 0
	scheduler.RegisterIf(ecs.InState(phaseLoading), ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		loadingFrames++
		if loadingFrames == 2 {
			ecs.SingletonOf[ecs.State[phase]](frame.Storage).Set(phaseReady)
		}
	}))

	readyFrames := 0
	scheduler.RegisterIf(ecs.InState(phaseReady), ecs.SystemFunc(func(*ecs.UpdateFrame) {
		readyFrames++
	}))

	scheduler.Once(0)
	assert.Equal(t, []string{"enter loading"}, log.events)
	assert.Equal(t, 1, loadingFrames)

	scheduler.Once(0)
	assert.Equal(t, []string{"enter loading", "exit loading", "enter ready"}, log.events)
	assert.Equal(t, 0, readyFrames)

	scheduler.Once(0)
	scheduler.Once(0)
	assert.Equal(t, 2, loadingFrames)
	assert.Equal(t, 2, readyFrames)

	state := ecs.SingletonOf[ecs.State[phase]](storage)
	require.NotNil(t, state)
	assert.Equal(t, phaseReady, state.Get())
	assert.True(t, state.Is(phaseReady))
}

func TestStateSetCurrentIsNoop(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	log := &phaseLog{}

	ecs.AddState(scheduler, phaseReady)
	ecs.OnEnter(scheduler, phaseReady, log.hook("enter ready"))
	ecs.OnExit(scheduler, phaseReady, log.hook("exit ready"))
	scheduler.Once(0)

	ecs.SingletonOf[ecs.State[phase]](storage).Set(phaseReady)
	scheduler.Once(0)

	assert.Equal(t, []string{"enter ready"}, log.events)
}

func TestStateChainedFromHook(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	log := &phaseLog{}

	ecs.AddState(scheduler, phaseLoading)
	ecs.OnEnter(scheduler, phaseReady, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		ecs.SingletonOf[ecs.State[phase]](frame.Storage).Set(phaseDone)
	}))
	ecs.OnEnter(scheduler, phaseDone, log.hook("enter done"))

	scheduler.Once(0)
	ecs.SingletonOf[ecs.State[phase]](storage).Set(phaseReady)
	scheduler.Once(0)

	assert.Equal(t, []string{"enter done"}, log.events)
	assert.True(t, ecs.InState(phaseDone)(storage))
}

func TestOnEnterCommandsFlushed(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	ecs.AddState(scheduler, phaseLoading)
	ecs.OnEnter(scheduler, phaseLoading, ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{X: 150}, PlayerTag{})
	}))

	seen := -1
	scheduler.RegisterIf(ecs.InState(phaseLoading), &countingSystemWith{fn: func(n int) { seen = n }})
	scheduler.Once(0)

	assert.Equal(t, 1, seen)
}

type countingSystemWith struct {
	Players ecs.Query[struct {
		*Position
		*PlayerTag
	}]
	fn func(int)
}

func (s *countingSystemWith) Execute(*ecs.UpdateFrame) {
	s.fn(s.Players.Len())
}

func TestInStateWithoutMachine(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.False(t, ecs.InState(phaseLoading)(storage))
}
