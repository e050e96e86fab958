package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/sheetdemo/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spawnSystem struct{}

func (s *spawnSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	frame.Commands.Spawn(Position{X: 3, Y: 4})
}

type countingSystem struct {
	Positions ecs.Query[struct{ *Position }]
	seen      []int
}

func (s *countingSystem) Execute(frame *ecs.UpdateFrame) {
	s.seen = append(s.seen, s.Positions.Len())
}

func TestCommandsDeferredUntilFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	counter := &countingSystem{}
	scheduler.Register(&spawnSystem{})
	scheduler.Register(counter)

	scheduler.Once(1)
	scheduler.Once(1)

	// spawns from frame N are visible from frame N+1
	assert.Equal(t, []int{0, 2}, counter.seen)
}

func TestCommandsFlushOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	doomed := storage.Spawn(Position{X: 1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.AddComponent(doomed, Velocity{DX: 1})
		frame.Commands.Delete(doomed)
		frame.Commands.Spawn(Health{Current: 1})
	}))
	scheduler.Once(0)

	assert.False(t, storage.Alive(doomed))
	assert.Nil(t, storage.GetArchetype(Position{}, Velocity{}))
	require.NotNil(t, storage.GetArchetype(Health{}))
	assert.Equal(t, 1, storage.GetArchetype(Health{}).Len())
}

func TestCommandsFollowMovedEntities(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.AddComponent(id, Velocity{DX: 2})
		frame.Commands.AddComponent(id, Health{Current: 3})
		frame.Commands.RemoveComponent(id, reflect.TypeFor[Position]())
	}))
	scheduler.Once(0)

	view := ecs.NewView[struct {
		*Velocity
		*Health
	}](storage)

	count := 0
	for _, e := range view.Iter() {
		count++
		assert.Equal(t, float32(2), e.Velocity.DX)
		assert.Equal(t, 3, e.Health.Current)
	}
	assert.Equal(t, 1, count)
	// the intermediate archetype exists but is empty
	require.NotNil(t, storage.GetArchetype(Position{}, Velocity{}, Health{}))
	assert.Equal(t, 0, storage.GetArchetype(Position{}, Velocity{}, Health{}).Len())
}

func TestCommandsDeferRunsAfterChanges(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var observed int
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{})
		frame.Commands.Defer(func() {
			observed = storage.GetArchetype(Position{}).Len()
		})
	}))

	scheduler.Once(0)
	assert.Equal(t, 1, observed)
}
