package ecs_test

import (
	"testing"

	"github.com/plus3/sheetdemo/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 3, DY: 4})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	entity := view.Get(id)
	require.NotNil(t, entity)
	assert.Equal(t, float32(1), entity.Position.X)
	assert.Equal(t, float32(4), entity.Velocity.DY)

	// writes go straight to storage
	entity.Position.X = 50
	assert.Equal(t, float32(50), ecs.ReadComponent[Position](storage, id).X)
}

func TestViewMissingComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	assert.Nil(t, view.Get(id))
	assert.Nil(t, view.Get(ecs.NewEntityId(1234, 0)))
}

func TestViewEntityIdField(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Position
	}](storage)

	for entity := range view.Values() {
		assert.Equal(t, id, entity.EntityId)
	}
}

func TestViewIterAcrossArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2}, Velocity{})
	storage.Spawn(Position{X: 3}, Health{})
	storage.Spawn(Velocity{})

	view := ecs.NewView[struct{ *Position }](storage)

	var xs []float32
	for _, entity := range view.Iter() {
		xs = append(xs, entity.Position.X)
	}
	assert.Equal(t, []float32{1, 2, 3}, xs)
}

func TestViewIterSkipsDeleted(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ids := make([]ecs.EntityId, 5)
	for i := range ids {
		ids[i] = storage.Spawn(Position{X: float32(i)})
	}
	storage.Delete(ids[1])
	storage.Delete(ids[3])

	view := ecs.NewView[struct{ *Position }](storage)

	count := 0
	for range view.Iter() {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestViewIterEarlyBreak(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10; i++ {
		storage.Spawn(Position{})
	}

	view := ecs.NewView[struct{ *Position }](storage)
	count := 0
	for range view.Iter() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestViewOptionalComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	withHealth := storage.Spawn(Position{}, Health{Current: 10})
	without := storage.Spawn(Position{})

	view := ecs.NewView[struct {
		*Position
		Health *Health `ecs:"optional"`
	}](storage)

	require.NotNil(t, view.Get(withHealth))
	assert.Equal(t, 10, view.Get(withHealth).Health.Current)

	require.NotNil(t, view.Get(without))
	assert.Nil(t, view.Get(without).Health)

	count := 0
	for range view.Iter() {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestViewInvalidDefinitions(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Health *Health `ecs:"sometimes"`
		}](storage)
	})
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	view := ecs.NewView[struct {
		*Position
		Velocity *Velocity `ecs:"optional"`
	}](storage)

	id := view.Spawn(struct {
		*Position
		Velocity *Velocity `ecs:"optional"`
	}{Position: &Position{X: 7}})

	assert.Equal(t, float32(7), ecs.ReadComponent[Position](storage, id).X)
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))

	assert.Panics(t, func() {
		view.Spawn(struct {
			*Position
			Velocity *Velocity `ecs:"optional"`
		}{})
	})
}
