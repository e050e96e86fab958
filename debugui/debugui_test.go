package debugui

import (
	"reflect"
	"testing"
	"time"

	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameHistory(t *testing.T) {
	h := newFrameHistory(3)
	assert.Zero(t, h.average())

	h.push(10)
	h.push(20)
	assert.InDelta(t, 15, h.average(), 1e-6)

	h.push(30)
	h.push(40)
	assert.Equal(t, []float32{40, 20, 30}, h.samples)
	assert.InDelta(t, 30, h.average(), 1e-6)
}

func TestSetNumber(t *testing.T) {
	var s struct {
		Index    int
		Small    int8
		Count    uint16
		Scale    float64
		Duration time.Duration
		Name     string
	}
	v := reflect.ValueOf(&s).Elem()

	assert.True(t, setNumber(v.Field(0), 12))
	assert.True(t, setNumber(v.Field(3), 0.5))
	assert.True(t, setNumber(v.Field(4), float64(100*time.Millisecond)))
	assert.False(t, setNumber(v.Field(1), 300), "int8 overflow")
	assert.False(t, setNumber(v.Field(2), -1), "negative uint")
	assert.False(t, setNumber(v.Field(5), 1), "not a number")
	assert.False(t, setNumber(reflect.ValueOf(s).Field(0), 1), "not settable")

	assert.Equal(t, 12, s.Index)
	assert.Equal(t, 0.5, s.Scale)
	assert.Equal(t, 100*time.Millisecond, s.Duration)
	assert.Zero(t, s.Small)
}

func TestInspectorFields(t *testing.T) {
	si := NewSpriteInspector()

	fields := si.fieldsOf(reflect.TypeFor[sprite.AnimationTimer]())
	assert.Equal(t, []fieldInfo{{Name: "Timer", Index: 0}}, fields)

	fields = si.fieldsOf(reflect.TypeFor[sprite.Timer]())
	assert.Equal(t, []fieldInfo{{"Duration", 0}, {"Mode", 1}, {"Paused", 2}}, fields)

	// cached
	assert.Len(t, si.fields, 2)
	assert.Empty(t, si.fieldsOf(reflect.TypeFor[int]()))
}

func TestShortTypeNames(t *testing.T) {
	assert.Equal(t, "sprite.Transform, sprite.AtlasSprite", shortTypeNames([]string{"sprite.Transform", "sprite.AtlasSprite"}))
}

func TestInspectorSelectionFollowsEntity(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[sprite.AtlasSprite](registry)
	ecs.RegisterComponent[sprite.AnimationTimer](registry)
	storage := ecs.NewStorage(registry)

	si := NewSpriteInspector()
	_, ok := si.selection(storage)
	assert.False(t, ok)

	storage.Spawn(sprite.AtlasSprite{}, sprite.AnimationTimer{})
	id := storage.Spawn(sprite.AtlasSprite{Index: 3})
	si.selected = storage.CreateEntityRef(id)

	moved := storage.AddComponent(id, sprite.AnimationTimer{})
	got, ok := si.selection(storage)
	require.True(t, ok)
	assert.Equal(t, moved, got)

	storage.Delete(moved)
	reused := storage.Spawn(sprite.AtlasSprite{Index: 9}, sprite.AnimationTimer{})
	require.Equal(t, moved, reused, "slot is reused")

	_, ok = si.selection(storage)
	assert.False(t, ok, "selection does not jump to the new entity")
	assert.Nil(t, si.selected)
}
