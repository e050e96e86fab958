package ecs

import "reflect"

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage owns one, so independent worlds never share column layouts.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent registers a component type with the given registry.
// This must be called for each component type before an entity carrying it
// is spawned. Registering the same type twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory, ok := r.factories[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return factory()
}

// column is the type-erased storage for one component type of an archetype.
// Slot allocation is owned by the archetype; columns only hold values.
type column interface {
	set(index int, item any) bool
	clear(index int)
	get(index int) any
}

const columnBlockSize = 64

// blockColumn stores components in fixed-size heap blocks so that pointers
// handed out by get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks []*[columnBlockSize]T
}

func (c *blockColumn[T]) set(index int, item any) bool {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return false
	}

	block := index / columnBlockSize
	for block >= len(c.blocks) {
		c.blocks = append(c.blocks, new([columnBlockSize]T))
	}
	c.blocks[block][index%columnBlockSize] = value
	return true
}

func (c *blockColumn[T]) clear(index int) {
	block := index / columnBlockSize
	if index < 0 || block >= len(c.blocks) {
		return
	}
	var zero T
	c.blocks[block][index%columnBlockSize] = zero
}

func (c *blockColumn[T]) get(index int) any {
	block := index / columnBlockSize
	if index < 0 || block >= len(c.blocks) {
		return nil
	}
	return &c.blocks[block][index%columnBlockSize]
}
