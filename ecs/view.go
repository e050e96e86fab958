package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// View reads entities through a struct of component pointers.
//
// Every field of T must be a pointer to a component type, except for at most
// one field of type EntityId which receives the entity's id. Embedded fields
// are always required; named fields can be marked `ecs:"optional"`, in which
// case they are nil for entities lacking that component.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	idOffset    uintptr
	hasId       bool
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			if v.hasId {
				panic("View struct may hold only one EntityId field")
			}
			v.hasId = true
			v.idOffset = field.Offset
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		isOptional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			isOptional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}
	return v
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is missing any required components
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype := v.storage.GetArchetypeById(id.ArchetypeId())
	if archetype == nil || !archetype.Alive(id.Index()) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), archetype, id.Index(), v.columnIndices(archetype))
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef is Get for the entity ref currently points at, or nil when the
// entity is gone or lacks a required component.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) matches(archetype *Archetype) bool {
	for i, typ := range v.types {
		if !v.optional[i] && !archetype.HasComponent(typ) {
			return false
		}
	}
	return true
}

// columnIndices maps each view field to the archetype column holding it, or
// -1 when the archetype lacks that component.
func (v *View[T]) columnIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.types))
	for i, typ := range v.types {
		indices[i] = archetype.columnIndex(typ)
	}
	return indices
}

func (v *View[T]) populate(structPtr unsafe.Pointer, archetype *Archetype, slot uint32, columns []int) bool {
	for i, col := range columns {
		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])

		if col < 0 {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		component := archetype.columns[col].get(int(slot))
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}

	if v.hasId {
		*(*EntityId)(unsafe.Add(structPtr, v.idOffset)) = NewEntityId(archetype.id, slot)
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype, yield func(EntityId, T) bool) bool {
	columns := v.columnIndices(archetype)

	var result T
	resultPtr := unsafe.Pointer(&result)
	for slot, ok := range archetype.alive {
		if !ok || !v.populate(resultPtr, archetype, uint32(slot), columns) {
			continue
		}
		if !yield(NewEntityId(archetype.id, uint32(slot)), result) {
			return false
		}
	}
	return true
}

// Iter returns an iterator over all entities that have all the required
// components for this view, in archetype creation order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.ordered {
			if !v.matches(archetype) {
				continue
			}
			if !v.iterArchetype(archetype, yield) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity with components copied out of the view struct.
// Nil optional fields are skipped; a nil required field panics.
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i, typ := range v.types {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(typ, componentPtr).Elem().Interface())
	}

	return v.storage.Spawn(components...)
}
