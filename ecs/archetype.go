package ecs

import (
	"iter"
	"reflect"
	"slices"
	"sort"
	"unsafe"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// Archetype stores every entity that has exactly one combination of
// component types. Slots are reused after deletion, so an EntityId is only
// valid until the entity it names is deleted or moved.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	alive   []bool
	free    []uint32
	count   int
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
	}
	for i, typ := range types {
		a.columns[i] = registry.newColumn(typ)
	}
	return a
}

// Spawn stores the given components in a free slot and returns the slot index.
// Components must match the archetype's types; order does not matter.
func (a *Archetype) Spawn(components []any) uint32 {
	var slot uint32
	if n := len(a.free); n > 0 {
		slot = a.free[n-1]
		a.free = a.free[:n-1]
		a.alive[slot] = true
	} else {
		slot = uint32(len(a.alive))
		a.alive = append(a.alive, true)
	}
	a.count++

	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx < 0 {
			continue
		}
		a.columns[idx].set(int(slot), comp)
	}
	return slot
}

// Delete frees the slot at entityIndex. Deleting a free slot is a no-op.
func (a *Archetype) Delete(entityIndex uint32) {
	if !a.Alive(entityIndex) {
		return
	}
	for _, col := range a.columns {
		col.clear(int(entityIndex))
	}
	a.alive[entityIndex] = false
	a.free = append(a.free, entityIndex)
	a.count--
}

// Alive reports whether the slot holds a live entity.
func (a *Archetype) Alive(entityIndex uint32) bool {
	return int(entityIndex) < len(a.alive) && a.alive[entityIndex]
}

// GetComponent returns a pointer to the component of the given type for the
// entity at entityIndex, or nil when the slot is empty or the type is absent.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	idx := a.columnIndex(compType)
	if idx < 0 || !a.Alive(entityIndex) {
		return nil
	}
	return a.columns[idx].get(int(entityIndex))
}

func (a *Archetype) columnIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	return a.count
}

// Iter returns an iterator over all live EntityIds in this archetype
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for slot, ok := range a.alive {
			if !ok {
				continue
			}
			if !yield(NewEntityId(a.id, uint32(slot))) {
				return
			}
		}
	}
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// sortedTypes extracts and sorts component types from a slice of components
func sortedTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)

		// Components are value types; pointer-to-pointer, maps, channels and
		// functions cannot be stored in a column.
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypes generates the archetype id for a sorted slice of types
func hashTypes(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		ptr := uintptr((*iface)(unsafe.Pointer(&t)).data)
		val := uint32(ptr)
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uint64(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	// zero is reserved so that EntityId(0) never names a live entity
	if h == 0 {
		h = prime
	}
	return h
}
