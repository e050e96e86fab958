package ecs

import (
	"iter"
	"reflect"
	"slices"
	"sort"
	"unsafe"
	"weak"

	"github.com/kamstrup/intmap"
)

// Storage is the main ECS storage: archetypes holding entities, plus
// singleton components that are not attached to any entity.
type Storage struct {
	registry   *ComponentRegistry
	archetypes *intmap.Map[uint32, *Archetype]
	// creation order, so iteration is deterministic
	ordered []*Archetype

	// refs are weak so a dropped EntityRef does not pin its entry
	refs *intmap.Map[EntityId, weak.Pointer[EntityRef]]

	singletons     map[reflect.Type]*singletonEntry
	singletonOrder []reflect.Type
}

type singletonEntry struct {
	typ     reflect.Type
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		archetypes: intmap.New[uint32, *Archetype](64),
		refs:       intmap.New[EntityId, weak.Pointer[EntityRef]](64),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// GetArchetype returns the archetype holding exactly the given component
// types, or nil when none has been created yet.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.GetArchetypeByTypes(sortedTypes(components))
}

// GetArchetypeByTypes is GetArchetype keyed by reflect.Type.
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := slices.Clone(types)
	sort.Sort(byTypeName(sorted))
	archetype, _ := s.archetypes.Get(hashTypes(sorted))
	return archetype
}

// GetArchetypeById looks an archetype up by its id.
func (s *Storage) GetArchetypeById(id uint32) *Archetype {
	archetype, _ := s.archetypes.Get(id)
	return archetype
}

// Archetypes iterates every archetype in creation order.
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, a := range s.ordered {
			if !yield(a) {
				return
			}
		}
	}
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypes(types)
	if archetype, ok := s.archetypes.Get(id); ok {
		return archetype
	}
	archetype := NewArchetype(id, types, s.registry)
	s.archetypes.Put(id, archetype)
	s.ordered = append(s.ordered, archetype)
	return archetype
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	archetype := s.archetypeFor(sortedTypes(components))
	return NewEntityId(archetype.id, archetype.Spawn(components))
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	if archetype, ok := s.archetypes.Get(id.ArchetypeId()); ok && archetype.Alive(id.Index()) {
		archetype.Delete(id.Index())
		s.retarget(id, 0)
	}
}

// CreateEntityRef returns the reference tracking id, creating it on first
// use. Every call for the same live entity returns the same pointer. It
// returns nil when id is not alive.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	if !s.Alive(id) {
		return nil
	}
	if wp, ok := s.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			return ref
		}
	}
	ref := &EntityRef{Id: id}
	s.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current id of the referenced entity and
// whether it is still alive.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || ref.Id == 0 {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches ref from its entity without deleting the
// entity. It reports whether ref was valid.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || ref.Id == 0 {
		return false
	}
	if wp, ok := s.refs.Get(ref.Id); ok && wp.Value() == ref {
		s.refs.Del(ref.Id)
	}
	ref.Id = 0
	return true
}

// retarget points the reference held for from at to, or invalidates it
// when to is 0.
func (s *Storage) retarget(from, to EntityId) {
	wp, ok := s.refs.Get(from)
	if !ok {
		return
	}
	s.refs.Del(from)

	ref := wp.Value()
	if ref == nil {
		return
	}
	ref.Id = to
	if to != 0 {
		s.refs.Put(to, wp)
	}
}

// Alive reports whether id names a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	return ok && archetype.Alive(id.Index())
}

// AddComponent attaches component to the entity and returns the entity's new
// id. When the entity already carries a component of that type, the value
// is overwritten in place and the id does not change.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	old, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok || !old.Alive(id.Index()) {
		return 0
	}

	compType := componentType(component)
	if idx := old.columnIndex(compType); idx >= 0 {
		old.columns[idx].set(int(id.Index()), component)
		return id
	}

	types := make([]reflect.Type, 0, len(old.types)+1)
	types = append(types, old.types...)
	types = append(types, compType)
	sort.Sort(byTypeName(types))

	components := make([]any, 0, len(types))
	for _, typ := range old.types {
		components = append(components, old.GetComponent(id.Index(), typ))
	}
	components = append(components, component)

	return s.move(id, old, types, components)
}

// RemoveComponent detaches the component type from the entity and returns the
// entity's new id. Removing the last component deletes the entity and
// returns 0.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	old, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok || !old.Alive(id.Index()) {
		return 0
	}
	if !old.HasComponent(compType) {
		return id
	}

	types := make([]reflect.Type, 0, len(old.types)-1)
	components := make([]any, 0, len(old.types)-1)
	for _, typ := range old.types {
		if typ == compType {
			continue
		}
		types = append(types, typ)
		components = append(components, old.GetComponent(id.Index(), typ))
	}

	if len(types) == 0 {
		old.Delete(id.Index())
		s.retarget(id, 0)
		return 0
	}
	return s.move(id, old, types, components)
}

func (s *Storage) move(id EntityId, from *Archetype, types []reflect.Type, components []any) EntityId {
	to := s.archetypeFor(types)
	// components are pointers into from's columns; copy before freeing the slot
	slot := to.Spawn(components)
	from.Delete(id.Index())

	moved := NewEntityId(to.id, slot)
	s.retarget(id, moved)
	return moved
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes.Get(id.ArchetypeId())
	if !ok || !archetype.Alive(id.Index()) {
		return false
	}
	return archetype.HasComponent(compType)
}

// AddSingleton stores value as the singleton of its type. If a singleton of
// that type already exists its contents are replaced, so pointers obtained
// earlier keep observing the current value.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	if entry, ok := s.singletons[t]; ok {
		entry.value.Elem().Set(v)
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	s.singletons[t] = &singletonEntry{
		typ:     t,
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
	s.singletonOrder = append(s.singletonOrder, t)
}

// RemoveSingleton drops the singleton of the given type.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	if _, ok := s.singletons[t]; !ok {
		return
	}
	delete(s.singletons, t)
	for i, typ := range s.singletonOrder {
		if typ == t {
			s.singletonOrder = append(s.singletonOrder[:i], s.singletonOrder[i+1:]...)
			break
		}
	}
}

// ReadSingleton sets *out to the stored singleton and reports whether it
// exists. out must be a pointer to a pointer, e.g. `var cfg *Config;
// storage.ReadSingleton(&cfg)`.
func (s *Storage) ReadSingleton(out any) bool {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton requires a pointer to a pointer")
	}
	entry := s.getSingletonEntry(v.Elem().Type().Elem())
	if entry == nil {
		return false
	}
	v.Elem().Set(entry.value)
	return true
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// SingletonOf returns the singleton of type T, or nil.
func SingletonOf[T any](s *Storage) *T {
	entry := s.getSingletonEntry(reflect.TypeFor[T]())
	if entry == nil {
		return nil
	}
	return (*T)(entry.dataPtr)
}

// ComponentReader is implemented by Storage and anything else that can
// resolve a component pointer for an entity.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns a typed pointer to the entity's component, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
