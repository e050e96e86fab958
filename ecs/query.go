package ecs

import (
	"iter"
)

// Query wraps a View with a per-frame cache. Queries declared as fields of a
// registered System are refreshed by the Scheduler right before the system
// executes; standalone queries must call Execute themselves.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	cachedArchetypes []*Archetype
	archetypeCount   int

	entities   []EntityId
	components []T
	cacheValid bool
}

// NewQuery creates a new Query with archetype-level caching.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.archetypeCount = -1
	q.cacheValid = false
}

// Execute rebuilds the entity and component cache from the current storage.
func (q *Query[T]) Execute() {
	// archetypes are never removed, so a count change means new ones exist
	if n := len(q.storage.ordered); n != q.archetypeCount {
		q.cachedArchetypes = q.cachedArchetypes[:0]
		for _, archetype := range q.storage.ordered {
			if q.view.matches(archetype) {
				q.cachedArchetypes = append(q.cachedArchetypes, archetype)
			}
		}
		q.archetypeCount = n
	}

	q.entities = q.entities[:0]
	q.components = q.components[:0]
	for _, archetype := range q.cachedArchetypes {
		q.view.iterArchetype(archetype, func(id EntityId, item T) bool {
			q.entities = append(q.entities, id)
			q.components = append(q.components, item)
			return true
		})
	}
	q.cacheValid = true
}

// Len returns the number of entities matched by the last Execute.
func (q *Query[T]) Len() int {
	return len(q.entities)
}

// Single returns the only matched entity. ok is false when the query matched
// zero or more than one entity.
func (q *Query[T]) Single() (item T, ok bool) {
	q.mustBeValid()
	if len(q.components) != 1 {
		return item, false
	}
	return q.components[0], true
}

// Iter returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeValid()
	return func(yield func(EntityId, T) bool) {
		for i := range q.entities {
			if !yield(q.entities[i], q.components[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeValid()
	return func(yield func(T) bool) {
		for i := range q.components {
			if !yield(q.components[i]) {
				return
			}
		}
	}
}

func (q *Query[T]) mustBeValid() {
	if !q.cacheValid {
		panic("Query used before Query.Execute()")
	}
}
