package ecs

import "reflect"

// Commands buffers structural changes requested while systems run. They are
// applied when the scheduler flushes the frame, so queries never observe a
// half-modified storage.
//
// Flush order is deletes, removals, additions, spawns, then deferred
// functions. Additions and removals targeting an entity deleted in the same
// flush are dropped.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	changes []componentChange
	defers  []func()
}

type componentChange struct {
	entity   EntityId
	add      any
	removeTy reflect.Type
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.changes = append(c.changes, componentChange{entity: entity, add: component})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.changes = append(c.changes, componentChange{entity: entity, removeTy: compType})
}

// Defer queues fn to run after all structural changes have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Empty reports whether nothing is queued.
func (c *Commands) Empty() bool {
	return len(c.spawns) == 0 && len(c.deletes) == 0 && len(c.changes) == 0 && len(c.defers) == 0
}

// Flush applies all queued commands to storage and resets the buffer.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	// an entity moves to a new archetype on every change, so later changes
	// queued against its original id must follow it
	moved := make(map[EntityId]EntityId)
	for _, ch := range c.changes {
		if deleted[ch.entity] {
			continue
		}
		current := ch.entity
		if to, ok := moved[ch.entity]; ok {
			current = to
		}
		if current == 0 {
			continue
		}

		var next EntityId
		if ch.add != nil {
			next = storage.AddComponent(current, ch.add)
		} else {
			next = storage.RemoveComponent(current, ch.removeTy)
		}
		moved[ch.entity] = next
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.changes = c.changes[:0]

	// deferred functions may queue more commands; those wait for the next flush
	defers := c.defers
	c.defers = nil
	for _, fn := range defers {
		fn()
	}
}
