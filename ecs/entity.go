package ecs

import "fmt"

// EntityId encodes both the archetype ID (upper 32 bits) and the slot index
// inside that archetype (lower 32 bits). The zero value never refers to a
// live entity.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and slot index
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}

// EntityRef is a stable reference to an entity. EntityIds change when an
// entity moves between archetypes and slots are reused after a delete; the
// storage keeps Id current through both and sets it to 0 once the entity is
// gone.
type EntityRef struct {
	Id EntityId
}
