package ecs

// EntityId packs the archetype ID into the upper 32 bits and the slot index into the lower 32 bits.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and slot index.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index within the archetype.
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is a stable handle to an entity. The storage zeroes Id when the entity is deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}
