package ecs

import (
	"fmt"
	"math"
)

// InvalidArchetype marks an Entity slot that is dead and waiting to be
// recycled.
const InvalidArchetype = math.MaxUint32

// VoidEntity is the EntityMoveResult.Moved value used when a removal did not
// relocate any other entity.
const VoidEntity = math.MaxUint32

// EntityId encodes the entity index (lower 32 bits) and its version (upper 32
// bits). Callers treat it as opaque.
type EntityId uint64

// NewEntityId creates an EntityId from an entity index and version
func NewEntityId(index uint32, version uint32) EntityId {
	return EntityId(uint64(version)<<32 | uint64(index))
}

// Index extracts the entity index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Version extracts the version from the entity ID
func (e EntityId) Version() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d@v%d", e.Index(), e.Version())
}

// Entity is the registry's record locating an entity's storage.
type Entity struct {
	LocalRow       uint32
	ArchetypeIndex uint32
	Version        uint32
}

// Alive reports whether the slot currently holds an entity.
func (e Entity) Alive() bool {
	return e.ArchetypeIndex != InvalidArchetype
}

// EntityMoveResult is returned by a row removal so the owner can patch the
// bookkeeping of the entity that was moved into the vacated row.
type EntityMoveResult struct {
	Moved     uint32
	SourceRow uint32
	DestRow   uint32
}

// Relocated reports whether another entity changed rows.
func (m EntityMoveResult) Relocated() bool {
	return m.Moved != VoidEntity
}
