package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Registry owns every archetype and every entity record. It is the only type
// callers mutate; archetype internals never leave the package.
//
// A Registry is not safe for concurrent use. Any structural change (creating
// or deleting an entity, adding or removing a component) may reallocate
// columns, which invalidates slices previously returned by queries.
type Registry struct {
	components     componentTypes
	archetypes     []*Archetype
	archetypeIndex *intmap.Map[TypeHash, uint32]
	entities       []Entity
	freeList       []uint32
	singletons     *intmap.Map[TypeHash, any]

	infoScratch []*ComponentTypeInfo
	hashScratch []TypeHash

	logger zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		components:     newComponentTypes(),
		archetypeIndex: intmap.New[TypeHash, uint32](64),
		singletons:     intmap.New[TypeHash, any](16),
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *zerolog.Logger {
	return &r.logger
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return len(r.entities) - len(r.freeList)
}

// Archetypes returns all archetypes in creation order. The slice must not be
// modified.
func (r *Registry) Archetypes() []*Archetype {
	return r.archetypes
}

// Archetype returns the archetype at index, or nil.
func (r *Registry) Archetype(index uint32) *Archetype {
	if int(index) >= len(r.archetypes) {
		return nil
	}
	return r.archetypes[index]
}

// ArchetypeOf returns the archetype currently storing id.
func (r *Registry) ArchetypeOf(id EntityId) *Archetype {
	return r.archetypes[r.entity(id).ArchetypeIndex]
}

// LookupArchetype returns the archetype holding exactly the given component
// types, or nil if it has not been created yet.
func (r *Registry) LookupArchetype(types ...reflect.Type) *Archetype {
	hashes := make([]TypeHash, len(types))
	for i, t := range types {
		hashes[i] = r.hashOf(t)
	}
	return r.findArchetype(hashes)
}

// IsEntityValid reports whether id refers to a live entity.
func (r *Registry) IsEntityValid(id EntityId) bool {
	index := id.Index()
	if int(index) >= len(r.entities) {
		return false
	}
	e := r.entities[index]
	return e.Alive() && e.Version == id.Version()
}

// CheckEntity returns ErrStaleEntity if id is not valid.
func (r *Registry) CheckEntity(id EntityId) error {
	if !r.IsEntityValid(id) {
		return eris.Wrapf(ErrStaleEntity, "entity %s", id)
	}
	return nil
}

// GetEntity returns a copy of the record for id. It panics if id is stale.
func (r *Registry) GetEntity(id EntityId) Entity {
	return *r.entity(id)
}

func (r *Registry) entity(id EntityId) *Entity {
	if !r.IsEntityValid(id) {
		panic(eris.Wrapf(ErrStaleEntity, "entity %s", id))
	}
	return &r.entities[id.Index()]
}

// entityId rebuilds the external handle of a live entity from its index.
func (r *Registry) entityId(index uint32) EntityId {
	return NewEntityId(index, r.entities[index].Version)
}

// getNewEntityId pops a recycled index or grows the entity table. A recycled
// slot's version is bumped so handles to the previous occupant stay invalid.
func (r *Registry) getNewEntityId() uint32 {
	if n := len(r.freeList); n > 0 {
		index := r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		r.entities[index].Version++
		return index
	}
	r.entities = append(r.entities, Entity{ArchetypeIndex: InvalidArchetype})
	return uint32(len(r.entities) - 1)
}

// hashOf returns the hash of t, registered or not. The hash is derived from
// the type name, so an unregistered type still hashes the way it will once it
// is registered.
func (r *Registry) hashOf(t reflect.Type) TypeHash {
	if info, ok := r.components.byType[t]; ok {
		return info.Hash
	}
	return hashType(t)
}

// createEntity stores values in the archetype for infos and returns the new
// entity's id.
func (r *Registry) createEntity(infos []*ComponentTypeInfo, values ...any) EntityId {
	a := r.findOrCreateArchetype(infos)
	index := r.getNewEntityId()
	row := a.createEntity(index, values...)

	e := &r.entities[index]
	e.LocalRow = row
	e.ArchetypeIndex = a.index
	return NewEntityId(index, e.Version)
}

// Spawn creates an entity from component values of registered types, passed
// by value or by pointer. Calling it with no components creates an entity in
// the empty archetype.
func (r *Registry) Spawn(components ...any) EntityId {
	infos := make([]*ComponentTypeInfo, len(components))
	for i, c := range components {
		infos[i] = r.typeInfoOf(c)
	}
	return r.createEntity(infos, components...)
}

// DeleteEntity removes id and frees its index for reuse. It panics if id is
// stale.
func (r *Registry) DeleteEntity(id EntityId) {
	e := r.entity(id)
	a := r.archetypes[e.ArchetypeIndex]
	r.patchMoved(a.deleteEntity(e.LocalRow))

	e.ArchetypeIndex = InvalidArchetype
	e.LocalRow = 0
	e.Version++
	r.freeList = append(r.freeList, id.Index())
}

// HasComponentType reports whether id has a component of type t.
func (r *Registry) HasComponentType(id EntityId, t reflect.Type) bool {
	e := r.entity(id)
	info, ok := r.components.byType[t]
	if !ok {
		return false
	}
	return r.archetypes[e.ArchetypeIndex].HasComponent(info.Hash)
}

// LookupComponent returns a pointer to id's component of type t.
func (r *Registry) LookupComponent(id EntityId, t reflect.Type) (any, bool) {
	e := r.entity(id)
	info, ok := r.components.byType[t]
	if !ok {
		return nil, false
	}
	ptr := r.archetypes[e.ArchetypeIndex].component(e.LocalRow, info.Hash)
	return ptr, ptr != nil
}

// AddComponentValue adds a component of a registered type, passed by value or
// by pointer, migrating the entity to the wider archetype.
func (r *Registry) AddComponentValue(id EntityId, component any) {
	r.addComponent(id, r.typeInfoOf(component), component)
}

// RemoveComponentType removes id's component of type t, migrating the entity
// to the narrower archetype. Removing the last component leaves the entity
// alive in the empty archetype.
func (r *Registry) RemoveComponentType(id EntityId, t reflect.Type) {
	e := r.entity(id)
	info, ok := r.components.byType[t]
	src := r.archetypes[e.ArchetypeIndex]
	if !ok || !src.HasComponent(info.Hash) {
		panic(eris.Wrapf(ErrComponentMissing, "entity %s: %s", id, t))
	}

	infos := r.infoScratch[:0]
	for _, c := range src.columns {
		if c.typeInfo() != info {
			infos = append(infos, c.typeInfo())
		}
	}
	r.infoScratch = infos

	dst := r.findOrCreateArchetype(infos)
	r.migrate(id, e, src, dst, nil)
}

func (r *Registry) addComponent(id EntityId, info *ComponentTypeInfo, component any) {
	e := r.entity(id)
	src := r.archetypes[e.ArchetypeIndex]
	if src.HasComponent(info.Hash) {
		panic(eris.Wrapf(ErrComponentExists, "entity %s: %s", id, info.Name()))
	}

	infos := r.infoScratch[:0]
	for _, c := range src.columns {
		infos = append(infos, c.typeInfo())
	}
	infos = append(infos, info)
	r.infoScratch = infos

	dst := r.findOrCreateArchetype(infos)
	r.migrate(id, e, src, dst, component)
}

func (r *Registry) migrate(id EntityId, e *Entity, src, dst *Archetype, added any) {
	r.patchMoved(dst.moveFrom(src, added, e))

	r.logger.Trace().
		Stringer("entity_id", id).
		Uint32("from_archetype", src.index).
		Uint32("to_archetype", dst.index).
		Msg("entity migrated")
}

// patchMoved points the entity relocated by a swap-remove at its new row.
func (r *Registry) patchMoved(result EntityMoveResult) {
	if result.Relocated() {
		r.entities[result.Moved].LocalRow = result.DestRow
	}
}

// findArchetype resolves a component set to its archetype. The index is keyed
// by the order-independent archetype key; a hit is verified against the exact
// set, and a mismatch (two sets sharing a key) falls back to a linear scan by
// component count and membership.
func (r *Registry) findArchetype(hashes []TypeHash) *Archetype {
	idx, ok := r.archetypeIndex.Get(ArchetypeKey(hashes))
	if !ok {
		return nil
	}
	if a := r.archetypes[idx]; a.hasExactly(hashes) {
		return a
	}
	for _, a := range r.archetypes {
		if a.hasExactly(hashes) {
			return a
		}
	}
	return nil
}

// findOrCreateArchetype returns the archetype for infos, creating it lazily.
func (r *Registry) findOrCreateArchetype(infos []*ComponentTypeInfo) *Archetype {
	hashes := r.hashScratch[:0]
	for _, info := range infos {
		hashes = append(hashes, info.Hash)
	}
	r.hashScratch = hashes

	if a := r.findArchetype(hashes); a != nil {
		return a
	}

	a := newArchetype(uint32(len(r.archetypes)), infos, r.logger)
	r.archetypes = append(r.archetypes, a)
	if _, taken := r.archetypeIndex.Get(a.hash); !taken {
		r.archetypeIndex.Put(a.hash, a.index)
	}

	names := zerolog.Arr()
	for _, c := range a.columns {
		names.Str(c.typeInfo().Name())
	}
	r.logger.Debug().
		Uint32("archetype_index", a.index).
		Uint32("archetype_hash", uint32(a.hash)).
		Array("components", names).
		Msg("archetype created")
	return a
}
