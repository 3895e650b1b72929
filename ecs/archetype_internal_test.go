package ecs

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y, Z, W float32
}

type health struct {
	HP float32
}

type dummy struct {
	A, B int32
}

func newTestArchetype(infos ...*ComponentTypeInfo) *Archetype {
	return newArchetype(0, infos, zerolog.Nop())
}

func TestArchetypeQueryByHash(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r)
	hp := RegisterComponent[health](r)
	RegisterComponent[dummy](r)

	a := newTestArchetype(pos, hp)
	a.createEntity(0, position{0, 1, 2, 3}, health{100})

	ph := TypeHashOf[position]()
	hh := TypeHashOf[health]()
	dh := TypeHashOf[dummy]()

	assert.True(t, a.HasComponent(ph))
	assert.True(t, a.HasComponent(hh))
	assert.False(t, a.HasComponent(dh))

	assert.True(t, a.HasComponents(ph, hh))
	assert.True(t, a.HasComponents(hh, ph))
	assert.False(t, a.HasComponents(ph, hh, dh))
	assert.False(t, a.HasComponents(ph, dh))
	assert.False(t, a.HasComponents(dh))
	assert.False(t, a.HasComponents(hh, dh))
	assert.False(t, a.HasComponents(dh, hh))
}

func TestArchetypeHashIgnoresOrder(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r)
	hp := RegisterComponent[health](r)

	a := newTestArchetype(pos, hp)
	b := newTestArchetype(hp, pos)

	assert.Equal(t, a.Hash(), b.Hash())
	assert.Equal(t, ArchetypeKey([]TypeHash{pos.Hash, hp.Hash}), a.Hash())
	assert.Equal(t, a.Types(), b.Types())
}

func TestArchetypeSingleComponentHashIsTypeHash(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r)
	a := newTestArchetype(pos)
	assert.Equal(t, pos.Hash, a.Hash())

	empty := newTestArchetype()
	assert.Equal(t, TypeHash(0), empty.Hash())
}

func TestArchetypeCapacityDoubles(t *testing.T) {
	r := NewRegistry()
	a := newTestArchetype(RegisterComponent[position](r))
	assert.Equal(t, InitialCapacity, a.Cap())

	var caps []int
	for i := 0; i < 50; i++ {
		a.createEntity(uint32(i), position{X: float32(i)})
		if len(caps) == 0 || caps[len(caps)-1] != a.Cap() {
			caps = append(caps, a.Cap())
		}
	}

	assert.Equal(t, []int{10, 20, 40, 80}, caps)
	assert.Equal(t, 50, a.Len())
	data := columnData[position](a.column(TypeHashOf[position]()))
	for i := 0; i < 50; i++ {
		assert.Equal(t, float32(i), data[i].X)
	}
}

func TestArchetypeDeleteEntity(t *testing.T) {
	r := NewRegistry()
	a := newTestArchetype(RegisterComponent[position](r))
	for i := 0; i < 3; i++ {
		a.createEntity(uint32(100+i), position{X: float32(i)})
	}

	res := a.deleteEntity(0)
	assert.True(t, res.Relocated())
	assert.Equal(t, uint32(102), res.Moved)
	assert.Equal(t, uint32(2), res.SourceRow)
	assert.Equal(t, uint32(0), res.DestRow)
	assert.Equal(t, []uint32{102, 101}, a.Entities())
	assert.Equal(t, float32(2), columnData[position](a.columns[0])[0].X)

	// Removing the last row moves nothing.
	res = a.deleteEntity(1)
	assert.False(t, res.Relocated())
	assert.Equal(t, uint32(VoidEntity), res.Moved)
	assert.Equal(t, 1, a.Len())

	assert.Panics(t, func() { a.deleteEntity(5) })
}

func TestArchetypeCreateEntityValidatesValues(t *testing.T) {
	r := NewRegistry()
	a := newTestArchetype(RegisterComponent[position](r), RegisterComponent[health](r))

	assert.Panics(t, func() { a.createEntity(0, position{}) })
	assert.Panics(t, func() { a.createEntity(0, position{}, dummy{}) })
}

func TestArchetypeMoveFrom(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r)
	hp := RegisterComponent[health](r)

	narrow := newArchetype(0, []*ComponentTypeInfo{pos}, zerolog.Nop())
	wide := newArchetype(1, []*ComponentTypeInfo{pos, hp}, zerolog.Nop())

	e0 := Entity{LocalRow: narrow.createEntity(7, position{X: 1}), ArchetypeIndex: 0}
	narrow.createEntity(8, position{X: 2})

	res := wide.moveFrom(narrow, health{HP: 50}, &e0)
	require.True(t, res.Relocated())
	assert.Equal(t, uint32(8), res.Moved)
	assert.Equal(t, uint32(0), res.DestRow)
	assert.Equal(t, uint32(1), e0.ArchetypeIndex)
	assert.Equal(t, uint32(0), e0.LocalRow)

	assert.Equal(t, 1, narrow.Len())
	assert.Equal(t, 1, wide.Len())
	assert.Equal(t, position{X: 1}, *wide.component(0, pos.Hash).(*position))
	assert.Equal(t, health{HP: 50}, *wide.component(0, hp.Hash).(*health))

	// And back again, dropping health.
	res = narrow.moveFrom(wide, nil, &e0)
	assert.False(t, res.Relocated())
	assert.Equal(t, 2, narrow.Len())
	assert.Equal(t, 0, wide.Len())
	assert.Equal(t, uint32(0), e0.ArchetypeIndex)
	assert.Equal(t, uint32(1), e0.LocalRow)
	assert.Equal(t, []uint32{8, 7}, narrow.Entities())
}

func TestRegistryFallsBackOnArchetypeKeyMismatch(t *testing.T) {
	r := NewRegistry()
	pos := RegisterComponent[position](r)
	hp := RegisterComponent[health](r)
	dm := RegisterComponent[dummy](r)

	id := CreateEntity1(r, position{})
	ph := r.findOrCreateArchetype([]*ComponentTypeInfo{pos, hp})

	// Point the key for {position, health} at the wrong archetype to simulate
	// two sets sharing a key. Lookup must still resolve the exact set.
	r.archetypeIndex.Put(ph.hash, r.ArchetypeOf(id).index)
	assert.Same(t, ph, r.findArchetype([]TypeHash{hp.Hash, pos.Hash}))

	// A set whose key is taken by another archetype and that has no archetype
	// of its own yet is created rather than merged into the occupant.
	r.archetypeIndex.Put(ArchetypeKey([]TypeHash{pos.Hash, dm.Hash}), ph.index)
	pd := r.findOrCreateArchetype([]*ComponentTypeInfo{pos, dm})
	assert.True(t, pd.hasExactly([]TypeHash{pos.Hash, dm.Hash}))
	assert.Len(t, r.archetypes, 3)
}

func TestTypedColumnSwapRemoveZeroesTail(t *testing.T) {
	r := NewRegistry()
	info := RegisterComponent[inventory](r)
	c := newTypedColumn[inventory](info, 4)
	c.pushAny(inventory{Items: []string{"a"}})
	c.pushAny(&inventory{Items: []string{"b"}})

	c.swapRemove(0)
	require.Equal(t, 1, c.len())
	assert.Equal(t, []string{"b"}, c.data[0].Items)
	assert.Nil(t, c.data[:2][1].Items)

	assert.Panics(t, func() { c.pushAny(position{}) })
}

type inventory struct {
	Items []string
}
