package ecs

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// InitialCapacity is the number of rows a new archetype allocates per column.
const InitialCapacity = 10

// Archetype stores every entity that has exactly one particular set of
// component types. Each component type is one dense column; row i of every
// column, and of the entity column, belongs to the same entity.
type Archetype struct {
	index    uint32
	hash     TypeHash
	columns  []column
	entities []uint32
	capacity int
	logger   zerolog.Logger
}

// newArchetype builds an archetype from already registered type infos, in any
// order. Columns are kept sorted by type hash so the archetype hash does not
// depend on the order the caller listed the types in.
func newArchetype(index uint32, infos []*ComponentTypeInfo, logger zerolog.Logger) *Archetype {
	sorted := slices.Clone(infos)
	slices.SortFunc(sorted, func(a, b *ComponentTypeInfo) int {
		return cmp.Compare(a.Hash, b.Hash)
	})

	hashes := make([]TypeHash, len(sorted))
	a := &Archetype{
		index:    index,
		columns:  make([]column, len(sorted)),
		entities: make([]uint32, 0, InitialCapacity),
		capacity: InitialCapacity,
		logger:   logger,
	}
	for i, info := range sorted {
		if i > 0 && sorted[i-1].Hash == info.Hash {
			panic(eris.Wrapf(ErrComponentExists, "component %s listed twice", info.Name()))
		}
		a.columns[i] = info.newColumn(InitialCapacity)
		hashes[i] = info.Hash
	}
	a.hash = CombineTypeHashes(hashes...)
	return a
}

// Index returns the archetype's position in its registry.
func (a *Archetype) Index() uint32 {
	return a.index
}

// Hash returns the archetype key, see ArchetypeKey.
func (a *Archetype) Hash() TypeHash {
	return a.hash
}

// Len returns the number of entities stored.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Cap returns the number of rows allocated per column.
func (a *Archetype) Cap() int {
	return a.capacity
}

// ComponentCount returns the number of component types in the archetype.
func (a *Archetype) ComponentCount() int {
	return len(a.columns)
}

// Types returns the component types in column order.
func (a *Archetype) Types() []reflect.Type {
	types := make([]reflect.Type, len(a.columns))
	for i, c := range a.columns {
		types[i] = c.typeInfo().Type
	}
	return types
}

// Entities returns the registry index of the entity stored in each row. The
// slice aliases archetype memory and is invalidated by any mutation.
func (a *Archetype) Entities() []uint32 {
	return a.entities
}

// HasComponent reports whether the archetype has a column for hash.
func (a *Archetype) HasComponent(hash TypeHash) bool {
	return a.columnIndex(hash) >= 0
}

// HasComponents reports whether the archetype is a superset of hashes.
func (a *Archetype) HasComponents(hashes ...TypeHash) bool {
	for _, h := range hashes {
		if a.columnIndex(h) < 0 {
			return false
		}
	}
	return true
}

// hasExactly reports whether the archetype holds exactly the given set.
func (a *Archetype) hasExactly(hashes []TypeHash) bool {
	return len(a.columns) == len(hashes) && a.HasComponents(hashes...)
}

// Archetypes hold few component types, so a linear scan beats a map here.
func (a *Archetype) columnIndex(hash TypeHash) int {
	for i, c := range a.columns {
		if c.typeInfo().Hash == hash {
			return i
		}
	}
	return -1
}

func (a *Archetype) columnIndexByType(t reflect.Type) int {
	for i, c := range a.columns {
		if c.typeInfo().Type == t {
			return i
		}
	}
	return -1
}

func (a *Archetype) column(hash TypeHash) column {
	if idx := a.columnIndex(hash); idx >= 0 {
		return a.columns[idx]
	}
	return nil
}

// component returns a pointer to the component stored at row, or nil.
func (a *Archetype) component(row uint32, hash TypeHash) any {
	c := a.column(hash)
	if c == nil {
		return nil
	}
	return c.at(int(row))
}

// pushRow reserves the tail row for entityIndex and returns it.
func (a *Archetype) pushRow(entityIndex uint32) uint32 {
	if len(a.entities) == a.capacity {
		a.resize()
	}
	a.entities = append(a.entities, entityIndex)
	return uint32(len(a.entities) - 1)
}

// createEntity writes a new row at the tail and returns its local index.
// Exactly one value must be given per column, by value or by pointer.
func (a *Archetype) createEntity(entityIndex uint32, values ...any) uint32 {
	if len(values) != len(a.columns) {
		panic(eris.Wrapf(ErrBadArchetypeRow, "got %d components for an archetype of %d", len(values), len(a.columns)))
	}

	row := a.pushRow(entityIndex)
	for _, v := range values {
		t := reflect.TypeOf(v)
		if t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		idx := a.columnIndexByType(t)
		if idx < 0 {
			panic(eris.Wrapf(ErrBadArchetypeRow, "archetype has no column for %s", t))
		}
		if a.columns[idx].len() != int(row) {
			panic(eris.Wrapf(ErrComponentExists, "component %s given twice", t))
		}
		a.columns[idx].pushAny(v)
	}
	return row
}

// deleteEntity removes row by moving the last row into it. The result names
// the entity that was moved, if any, so its record can be patched.
func (a *Archetype) deleteEntity(row uint32) EntityMoveResult {
	last := len(a.entities) - 1
	if int(row) > last {
		panic(eris.Wrapf(ErrBadArchetypeRow, "row %d out of range [0,%d)", row, len(a.entities)))
	}

	for _, c := range a.columns {
		c.swapRemove(int(row))
	}

	result := EntityMoveResult{
		Moved:     VoidEntity,
		SourceRow: uint32(last),
		DestRow:   row,
	}
	if int(row) != last {
		a.entities[row] = a.entities[last]
		result.Moved = a.entities[row]
	}
	a.entities = a.entities[:last]
	return result
}

// moveFrom migrates the entity described by e out of src and into a new row
// of a. Columns a shares with src are copied; when a is wider than src the one
// extra column receives added. When a is narrower, columns it lacks are
// dropped and added must be nil. e is updated to point at the new row; the
// returned result describes the swap-remove performed on src.
func (a *Archetype) moveFrom(src *Archetype, added any, e *Entity) EntityMoveResult {
	srcRow := int(e.LocalRow)
	row := a.pushRow(src.entities[srcRow])

	for _, c := range a.columns {
		if idx := src.columnIndex(c.typeInfo().Hash); idx >= 0 {
			c.pushFrom(src.columns[idx], srcRow)
			continue
		}
		if added == nil {
			panic(eris.Wrapf(ErrBadArchetypeRow, "no value for new column %s", c.typeInfo().Name()))
		}
		c.pushAny(added)
	}

	result := src.deleteEntity(e.LocalRow)
	e.LocalRow = row
	e.ArchetypeIndex = a.index
	return result
}

// resize doubles the capacity of every column and of the entity column.
func (a *Archetype) resize() {
	capacity := a.capacity * 2
	if capacity == 0 {
		capacity = InitialCapacity
	}
	for _, c := range a.columns {
		c.reserve(capacity)
	}
	grown := make([]uint32, len(a.entities), capacity)
	copy(grown, a.entities)
	a.entities = grown

	a.logger.Debug().
		Uint32("archetype_index", a.index).
		Uint32("archetype_hash", uint32(a.hash)).
		Int("old_capacity", a.capacity).
		Int("new_capacity", capacity).
		Msg("archetype resized")
	a.capacity = capacity
}
