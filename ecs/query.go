package ecs

import "reflect"

// QueryChunk1 is the result of a one-component query for one archetype.
// Count rows are valid in each slice.
type QueryChunk1[A any] struct {
	Count int
	A     []A
}

// QueryChunk2 is the result of a two-component query for one archetype.
type QueryChunk2[A, B any] struct {
	Count int
	A     []A
	B     []B
}

// QueryChunk3 is the result of a three-component query for one archetype.
type QueryChunk3[A, B, C any] struct {
	Count int
	A     []A
	B     []B
	C     []C
}

// QueryChunk4 is the result of a four-component query for one archetype.
type QueryChunk4[A, B, C, D any] struct {
	Count int
	A     []A
	B     []B
	C     []C
	D     []D
}

// queryCache tracks the archetypes that hold every hash of a query.
// Archetypes are only ever appended to a registry, so the archetypes already
// scanned never need to be looked at again.
type queryCache struct {
	registry *Registry
	hashes   []TypeHash
	matched  []*Archetype
	scanned  int
}

func newQueryCache(r *Registry, types ...reflect.Type) queryCache {
	hashes := make([]TypeHash, len(types))
	for i, t := range types {
		hashes[i] = r.hashOf(t)
	}
	return queryCache{registry: r, hashes: hashes}
}

func (c *queryCache) refresh() []*Archetype {
	archetypes := c.registry.archetypes
	for _, a := range archetypes[c.scanned:] {
		if a.HasComponents(c.hashes...) {
			c.matched = append(c.matched, a)
		}
	}
	c.scanned = len(archetypes)
	return c.matched
}

func (c *queryCache) count() int {
	n := 0
	for _, a := range c.refresh() {
		n += a.Len()
	}
	return n
}

// PopulateComponentQuery1 resets out and appends one chunk per non-empty
// archetype that has an A, in archetype creation order. The slices alias
// archetype columns: writes through them are visible to the registry, and any
// structural change invalidates them.
func PopulateComponentQuery1[A any](r *Registry, out []QueryChunk1[A]) []QueryChunk1[A] {
	c := newQueryCache(r, reflect.TypeFor[A]())
	return appendChunks1(out[:0], c.refresh(), c.hashes)
}

// PopulateComponentQuery2 is PopulateComponentQuery1 for archetypes that have
// both an A and a B.
func PopulateComponentQuery2[A, B any](r *Registry, out []QueryChunk2[A, B]) []QueryChunk2[A, B] {
	c := newQueryCache(r, reflect.TypeFor[A](), reflect.TypeFor[B]())
	return appendChunks2(out[:0], c.refresh(), c.hashes)
}

// PopulateComponentQuery3 is PopulateComponentQuery1 for three components.
func PopulateComponentQuery3[A, B, C any](r *Registry, out []QueryChunk3[A, B, C]) []QueryChunk3[A, B, C] {
	c := newQueryCache(r, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]())
	return appendChunks3(out[:0], c.refresh(), c.hashes)
}

// PopulateComponentQuery4 is PopulateComponentQuery1 for four components.
func PopulateComponentQuery4[A, B, C, D any](r *Registry, out []QueryChunk4[A, B, C, D]) []QueryChunk4[A, B, C, D] {
	c := newQueryCache(r, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C](), reflect.TypeFor[D]())
	return appendChunks4(out[:0], c.refresh(), c.hashes)
}

func appendChunks1[A any](out []QueryChunk1[A], archetypes []*Archetype, h []TypeHash) []QueryChunk1[A] {
	for _, a := range archetypes {
		if a.Len() == 0 {
			continue
		}
		out = append(out, QueryChunk1[A]{
			Count: a.Len(),
			A:     columnData[A](a.column(h[0])),
		})
	}
	return out
}

func appendChunks2[A, B any](out []QueryChunk2[A, B], archetypes []*Archetype, h []TypeHash) []QueryChunk2[A, B] {
	for _, a := range archetypes {
		if a.Len() == 0 {
			continue
		}
		out = append(out, QueryChunk2[A, B]{
			Count: a.Len(),
			A:     columnData[A](a.column(h[0])),
			B:     columnData[B](a.column(h[1])),
		})
	}
	return out
}

func appendChunks3[A, B, C any](out []QueryChunk3[A, B, C], archetypes []*Archetype, h []TypeHash) []QueryChunk3[A, B, C] {
	for _, a := range archetypes {
		if a.Len() == 0 {
			continue
		}
		out = append(out, QueryChunk3[A, B, C]{
			Count: a.Len(),
			A:     columnData[A](a.column(h[0])),
			B:     columnData[B](a.column(h[1])),
			C:     columnData[C](a.column(h[2])),
		})
	}
	return out
}

func appendChunks4[A, B, C, D any](out []QueryChunk4[A, B, C, D], archetypes []*Archetype, h []TypeHash) []QueryChunk4[A, B, C, D] {
	for _, a := range archetypes {
		if a.Len() == 0 {
			continue
		}
		out = append(out, QueryChunk4[A, B, C, D]{
			Count: a.Len(),
			A:     columnData[A](a.column(h[0])),
			B:     columnData[B](a.column(h[1])),
			C:     columnData[C](a.column(h[2])),
			D:     columnData[D](a.column(h[3])),
		})
	}
	return out
}

// Query1 caches the archetypes matching A across calls, so repeated
// iteration (for example once per frame in a System) does not rescan every
// archetype.
type Query1[A any] struct {
	cache queryCache
}

// NewQuery1 creates a cached query over r.
func NewQuery1[A any](r *Registry) *Query1[A] {
	return &Query1[A]{cache: newQueryCache(r, reflect.TypeFor[A]())}
}

// Populate behaves like PopulateComponentQuery1.
func (q *Query1[A]) Populate(out []QueryChunk1[A]) []QueryChunk1[A] {
	return appendChunks1(out[:0], q.cache.refresh(), q.cache.hashes)
}

// Count returns the number of matching entities.
func (q *Query1[A]) Count() int {
	return q.cache.count()
}

// Each calls fn for every matching entity. fn must not make structural
// changes to the registry; queue them on a Commands buffer instead.
func (q *Query1[A]) Each(fn func(id EntityId, a *A)) {
	r := q.cache.registry
	for _, arch := range q.cache.refresh() {
		as := columnData[A](arch.column(q.cache.hashes[0]))
		for row, index := range arch.entities {
			fn(r.entityId(index), &as[row])
		}
	}
}

// Query2 is the cached form of PopulateComponentQuery2.
type Query2[A, B any] struct {
	cache queryCache
}

// NewQuery2 creates a cached query over r.
func NewQuery2[A, B any](r *Registry) *Query2[A, B] {
	return &Query2[A, B]{cache: newQueryCache(r, reflect.TypeFor[A](), reflect.TypeFor[B]())}
}

// Populate behaves like PopulateComponentQuery2.
func (q *Query2[A, B]) Populate(out []QueryChunk2[A, B]) []QueryChunk2[A, B] {
	return appendChunks2(out[:0], q.cache.refresh(), q.cache.hashes)
}

// Count returns the number of matching entities.
func (q *Query2[A, B]) Count() int {
	return q.cache.count()
}

// Each calls fn for every matching entity. See Query1.Each.
func (q *Query2[A, B]) Each(fn func(id EntityId, a *A, b *B)) {
	r := q.cache.registry
	for _, arch := range q.cache.refresh() {
		as := columnData[A](arch.column(q.cache.hashes[0]))
		bs := columnData[B](arch.column(q.cache.hashes[1]))
		for row, index := range arch.entities {
			fn(r.entityId(index), &as[row], &bs[row])
		}
	}
}

// Query3 is the cached form of PopulateComponentQuery3.
type Query3[A, B, C any] struct {
	cache queryCache
}

// NewQuery3 creates a cached query over r.
func NewQuery3[A, B, C any](r *Registry) *Query3[A, B, C] {
	return &Query3[A, B, C]{cache: newQueryCache(r, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C]())}
}

// Populate behaves like PopulateComponentQuery3.
func (q *Query3[A, B, C]) Populate(out []QueryChunk3[A, B, C]) []QueryChunk3[A, B, C] {
	return appendChunks3(out[:0], q.cache.refresh(), q.cache.hashes)
}

// Count returns the number of matching entities.
func (q *Query3[A, B, C]) Count() int {
	return q.cache.count()
}

// Each calls fn for every matching entity. See Query1.Each.
func (q *Query3[A, B, C]) Each(fn func(id EntityId, a *A, b *B, c *C)) {
	r := q.cache.registry
	for _, arch := range q.cache.refresh() {
		as := columnData[A](arch.column(q.cache.hashes[0]))
		bs := columnData[B](arch.column(q.cache.hashes[1]))
		cs := columnData[C](arch.column(q.cache.hashes[2]))
		for row, index := range arch.entities {
			fn(r.entityId(index), &as[row], &bs[row], &cs[row])
		}
	}
}

// Query4 is the cached form of PopulateComponentQuery4.
type Query4[A, B, C, D any] struct {
	cache queryCache
}

// NewQuery4 creates a cached query over r.
func NewQuery4[A, B, C, D any](r *Registry) *Query4[A, B, C, D] {
	return &Query4[A, B, C, D]{cache: newQueryCache(r, reflect.TypeFor[A](), reflect.TypeFor[B](), reflect.TypeFor[C](), reflect.TypeFor[D]())}
}

// Populate behaves like PopulateComponentQuery4.
func (q *Query4[A, B, C, D]) Populate(out []QueryChunk4[A, B, C, D]) []QueryChunk4[A, B, C, D] {
	return appendChunks4(out[:0], q.cache.refresh(), q.cache.hashes)
}

// Count returns the number of matching entities.
func (q *Query4[A, B, C, D]) Count() int {
	return q.cache.count()
}

// Each calls fn for every matching entity. See Query1.Each.
func (q *Query4[A, B, C, D]) Each(fn func(id EntityId, a *A, b *B, c *C, d *D)) {
	r := q.cache.registry
	for _, arch := range q.cache.refresh() {
		as := columnData[A](arch.column(q.cache.hashes[0]))
		bs := columnData[B](arch.column(q.cache.hashes[1]))
		cs := columnData[C](arch.column(q.cache.hashes[2]))
		ds := columnData[D](arch.column(q.cache.hashes[3]))
		for row, index := range arch.entities {
			fn(r.entityId(index), &as[row], &bs[row], &cs[row], &ds[row])
		}
	}
}
