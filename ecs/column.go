package ecs

import "github.com/rotisserie/eris"

// column is a type-erased, contiguous buffer holding one component type for
// every row of an archetype. Archetype migration only ever talks to this
// interface, so it never needs the concrete component type.
type column interface {
	typeInfo() *ComponentTypeInfo
	len() int
	pushAny(item any)
	pushFrom(src column, row int)
	swapRemove(row int)
	reserve(capacity int)
	at(row int) any
}

// typedColumn stores components of type T. len(data) is the archetype's
// entity count and cap(data) its capacity.
type typedColumn[T any] struct {
	info *ComponentTypeInfo
	data []T
}

func newTypedColumn[T any](info *ComponentTypeInfo, capacity int) *typedColumn[T] {
	return &typedColumn[T]{
		info: info,
		data: make([]T, 0, capacity),
	}
}

func (c *typedColumn[T]) typeInfo() *ComponentTypeInfo {
	return c.info
}

func (c *typedColumn[T]) len() int {
	return len(c.data)
}

// pushAny appends a component passed either by value or by pointer.
func (c *typedColumn[T]) pushAny(item any) {
	if ptr, ok := item.(*T); ok {
		c.data = append(c.data, *ptr)
	} else if val, ok := item.(T); ok {
		c.data = append(c.data, val)
	} else {
		panic(eris.Wrapf(ErrInvalidComponentType, "column %s cannot store %T", c.info.Type, item))
	}
}

// pushFrom appends a copy of src[row]. src must hold the same component type.
func (c *typedColumn[T]) pushFrom(src column, row int) {
	s, ok := src.(*typedColumn[T])
	if !ok {
		panic(eris.Wrapf(ErrInvalidComponentType, "cannot copy %s into column %s", src.typeInfo().Type, c.info.Type))
	}
	c.data = append(c.data, s.data[row])
}

// swapRemove overwrites row with the last element and shrinks by one. The
// vacated tail slot is zeroed so the column does not pin dead references.
func (c *typedColumn[T]) swapRemove(row int) {
	last := len(c.data) - 1
	if row != last {
		c.data[row] = c.data[last]
	}
	var zero T
	c.data[last] = zero
	c.data = c.data[:last]
}

func (c *typedColumn[T]) reserve(capacity int) {
	if cap(c.data) >= capacity {
		return
	}
	grown := make([]T, len(c.data), capacity)
	copy(grown, c.data)
	c.data = grown
}

// at returns a pointer to the component stored at row.
func (c *typedColumn[T]) at(row int) any {
	return &c.data[row]
}

// columnData returns the live elements of a column known to hold T.
func columnData[T any](c column) []T {
	return c.(*typedColumn[T]).data
}
