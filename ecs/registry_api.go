package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// CreateEntity1 creates an entity with one component.
func CreateEntity1[A any](r *Registry, a A) EntityId {
	return r.createEntity([]*ComponentTypeInfo{
		RegisterComponent[A](r),
	}, a)
}

// CreateEntity2 creates an entity with two components. The order of the type
// arguments does not matter: CreateEntity2[A, B] and CreateEntity2[B, A] store
// into the same archetype.
func CreateEntity2[A, B any](r *Registry, a A, b B) EntityId {
	return r.createEntity([]*ComponentTypeInfo{
		RegisterComponent[A](r),
		RegisterComponent[B](r),
	}, a, b)
}

// CreateEntity3 creates an entity with three components.
func CreateEntity3[A, B, C any](r *Registry, a A, b B, c C) EntityId {
	return r.createEntity([]*ComponentTypeInfo{
		RegisterComponent[A](r),
		RegisterComponent[B](r),
		RegisterComponent[C](r),
	}, a, b, c)
}

// CreateEntity4 creates an entity with four components.
func CreateEntity4[A, B, C, D any](r *Registry, a A, b B, c C, d D) EntityId {
	return r.createEntity([]*ComponentTypeInfo{
		RegisterComponent[A](r),
		RegisterComponent[B](r),
		RegisterComponent[C](r),
		RegisterComponent[D](r),
	}, a, b, c, d)
}

// HasComponent reports whether id has a component of type T. It panics if id
// is stale.
func HasComponent[T any](r *Registry, id EntityId) bool {
	return r.HasComponentType(id, reflect.TypeFor[T]())
}

// GetComponent returns a pointer to id's component of type T. It panics if id
// is stale or the component is missing. The pointer is invalidated by the next
// structural change to the registry.
func GetComponent[T any](r *Registry, id EntityId) *T {
	e := r.entity(id)
	if info, ok := r.components.byType[reflect.TypeFor[T]()]; ok {
		if c := r.archetypes[e.ArchetypeIndex].column(info.Hash); c != nil {
			return &columnData[T](c)[e.LocalRow]
		}
	}
	panic(eris.Wrapf(ErrComponentMissing, "entity %s: %s", id, reflect.TypeFor[T]()))
}

// AddComponent adds value to id, moving the entity to the archetype that has
// its current components plus T. It panics if id already has a T.
func AddComponent[T any](r *Registry, id EntityId, value T) {
	r.addComponent(id, RegisterComponent[T](r), value)
}

// RemoveComponent removes id's T, moving the entity to the archetype without
// it. It panics if id has no T.
func RemoveComponent[T any](r *Registry, id EntityId) {
	r.RemoveComponentType(id, reflect.TypeFor[T]())
}
