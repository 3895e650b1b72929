package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Singleton gives direct access to one value of type T that belongs to the
// registry rather than to an entity: global game state, configuration and the
// like. Singletons never move, so the pointer returned by Get stays valid for
// the registry's lifetime.
type Singleton[T any] struct {
	value *T
}

// NewSingleton returns the registry's singleton of type T, creating it from
// initializer (or the zero value) if it does not exist yet. It panics with
// ErrTypeHashCollision if another type's singleton already owns T's hash.
func NewSingleton[T any](r *Registry, initializer ...T) *Singleton[T] {
	hash := TypeHashOf[T]()
	if existing, ok := r.singletons.Get(hash); ok {
		value, ok := existing.(*T)
		if !ok {
			panic(eris.Wrapf(ErrTypeHashCollision, "singleton %s and %s both hash to %#08x",
				reflect.TypeOf(existing).Elem(), reflect.TypeFor[T](), uint32(hash)))
		}
		return &Singleton[T]{value: value}
	}

	value := new(T)
	if len(initializer) > 0 {
		*value = initializer[0]
	}
	r.singletons.Put(hash, value)
	return &Singleton[T]{value: value}
}

// Get returns a pointer to the singleton value.
func (s *Singleton[T]) Get() *T {
	return s.value
}

// SingletonExists reports whether the registry holds a singleton of type T.
func SingletonExists[T any](r *Registry) bool {
	_, ok := r.singletons.Get(TypeHashOf[T]())
	return ok
}
