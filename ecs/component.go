package ecs

import (
	"reflect"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// ComponentTypeInfo describes a registered component type. It is created once
// per concrete type and lets archetypes allocate and copy columns without
// knowing the type statically.
type ComponentTypeInfo struct {
	Type reflect.Type
	Size uintptr
	Hash TypeHash

	newColumn func(capacity int) column
}

// Name returns the canonical type name the hash was computed from.
func (info *ComponentTypeInfo) Name() string {
	return canonicalTypeName(info.Type)
}

// componentTypes holds the type registrations of one Registry. Registries do
// not share registrations, so independent worlds can coexist.
type componentTypes struct {
	byType map[reflect.Type]*ComponentTypeInfo
	byHash *intmap.Map[TypeHash, *ComponentTypeInfo]
}

func newComponentTypes() componentTypes {
	return componentTypes{
		byType: make(map[reflect.Type]*ComponentTypeInfo),
		byHash: intmap.New[TypeHash, *ComponentTypeInfo](32),
	}
}

// RegisterComponent registers component type T with the registry and returns
// its type info. Registering the same type twice returns the existing info.
// Typed operations such as CreateEntity2 or AddComponent register their types
// implicitly; Spawn and the other any-based operations require it up front.
func RegisterComponent[T any](r *Registry) *ComponentTypeInfo {
	t := reflect.TypeFor[T]()
	if info, ok := r.components.byType[t]; ok {
		return info
	}
	validateComponentType(t)

	info := &ComponentTypeInfo{
		Type: t,
		Size: t.Size(),
		Hash: hashType(t),
	}
	info.newColumn = func(capacity int) column {
		return newTypedColumn[T](info, capacity)
	}

	if other, ok := r.components.byHash.Get(info.Hash); ok {
		panic(eris.Wrapf(ErrTypeHashCollision, "%s and %s both hash to %#08x", other.Name(), info.Name(), uint32(info.Hash)))
	}
	r.components.byType[t] = info
	r.components.byHash.Put(info.Hash, info)

	r.logger.Debug().
		Str("component_name", info.Name()).
		Uint32("type_hash", uint32(info.Hash)).
		Uint64("size", uint64(info.Size)).
		Msg("component registered")
	return info
}

// TypeInfo returns the registration for t, if any.
func (r *Registry) TypeInfo(t reflect.Type) (*ComponentTypeInfo, bool) {
	info, ok := r.components.byType[t]
	return info, ok
}

func (r *Registry) mustTypeInfo(t reflect.Type) *ComponentTypeInfo {
	info, ok := r.components.byType[t]
	if !ok {
		panic(eris.Wrapf(ErrUnregisteredComponent, "%s", t))
	}
	return info
}

// typeInfoOf resolves the registration for a component passed by value or by
// pointer.
func (r *Registry) typeInfoOf(component any) *ComponentTypeInfo {
	t := reflect.TypeOf(component)
	if t == nil {
		panic(eris.Wrap(ErrInvalidComponentType, "nil component"))
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return r.mustTypeInfo(t)
}

// Components can be structs or primitives, but not pointers, maps, channels,
// functions or interfaces.
func validateComponentType(t reflect.Type) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic(eris.Wrapf(ErrInvalidComponentType, "%s: components cannot be pointers, maps, channels, functions or interfaces", t))
	}
}
