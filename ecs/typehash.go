package ecs

import (
	"hash/crc32"
	"reflect"
	"slices"
)

// TypeHash is the stable numeric identity of a component type, or of a
// combination of component types.
type TypeHash uint32

// HashTypeName returns the CRC32 (IEEE) of a canonical type name.
func HashTypeName(name string) TypeHash {
	return TypeHash(crc32.ChecksumIEEE([]byte(name)))
}

// TypeHashOf returns the hash of component type T.
func TypeHashOf[T any]() TypeHash {
	return hashType(reflect.TypeFor[T]())
}

func hashType(t reflect.Type) TypeHash {
	return HashTypeName(canonicalTypeName(t))
}

// canonicalTypeName qualifies named types with their full package path so two
// "Position" types from different packages never share a name.
func canonicalTypeName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// HashCombine mixes h into seed.
func HashCombine(seed, h TypeHash) TypeHash {
	seed ^= h + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	return seed
}

// CombineTypeHashes folds hashes left to right. The result depends on the
// order of the arguments: {A, B} and {B, A} hash differently. A single hash is
// returned unchanged and an empty list hashes to zero.
func CombineTypeHashes(hashes ...TypeHash) TypeHash {
	if len(hashes) == 0 {
		return 0
	}
	seed := hashes[0]
	for _, h := range hashes[1:] {
		seed = HashCombine(seed, h)
	}
	return seed
}

// ArchetypeKey returns the order-independent identity of a component set. The
// hashes are combined in ascending order.
func ArchetypeKey(hashes []TypeHash) TypeHash {
	if slices.IsSorted(hashes) {
		return CombineTypeHashes(hashes...)
	}
	sorted := slices.Clone(hashes)
	slices.Sort(sorted)
	return CombineTypeHashes(sorted...)
}
