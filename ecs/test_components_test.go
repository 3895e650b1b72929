package ecs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// Common test component types
type Position struct {
	X, Y, Z, W float32
}

type Health struct {
	HP float32
}

type Dummy struct {
	A, B int32
	C    float32
	D, E uint16
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type PlayerController struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Temperature float64

type Inventory struct {
	Items []string
}

// requirePanicsWith fails the test unless fn panics with an error matching
// target.
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.True(t, errors.Is(err, target), "panic %v is not %v", err, target)
	}()
	fn()
}
