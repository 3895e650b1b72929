package main

import (
	"math/rand"

	"github.com/plus3/archecs/ecs"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

// Health is present on every stress entity; when it runs out the entity is
// replaced by a fresh one.
type Health struct {
	Current, Max float32
}

type Mass float32

type Team uint8

type Sprite struct {
	Frame, Layer uint16
}

type Inventory struct {
	Items []uint32
}

// optionalComponents build the components a stress entity may carry on top
// of Health.
var optionalComponents = []func(rng *rand.Rand) any{
	func(rng *rand.Rand) any { return Position{X: rng.Float32() * 1000, Y: rng.Float32() * 1000} },
	func(rng *rand.Rand) any { return Velocity{DX: rng.Float32()*2 - 1, DY: rng.Float32()*2 - 1} },
	func(rng *rand.Rand) any { return Mass(1 + rng.Float32()*99) },
	func(rng *rand.Rand) any { return Team(rng.Intn(4)) },
	func(rng *rand.Rand) any { return Sprite{Frame: uint16(rng.Intn(64)), Layer: uint16(rng.Intn(8))} },
	func(rng *rand.Rand) any { return Inventory{Items: make([]uint32, rng.Intn(4))} },
}

func registerComponents(r *ecs.Registry) {
	ecs.RegisterComponent[Position](r)
	ecs.RegisterComponent[Velocity](r)
	ecs.RegisterComponent[Health](r)
	ecs.RegisterComponent[Mass](r)
	ecs.RegisterComponent[Team](r)
	ecs.RegisterComponent[Sprite](r)
	ecs.RegisterComponent[Inventory](r)
}

// randomComponents returns Health plus a random subset of the optional
// components, in random order.
func randomComponents(rng *rand.Rand) []any {
	hp := 100 + rng.Float32()*100
	components := []any{Health{Current: hp, Max: hp}}
	for _, i := range rng.Perm(len(optionalComponents)) {
		if rng.Intn(2) == 0 {
			components = append(components, optionalComponents[i](rng))
		}
	}
	return components
}
