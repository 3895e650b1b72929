package ecs_test

import (
	"fmt"

	"github.com/plus3/archecs/ecs"
)

// ExamplePopulateComponentQuery2 iterates matching archetypes chunk by
// chunk. Each chunk's slices point straight into archetype storage, so the
// loop body writes components in place.
func ExamplePopulateComponentQuery2() {
	registry := ecs.NewRegistry()
	ecs.CreateEntity2(registry, Position{X: 0}, Velocity{DX: 1})
	ecs.CreateEntity2(registry, Position{X: 10}, Velocity{DX: 2})
	ecs.CreateEntity3(registry, Position{X: 20}, Velocity{DX: 3}, Health{HP: 5})
	ecs.CreateEntity1(registry, Position{X: 30})

	var chunks []ecs.QueryChunk2[Position, Velocity]
	chunks = ecs.PopulateComponentQuery2(registry, chunks)
	for _, chunk := range chunks {
		for i := 0; i < chunk.Count; i++ {
			chunk.A[i].X += chunk.B[i].DX
			fmt.Printf("x=%.0f\n", chunk.A[i].X)
		}
	}
	fmt.Println("chunks:", len(chunks))

	// Output:
	// x=1
	// x=12
	// x=23
	// chunks: 2
}

// ExampleQuery2 uses a cached query. Archetypes that match are remembered, so
// calling Each every frame only looks at archetypes created since the last
// call.
func ExampleQuery2() {
	registry := ecs.NewRegistry()
	ecs.CreateEntity2(registry, Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 0})
	ecs.CreateEntity2(registry, Position{X: 10, Y: 10}, Velocity{DX: 0, DY: 1})

	moving := ecs.NewQuery2[Position, Velocity](registry)
	moving.Each(func(_ ecs.EntityId, p *Position, v *Velocity) {
		p.X += v.DX
		p.Y += v.DY
		fmt.Printf("(%.0f, %.0f)\n", p.X, p.Y)
	})
	fmt.Println("count:", moving.Count())

	// Output:
	// (1, 0)
	// (10, 11)
	// count: 2
}
