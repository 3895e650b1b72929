package ecs_test

import (
	"testing"

	"github.com/plus3/archecs/ecs"
)

func BenchmarkCreateEntity(b *testing.B) {
	registry := ecs.NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.CreateEntity2(registry, Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkCreateEntityWithMultipleComponents(b *testing.B) {
	registry := ecs.NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.CreateEntity4(registry,
			Position{X: 1.0, Y: 2.0},
			Velocity{DX: 0.5, DY: 0.5},
			Health{HP: 100},
			Name{Value: "Entity"},
		)
	}
}

func BenchmarkSpawn(b *testing.B) {
	registry := ecs.NewRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		registry.Spawn(Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkDeleteEntity(b *testing.B) {
	registry := ecs.NewRegistry()

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = ecs.CreateEntity2(registry, Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		registry.DeleteEntity(ids[i])
	}
}

func BenchmarkGetComponent(b *testing.B) {
	registry := ecs.NewRegistry()
	id := ecs.CreateEntity2(registry, Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.GetComponent[Position](registry, id)
	}
}

func BenchmarkAddRemoveComponent(b *testing.B) {
	registry := ecs.NewRegistry()
	id := ecs.CreateEntity1(registry, Position{X: 1.0, Y: 2.0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ecs.AddComponent(registry, id, Health{HP: 100})
		ecs.RemoveComponent[Health](registry, id)
	}
}

func benchmarkRegistry(n int) *ecs.Registry {
	registry := ecs.NewRegistry()
	for i := 0; i < n; i++ {
		switch i % 3 {
		case 0:
			ecs.CreateEntity2(registry, Position{X: float32(i)}, Velocity{DX: 1})
		case 1:
			ecs.CreateEntity3(registry, Position{X: float32(i)}, Velocity{DX: 1}, Health{HP: 10})
		default:
			ecs.CreateEntity1(registry, Position{X: float32(i)})
		}
	}
	return registry
}

func BenchmarkPopulateComponentQuery(b *testing.B) {
	registry := benchmarkRegistry(10000)
	var chunks []ecs.QueryChunk2[Position, Velocity]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		chunks = ecs.PopulateComponentQuery2(registry, chunks)
		for _, chunk := range chunks {
			for j := 0; j < chunk.Count; j++ {
				chunk.A[j].X += chunk.B[j].DX
			}
		}
	}
}

func BenchmarkQueryEach(b *testing.B) {
	registry := benchmarkRegistry(10000)
	query := ecs.NewQuery2[Position, Velocity](registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		query.Each(func(_ ecs.EntityId, p *Position, v *Velocity) {
			p.X += v.DX
		})
	}
}
