package main

import (
	"math/rand"
	"reflect"

	"github.com/plus3/archecs/ecs"
)

// MovementSystem integrates velocity into position.
type MovementSystem struct {
	moving *ecs.Query2[Position, Velocity]
	chunks []ecs.QueryChunk2[Position, Velocity]
}

func NewMovementSystem(r *ecs.Registry) *MovementSystem {
	return &MovementSystem{moving: ecs.NewQuery2[Position, Velocity](r)}
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	s.chunks = s.moving.Populate(s.chunks)
	for _, chunk := range s.chunks {
		for i := 0; i < chunk.Count; i++ {
			chunk.A[i].X += chunk.B[i].DX * dt
			chunk.A[i].Y += chunk.B[i].DY * dt
		}
	}
}

// HealthSystem drains health, faster for heavy entities, and replaces every
// entity that runs out with a freshly spawned one so the population stays
// steady.
type HealthSystem struct {
	living *ecs.Query1[Health]
	rng    *rand.Rand
	rate   float32

	Replaced int64
}

func NewHealthSystem(r *ecs.Registry, rng *rand.Rand) *HealthSystem {
	return &HealthSystem{
		living: ecs.NewQuery1[Health](r),
		rng:    rng,
		rate:   25,
	}
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	s.living.Each(func(id ecs.EntityId, h *Health) {
		drain := s.rate * dt
		if ecs.HasComponent[Mass](frame.Registry, id) {
			drain *= 1 + float32(*ecs.GetComponent[Mass](frame.Registry, id))/100
		}
		h.Current -= drain
		if h.Current <= 0 {
			frame.Commands.Delete(id)
			frame.Commands.Spawn(randomComponents(s.rng)...)
			s.Replaced++
		}
	})
}

// ChurnSystem toggles Velocity on a random fraction of entities every frame,
// moving them between archetypes. No entity is picked twice in one frame.
type ChurnSystem struct {
	living *ecs.Query1[Health]
	rng    *rand.Rand
	ratio  float64
	ids    []ecs.EntityId

	Added   int64
	Removed int64
}

func NewChurnSystem(r *ecs.Registry, rng *rand.Rand, ratio float64) *ChurnSystem {
	return &ChurnSystem{
		living: ecs.NewQuery1[Health](r),
		rng:    rng,
		ratio:  ratio,
	}
}

func (s *ChurnSystem) Execute(frame *ecs.UpdateFrame) {
	s.ids = s.ids[:0]
	s.living.Each(func(id ecs.EntityId, _ *Health) {
		s.ids = append(s.ids, id)
	})

	// Partial Fisher-Yates: the first n slots end up holding distinct ids.
	n := int(float64(len(s.ids)) * s.ratio)
	velocity := reflect.TypeFor[Velocity]()
	for i := 0; i < n; i++ {
		j := i + s.rng.Intn(len(s.ids)-i)
		s.ids[i], s.ids[j] = s.ids[j], s.ids[i]
		id := s.ids[i]
		if ecs.HasComponent[Velocity](frame.Registry, id) {
			frame.Commands.RemoveComponent(id, velocity)
			s.Removed++
		} else {
			frame.Commands.AddComponent(id, Velocity{DX: s.rng.Float32()*2 - 1, DY: s.rng.Float32()*2 - 1})
			s.Added++
		}
	}
}
