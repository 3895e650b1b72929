package ecs_test

import (
	"testing"

	"github.com/plus3/archecs/ecs"
	"github.com/stretchr/testify/assert"
)

type GameState struct {
	Level int
	Score int
}

type Config struct {
	Difficulty string
}

func TestSingleton(t *testing.T) {
	r := ecs.NewRegistry()
	assert.False(t, ecs.SingletonExists[GameState](r))

	state := ecs.NewSingleton(r, GameState{Level: 1})
	assert.True(t, ecs.SingletonExists[GameState](r))
	assert.Equal(t, 1, state.Get().Level)

	state.Get().Score = 500

	// A second handle sees the same value and ignores its initializer.
	again := ecs.NewSingleton(r, GameState{Level: 9})
	assert.Same(t, state.Get(), again.Get())
	assert.Equal(t, 500, again.Get().Score)
	assert.Equal(t, 1, again.Get().Level)
}

func TestSingletonZeroValueAndIsolation(t *testing.T) {
	r := ecs.NewRegistry()
	cfg := ecs.NewSingleton[Config](r)
	assert.Equal(t, "", cfg.Get().Difficulty)

	// Singletons are not entities.
	assert.Equal(t, 0, r.Len())
	assert.False(t, ecs.SingletonExists[Config](ecs.NewRegistry()))
}
