package main

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/archecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigLayering(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "stress.env")
	require.NoError(t, os.WriteFile(file, []byte("STRESS_ENTITIES=50\nSTRESS_FORMAT=yaml\n"), 0o600))
	t.Setenv("STRESS_SEED", "7")

	cfg, err := loadConfig(file)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Entities)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "10s", cfg.Duration)

	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--entities", "5", "--churn", "0.5"}))
	require.NoError(t, cfg.applyFlags(cmd))
	assert.Equal(t, 5, cfg.Entities)
	assert.Equal(t, 0.5, cfg.Churn)
	assert.Equal(t, "yaml", cfg.Format, "unset flags keep the loaded value")
}

func TestConfigValidate(t *testing.T) {
	cfg := defaultConfig()
	d, err := cfg.validate()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)

	for name, mutate := range map[string]func(*Config){
		"duration": func(c *Config) { c.Duration = "soon" },
		"negative": func(c *Config) { c.Duration = "-1s" },
		"entities": func(c *Config) { c.Entities = -1 },
		"churn":    func(c *Config) { c.Churn = 1.5 },
		"profile":  func(c *Config) { c.Profile = "block" },
		"format":   func(c *Config) { c.Format = "json" },
	} {
		t.Run(name, func(t *testing.T) {
			c := defaultConfig()
			mutate(&c)
			_, err := c.validate()
			assert.Error(t, err)
		})
	}
}

func TestRandomComponentsAlwaysHaveHealth(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := ecs.NewRegistry()
	registerComponents(r)

	for i := 0; i < 100; i++ {
		id := r.Spawn(randomComponents(rng)...)
		h := ecs.GetComponent[Health](r, id)
		assert.Equal(t, h.Max, h.Current)
	}
	assert.Equal(t, 100, ecs.NewQuery1[Health](r).Count())
}

func TestSystemsKeepPopulationSteady(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	r := ecs.NewRegistry()
	registerComponents(r)
	for i := 0; i < 200; i++ {
		r.Spawn(randomComponents(rng)...)
	}

	health := NewHealthSystem(r, rng)
	churn := NewChurnSystem(r, rng, 0.1)
	s := ecs.NewScheduler(r)
	s.Register(NewMovementSystem(r))
	s.Register(health)
	s.Register(churn)

	for i := 0; i < 20; i++ {
		s.Once(1)
	}

	assert.Equal(t, 200, r.Len())
	assert.Positive(t, health.Replaced)
	assert.Positive(t, churn.Added+churn.Removed)
}

func TestReportFormats(t *testing.T) {
	report := &Report{
		RunID:    "run",
		Seed:     1,
		Duration: time.Second,
		UpdateTime: Stats{
			Samples: []time.Duration{time.Millisecond, 3 * time.Millisecond},
		},
		Systems: []ecs.SystemStats{{Name: "MovementSystem", ExecutionCount: 2}},
	}
	report.Finalize()
	assert.Equal(t, 2*time.Millisecond, report.UpdateTime.Avg)

	var text bytes.Buffer
	require.NoError(t, report.Write(&text, "text"))
	assert.Contains(t, text.String(), "# ECS Stress Test Report")
	assert.Contains(t, text.String(), "- MovementSystem: 2 runs")

	var out bytes.Buffer
	require.NoError(t, report.Write(&out, "yaml"))
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "run", decoded["run_id"])
	assert.Equal(t, "1s", decoded["duration"])
	assert.NotContains(t, decoded, "samples")

	assert.Error(t, report.Write(&out, "xml"))
}

func TestChurnTogglesDistinctEntities(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	r := ecs.NewRegistry()
	registerComponents(r)
	ids := make([]ecs.EntityId, 50)
	for i := range ids {
		ids[i] = r.Spawn(randomComponents(rng)...)
	}
	before := make(map[ecs.EntityId]bool, len(ids))
	for _, id := range ids {
		before[id] = ecs.HasComponent[Velocity](r, id)
	}

	churn := NewChurnSystem(r, rng, 1.0)
	s := ecs.NewScheduler(r)
	s.Register(churn)
	s.Once(1)

	assert.Equal(t, int64(len(ids)), churn.Added+churn.Removed)
	for _, id := range ids {
		assert.NotEqual(t, before[id], ecs.HasComponent[Velocity](r, id), "entity %v toggled once", id)
	}

	half := NewChurnSystem(r, rng, 0.5)
	s = ecs.NewScheduler(r)
	s.Register(half)
	s.Once(1)
	assert.Equal(t, int64(25), half.Added+half.Removed)
}
