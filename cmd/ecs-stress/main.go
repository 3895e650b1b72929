package main

import (
	"context"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/plus3/archecs/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := defaultConfig()
	var configFile string

	cmd := &cobra.Command{
		Use:          "ecs-stress",
		Short:        "Run a randomized workload against an archetype registry and report timings",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			if err := cfg.applyFlags(cmd); err != nil {
				return eris.Wrap(err, "reading flags")
			}
			return run(cmd.Context(), cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "Optional config file of STRESS_* key=value pairs.")
	flags.String("duration", defaults.Duration, "The total duration the test should run for.")
	flags.Int("entities", defaults.Entities, "The initial number of entities to create.")
	flags.Int64("seed", defaults.Seed, "Seed for the random workload.")
	flags.Float64("churn", defaults.Churn, "Fraction of entities that gain or lose a component each frame.")
	flags.String("profile", defaults.Profile, "Profile to record: none, cpu or mem.")
	flags.String("format", defaults.Format, "Report format: text or yaml.")
	flags.String("log-level", defaults.LogLevel, "Log level: trace, debug, info, warn or error.")
	flags.Bool("gc-pause-metrics", defaults.GCPauseMetrics, "Enable detailed GC pause metrics in the report.")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, cfg Config) error {
	duration, err := cfg.validate()
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return eris.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}

	runID := uuid.NewString()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().
		Timestamp().
		Str("run_id", runID).
		Logger()

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	logger.Info().Msg("Starting ECS stress test...")

	// 1. Setup Registry and Scheduler
	rng := rand.New(rand.NewSource(cfg.Seed))
	registry := ecs.NewRegistry(ecs.WithLogger(logger), ecs.WithEntityCapacity(cfg.Entities))
	registerComponents(registry)

	health := NewHealthSystem(registry, rng)
	churn := NewChurnSystem(registry, rng, cfg.Churn)
	scheduler := ecs.NewScheduler(registry)
	scheduler.SetSlowThreshold(50 * time.Millisecond)
	scheduler.Register(NewMovementSystem(registry))
	scheduler.Register(health)
	scheduler.Register(churn)

	// 2. Populate the registry with initial entities
	logger.Info().Int("entities", cfg.Entities).Msg("Populating registry...")
	for i := 0; i < cfg.Entities; i++ {
		registry.Spawn(randomComponents(rng)...)
	}
	logger.Info().Int("archetypes", len(registry.Archetypes())).Msg("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		RunID:          runID,
		Seed:           cfg.Seed,
		Duration:       duration,
		Entities:       cfg.Entities,
		Churn:          cfg.Churn,
		GCPauseMetrics: cfg.GCPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", duration).Msg("Running simulation...")
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.Once(deltaTime.Seconds())
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.Replaced = health.Replaced
	report.ChurnAdded = churn.Added
	report.ChurnRemoved = churn.Removed
	report.Registry = registry.CollectStats()
	report.Systems = scheduler.GetStats().Systems
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Finalize()

	logger.Info().Int64("updates", totalUpdates).Msg("Simulation finished.")
	if level <= zerolog.DebugLevel {
		ecs.LogRegistry(&logger, registry, zerolog.DebugLevel)
	}

	// 4. Write the report
	if err := report.Write(cmd.OutOrStdout(), cfg.Format); err != nil {
		return eris.Wrap(err, "failed to generate report")
	}
	return nil
}
