package main

import (
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// Config holds the stress run settings. Values come from the defaults below,
// then the optional config file, then STRESS_* environment variables, then
// any flag set on the command line.
type Config struct {
	Duration       string  `config:"STRESS_DURATION"`
	Entities       int     `config:"STRESS_ENTITIES"`
	Seed           int64   `config:"STRESS_SEED"`
	Churn          float64 `config:"STRESS_CHURN"`
	Profile        string  `config:"STRESS_PROFILE"`
	Format         string  `config:"STRESS_FORMAT"`
	LogLevel       string  `config:"STRESS_LOG_LEVEL"`
	GCPauseMetrics bool    `config:"STRESS_GC_PAUSE_METRICS"`
}

func defaultConfig() Config {
	return Config{
		Duration: "10s",
		Entities: 10000,
		Seed:     1,
		Churn:    0.01,
		Profile:  "none",
		Format:   "text",
		LogLevel: "info",
	}
}

// loadConfig layers file (if any) and the environment over the defaults.
func loadConfig(file string) (Config, error) {
	cfg := defaultConfig()
	builder := config.FromEnv()
	if file != "" {
		builder = config.From(file).FromEnv()
	}
	if err := builder.To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "loading config")
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags the user actually set.
func (c *Config) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("duration") {
		c.Duration, err = flags.GetString("duration")
	}
	if err == nil && flags.Changed("entities") {
		c.Entities, err = flags.GetInt("entities")
	}
	if err == nil && flags.Changed("seed") {
		c.Seed, err = flags.GetInt64("seed")
	}
	if err == nil && flags.Changed("churn") {
		c.Churn, err = flags.GetFloat64("churn")
	}
	if err == nil && flags.Changed("profile") {
		c.Profile, err = flags.GetString("profile")
	}
	if err == nil && flags.Changed("format") {
		c.Format, err = flags.GetString("format")
	}
	if err == nil && flags.Changed("log-level") {
		c.LogLevel, err = flags.GetString("log-level")
	}
	if err == nil && flags.Changed("gc-pause-metrics") {
		c.GCPauseMetrics, err = flags.GetBool("gc-pause-metrics")
	}
	return err
}

func (c *Config) validate() (time.Duration, error) {
	d, err := time.ParseDuration(c.Duration)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid duration %q", c.Duration)
	}
	switch {
	case d <= 0:
		return 0, eris.Errorf("duration must be positive, got %s", d)
	case c.Entities < 0:
		return 0, eris.Errorf("entities must not be negative, got %d", c.Entities)
	case c.Churn < 0 || c.Churn > 1:
		return 0, eris.Errorf("churn must be within [0, 1], got %g", c.Churn)
	}
	switch c.Profile {
	case "none", "cpu", "mem":
	default:
		return 0, eris.Errorf("unknown profile %q, want none, cpu or mem", c.Profile)
	}
	switch c.Format {
	case "text", "yaml":
	default:
		return 0, eris.Errorf("unknown format %q, want text or yaml", c.Format)
	}
	return d, nil
}
