package config

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages decomposition configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Partitioning parameters
	v.SetDefault("partition.blocks", 2)
	v.SetDefault("partition.strategy", "dfs")
	v.SetDefault("partition.imbalance", 0.1)
	v.SetDefault("partition.random_seed", time.Now().UnixNano())

	// CNF bridge parameters
	v.SetDefault("cnf.heuristic", "none")
	v.SetDefault("cnf.dual", true)

	// Oracle parameters
	v.SetDefault("oracle.counter", "gophersat")
	v.SetDefault("oracle.verify", true)
	v.SetDefault("oracle.max_models", 1<<20)
	v.SetDefault("oracle.workers", runtime.NumCPU())

	// Logging parameters
	v.SetDefault("logging.level", "info")

	v.SetDefault("analysis.track_assignments", false)
	v.SetDefault("analysis.output_file", "assignments.jsonl")

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.prefix", "fragment")
	v.SetDefault("output.write_fragments", false)

	v.SetEnvPrefix("HYPERCUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Viper exposes the underlying instance for flag binding.
func (c *Config) Viper() *viper.Viper { return c.v }

func (c *Config) Blocks() int { return c.v.GetInt("partition.blocks") }
func (c *Config) Strategy() string { return c.v.GetString("partition.strategy") }
func (c *Config) Imbalance() float64 { return c.v.GetFloat64("partition.imbalance") }
func (c *Config) RandomSeed() int64 { return c.v.GetInt64("partition.random_seed") }

func (c *Config) Heuristic() string { return c.v.GetString("cnf.heuristic") }
func (c *Config) Dual() bool { return c.v.GetBool("cnf.dual") }

func (c *Config) Counter() string { return c.v.GetString("oracle.counter") }
func (c *Config) Verify() bool { return c.v.GetBool("oracle.verify") }
func (c *Config) MaxModels() int { return c.v.GetInt("oracle.max_models") }
func (c *Config) Workers() int { return c.v.GetInt("oracle.workers") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

func (c *Config) EnableAssignmentTracking() bool { return c.v.GetBool("analysis.track_assignments") }
func (c *Config) TrackingOutputFile() string { return c.v.GetString("analysis.output_file") }

func (c *Config) OutputDir() string { return c.v.GetString("output.dir") }
func (c *Config) OutputPrefix() string { return c.v.GetString("output.prefix") }
func (c *Config) WriteFragments() bool { return c.v.GetBool("output.write_fragments") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "hypercut").Logger()
}
