package config

import (
	"math"
	"os"
	"strconv"
	"strings"

	"seedrand/adapters/random"
	"seedrand/internal/errors"
	"seedrand/internal/sampletable"
)

// Output formats understood by the sample table writer
const (
	FormatCSV  = sampletable.FormatCSV
	FormatXLSX = sampletable.FormatXLSX
)

// Config represents the complete randdump configuration
type Config struct {
	Random   RandomConfig
	Sample   SampleConfig
	Server   ServerConfig
	LogLevel string
}

// RandomConfig selects the engine and seed of the root stream
type RandomConfig struct {
	// Seed is nil when RANDOM_SEED is unset; the stream is then seeded
	// from the clock.
	Seed   *int32
	Engine random.Engine
}

// SampleConfig holds sample table settings
type SampleConfig struct {
	Rows    int
	Workers int
	Output  string
	Format  string
}

// ServerConfig holds fixture server settings
type ServerConfig struct {
	Port    string
	GinMode string
	// MaxRows caps the rows a single request may ask for.
	MaxRows int
	// MaxIssued caps the issued-stream ledger kept per engine.
	MaxIssued int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	randomConfig, err := loadRandomConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load random configuration")
	}
	config.Random = *randomConfig

	sampleConfig, err := loadSampleConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sample configuration")
	}
	config.Sample = *sampleConfig

	serverConfig, err := loadServerConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load server configuration")
	}
	config.Server = *serverConfig

	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadRandomConfig() (*RandomConfig, error) {
	engine, err := random.ParseEngine(os.Getenv("RANDOM_ENGINE"))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	cfg := &RandomConfig{Engine: engine}
	if value := os.Getenv("RANDOM_SEED"); value != "" {
		seed, err := ParseSeed(value)
		if err != nil {
			return nil, err
		}
		cfg.Seed = &seed
	}
	return cfg, nil
}

func loadSampleConfig() (*SampleConfig, error) {
	rows, err := getEnvIntOrDefault("SAMPLE_ROWS", 256)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvIntOrDefault("SAMPLE_WORKERS", 1)
	if err != nil {
		return nil, err
	}

	output := getEnvOrDefault("SAMPLE_OUTPUT", "")
	return &SampleConfig{
		Rows:    rows,
		Workers: workers,
		Output:  output,
		Format:  strings.ToLower(getEnvOrDefault("SAMPLE_FORMAT", FormatForPath(output))),
	}, nil
}

func loadServerConfig() (*ServerConfig, error) {
	maxRows, err := getEnvIntOrDefault("SERVER_MAX_ROWS", 10000)
	if err != nil {
		return nil, err
	}
	maxIssued, err := getEnvIntOrDefault("SERVER_MAX_ISSUED", 1024)
	if err != nil {
		return nil, err
	}
	return &ServerConfig{
		Port:      getEnvOrDefault("PORT", "8080"),
		GinMode:   getEnvOrDefault("GIN_MODE", "release"),
		MaxRows:   maxRows,
		MaxIssued: maxIssued,
	}, nil
}

// Validate checks the loaded values against each other
func (c *Config) Validate() error {
	if c.Sample.Rows <= 0 {
		return errors.ConfigInvalidf("SAMPLE_ROWS must be > 0, got %d", c.Sample.Rows)
	}
	if c.Sample.Workers <= 0 {
		return errors.ConfigInvalidf("SAMPLE_WORKERS must be > 0, got %d", c.Sample.Workers)
	}
	if c.Sample.Workers > c.Sample.Rows {
		return errors.ConfigInvalidf("SAMPLE_WORKERS (%d) exceeds SAMPLE_ROWS (%d)", c.Sample.Workers, c.Sample.Rows)
	}
	if c.Server.MaxRows <= 0 {
		return errors.ConfigInvalidf("SERVER_MAX_ROWS must be > 0, got %d", c.Server.MaxRows)
	}
	if c.Server.MaxIssued <= 0 {
		return errors.ConfigInvalidf("SERVER_MAX_ISSUED must be > 0, got %d", c.Server.MaxIssued)
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalidf("unknown GIN_MODE %q", c.Server.GinMode)
	}
	switch c.Sample.Format {
	case FormatCSV:
	case FormatXLSX:
		if c.Sample.Output == "" {
			return errors.ConfigInvalid("xlsx output needs SAMPLE_OUTPUT")
		}
	default:
		return errors.ConfigInvalidf("unknown SAMPLE_FORMAT %q", c.Sample.Format)
	}
	return nil
}

// ParseSeed parses a decimal int32 seed
func ParseSeed(value string) (int32, error) {
	seed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0, errors.ConfigInvalidf("seed %q is not an int32 in [%d, %d]", value, math.MinInt32, math.MaxInt32)
	}
	return int32(seed), nil
}

// FormatForPath picks the table format from the output file extension
func FormatForPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalidf("%s must be an integer, got %q", key, value)
	}
	return intValue, nil
}
