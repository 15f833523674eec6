package utils

import (
	"encoding/json"
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Seed names accepted by Config.Seed
const (
	SeedModulo  = "modulo"
	SeedBlinker = "blinker"
	SeedGlider  = "glider"
	SeedEmpty   = "empty"
)

// Reference grid dimensions used by DefaultConfig and model.New
const (
	DefaultWidth  uint32 = 64
	DefaultHeight uint32 = 64
)

// ErrInvalidConfig is returned when a Config cannot describe a universe
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for the universe and its host loop
type Config struct {
	Width               uint32        `json:"width"`
	Height              uint32        `json:"height"`
	Seed                string        `json:"seed"`
	Workers             int           `json:"workers"`
	UseMemoryPool       bool          `json:"use_memory_pool"`
	FrameRate           time.Duration `json:"frame_rate"`
	MaxGenerations      int           `json:"max_generations"`
	StagnationThreshold int           `json:"stagnation_threshold"`
	Interactive         bool          `json:"interactive"`
}

// DefaultConfig returns the reference construction
func DefaultConfig() Config {
	return Config{
		Width:               DefaultWidth,
		Height:              DefaultHeight,
		Seed:                SeedModulo,
		Workers:             1, // sequential tick
		UseMemoryPool:       false,
		FrameRate:           100 * time.Millisecond,
		MaxGenerations:      1000,
		StagnationThreshold: 5,
		Interactive:         false,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] file: %+v", filename)
	}

	return config, nil
}

// Validate checks that the config describes a constructible universe
func (c Config) Validate() error {
	if c.Width == 0 || c.Height == 0 {
		return errors.Wrapf(ErrInvalidConfig, "dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if uint64(c.Width)*uint64(c.Height) > math.MaxInt32 {
		return errors.Wrapf(ErrInvalidConfig, "grid %dx%d is too large", c.Width, c.Height)
	}
	if c.Workers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "workers must not be negative, got %d", c.Workers)
	}
	switch c.Seed {
	case SeedModulo, SeedBlinker, SeedGlider, SeedEmpty:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown seed %q", c.Seed)
	}
	return nil
}
