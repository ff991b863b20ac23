// Package config loads process-wide settings for part generation.
//
// Precedence, highest first: environment variables (IDEXFORGE_ prefix),
// config file, defaults.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load. A double
// underscore descends into a map, so IDEXFORGE_PROCESS_OVERRIDES__LAYER_HEIGHT
// sets process_overrides.layer_height.
const EnvPrefix = "IDEXFORGE_"

// ConfigFileName is the config file looked up in the working directory when
// no explicit path is given.
const ConfigFileName = "idexforge.yaml"

// Default configuration values.
const (
	DefaultFilament  = "FilamentPLAMegeMaster"
	DefaultMeshCells = 200
	DefaultLogLevel  = "info"
)

// Config holds process-wide settings.
type Config struct {
	// Production selects production export: non-production parts are
	// skipped.
	Production bool `koanf:"production"`

	// Filament and ProcessOverrides are handed to the slicer untouched.
	Filament         string            `koanf:"filament"`
	ProcessOverrides map[string]string `koanf:"process_overrides"`

	MeshCells int    `koanf:"mesh_cells"`
	LogLevel  string `koanf:"log_level"`
}

func defaults() map[string]any {
	return map[string]any{
		"production":                        false,
		"filament":                          DefaultFilament,
		"process_overrides.nozzle_diameter": "0.6",
		"process_overrides.layer_height":    "0.2",
		"mesh_cells":                        DefaultMeshCells,
		"log_level":                         DefaultLogLevel,
	}
}

// Load reads configuration from defaults, cfgFile and the environment. An
// empty cfgFile uses ConfigFileName when it exists and skips the file
// layer otherwise.
func Load(cfgFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if cfgFile == "" {
		if _, err := os.Stat(ConfigFileName); err == nil {
			cfgFile = ConfigFileName
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// IDEXFORGE_MESH_CELLS -> mesh_cells
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration Load produces with no file and no
// environment overrides.
func Default() *Config {
	return &Config{
		Filament: DefaultFilament,
		ProcessOverrides: map[string]string{
			"nozzle_diameter": "0.6",
			"layer_height":    "0.2",
		},
		MeshCells: DefaultMeshCells,
		LogLevel:  DefaultLogLevel,
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.MeshCells <= 0 {
		return fmt.Errorf("mesh_cells must be positive, got %d", c.MeshCells)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// NewLogger returns a text logger writing to w at the configured level. A
// nil w discards output.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ProcessData returns the slicer hand-off block: filament name plus a copy
// of the process overrides.
func (c *Config) ProcessData() map[string]any {
	return map[string]any{
		"filament":          c.Filament,
		"process_overrides": maps.Clone(c.ProcessOverrides),
	}
}
