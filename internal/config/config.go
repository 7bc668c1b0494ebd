// Package config loads the command-line configuration: a YAML file with
// defaults for every field, overridden by POKEGENX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultRecordsURL        = "https://raw.githubusercontent.com/PokeGenX-com/data/refs/heads/PokeGenX/pokegenx.json"
	DefaultBackgroundsURL    = "https://raw.githubusercontent.com/PokeGenX-com/data/refs/heads/PokeGenX/background.txt"
	DefaultBackgroundPattern = "https://raw.githubusercontent.com/PokeGenX-com/background/main/%d.jpg"
	DefaultPlaceholderURL    = "/assets/images/card-background.jpg"
	DefaultOutputDir         = "."
	DefaultParticles         = 60
	DefaultHold              = 1500 * time.Millisecond
	DefaultFlipDuration      = 150 * time.Millisecond
	DefaultHTTPTimeout       = 30 * time.Second
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POKEGENX_"

// Config is the full command-line configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// CatalogConfig locates the creature records, background list and images.
// AssetsDir serves site-absolute paths from disk when set.
type CatalogConfig struct {
	RecordsURL        string `yaml:"records_url"`
	BackgroundsURL    string `yaml:"backgrounds_url"`
	BackgroundPattern string `yaml:"background_pattern"`
	PlaceholderURL    string `yaml:"placeholder_url"`
	AssetsDir         string `yaml:"assets_dir"`
}

// RenderConfig tunes drawing. Particles is a pointer so that an explicit 0
// (no sparkle overlay) differs from unset.
type RenderConfig struct {
	Particles    *int          `yaml:"particles"`
	PixelRatio   float64       `yaml:"pixel_ratio"`
	Hold         time.Duration `yaml:"hold"`
	FlipDuration time.Duration `yaml:"flip_duration"`
}

// OutputConfig names the directory downloads are written to.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig selects the slog level and the text or json handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig configures the HTTP client used for remote assets.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// Load reads path, applies defaults, then environment overrides, and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	c.ApplyDefaults()
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.Catalog.RecordsURL == "" {
		c.Catalog.RecordsURL = DefaultRecordsURL
	}
	if c.Catalog.BackgroundsURL == "" {
		c.Catalog.BackgroundsURL = DefaultBackgroundsURL
	}
	if c.Catalog.BackgroundPattern == "" {
		c.Catalog.BackgroundPattern = DefaultBackgroundPattern
	}
	if c.Catalog.PlaceholderURL == "" {
		c.Catalog.PlaceholderURL = DefaultPlaceholderURL
	}
	if c.Render.Particles == nil {
		n := DefaultParticles
		c.Render.Particles = &n
	}
	if c.Render.PixelRatio == 0 {
		c.Render.PixelRatio = 1
	}
	if c.Render.Hold == 0 {
		c.Render.Hold = DefaultHold
	}
	if c.Render.FlipDuration == 0 {
		c.Render.FlipDuration = DefaultFlipDuration
	}
	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = DefaultHTTPTimeout
	}
}

// ApplyEnv overrides fields from POKEGENX_* variables.
func (c *Config) ApplyEnv() error {
	c.Catalog.RecordsURL = envOr("RECORDS_URL", c.Catalog.RecordsURL)
	c.Catalog.BackgroundsURL = envOr("BACKGROUNDS_URL", c.Catalog.BackgroundsURL)
	c.Catalog.BackgroundPattern = envOr("BACKGROUND_PATTERN", c.Catalog.BackgroundPattern)
	c.Catalog.PlaceholderURL = envOr("PLACEHOLDER_URL", c.Catalog.PlaceholderURL)
	c.Catalog.AssetsDir = envOr("ASSETS_DIR", c.Catalog.AssetsDir)
	c.Output.Dir = envOr("OUTPUT_DIR", c.Output.Dir)
	c.Log.Level = envOr("LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("LOG_FORMAT", c.Log.Format)

	if v := os.Getenv(EnvPrefix + "PARTICLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid %sPARTICLES %q: %w", EnvPrefix, v, err)
		}
		c.Render.Particles = &n
	}
	if v := os.Getenv(EnvPrefix + "PIXEL_RATIO"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: invalid %sPIXEL_RATIO %q: %w", EnvPrefix, v, err)
		}
		c.Render.PixelRatio = r
	}
	for key, dst := range map[string]*time.Duration{
		"HOLD":          &c.Render.Hold,
		"FLIP_DURATION": &c.Render.FlipDuration,
		"HTTP_TIMEOUT":  &c.HTTP.Timeout,
	} {
		v := os.Getenv(EnvPrefix + key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s%s %q: %w", EnvPrefix, key, v, err)
		}
		*dst = d
	}
	return nil
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: invalid log format %q", c.Log.Format))
	}
	if c.Render.PixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("config: pixel ratio must be positive, got %v", c.Render.PixelRatio))
	}
	if *c.Render.Particles < 0 {
		errs = append(errs, fmt.Errorf("config: particles must not be negative, got %d", *c.Render.Particles))
	}
	if c.Render.Hold < 0 || c.Render.FlipDuration < 0 || c.HTTP.Timeout < 0 {
		errs = append(errs, errors.New("config: durations must not be negative"))
	}
	if !strings.Contains(c.Catalog.BackgroundPattern, "%d") {
		errs = append(errs, fmt.Errorf("config: background pattern %q has no %%d verb", c.Catalog.BackgroundPattern))
	}
	return errors.Join(errs...)
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() slog.Level {
	l, _ := ParseLogLevel(c.Log.Level)
	return l
}

// NewLogger builds the slog logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: invalid log level %q", s)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return fallback
}
