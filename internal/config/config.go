// Package config manages rasterdraw configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mrjoshuak/go-raster/compression"
	"github.com/mrjoshuak/go-raster/raster"
	"github.com/mrjoshuak/go-raster/rasterfile"
)

// Config represents the application configuration.
type Config struct {
	// DiscThreshold is the decoded size above which images are decoded to a
	// temporary file, e.g. "100m". "0" keeps everything in memory.
	DiscThreshold string `yaml:"disc_threshold"`
	// Compression is the codec for native files: none, rle, zip or htj2k.
	Compression string `yaml:"compression"`
	// Workers is the number of goroutines for native file codecs; 0 uses
	// every CPU.
	Workers int `yaml:"workers"`
	// MemoryLimit caps pooled intermediate buffers, e.g. "1g". "0" is
	// unlimited.
	MemoryLimit string     `yaml:"memory_limit"`
	LogLevel    string     `yaml:"log_level"`
	HTTP        HTTPConfig `yaml:"http"`
}

// HTTPConfig configures remote sources.
type HTTPConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DiscThreshold: "100m",
		Compression:   compression.ZIP.String(),
		Workers:       0,
		MemoryLimit:   "0",
		LogLevel:      "warn",
		HTTP: HTTPConfig{
			Timeout: "30s",
		},
	}
}

// Settings is a parsed Config.
type Settings struct {
	DiscThreshold int64
	Compression   compression.Method
	Workers       int
	MemoryLimit   int64
	LogLevel      slog.Level
	HTTPTimeout   time.Duration
}

// Parse checks every field and returns the typed settings.
func (c *Config) Parse() (Settings, error) {
	var s Settings
	var err error

	if s.DiscThreshold, err = rasterfile.ParseSize(c.DiscThreshold); err != nil {
		return s, fmt.Errorf("disc_threshold: %w", err)
	}
	if s.Compression, err = compression.ParseMethod(c.Compression); err != nil {
		return s, fmt.Errorf("compression: %w", err)
	}
	if c.Workers < 0 {
		return s, fmt.Errorf("workers: %d is negative", c.Workers)
	}
	s.Workers = c.Workers
	if s.MemoryLimit, err = rasterfile.ParseSize(c.MemoryLimit); err != nil {
		return s, fmt.Errorf("memory_limit: %w", err)
	}
	if s.LogLevel, err = ParseLevel(c.LogLevel); err != nil {
		return s, fmt.Errorf("log_level: %w", err)
	}
	if s.HTTPTimeout, err = time.ParseDuration(c.HTTP.Timeout); err != nil {
		return s, fmt.Errorf("http.timeout: %w", err)
	}
	if s.HTTPTimeout <= 0 {
		return s, fmt.Errorf("http.timeout: %s is not positive", s.HTTPTimeout)
	}
	return s, nil
}

// Apply parses c and installs the settings in the raster and rasterfile
// packages. Nothing is changed if any field is invalid.
func (c *Config) Apply() (Settings, error) {
	s, err := c.Parse()
	if err != nil {
		return s, err
	}

	rasterfile.SetDiscThreshold(s.DiscThreshold)
	rasterfile.SetCompression(s.Compression)
	pc := rasterfile.GetParallelConfig()
	pc.NumWorkers = s.Workers
	rasterfile.SetParallelConfig(pc)
	rasterfile.SetHTTPTimeout(s.HTTPTimeout)
	raster.SetGlobalMemoryLimit(s.MemoryLimit)
	return s, nil
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return l, err
	}
	return l, nil
}
