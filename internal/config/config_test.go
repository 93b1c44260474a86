package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mrjoshuak/go-raster/compression"
	"github.com/mrjoshuak/go-raster/raster"
	"github.com/mrjoshuak/go-raster/rasterfile"
)

func TestDefaultConfig(t *testing.T) {
	s, err := DefaultConfig().Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Settings{
		DiscThreshold: rasterfile.DefaultDiscThreshold,
		Compression:   compression.ZIP,
		LogLevel:      slog.LevelWarn,
		HTTPTimeout:   30 * time.Second,
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("default settings (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		field string
		edit  func(c *Config)
	}{
		{"disc_threshold", func(c *Config) { c.DiscThreshold = "lots" }},
		{"compression", func(c *Config) { c.Compression = "lzma" }},
		{"workers", func(c *Config) { c.Workers = -2 }},
		{"memory_limit", func(c *Config) { c.MemoryLimit = "-1" }},
		{"log_level", func(c *Config) { c.LogLevel = "loud" }},
		{"http.timeout", func(c *Config) { c.HTTP.Timeout = "soon" }},
		{"http.timeout", func(c *Config) { c.HTTP.Timeout = "0s" }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.edit(cfg)
		_, err := cfg.Parse()
		if err == nil || !strings.HasPrefix(err.Error(), tt.field+":") {
			t.Errorf("%s: err = %v", tt.field, err)
		}
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sub", "config.yaml")
	loader := NewLoaderWithPath(configPath)

	if loader.Exists() {
		t.Fatal("config exists before Save")
	}
	cfg := DefaultConfig()
	cfg.Compression = "rle"
	cfg.Workers = 3
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !loader.Exists() {
		t.Fatal("config missing after Save")
	}

	got, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("loaded config (-want +got):\n%s", diff)
	}
}

func TestLoader_Missing(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "none.yaml"))
	got, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("workers: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := NewLoaderWithPath(configPath).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultConfig()
	want.Workers = 2
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoader_EnvExpansionAndOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	data := "memory_limit: ${TEST_RASTER_LIMIT}\ndisc_threshold: 5m\nhttp:\n  timeout: ${TEST_RASTER_UNSET}10s\n"
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEST_RASTER_LIMIT", "2g")
	t.Setenv("TEST_RASTER_UNSET", "")
	t.Setenv(EnvDiscThreshold, "64k")
	t.Setenv(EnvLogLevel, "debug")

	loader := NewLoaderWithPath(configPath)
	got, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MemoryLimit != "2g" || got.HTTP.Timeout != "10s" {
		t.Errorf("expansion: memory_limit=%q timeout=%q", got.MemoryLimit, got.HTTP.Timeout)
	}
	if got.DiscThreshold != "64k" || got.LogLevel != "debug" {
		t.Errorf("overrides: disc_threshold=%q log_level=%q", got.DiscThreshold, got.LogLevel)
	}

	raw, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("LoadRaw: %v", err)
	}
	if raw.MemoryLimit != "${TEST_RASTER_LIMIT}" || raw.DiscThreshold != "5m" {
		t.Errorf("raw: memory_limit=%q disc_threshold=%q", raw.MemoryLimit, raw.DiscThreshold)
	}
}

func TestLoader_Init(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err := loader.Init(false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := loader.Init(false); err == nil {
		t.Error("second Init succeeded")
	}
	if err := loader.Init(true); err != nil {
		t.Errorf("forced Init: %v", err)
	}
}

func TestLoader_BadYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("workers: [1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoaderWithPath(configPath).Load(); err == nil {
		t.Error("Load of malformed yaml succeeded")
	}
}

func TestApply(t *testing.T) {
	prevThreshold := rasterfile.DiscThreshold()
	prevMethod := rasterfile.Compression()
	prevParallel := rasterfile.GetParallelConfig()
	prevLimit := raster.SetGlobalMemoryLimit(0)
	t.Cleanup(func() {
		rasterfile.SetDiscThreshold(prevThreshold)
		rasterfile.SetCompression(prevMethod)
		rasterfile.SetParallelConfig(prevParallel)
		rasterfile.SetHTTPTimeout(30 * time.Second)
		raster.SetGlobalMemoryLimit(prevLimit)
	})

	cfg := DefaultConfig()
	cfg.DiscThreshold = "1m"
	cfg.Compression = "htj2k"
	cfg.Workers = 2
	cfg.MemoryLimit = "64m"
	if _, err := cfg.Apply(); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := rasterfile.DiscThreshold(); got != 1<<20 {
		t.Errorf("disc threshold = %d", got)
	}
	if got := rasterfile.Compression(); got != compression.HTJ2K {
		t.Errorf("compression = %v", got)
	}
	if got := rasterfile.GetParallelConfig().NumWorkers; got != 2 {
		t.Errorf("workers = %d", got)
	}
	if got := raster.SetGlobalMemoryLimit(0); got != 64<<20 {
		t.Errorf("memory limit = %d", got)
	}

	bad := DefaultConfig()
	bad.DiscThreshold = "5m"
	bad.Compression = "nope"
	if _, err := bad.Apply(); err == nil {
		t.Fatal("Apply of bad config succeeded")
	}
	if got := rasterfile.DiscThreshold(); got != 1<<20 {
		t.Errorf("failed Apply changed disc threshold to %d", got)
	}
}
