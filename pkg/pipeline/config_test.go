package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/swapmapper/pkg/cache"
	"github.com/matzehuels/swapmapper/pkg/coupling"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

const sampleConfig = `
[router]
strategy = "stochastic"
trials = 50
seed = 7
layer_mode = "parallel"

[coupling]
topology = "grid"
rows = 2
cols = 3

[layout]
"q[0]" = 4
"q[1]" = 1

[cache]
backend = "none"

[server]
addr = ":9090"
`

func TestDecodeConfig(t *testing.T) {
	cfg, err := DecodeConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Router.Strategy != "stochastic" || cfg.Router.Trials != 50 || cfg.Router.Seed != 7 || cfg.Router.LayerMode != "parallel" {
		t.Errorf("Router = %+v", cfg.Router)
	}
	if cfg.Coupling.String() != "grid:2x3" {
		t.Errorf("Coupling = %s, want grid:2x3", cfg.Coupling)
	}
	if cfg.Layout["q[0]"] != 4 || cfg.Layout["q[1]"] != 1 {
		t.Errorf("Layout = %v", cfg.Layout)
	}
	if cfg.Cache.Backend != CacheNone || cfg.Server.Addr != ":9090" {
		t.Errorf("Cache = %+v Server = %+v", cfg.Cache, cfg.Server)
	}
}

func TestDecodeConfigErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":      "[router\nstrategy = 1",
		"unknown key": "[router]\nstratgy = \"greedy\"",
		"wrong type":  "[router]\ntrials = \"many\"",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeConfig([]byte(src)); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swapmapper.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestConfigApply(t *testing.T) {
	cfg, err := DecodeConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Strategy: "greedy", Coupling: coupling.Spec{Topology: "line", Qubits: 6}}
	cfg.Apply(&opts)
	if opts.Strategy != "greedy" {
		t.Errorf("explicit strategy overridden: %q", opts.Strategy)
	}
	if opts.Coupling.String() != "line:6" {
		t.Errorf("explicit coupling overridden: %s", opts.Coupling)
	}
	if opts.Trials != 50 || opts.Seed != 7 || opts.LayerMode != "parallel" {
		t.Errorf("config values not applied: %+v", opts)
	}
	if opts.Layout["q[0]"] != 4 {
		t.Errorf("layout not applied: %v", opts.Layout)
	}

	empty := Options{}
	cfg.Apply(&empty)
	if empty.Coupling.String() != "grid:2x3" {
		t.Errorf("coupling not applied: %s", empty.Coupling)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := OpenCache(ctx, CacheConfig{}, dir)
	if err != nil {
		t.Fatalf("OpenCache default: %v", err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != dir {
		t.Errorf("default backend = %T, want *cache.FileCache in %s", c, dir)
	}

	c, err = OpenCache(ctx, CacheConfig{Backend: "none"}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("none backend = %T, want cache.NullCache", c)
	}

	if _, err := OpenCache(ctx, CacheConfig{Backend: "redis"}, dir); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("redis without url: %v", err)
	}
	if _, err := OpenCache(ctx, CacheConfig{Backend: "memcached"}, dir); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("unknown backend: %v", err)
	}
}

func TestCacheConfigKeyer(t *testing.T) {
	plain := CacheConfig{}.Keyer()
	scoped := CacheConfig{Prefix: "ci:"}.Keyer()
	opts := cache.RouteKeyOpts{Coupling: "line:3"}
	if got, want := scoped.RouteKey("h", opts), "ci:"+plain.RouteKey("h", opts); got != want {
		t.Errorf("scoped RouteKey = %q, want %q", got, want)
	}
}
