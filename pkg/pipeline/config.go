package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/swapmapper/pkg/cache"
	"github.com/matzehuels/swapmapper/pkg/coupling"
	apperrors "github.com/matzehuels/swapmapper/pkg/errors"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the content of a swapmapper.toml file:
//
//	[router]
//	strategy = "stochastic"
//	trials = 50
//	seed = 7
//	layer_mode = "parallel"
//
//	[coupling]
//	topology = "grid"
//	rows = 3
//	cols = 3
//
//	[layout]
//	"q[0]" = 4
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Router   RouterConfig   `toml:"router"`
	Coupling coupling.Spec  `toml:"coupling"`
	Layout   map[string]int `toml:"layout"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// RouterConfig is the [router] table.
type RouterConfig struct {
	Strategy   string `toml:"strategy"`
	Trials     int    `toml:"trials"`
	Seed       uint64 `toml:"seed"`
	LayerMode  string `toml:"layer_mode"`
	Lookahead  int    `toml:"lookahead"`
	NoAncillas bool   `toml:"no_ancillas"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	// Backend is "file" (default), "redis" or "none".
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig is the [server] table.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// DecodeConfig parses TOML config data. Unknown keys are an error.
func DecodeConfig(data []byte) (Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadConfig reads a TOML config file.
func LoadConfig(path string) (Config, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return DecodeConfig(data)
}

// Apply copies config values into the zero-valued fields of opts, so that
// values already set (from flags or a request) win.
func (c Config) Apply(opts *Options) {
	if opts.Strategy == "" {
		opts.Strategy = c.Router.Strategy
	}
	if opts.Trials == 0 {
		opts.Trials = c.Router.Trials
	}
	if opts.Seed == 0 {
		opts.Seed = c.Router.Seed
	}
	if opts.LayerMode == "" {
		opts.LayerMode = c.Router.LayerMode
	}
	if opts.Lookahead == 0 {
		opts.Lookahead = c.Router.Lookahead
	}
	opts.NoAncillas = opts.NoAncillas || c.Router.NoAncillas
	if opts.Coupling.IsZero() {
		opts.Coupling = c.Coupling
	}
	if len(opts.Layout) == 0 && len(c.Layout) > 0 {
		opts.Layout = c.Layout
	}
}

// OpenCache opens the configured cache backend. defaultDir is used by the
// file backend when no dir is configured.
func OpenCache(ctx context.Context, cfg CacheConfig, defaultDir string) (cache.Cache, error) {
	switch strings.ToLower(cfg.Backend) {
	case CacheNone:
		return cache.NewNullCache(), nil
	case "", CacheFile:
		dir := cfg.Dir
		if dir == "" {
			dir = defaultDir
		}
		if dir == "" {
			return cache.NewNullCache(), nil
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "open cache dir %s", dir)
		}
		return c, nil
	case CacheRedis:
		if cfg.RedisURL == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "open redis cache")
		}
		return c, nil
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", cfg.Backend)
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (cfg CacheConfig) Keyer() cache.Keyer {
	if cfg.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, cfg.Prefix)
}
