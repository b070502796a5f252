package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nkootstra/kvwire/internal/protocol"
)

const fileName = "config.toml"

// configDirOverride is set during tests to avoid reading the real config.
var configDirOverride string

// Config is the resolved client configuration.
type Config struct {
	Addr        string
	DialTimeout time.Duration
	Timeout     time.Duration
	Output      string
	NoColor     bool
	LogLevel    string
	Etcd        EtcdConfig
	Bench       BenchConfig
}

type EtcdConfig struct {
	Endpoints []string
	Prefix    string
}

type BenchConfig struct {
	Requests int
	Rate     float64
	Burst    int
	Keys     int
}

type fileConfig struct {
	Addr        string    `toml:"addr"`
	DialTimeout string    `toml:"dial_timeout"`
	Timeout     string    `toml:"timeout"`
	Output      string    `toml:"output"`
	NoColor     bool      `toml:"no_color"`
	LogLevel    string    `toml:"log_level"`
	Etcd        fileEtcd  `toml:"etcd"`
	Bench       fileBench `toml:"bench"`
}

type fileEtcd struct {
	Endpoints []string `toml:"endpoints"`
	Prefix    string   `toml:"prefix"`
}

type fileBench struct {
	Requests int     `toml:"requests"`
	Rate     float64 `toml:"rate"`
	Burst    int     `toml:"burst"`
	Keys     int     `toml:"keys"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:        protocol.DefaultAddr,
		DialTimeout: 5 * time.Second,
		Timeout:     10 * time.Second,
		Output:      "text",
		LogLevel:    "warn",
		Etcd: EtcdConfig{
			Prefix: "/kvwire/servers/",
		},
		Bench: BenchConfig{
			Requests: 1000,
			Rate:     500,
			Burst:    50,
			Keys:     100,
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	if configDirOverride != "" {
		return filepath.Join(configDirOverride, fileName), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "kvwire", fileName), nil
}

// Load reads the config at path over the defaults. An empty path means the
// default location, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("dial_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DialTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse dial_timeout: %w", err)
		}
		cfg.DialTimeout = d
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("output") {
		cfg.Output = strings.ToLower(strings.TrimSpace(raw.Output))
	}
	if meta.IsDefined("no_color") {
		cfg.NoColor = raw.NoColor
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("etcd", "endpoints") {
		cfg.Etcd.Endpoints = normalizeList(raw.Etcd.Endpoints)
	}
	if meta.IsDefined("etcd", "prefix") {
		cfg.Etcd.Prefix = strings.TrimSpace(raw.Etcd.Prefix)
	}
	if meta.IsDefined("bench", "requests") {
		cfg.Bench.Requests = raw.Bench.Requests
	}
	if meta.IsDefined("bench", "rate") {
		cfg.Bench.Rate = raw.Bench.Rate
	}
	if meta.IsDefined("bench", "burst") {
		cfg.Bench.Burst = raw.Bench.Burst
	}
	if meta.IsDefined("bench", "keys") {
		cfg.Bench.Keys = raw.Bench.Keys
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks a resolved config.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Addr) == "" && len(cfg.Etcd.Endpoints) == 0 {
		return fmt.Errorf("addr is required when no etcd endpoints are set")
	}
	if cfg.DialTimeout <= 0 {
		return fmt.Errorf("dial_timeout must be positive")
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch cfg.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be text or json, got %q", cfg.Output)
	}
	if len(cfg.Etcd.Endpoints) > 0 && strings.TrimSpace(cfg.Etcd.Prefix) == "" {
		return fmt.Errorf("etcd prefix is required with etcd endpoints")
	}
	if cfg.Bench.Requests < 1 {
		return fmt.Errorf("bench requests must be at least 1")
	}
	if cfg.Bench.Rate < 0 {
		return fmt.Errorf("bench rate must not be negative")
	}
	if cfg.Bench.Burst < 1 {
		return fmt.Errorf("bench burst must be at least 1")
	}
	if cfg.Bench.Keys < 1 {
		return fmt.Errorf("bench keys must be at least 1")
	}
	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
