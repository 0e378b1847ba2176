package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTopInterval   = time.Second
	defaultTopLimit      = 20
	defaultKillAttempts  = 3
	defaultKillSettle    = 500 * time.Millisecond
	defaultKillRetry     = time.Second
	defaultRmAttempts    = 3
	defaultRmBackoff     = 100 * time.Millisecond
	defaultRmReleaseWait = 750 * time.Millisecond
	defaultLogLevel      = "warn"

	envTopInterval   = "ZIRO_TOP_INTERVAL"
	envTopLimit      = "ZIRO_TOP_LIMIT"
	envKillAttempts  = "ZIRO_KILL_ATTEMPTS"
	envKillSettle    = "ZIRO_KILL_SETTLE"
	envKillRetry     = "ZIRO_KILL_RETRY"
	envRmAttempts    = "ZIRO_RM_ATTEMPTS"
	envRmBackoff     = "ZIRO_RM_BACKOFF"
	envRmReleaseWait = "ZIRO_RM_RELEASE_WAIT"
	envLogLevel      = "ZIRO_LOG_LEVEL"
)

// Config aggregates the tunable timings and limits.
type Config struct {
	Top      TopConfig
	Kill     KillConfig
	Remove   RemoveConfig
	LogLevel string
}

type TopConfig struct {
	Interval time.Duration
	Limit    int
}

type KillConfig struct {
	Attempts int
	Settle   time.Duration
	Retry    time.Duration
}

type RemoveConfig struct {
	Attempts    int
	Backoff     time.Duration
	ReleaseWait time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Top:      TopConfig{Interval: defaultTopInterval, Limit: defaultTopLimit},
		Kill:     KillConfig{Attempts: defaultKillAttempts, Settle: defaultKillSettle, Retry: defaultKillRetry},
		Remove:   RemoveConfig{Attempts: defaultRmAttempts, Backoff: defaultRmBackoff, ReleaseWait: defaultRmReleaseWait},
		LogLevel: defaultLogLevel,
	}
}

// Load builds a Config from defaults, an optional JSON or YAML file, and
// environment overrides. With an empty path the default location is used
// when a file exists there.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// DefaultPath returns the first existing config file under the user config
// directory, or "".
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		d, err := os.UserConfigDir()
		if err != nil {
			return ""
		}
		dir = d
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		p := filepath.Join(dir, "ziro", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func applyEnvOverrides(cfg *Config) {
	envDuration(envTopInterval, &cfg.Top.Interval)
	envInt(envTopLimit, &cfg.Top.Limit)
	envInt(envKillAttempts, &cfg.Kill.Attempts)
	envDuration(envKillSettle, &cfg.Kill.Settle)
	envDuration(envKillRetry, &cfg.Kill.Retry)
	envInt(envRmAttempts, &cfg.Remove.Attempts)
	envDuration(envRmBackoff, &cfg.Remove.Backoff)
	envDuration(envRmReleaseWait, &cfg.Remove.ReleaseWait)
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

func envDuration(key string, dst *time.Duration) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	dur, err := time.ParseDuration(v)
	if err != nil || dur <= 0 {
		slog.Warn("ignoring invalid environment value", "key", key, "value", v)
		return
	}
	*dst = dur
}

func envInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("ignoring invalid environment value", "key", key, "value", v)
		return
	}
	*dst = n
}

type fileConfig struct {
	Top struct {
		Interval string `json:"interval" yaml:"interval"`
		Limit    int    `json:"limit" yaml:"limit"`
	} `json:"top" yaml:"top"`
	Kill struct {
		Attempts int    `json:"attempts" yaml:"attempts"`
		Settle   string `json:"settle" yaml:"settle"`
		Retry    string `json:"retry" yaml:"retry"`
	} `json:"kill" yaml:"kill"`
	Remove struct {
		Attempts    int    `json:"attempts" yaml:"attempts"`
		Backoff     string `json:"backoff" yaml:"backoff"`
		ReleaseWait string `json:"release_wait" yaml:"release_wait"`
	} `json:"remove" yaml:"remove"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".json", "":
		err = json.Unmarshal(data, &raw)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"top.interval", raw.Top.Interval, &cfg.Top.Interval},
		{"kill.settle", raw.Kill.Settle, &cfg.Kill.Settle},
		{"kill.retry", raw.Kill.Retry, &cfg.Kill.Retry},
		{"remove.backoff", raw.Remove.Backoff, &cfg.Remove.Backoff},
		{"remove.release_wait", raw.Remove.ReleaseWait, &cfg.Remove.ReleaseWait},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		dur, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", d.name, err)
		}
		if dur <= 0 {
			return fmt.Errorf("%s must be > 0", d.name)
		}
		*d.dst = dur
	}

	counts := []struct {
		name string
		raw  int
		dst  *int
	}{
		{"top.limit", raw.Top.Limit, &cfg.Top.Limit},
		{"kill.attempts", raw.Kill.Attempts, &cfg.Kill.Attempts},
		{"remove.attempts", raw.Remove.Attempts, &cfg.Remove.Attempts},
	}
	for _, c := range counts {
		if c.raw < 0 {
			return fmt.Errorf("%s must be > 0", c.name)
		}
		if c.raw > 0 {
			*c.dst = c.raw
		}
	}

	if raw.LogLevel != "" {
		cfg.LogLevel = raw.LogLevel
	}
	return nil
}
