package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{envTopInterval, envTopLimit, envKillAttempts, envKillSettle,
		envKillRetry, envRmAttempts, envRmBackoff, envRmReleaseWait, envLogLevel} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.Kill.Settle != 500*time.Millisecond || cfg.Remove.ReleaseWait != 750*time.Millisecond {
		t.Fatalf("unexpected default timings %+v", cfg)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "config.yaml", "top:\n  interval: 2s\n  limit: 5\nkill:\n  attempts: 4\nlog_level: debug\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Top.Interval != 2*time.Second || cfg.Top.Limit != 5 || cfg.Kill.Attempts != 4 || cfg.LogLevel != "debug" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.Kill.Retry != time.Second {
		t.Fatalf("unset values keep defaults, got %v", cfg.Kill.Retry)
	}
}

func TestLoadJSONFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "config.json", `{"remove":{"attempts":5,"release_wait":"1s"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Remove.Attempts != 5 || cfg.Remove.ReleaseWait != time.Second {
		t.Fatalf("json values not applied: %+v", cfg)
	}
}

func TestLoadDefaultLocation(t *testing.T) {
	isolate(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	if err := os.MkdirAll(filepath.Join(dir, "ziro"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ziro", "config.yml"), []byte("top:\n  limit: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Top.Limit != 7 {
		t.Fatalf("default location not read: %+v", cfg.Top)
	}
}

func TestLoadRejectsInvalidFileValues(t *testing.T) {
	isolate(t)
	cases := map[string]string{
		"bad-duration.yaml": "kill:\n  settle: soon\n",
		"negative.yaml":     "kill:\n  retry: -1s\n",
		"count.json":        `{"top":{"limit":-2}}`,
		"config.toml":       "x = 1",
	}
	for name, body := range cases {
		if _, err := Load(writeFile(t, name, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("explicit missing file must fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(envTopInterval, "250ms")
	t.Setenv(envKillAttempts, "5")
	t.Setenv(envRmBackoff, "not-a-duration")
	t.Setenv(envTopLimit, "0")
	t.Setenv(envLogLevel, "info")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Top.Interval != 250*time.Millisecond || cfg.Kill.Attempts != 5 || cfg.LogLevel != "info" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Remove.Backoff != defaultRmBackoff || cfg.Top.Limit != defaultTopLimit {
		t.Fatalf("invalid env values must be ignored: %+v", cfg)
	}
}
