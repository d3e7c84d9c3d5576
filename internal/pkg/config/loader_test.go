package config

import "testing"

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "nonexistent-env-for-test")
	t.Setenv("RENDER_WORKER_POOL_SIZE", "8")
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Render.WorkerPoolSize != 8 {
		t.Errorf("WorkerPoolSize = %d, want 8 from env override", cfg.Render.WorkerPoolSize)
	}
	if cfg.Logger.Level != "warn" {
		t.Errorf("Logger.Level = %q, want lowercased env value \"warn\"", cfg.Logger.Level)
	}
}

func TestLoadRejectsInvalidEnvLogLevel(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ENVIRONMENT", "nonexistent-env-for-test")
	t.Setenv("LOG_LEVEL", "not-a-level")

	if _, err := Load(); err == nil {
		t.Fatal("expected Load() to fail validation for an invalid log level")
	}
}

func TestParseIntIgnoresGarbage(t *testing.T) {
	if got := parseInt("not-a-number"); got != 0 {
		t.Errorf("parseInt(garbage) = %d, want 0", got)
	}
	if got := parseInt("42"); got != 42 {
		t.Errorf("parseInt(\"42\") = %d, want 42", got)
	}
}
