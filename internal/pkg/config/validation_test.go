package config

import (
	"strings"
	"testing"
)

func TestSetDefaultsFillsInZeroValues(t *testing.T) {
	var c Config
	c.SetDefaults()

	if c.Logger.Level != "info" {
		t.Errorf("Logger.Level = %q, want info", c.Logger.Level)
	}
	if c.Logger.Output != "stderr" {
		t.Errorf("Logger.Output = %q, want stderr (stdout is reserved for PDF bytes)", c.Logger.Output)
	}
	if c.Render.WorkerPoolSize != 4 {
		t.Errorf("Render.WorkerPoolSize = %d, want 4", c.Render.WorkerPoolSize)
	}
	if c.Render.DefaultPageWidth != 210 || c.Render.DefaultPageHeight != 297 {
		t.Errorf("default page size = (%v, %v), want A4 (210, 297)", c.Render.DefaultPageWidth, c.Render.DefaultPageHeight)
	}
}

func TestSetDefaultsPreservesExplicitValues(t *testing.T) {
	c := Config{}
	c.Logger.Output = "stdout"
	c.SetDefaults()

	if c.Logger.Output != "stdout" {
		t.Errorf("SetDefaults overwrote an explicit output setting: got %q", c.Logger.Output)
	}
}

func TestValidateRejectsInvalidLoggerLevel(t *testing.T) {
	var c Config
	c.SetDefaults()
	c.Logger.Level = "verbose"

	err := c.Validate()
	if err == nil {
		t.Fatal("expected a validation error for an unknown logger level")
	}
}

func TestValidateRequiresFilePathWhenOutputIsFile(t *testing.T) {
	var c Config
	c.SetDefaults()
	c.Logger.Output = "file"
	c.Logger.File = ""

	err := c.Validate()
	if err == nil {
		t.Fatal("expected a validation error when output=file but no file path is set")
	}
}

func TestValidateRejectsNonPositiveWorkerPoolSize(t *testing.T) {
	var c Config
	c.SetDefaults()
	c.Render.WorkerPoolSize = 0

	err := c.Validate()
	if err == nil {
		t.Fatal("expected a validation error for a zero worker pool size")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()

	if err := c.Validate(); err != nil {
		t.Errorf("expected defaults to validate cleanly, got %v", err)
	}
}

func TestValidationErrorsMessageCountsExtras(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "also bad"},
	}
	msg := errs.Error()
	if msg == "" {
		t.Fatal("expected a non-empty message")
	}
	if !strings.Contains(msg, "(and 1 more)") {
		t.Errorf("Error() = %q, want it to count the 1 extra error", msg)
	}
}
