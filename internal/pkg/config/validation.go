package config

import (
	"fmt"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%d configuration validation errors: %s (and %d more)", len(e), e[0].Error(), len(e)-1)
}

// Validate validates the entire configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if err := c.validateRender(); err != nil {
		if validationErrs, ok := err.(ValidationErrors); ok {
			errs = append(errs, validationErrs...)
		} else {
			errs = append(errs, ValidationError{Field: "render", Message: err.Error()})
		}
	}

	if err := c.validateLogger(); err != nil {
		if validationErrs, ok := err.(ValidationErrors); ok {
			errs = append(errs, validationErrs...)
		} else {
			errs = append(errs, ValidationError{Field: "logger", Message: err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateRender() error {
	var errs ValidationErrors

	if c.Render.WorkerPoolSize <= 0 {
		errs = append(errs, ValidationError{
			Field:   "render.worker_pool_size",
			Message: "worker pool size must be positive",
		})
	}

	if c.Render.FontFetchTimeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "render.font_fetch_timeout",
			Message: "font fetch timeout must be positive",
		})
	}

	if c.Render.DefaultPageWidth <= 0 || c.Render.DefaultPageHeight <= 0 {
		errs = append(errs, ValidationError{
			Field:   "render.default_page_width/height",
			Message: "default page dimensions must be positive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) validateLogger() error {
	var errs ValidationErrors

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
	}

	if !validLevels[c.Logger.Level] {
		errs = append(errs, ValidationError{
			Field:   "logger.level",
			Message: "level must be one of: debug, info, warn, error, fatal",
		})
	}

	validOutputs := map[string]bool{
		"stdout": true,
		"stderr": true,
		"file":   true,
	}

	if !validOutputs[c.Logger.Output] {
		errs = append(errs, ValidationError{
			Field:   "logger.output",
			Message: "output must be one of: stdout, stderr, file",
		})
	}

	if c.Logger.Output == "file" && c.Logger.File == "" {
		errs = append(errs, ValidationError{
			Field:   "logger.file",
			Message: "file path is required when output is 'file'",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for missing configuration. Logger output
// defaults to stderr, not stdout, because stdout carries the rendered PDF.
func (c *Config) SetDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Output == "" {
		c.Logger.Output = "stderr"
	}

	if c.Render.WorkerPoolSize == 0 {
		c.Render.WorkerPoolSize = 4
	}
	if c.Render.FontFetchTimeout == 0 {
		c.Render.FontFetchTimeout = 10 * time.Second
	}
	if c.Render.FontCacheDir == "" {
		c.Render.FontCacheDir = "./.fontcache"
	}
	if c.Render.DefaultPageWidth == 0 {
		c.Render.DefaultPageWidth = 210 // A4, mm
	}
	if c.Render.DefaultPageHeight == 0 {
		c.Render.DefaultPageHeight = 297
	}
}
