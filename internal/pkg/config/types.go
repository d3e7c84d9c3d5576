package config

import (
	"time"
)

// Config represents the application configuration: logging plus the
// render engine's own tunables. There is no server, queue, or cache
// section — the CLI is a single stdin-to-stdout pass with no daemon state.
type Config struct {
	Logger LoggerConfig `yaml:"logger" json:"logger"`
	Render RenderConfig `yaml:"render" json:"render"`
}

// RenderConfig holds the render engine's tunables. WorkerPoolSize sets how
// many workers prefetch font files concurrently before layout begins, and
// Load creates FontCacheDir. FontFetchTimeout and the default page size are
// defaulted and validated, but the render path does not read them: every
// entry carries its own page size, and one without a positive size is
// rejected when the job is decoded.
type RenderConfig struct {
	FontCacheDir    string        `yaml:"font_cache_dir" json:"font_cache_dir"`
	WorkerPoolSize  int           `yaml:"worker_pool_size" json:"worker_pool_size"`
	FontFetchTimeout time.Duration `yaml:"font_fetch_timeout" json:"font_fetch_timeout"`
	DefaultPageWidth  float64      `yaml:"default_page_width" json:"default_page_width"`
	DefaultPageHeight float64      `yaml:"default_page_height" json:"default_page_height"`
}

// LoggerConfig represents logger configuration. Output defaults to stderr:
// stdout is reserved for the rendered PDF bytes.
type LoggerConfig struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json, text
	Output     string `yaml:"output" json:"output"` // stderr, stdout, file
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}
