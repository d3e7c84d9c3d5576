package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	cfg := getDefaultConfig()

	if configFile := getConfigFile(); configFile != "" {
		if err := loadFromFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// getDefaultConfig returns default configuration values.
func getDefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			FontCacheDir:      "./.fontcache",
			WorkerPoolSize:    4,
			FontFetchTimeout:  10 * time.Second,
			DefaultPageWidth:  210,
			DefaultPageHeight: 297,
		},
		Logger: LoggerConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stderr",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		},
	}
}

// getConfigFile determines which config file to use.
func getConfigFile() string {
	if configFile := os.Getenv("CONFIG_FILE"); configFile != "" {
		return configFile
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	configPaths := []string{
		fmt.Sprintf("configs/%s.yaml", env),
		fmt.Sprintf("configs/%s.yml", env),
		"config.yaml",
		"config.yml",
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if poolSize := os.Getenv("RENDER_WORKER_POOL_SIZE"); poolSize != "" {
		if p := parseInt(poolSize); p > 0 {
			cfg.Render.WorkerPoolSize = p
		}
	}
	if fontCacheDir := os.Getenv("RENDER_FONT_CACHE_DIR"); fontCacheDir != "" {
		cfg.Render.FontCacheDir = fontCacheDir
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = strings.ToLower(logLevel)
	}
	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		cfg.Logger.Format = strings.ToLower(logFormat)
	}
	if logOutput := os.Getenv("LOG_OUTPUT"); logOutput != "" {
		cfg.Logger.Output = strings.ToLower(logOutput)
	}
}

// validate validates the configuration.
func validate(cfg *Config) error {
	if cfg.Render.WorkerPoolSize <= 0 {
		return fmt.Errorf("render worker pool size must be positive: %d", cfg.Render.WorkerPoolSize)
	}

	if cfg.Render.FontCacheDir != "" {
		if err := os.MkdirAll(cfg.Render.FontCacheDir, 0755); err != nil {
			return fmt.Errorf("failed to create font cache directory %s: %w", cfg.Render.FontCacheDir, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true,
	}
	if !validLogLevels[cfg.Logger.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Logger.Level)
	}

	validLogFormats := map[string]bool{
		"json": true, "text": true,
	}
	if !validLogFormats[cfg.Logger.Format] {
		return fmt.Errorf("invalid log format: %s", cfg.Logger.Format)
	}

	return nil
}

// Helper functions for parsing environment variables.
func parseInt(s string) int {
	var result int
	fmt.Sscanf(s, "%d", &result)
	return result
}

// GetConfigPath returns the absolute path to a config file.
func GetConfigPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}

	configsPath := filepath.Join("configs", filename)
	if _, err := os.Stat(configsPath); err == nil {
		abs, _ := filepath.Abs(configsPath)
		return abs
	}

	abs, _ := filepath.Abs(filename)
	return abs
}
