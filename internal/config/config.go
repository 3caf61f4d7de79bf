package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	UI        UIConfig        `mapstructure:"ui"`
}

// APIConfig points the client at the portal backend.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// StorageConfig holds sqlite settings.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// TelemetryConfig enables OTLP tracing when OTelEndpoint is set.
type TelemetryConfig struct {
	OTelEndpoint string `mapstructure:"otel_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	StartPath string `mapstructure:"start_path"`
	Currency  string `mapstructure:"currency"`
	Locale    string `mapstructure:"locale"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "regionhub")
}

// Path is the config file location: REGIONHUB_CONFIG or the user config dir.
func Path() string {
	if p := os.Getenv("REGIONHUB_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "regionhub", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix REGIONHUB_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:8080/api")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.retries", 0)
	v.SetDefault("storage.path", filepath.Join(dataDir(), "regionhub.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir(), "regionhub.log"))
	v.SetDefault("telemetry.otel_endpoint", "")
	v.SetDefault("telemetry.service_name", "regionhub")
	v.SetDefault("ui.start_path", "/dashboard")
	v.SetDefault("ui.currency", "USD")
	v.SetDefault("ui.locale", "en-US")

	v.SetConfigType("toml")
	if p := os.Getenv("REGIONHUB_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "regionhub"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("REGIONHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the client cannot start with.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.API.Retries < 0 || c.API.Retries > 10 {
		return fmt.Errorf("api.retries must be between 0 and 10, got %d", c.API.Retries)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required")
	}
	if !strings.HasPrefix(c.UI.StartPath, "/") {
		return fmt.Errorf("ui.start_path %q must start with /", c.UI.StartPath)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The client never stores credentials here; the token lives in local storage.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("api.retries", cfg.API.Retries)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("telemetry.otel_endpoint", cfg.Telemetry.OTelEndpoint)
	v.Set("telemetry.service_name", cfg.Telemetry.ServiceName)
	v.Set("ui.start_path", cfg.UI.StartPath)
	v.Set("ui.currency", cfg.UI.Currency)
	v.Set("ui.locale", cfg.UI.Locale)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
