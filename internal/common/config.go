// -----------------------------------------------------------------------
// Last Modified: Tuesday, 25th August 2026 3:12:41 pm
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Gus         GusConfig         `toml:"gus"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
	Queries     map[string]string `toml:"queries"` // Saved SOQL templates, keyed by name, with ${me}/${team}/${product_tag} tokens
}

// GusConfig contains connection settings for the GUS (Salesforce) instance.
// Values here are call-time defaults; callers may override field-by-field.
type GusConfig struct {
	InstanceHost      string `toml:"instance_host" validate:"required"` // e.g. "https://gus.my.salesforce.com"
	ClientID          string `toml:"client_id" validate:"required"`
	RedirectURI       string `toml:"redirect_uri" validate:"required,url"`
	Scopes            string `toml:"scopes"`              // Space-separated OAuth scope string
	APIVersion        string `toml:"api_version"`         // REST API version, e.g. "v59.0"
	CallbackPort      int    `toml:"callback_port"`       // Local listener port for the OAuth redirect
	LoginTimeout      string `toml:"login_timeout"`       // Watchdog duration, e.g. "5m"
	MaxAgeHours       int    `toml:"max_age_hours"`       // Cached token freshness window
	DefaultTeam       string `toml:"default_team"`        // Fills ${team} in saved queries
	DefaultProductTag string `toml:"default_product_tag"` // Fills ${product_tag} in saved queries
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig returns the built-in defaults. File, environment, and CLI
// flag values layer on top in that order.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Gus: GusConfig{
			InstanceHost: "https://gus.my.salesforce.com",
			ClientID:     "PlatformCLI",
			RedirectURI:  "http://localhost:1717/OauthRedirect",
			Scopes:       "refresh_token api",
			APIVersion:   "v59.0",
			CallbackPort: 1717,
			LoginTimeout: "5m",
			MaxAgeHours:  8,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/rogo",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Queries: map[string]string{},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ROGO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ROGO_GUS_INSTANCE_HOST"); host != "" {
		config.Gus.InstanceHost = host
	}
	if clientID := os.Getenv("ROGO_GUS_CLIENT_ID"); clientID != "" {
		config.Gus.ClientID = clientID
	}
	if port := os.Getenv("ROGO_GUS_CALLBACK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Gus.CallbackPort = p
		}
	}
	if maxAge := os.Getenv("ROGO_GUS_MAX_AGE_HOURS"); maxAge != "" {
		if h, err := strconv.Atoi(maxAge); err == nil {
			config.Gus.MaxAgeHours = h
		}
	}

	if badgerPath := os.Getenv("ROGO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("ROGO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ROGO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, instanceHost string, callbackPort int) {
	if instanceHost != "" {
		config.Gus.InstanceHost = instanceHost
	}
	if callbackPort != 0 {
		config.Gus.CallbackPort = callbackPort
	}
}

// Validate checks the resolved configuration against struct tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction returns true when running with a production environment setting
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
