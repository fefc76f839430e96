package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds configuration for the local presentation API
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// IsProduction reports whether the server runs in production mode
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// GeminiConfig holds configuration for the remote analysis service
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	Temperature     float64       `mapstructure:"temperature"`
	SearchGrounding bool          `mapstructure:"search_grounding"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds configuration for history and preference storage
type StorageConfig struct {
	Type     string `mapstructure:"type"` // "memory", "sqlite" or "redis"
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis_url"`
}

// RateLimitConfig holds outbound analysis throttling
type RateLimitConfig struct {
	AnalysisPerMinute int `mapstructure:"analysis_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// LoadOptions adjusts how configuration is loaded
type LoadOptions struct {
	// File is an explicit config file; empty searches the default paths
	File string
	// Offline skips the API key requirement for commands that never call
	// the analysis service
	Offline bool
}

// Load loads configuration from .env, config files and environment variables
func Load() (*Config, error) {
	return LoadWith(LoadOptions{})
}

// LoadWith loads configuration with opts
func LoadWith(opts LoadOptions) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.shelfsense")
	}

	// SHELFSENSE_GEMINI_API_KEY -> gemini.api_key
	v.SetEnvPrefix("SHELFSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional unless named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.Storage.Path = expandHome(config.Storage.Path)
	config.Log.File = expandHome(config.Log.File)

	if err := validate(&config, opts); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can bind it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8787")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.search_grounding", true)
	v.SetDefault("gemini.timeout", "60s")

	// Storage defaults
	v.SetDefault("storage.type", "sqlite")
	v.SetDefault("storage.path", "~/.shelfsense/shelfsense.db")
	v.SetDefault("storage.redis_url", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.analysis_per_minute", 10)
	v.SetDefault("ratelimit.burst", 2)

	// Log defaults
	v.SetDefault("log.file", "~/.shelfsense/shelfsense.log")
	v.SetDefault("log.level", "info")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// validate validates the configuration
func validate(config *Config, opts LoadOptions) error {
	if !opts.Offline && config.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set SHELFSENSE_GEMINI_API_KEY)")
	}

	if config.Gemini.Temperature <= 0 || config.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini temperature must be greater than 0 and at most 2, got: %v", config.Gemini.Temperature)
	}

	if config.Gemini.Timeout <= 0 {
		return fmt.Errorf("gemini timeout must be positive, got: %s", config.Gemini.Timeout)
	}

	switch config.Storage.Type {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("storage type must be 'memory', 'sqlite' or 'redis', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "sqlite" && config.Storage.Path == "" {
		return fmt.Errorf("storage path is required when storage type is 'sqlite'")
	}

	if config.Storage.Type == "redis" && config.Storage.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when storage type is 'redis'")
	}

	if config.RateLimit.AnalysisPerMinute <= 0 {
		return fmt.Errorf("ratelimit analysis_per_minute must be positive, got: %d", config.RateLimit.AnalysisPerMinute)
	}

	return nil
}
