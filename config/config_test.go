package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at empty temp dirs so no
// config file or .env on the machine leaks into a test
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "SHELFSENSE_") {
			key, _, _ := strings.Cut(kv, "=")
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	return home
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when only the API key is set", func(t *testing.T) {
		home := isolate(t)
		t.Setenv("SHELFSENSE_GEMINI_API_KEY", "test-key")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8787" {
			t.Errorf("Server.Port = %s, want 8787", cfg.Server.Port)
		}
		if cfg.Server.Addr() != "127.0.0.1:8787" {
			t.Errorf("Server.Addr() = %s, want 127.0.0.1:8787", cfg.Server.Addr())
		}
		if cfg.Server.IsProduction() {
			t.Error("Server.IsProduction() = true, want false")
		}
		if cfg.Gemini.Model != "gemini-2.5-flash" {
			t.Errorf("Gemini.Model = %s, want gemini-2.5-flash", cfg.Gemini.Model)
		}
		if cfg.Gemini.Temperature != 0.1 {
			t.Errorf("Gemini.Temperature = %v, want 0.1", cfg.Gemini.Temperature)
		}
		if !cfg.Gemini.SearchGrounding {
			t.Error("Gemini.SearchGrounding = false, want true")
		}
		if cfg.Gemini.Timeout != 60*time.Second {
			t.Errorf("Gemini.Timeout = %v, want 60s", cfg.Gemini.Timeout)
		}
		if cfg.Storage.Type != "sqlite" {
			t.Errorf("Storage.Type = %s, want sqlite", cfg.Storage.Type)
		}
		if want := filepath.Join(home, ".shelfsense", "shelfsense.db"); cfg.Storage.Path != want {
			t.Errorf("Storage.Path = %s, want %s", cfg.Storage.Path, want)
		}
		if cfg.RateLimit.AnalysisPerMinute != 10 || cfg.RateLimit.Burst != 2 {
			t.Errorf("RateLimit = %+v, want 10/2", cfg.RateLimit)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("SHELFSENSE_SERVER_PORT", "9090")
		t.Setenv("SHELFSENSE_SERVER_ENVIRONMENT", "production")
		t.Setenv("SHELFSENSE_GEMINI_API_KEY", "custom-api-key")
		t.Setenv("SHELFSENSE_GEMINI_MODEL", "gemini-2.5-pro")
		t.Setenv("SHELFSENSE_GEMINI_SEARCH_GROUNDING", "false")
		t.Setenv("SHELFSENSE_GEMINI_TIMEOUT", "15s")
		t.Setenv("SHELFSENSE_STORAGE_TYPE", "redis")
		t.Setenv("SHELFSENSE_STORAGE_REDIS_URL", "redis://localhost:6379/0")
		t.Setenv("SHELFSENSE_RATELIMIT_ANALYSIS_PER_MINUTE", "30")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if !cfg.Server.IsProduction() {
			t.Error("Server.IsProduction() = false, want true")
		}
		if cfg.Gemini.APIKey != "custom-api-key" {
			t.Errorf("Gemini.APIKey = %s, want custom-api-key", cfg.Gemini.APIKey)
		}
		if cfg.Gemini.Model != "gemini-2.5-pro" {
			t.Errorf("Gemini.Model = %s, want gemini-2.5-pro", cfg.Gemini.Model)
		}
		if cfg.Gemini.SearchGrounding {
			t.Error("Gemini.SearchGrounding = true, want false")
		}
		if cfg.Gemini.Timeout != 15*time.Second {
			t.Errorf("Gemini.Timeout = %v, want 15s", cfg.Gemini.Timeout)
		}
		if cfg.Storage.Type != "redis" || cfg.Storage.RedisURL != "redis://localhost:6379/0" {
			t.Errorf("Storage = %+v", cfg.Storage)
		}
		if cfg.RateLimit.AnalysisPerMinute != 30 {
			t.Errorf("RateLimit.AnalysisPerMinute = %d, want 30", cfg.RateLimit.AnalysisPerMinute)
		}
	})

	t.Run("reads an explicit config file", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), "shelfsense.yaml")
		content := `
gemini:
  api_key: file-key
  temperature: 0.3
storage:
  type: memory
log:
  level: debug
`
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadWith(LoadOptions{File: path})
		if err != nil {
			t.Fatalf("LoadWith() error = %v, want nil", err)
		}
		if cfg.Gemini.APIKey != "file-key" {
			t.Errorf("Gemini.APIKey = %s, want file-key", cfg.Gemini.APIKey)
		}
		if cfg.Gemini.Temperature != 0.3 {
			t.Errorf("Gemini.Temperature = %v, want 0.3", cfg.Gemini.Temperature)
		}
		if cfg.Storage.Type != "memory" {
			t.Errorf("Storage.Type = %s, want memory", cfg.Storage.Type)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("missing explicit config file is an error", func(t *testing.T) {
		isolate(t)
		_, err := LoadWith(LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml"), Offline: true})
		if err == nil {
			t.Error("LoadWith() error = nil, want error for missing file")
		}
	})

	t.Run("fails validation when API key is missing", func(t *testing.T) {
		isolate(t)

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing API key")
		}
		if err.Error() != "invalid configuration: Gemini API key is required (set SHELFSENSE_GEMINI_API_KEY)" {
			t.Errorf("Load() error = %v, want 'Gemini API key is required'", err)
		}
	})

	t.Run("offline load does not need an API key", func(t *testing.T) {
		isolate(t)

		cfg, err := LoadWith(LoadOptions{Offline: true})
		if err != nil {
			t.Fatalf("LoadWith() error = %v, want nil", err)
		}
		if cfg.Gemini.APIKey != "" {
			t.Errorf("Gemini.APIKey = %s, want empty", cfg.Gemini.APIKey)
		}
	})

	t.Run("fails validation for invalid storage type", func(t *testing.T) {
		isolate(t)
		t.Setenv("SHELFSENSE_GEMINI_API_KEY", "test-key")
		t.Setenv("SHELFSENSE_STORAGE_TYPE", "postgres")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "storage type") {
			t.Errorf("Load() error = %v, want storage type error", err)
		}
	})

	t.Run("fails validation when redis URL missing for redis storage", func(t *testing.T) {
		isolate(t)
		t.Setenv("SHELFSENSE_GEMINI_API_KEY", "test-key")
		t.Setenv("SHELFSENSE_STORAGE_TYPE", "redis")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})

	t.Run("fails validation for out of range temperature", func(t *testing.T) {
		isolate(t)
		t.Setenv("SHELFSENSE_GEMINI_API_KEY", "test-key")
		t.Setenv("SHELFSENSE_GEMINI_TEMPERATURE", "3.5")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for temperature")
		}
	})

	t.Run("fails validation for zero temperature", func(t *testing.T) {
		isolate(t)
		t.Setenv("SHELFSENSE_GEMINI_API_KEY", "test-key")
		t.Setenv("SHELFSENSE_GEMINI_TEMPERATURE", "0")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "temperature") {
			t.Errorf("Load() error = %v, want temperature error", err)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		envContent := `
# Comment line
SHELFSENSE_TEST_VAR_1=value1
SHELFSENSE_TEST_VAR_2=value2
# SHELFSENSE_TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0o644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		for _, key := range []string{"SHELFSENSE_TEST_VAR_1", "SHELFSENSE_TEST_VAR_2", "SHELFSENSE_TEST_COMMENTED"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("SHELFSENSE_TEST_VAR_1") != "value1" {
			t.Errorf("SHELFSENSE_TEST_VAR_1 = %s, want value1", os.Getenv("SHELFSENSE_TEST_VAR_1"))
		}
		if os.Getenv("SHELFSENSE_TEST_VAR_2") != "value2" {
			t.Errorf("SHELFSENSE_TEST_VAR_2 = %s, want value2", os.Getenv("SHELFSENSE_TEST_VAR_2"))
		}
		if _, ok := os.LookupEnv("SHELFSENSE_TEST_COMMENTED"); ok {
			t.Error("commented variable must not be loaded")
		}
	})

	t.Run("existing environment wins over .env", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := os.WriteFile(".env", []byte("SHELFSENSE_TEST_KEEP=from-file\n"), 0o644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Setenv("SHELFSENSE_TEST_KEEP", "from-env")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}
		if os.Getenv("SHELFSENSE_TEST_KEEP") != "from-env" {
			t.Errorf("SHELFSENSE_TEST_KEEP = %s, want from-env", os.Getenv("SHELFSENSE_TEST_KEEP"))
		}
	})

	t.Run("Load picks up the API key from .env", func(t *testing.T) {
		isolate(t)
		if err := os.WriteFile(".env", []byte("SHELFSENSE_GEMINI_API_KEY=dotenv-key\n"), 0o644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Setenv("SHELFSENSE_GEMINI_API_KEY", "")
		os.Unsetenv("SHELFSENSE_GEMINI_API_KEY")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Gemini.APIKey != "dotenv-key" {
			t.Errorf("Gemini.APIKey = %s, want dotenv-key", cfg.Gemini.APIKey)
		}
	})
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~/.shelfsense/db", filepath.Join(home, ".shelfsense/db")},
		{"~", home},
		{"/var/lib/shelfsense.db", "/var/lib/shelfsense.db"},
		{"relative.db", "relative.db"},
		{":memory:", ":memory:"},
	}
	for _, tt := range tests {
		if got := expandHome(tt.in); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
