package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "tagsync.db" {
			t.Errorf("expected database path tagsync.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Server.WebhookSecret != "dev-secret-key" {
			t.Errorf("expected webhook secret dev-secret-key, got %s", config.Server.WebhookSecret)
		}

		if config.Credentials.Airtable.Table != "Content" {
			t.Errorf("expected airtable table Content, got %s", config.Credentials.Airtable.Table)
		}

		if config.Limits.YouTubeRPS <= 0 {
			t.Errorf("expected a positive youtube rate limit, got %f", config.Limits.YouTubeRPS)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "127.0.0.1"
port = 8080
webhook_secret = "hunter2"

[credentials.youtube]
client_id = "test_client_id"
client_secret = "test_secret"
refresh_token = "test_refresh"

[credentials.airtable]
api_key = "key_test"
base_id = "app_test"
table = "Videos"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.Credentials.YouTube.ClientID != "test_client_id" {
			t.Errorf("expected youtube client_id test_client_id, got %s", config.Credentials.YouTube.ClientID)
		}

		if config.Credentials.Airtable.Table != "Videos" {
			t.Errorf("expected airtable table Videos, got %s", config.Credentials.Airtable.Table)
		}

		if got := config.Addr(); got != "127.0.0.1:8080" {
			t.Errorf("expected addr 127.0.0.1:8080, got %s", got)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("AIRTABLE_API_KEY", "key_from_env")
		t.Setenv("YOUTUBE_REFRESH_TOKEN", "refresh_from_env")
		t.Setenv("WEBHOOK_SECRET", "secret_from_env")
		t.Setenv("PORT", "9999")
		t.Setenv("AIRTABLE_TABLE", "")

		config := DefaultConfig()
		config.ApplyEnv()

		if config.Credentials.Airtable.APIKey != "key_from_env" {
			t.Errorf("expected api key from env, got %s", config.Credentials.Airtable.APIKey)
		}

		if config.Credentials.YouTube.RefreshToken != "refresh_from_env" {
			t.Errorf("expected refresh token from env, got %s", config.Credentials.YouTube.RefreshToken)
		}

		if config.Server.WebhookSecret != "secret_from_env" {
			t.Errorf("expected webhook secret from env, got %s", config.Server.WebhookSecret)
		}

		if config.Server.Port != 9999 {
			t.Errorf("expected port 9999 from env, got %d", config.Server.Port)
		}

		// Empty env values never clobber config values.
		if config.Credentials.Airtable.Table != "Content" {
			t.Errorf("expected table Content, got %s", config.Credentials.Airtable.Table)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := DefaultConfig()

		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for blank config, got %v", err)
		}

		config.Credentials.YouTube = YouTubeConfig{ClientID: "id", ClientSecret: "secret", RefreshToken: "refresh"}
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials without airtable creds, got %v", err)
		}

		config.Credentials.Airtable = AirtableConfig{APIKey: "key", BaseID: "app123", Table: "Content"}
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}

		config.Server.Port = 0
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig for port 0, got %v", err)
		}
	})
}
