package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Limits      LimitsConfig      `toml:"limits"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	YouTube  YouTubeConfig  `toml:"youtube"`
	Airtable AirtableConfig `toml:"airtable"`
}

// YouTubeConfig contains YouTube Data API OAuth client credentials.
//
// The refresh token is provisioned out of band; the service only performs
// silent renewal against the Google token endpoint.
type YouTubeConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
}

// AirtableConfig contains Airtable REST API credentials.
type AirtableConfig struct {
	APIKey string `toml:"api_key"`
	BaseID string `toml:"base_id"`
	Table  string `toml:"table"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	WebhookSecret string `toml:"webhook_secret"`
}

// LimitsConfig contains client-side rate limits for remote APIs and the
// per-IP limit applied to the webhook route.
type LimitsConfig struct {
	YouTubeRPS   float64 `toml:"youtube_rps"`
	YouTubeBurst int     `toml:"youtube_burst"`
	WebhookRPS   float64 `toml:"webhook_rps"`
	WebhookBurst int     `toml:"webhook_burst"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays environment variables onto the config. Deployment
// platforms inject credentials this way instead of shipping a config file.
func (c *Config) ApplyEnv() {
	readEnv("AIRTABLE_API_KEY", &c.Credentials.Airtable.APIKey)
	readEnv("AIRTABLE_BASE_ID", &c.Credentials.Airtable.BaseID)
	readEnv("AIRTABLE_TABLE", &c.Credentials.Airtable.Table)
	readEnv("YOUTUBE_CLIENT_ID", &c.Credentials.YouTube.ClientID)
	readEnv("YOUTUBE_CLIENT_SECRET", &c.Credentials.YouTube.ClientSecret)
	readEnv("YOUTUBE_REFRESH_TOKEN", &c.Credentials.YouTube.RefreshToken)
	readEnv("WEBHOOK_SECRET", &c.Server.WebhookSecret)
	readEnv("TAGSYNC_DB", &c.Database.Path)
	readEnvInt("PORT", &c.Server.Port)
}

// Validate checks that the credentials required for remote calls are present.
func (c *Config) Validate() error {
	yt := c.Credentials.YouTube
	if yt.ClientID == "" || yt.ClientSecret == "" || yt.RefreshToken == "" {
		return fmt.Errorf("%w: youtube client_id, client_secret, and refresh_token are required", ErrMissingCredentials)
	}

	at := c.Credentials.Airtable
	if at.APIKey == "" || at.BaseID == "" {
		return fmt.Errorf("%w: airtable api_key and base_id are required", ErrMissingCredentials)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	return nil
}

// Addr returns the host:port address the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func readEnv(key string, dest *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dest = v
	}
}

func readEnvInt(key string, dest *int) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dest = n
		}
	}
}
