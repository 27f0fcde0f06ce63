package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Services    ServicesConfig    `toml:"services"`
	Cache       CacheConfig       `toml:"cache"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains provider-specific credentials.
type CredentialsConfig struct {
	Spotify    SpotifyConfig    `toml:"spotify"`
	Musixmatch MusixmatchConfig `toml:"musixmatch"`
}

// SpotifyConfig contains the client-credentials pair for the Spotify Web API.
//
// Leaving either field empty (or at its placeholder value) disables the
// Spotify resolver and lyrics source without failing startup.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Configured reports whether a usable credential pair was supplied.
// The "your_..." placeholders from the example config count as unset.
func (c SpotifyConfig) Configured() bool {
	if c.ClientID == "" || c.ClientSecret == "" {
		return false
	}
	return !strings.HasPrefix(c.ClientID, "your_") && !strings.HasPrefix(c.ClientSecret, "your_")
}

// MusixmatchConfig contains the API key for the optional Musixmatch lyrics source.
type MusixmatchConfig struct {
	APIKey string `toml:"api_key"`
}

// Configured reports whether an API key was supplied.
func (c MusixmatchConfig) Configured() bool {
	return c.APIKey != "" && !strings.HasPrefix(c.APIKey, "your_")
}

// ServicesConfig contains settings for the upstream streaming services.
type ServicesConfig struct {
	Proxy ProxyConfig `toml:"proxy"`
}

// ProxyConfig contains settings for the canonical streaming-source proxy.
type ProxyConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// CacheConfig contains the lifetimes for the in-memory result caches, in minutes.
type CacheConfig struct {
	TrackConversionMinutes int `toml:"track_conversion_minutes"`
	LyricsMinutes          int `toml:"lyrics_minutes"`
}

// TrackConversionTTL returns the track-conversion cache lifetime as a [time.Duration].
func (c CacheConfig) TrackConversionTTL() time.Duration {
	return time.Duration(c.TrackConversionMinutes) * time.Minute
}

// LyricsTTL returns the lyrics cache lifetime as a [time.Duration].
func (c CacheConfig) LyricsTTL() time.Duration {
	return time.Duration(c.LyricsMinutes) * time.Minute
}

// DatabaseConfig contains settings for the resolution journal database.
//
// An empty path disables the journal.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address for the API server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
