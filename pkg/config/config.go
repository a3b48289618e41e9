// Package config loads docgpt settings: non-secret values from an optional
// TOML file and the API key from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// APIKeyEnv is the only environment variable docgpt reads.
const APIKeyEnv = "OPENAI_SECRET"

// ErrMissingAPIKey is returned when OPENAI_SECRET is unset or empty.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " is not set")

// Config is the full docgpt configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	OpenAI OpenAIConfig `toml:"openai"`
	Image  ImageConfig  `toml:"image"`

	// APIKey is never read from the file.
	APIKey string `toml:"-"`
}

// ServerConfig configures the web form.
type ServerConfig struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string `toml:"listen_addr"`

	// BodyLimit caps request bodies, uploads included, in bytes.
	BodyLimit int `toml:"body_limit"`
}

// OpenAIConfig configures the chat completion endpoint.
type OpenAIConfig struct {
	BaseURL string   `toml:"base_url"`
	Model   string   `toml:"model"`
	Timeout Duration `toml:"timeout"` // Zero leaves the HTTP client without a deadline
}

// ImageConfig configures the image normalizer.
type ImageConfig struct {
	MaxBytes    int64 `toml:"max_bytes"`
	JPEGQuality int   `toml:"jpeg_quality"`
}

// Duration is a time.Duration that decodes from strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr: ":8080",
			BodyLimit:  10 * 1024 * 1024,
		},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Image: ImageConfig{
			MaxBytes:    8 * 1024 * 1024,
			JPEGQuality: 90,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if
// path is non-empty), then the API key from the environment. A .env file in
// the working directory is loaded first when present; it never overrides
// variables already set.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("could not decode config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	cfg.APIKey = os.Getenv(APIKeyEnv)
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.OpenAI.BaseURL == "":
		return errors.New("openai.base_url must not be empty")
	case c.OpenAI.Model == "":
		return errors.New("openai.model must not be empty")
	case c.Image.JPEGQuality < 1 || c.Image.JPEGQuality > 100:
		return fmt.Errorf("image.jpeg_quality must be within [1, 100], got %d", c.Image.JPEGQuality)
	case c.Image.MaxBytes <= 0:
		return fmt.Errorf("image.max_bytes must be positive, got %d", c.Image.MaxBytes)
	case c.Server.BodyLimit <= 0:
		return fmt.Errorf("server.body_limit must be positive, got %d", c.Server.BodyLimit)
	}
	return nil
}
