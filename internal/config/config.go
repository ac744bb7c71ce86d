package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Backends selectable with BACKEND.
const (
	BackendFirebase = "firebase"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`
	// Backend is "firebase" for the managed services or "memory" for a
	// self-contained local run.
	Backend  string `mapstructure:"BACKEND"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseAPIKey                   string `mapstructure:"FIREBASE_API_KEY"`
	FirebaseStorageBucket            string `mapstructure:"FIREBASE_STORAGE_BUCKET"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	ClientURL string `mapstructure:"CLIENT_URL"`

	GoogleOAuthClientID     string `mapstructure:"GOOGLE_OAUTH_CLIENT_ID"`
	GoogleOAuthClientSecret string `mapstructure:"GOOGLE_OAUTH_CLIENT_SECRET"`
	GoogleOAuthRedirectURL  string `mapstructure:"GOOGLE_OAUTH_REDIRECT_URL"`
	OAuthStateHashKey       string `mapstructure:"OAUTH_STATE_HASH_KEY"`  // Base64, optional
	OAuthStateBlockKey      string `mapstructure:"OAUTH_STATE_BLOCK_KEY"` // Base64, optional

	ImageCompression bool    `mapstructure:"IMAGE_COMPRESSION"`
	ImageMaxWidth    int     `mapstructure:"IMAGE_MAX_WIDTH"`
	ImageQuality     float64 `mapstructure:"IMAGE_QUALITY"`
}

var keys = []string{
	"PORT", "GIN_MODE", "BACKEND", "LOG_LEVEL",
	"FIREBASE_PROJECT_ID", "FIREBASE_API_KEY", "FIREBASE_STORAGE_BUCKET",
	"GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"CLIENT_URL",
	"GOOGLE_OAUTH_CLIENT_ID", "GOOGLE_OAUTH_CLIENT_SECRET", "GOOGLE_OAUTH_REDIRECT_URL",
	"OAUTH_STATE_HASH_KEY", "OAUTH_STATE_BLOCK_KEY",
	"IMAGE_COMPRESSION", "IMAGE_MAX_WIDTH", "IMAGE_QUALITY",
}

var appConfig *Config

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Read from environment variables.
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("BACKEND", BackendFirebase)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("IMAGE_COMPRESSION", true)
	v.SetDefault("IMAGE_MAX_WIDTH", 800)
	v.SetDefault("IMAGE_QUALITY", 0.8)

	// Bind environment variables so Unmarshal sees keys that only exist in
	// the environment.
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	// Unmarshal the config into the struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	appConfig = &cfg
	return appConfig, nil
}

func (c *Config) validate() error {
	c.Backend = strings.ToLower(c.Backend)
	switch c.Backend {
	case BackendMemory:
		// No external services needed.
	case BackendFirebase:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required")
		}
		if c.FirebaseAPIKey == "" {
			return errors.New("FIREBASE_API_KEY is required")
		}
		if c.FirebaseStorageBucket == "" {
			return errors.New("FIREBASE_STORAGE_BUCKET is required")
		}
	default:
		return fmt.Errorf("BACKEND must be %q or %q, got %q", BackendFirebase, BackendMemory, c.Backend)
	}
	// Google sign-in is optional but all-or-nothing.
	if c.GoogleOAuthClientID != "" && (c.GoogleOAuthClientSecret == "" || c.GoogleOAuthRedirectURL == "") {
		return errors.New("GOOGLE_OAUTH_CLIENT_SECRET and GOOGLE_OAUTH_REDIRECT_URL are required when GOOGLE_OAUTH_CLIENT_ID is set")
	}
	// Image settings
	if c.ImageQuality <= 0 || c.ImageQuality > 1 {
		return errors.New("IMAGE_QUALITY must be in (0, 1]")
	}
	if c.ImageMaxWidth <= 0 {
		return errors.New("IMAGE_MAX_WIDTH must be positive")
	}
	return nil
}

// GoogleSignInEnabled reports whether Google OAuth is configured.
func (c *Config) GoogleSignInEnabled() bool {
	return c.GoogleOAuthClientID != ""
}

// GetConfig returns the loaded application configuration.
// It will panic if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}
