package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrEmptyEnvironmentVariable = errors.New("empty environment variable")

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Services ServicesConfig
	Server   ServerConfig
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	JWTSecret string
}

// ServicesConfig holds external service API keys and configuration
type ServicesConfig struct {
	HuggingFaceAPIKey   string
	GeminiAPIKey        string
	ComposioOAuthClient ComposioOAuthClient
	BlueskyActorDID     string
	ResendAPIKey        string
	DefaultEmailSender  string
	ReminderRecipient   string
	WebAppURI           string
}

// ComposioOAuthClient holds the Google OAuth client credentials handed to
// Composio when creating the Gmail integration.
type ComposioOAuthClient struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	// Load env.local in non-production environments
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{}

	var err error
	if cfg.Database.URI, err = requireEnv("MONGO_URI"); err != nil {
		return nil, err
	}
	cfg.Database.Name = getEnvWithDefault("MONGO_DB_NAME", "adpulse")

	if cfg.Auth.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	if cfg.Services.HuggingFaceAPIKey, err = requireEnv("HUGGINGFACE_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.Services.GeminiAPIKey, err = requireEnv("GEMINI_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.Services.ComposioOAuthClient.ClientID, err = requireEnv("COMPOSIO_GOOGLE_CLIENT_ID"); err != nil {
		return nil, err
	}
	if cfg.Services.ComposioOAuthClient.ClientSecret, err = requireEnv("COMPOSIO_GOOGLE_CLIENT_SECRET"); err != nil {
		return nil, err
	}
	cfg.Services.ComposioOAuthClient.RedirectURI = getEnvWithDefault(
		"COMPOSIO_OAUTH_REDIRECT_URI", "https://backend.composio.dev/api/v1/auth-apps/add")

	if cfg.Services.BlueskyActorDID, err = requireEnv("BSKY_ACTOR_DID"); err != nil {
		return nil, err
	}

	// Reminder tool settings are optional for the API server itself
	cfg.Services.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Services.DefaultEmailSender = os.Getenv("DEFAULT_EMAIL_SENDER_ADDRESS")
	cfg.Services.ReminderRecipient = os.Getenv("REMINDER_RECIPIENT_ADDRESS")

	cfg.Services.WebAppURI = getEnvWithDefault("WEBAPP_URI", "*")

	serverPort := getEnvWithDefault("SERVER_PORT", "3000")
	cfg.Server.Port, err = strconv.Atoi(serverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SERVER_PORT: %w", err)
	}

	return cfg, nil
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
