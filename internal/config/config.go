package config

import (
	"fmt"
	"os"

	"github.com/fernet/fernet-go"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Market   MarketConfig
	CORS     CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// MarketConfig holds configuration for the upstream market data API.
// Permission is the fixed credential attached to every request. It can be
// supplied in cleartext via MARKET_PERMISSION, or fernet-encrypted via
// MARKET_PERMISSION_ENCRYPTED together with FERNET_KEY.
type MarketConfig struct {
	BaseURL         string
	Permission      string
	RefreshSchedule string // cron expression for periodic snapshot refresh
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// defaultPermission is the shared credential the public NEPSE endpoint expects.
const defaultPermission = "2021D@T@f@RSt6&%2-D@T@"

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/tracker.db"),
		},
		Market: MarketConfig{
			BaseURL:         getEnv("MARKET_BASE_URL", "https://peridotnepal.xyz/api"),
			RefreshSchedule: getEnv("MARKET_REFRESH_SCHEDULE", "@every 1m"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	permission, err := loadPermission()
	if err != nil {
		return nil, err
	}
	config.Market.Permission = permission

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// loadPermission resolves the market API credential. An encrypted credential
// takes precedence over a cleartext one; with neither set, the built-in
// shared credential is used.
func loadPermission() (string, error) {
	encrypted := os.Getenv("MARKET_PERMISSION_ENCRYPTED")
	if encrypted == "" {
		return getEnv("MARKET_PERMISSION", defaultPermission), nil
	}

	keyStr := os.Getenv("FERNET_KEY")
	if keyStr == "" {
		return "", fmt.Errorf("MARKET_PERMISSION_ENCRYPTED is set but FERNET_KEY is not")
	}

	key, err := fernet.DecodeKey(keyStr)
	if err != nil {
		return "", fmt.Errorf("failed to decode FERNET_KEY: %w", err)
	}

	// TTL of zero disables token expiry; the credential is long-lived.
	plain := fernet.VerifyAndDecrypt([]byte(encrypted), 0, []*fernet.Key{key})
	if plain == nil {
		return "", fmt.Errorf("failed to decrypt MARKET_PERMISSION_ENCRYPTED")
	}

	return string(plain), nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
