package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Import   ImportConfig
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

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// ImportConfig holds settings of the document import pipeline.
type ImportConfig struct {
	InboxDir      string // empty disables the inbox scheduler
	Schedule      string // cron spec, e.g. "@every 5m"
	Workers       int    // parallel documents per batch
	EncryptionKey string // fernet key; empty disables source retention
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	workers, err := strconv.Atoi(getEnv("IMPORT_WORKERS", "4"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("invalid IMPORT_WORKERS: %q", os.Getenv("IMPORT_WORKERS"))
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5002"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/broker_documents.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Import: ImportConfig{
			InboxDir:      os.Getenv("IMPORT_INBOX_DIR"),
			Schedule:      getEnv("IMPORT_SCHEDULE", "@every 5m"),
			Workers:       workers,
			EncryptionKey: os.Getenv("DOCUMENT_ENCRYPTION_KEY"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
