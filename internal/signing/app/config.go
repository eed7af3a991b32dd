package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/sigil/internal/signing/domain"
)

type Config struct {
	Issuer   string // Expected issuer claim on access tokens
	Audience string // Optional: expected audience claim on access tokens

	PublicKeyFile string // Optional: PEM file with the auth service's Ed25519 public key. Empty enables dev mode with an ephemeral keypair.

	DatabaseFile string // Optional: path to SQLite database file (default: ./signing.db)
	PepperFile   string // Optional: path to file containing pepper for code hashing (default: ./pepper)
	ArtifactDir  string // Optional: directory for sealed artifact bytes (default: ./artifacts)

	DirectoryURL      string // Optional: base URL of the platform's subject directory. Empty falls back to the seed file.
	DirectoryToken    string // Optional: bearer token for directory lookups
	DirectorySeedFile string // Optional: JSON file with subjects for dev mode

	DeliveryPhoneURL string        // Optional: webhook URL for SMS dispatch. Both URLs empty means codes are logged (dev mode).
	DeliveryEmailURL string        // Optional: webhook URL for email dispatch
	DeliveryTimeout  time.Duration // Dispatch timeout (default: 5s)

	ChallengeTTL time.Duration // Challenge lifetime (default: 10m)
	MaxAttempts  int           // Wrong codes tolerated per challenge (default: 5)
	CodeLength   int           // One-time code length (default: 6)
	DocumentTTL  time.Duration // Optional: sealed document validity. Zero means documents never expire.

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-challenge sweep interval (default: 15m)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:   getEnvOrDefault("SIGNING_ISSUER", "bartab-auth"),
		Audience: os.Getenv("SIGNING_AUDIENCE"),

		PublicKeyFile: os.Getenv("SIGNING_PUBLIC_KEY_FILE"),

		DatabaseFile: getEnvOrDefault("SIGNING_DATABASE_FILE", "signing.db"),
		PepperFile:   getEnvOrDefault("SIGNING_PEPPER_FILE", "pepper"),
		ArtifactDir:  getEnvOrDefault("SIGNING_ARTIFACT_DIR", "artifacts"),

		DirectoryURL:      os.Getenv("SIGNING_DIRECTORY_URL"),
		DirectoryToken:    os.Getenv("SIGNING_DIRECTORY_TOKEN"),
		DirectorySeedFile: os.Getenv("SIGNING_DIRECTORY_SEED_FILE"),

		DeliveryPhoneURL: os.Getenv("SIGNING_DELIVERY_PHONE_URL"),
		DeliveryEmailURL: os.Getenv("SIGNING_DELIVERY_EMAIL_URL"),
		DeliveryTimeout:  getEnvDurationOrDefault("SIGNING_DELIVERY_TIMEOUT", 5*time.Second),

		ChallengeTTL: getEnvDurationOrDefault("SIGNING_CHALLENGE_TTL", domain.DefaultChallengeTTL),
		MaxAttempts:  getEnvIntOrDefault("SIGNING_MAX_ATTEMPTS", domain.DefaultMaxAttempts),
		CodeLength:   getEnvIntOrDefault("SIGNING_CODE_LENGTH", 0),
		DocumentTTL:  getEnvDurationOrDefault("SIGNING_DOCUMENT_TTL", 0),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
