package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultKeyID      = "expense-tracker-key"
	DefaultIssuer     = "expense-tracker"
	DefaultAudience   = "expense-tracker-api"
	DefaultProfile    = "local"
	DefaultExpiration = 3600 * time.Second
)

type Config struct {
	DatabaseURL string

	// Signing keys, base64 DER: PKCS8 for the private key, X.509
	// SubjectPublicKeyInfo for the public key. Both or neither.
	JWTPrivateKey string
	JWTPublicKey  string
	JWTKeyID      string
	JWTIssuer     string
	JWTAudience   string
	JWTExpiration time.Duration

	// Profile selects the key policy: production profiles refuse to start
	// without configured keys.
	Profile string

	BcryptCost int

	ServerPort string
	ServerHost string

	LogLevel  string
	LogFormat string

	MetricsEnabled bool

	// Exact origins allowed to call the API from a browser. Empty disables
	// CORS headers entirely.
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrInvalidExpiration = errors.New("JWT_EXPIRATION must be a positive number of seconds")
	ErrInvalidBcryptCost = errors.New("BCRYPT_COST is out of range")
	ErrMissingProfile    = errors.New("APP_PROFILE must not be empty")
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTPrivateKey:  strings.TrimSpace(os.Getenv("JWT_PRIVATE_KEY")),
		JWTPublicKey:   strings.TrimSpace(os.Getenv("JWT_PUBLIC_KEY")),
		JWTKeyID:       getEnvOrDefault("JWT_KEY_ID", DefaultKeyID),
		JWTIssuer:      getEnvOrDefault("JWT_ISSUER", DefaultIssuer),
		JWTAudience:    getEnvOrDefault("JWT_AUDIENCE", DefaultAudience),
		Profile:        strings.ToLower(strings.TrimSpace(getEnvOrDefault("APP_PROFILE", DefaultProfile))),
		BcryptCost:     getEnvOrDefaultInt("BCRYPT_COST", bcrypt.DefaultCost),
		ServerPort:     getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:     getEnvOrDefault("SERVER_HOST", "localhost"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "json"),
		MetricsEnabled: getEnvOrDefaultBool("METRICS_ENABLED", true),

		CORSAllowedOrigins:   getEnvOrDefaultSlice("CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", false),
	}

	if cfg.Profile == "" {
		return nil, ErrMissingProfile
	}

	expiration, err := parseSeconds(getEnvOrDefault("JWT_EXPIRATION", "3600"))
	if err != nil || expiration <= 0 {
		return nil, ErrInvalidExpiration
	}
	cfg.JWTExpiration = expiration

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidBcryptCost, cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return cfg, nil
}

// IsProduction reports whether the active profile must run with configured
// key material.
func (c *Config) IsProduction() bool {
	switch c.Profile {
	case "prod", "production":
		return true
	default:
		return false
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSeconds(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}
