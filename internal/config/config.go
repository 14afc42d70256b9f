// Package config loads application configuration from environment
// variables. A .env file in the working directory is honored when present,
// which keeps local runs of the CLI and the admin service identical to how
// they run in deployment.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the values shared by the migrate CLI and the admin service.
// Only the target-store coordinates are strictly required; Redis and
// RabbitMQ settings are read by their own constructors and may be absent.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	InputPath string // default path of the legacy export (optional)
}

// ServerConfig extends Config with the admin-API settings. The operator
// password is configured as a bcrypt hash so the plain secret never lives
// in the environment.
type ServerConfig struct {
	Config
	Port                 string // HTTP port to listen on
	JWTSecret            string // secret used to sign operator tokens
	AccessTTLMin         int    // operator token time-to-live in minutes
	OperatorPasswordHash string // bcrypt hash of the operator password
}

// Load reads the shared configuration. Missing required variables cause a
// fatal log, matching how the rest of the application fails fast on broken
// deployments.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:       getenv("APP_ENV", "dev"),
		DBUser:    must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"),
		DBHost:    must("DB_HOST"),
		DBPort:    must("DB_PORT"),
		DBName:    must("DB_NAME"),
		InputPath: os.Getenv("MIGRATION_INPUT"),
	}
}

// LoadServer reads the full admin-service configuration.
func LoadServer() ServerConfig {
	return ServerConfig{
		Config:               Load(),
		Port:                 getenv("APP_PORT", "8080"),
		JWTSecret:            must("JWT_SECRET"),
		AccessTTLMin:         getenvInt("ACCESS_TOKEN_TTL_MIN", 30),
		OperatorPasswordHash: must("OPERATOR_PASSWORD_HASH"),
	}
}

// must retrieves a required environment variable or exits fatally.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
