// Package config builds runtime configuration from the environment so main
// stays lean. All variables carry the RDHUB_ prefix.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
}

// Data configures the initial dataset load.
type Data struct {
	// Path to the CSV file loaded at startup. Empty means start without a
	// session; an admin reload can populate one later.
	CSVPath string
	// Indicator family the file belongs to.
	Family string
	// FloorZero clamps projected values of rate-like indicators at zero.
	FloorZero bool
}

// RedisConfig configures the optional Redis memoization backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// PostgresConfig configures the optional Postgres staging source.
type PostgresConfig struct {
	DSN          string
	StagingTable string
}

// Config is the full runtime configuration.
type Config struct {
	Server   Server
	Data     Data
	Redis    RedisConfig
	Postgres PostgresConfig
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	addr := os.Getenv("RDHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("RDHUB_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	family := os.Getenv("RDHUB_DATA_FAMILY")
	if family == "" {
		family = "mortality"
	}

	stagingTable := os.Getenv("RDHUB_PG_STAGING_TABLE")
	if stagingTable == "" {
		stagingTable = "staging_rows"
	}

	return Config{
		Server: Server{
			Addr:          addr,
			JWTSigningKey: jwtSigningKey,
			JWTIssuer:     "rdhub",
			JWTAudience:   "rdhub-admin",
		},
		Data: Data{
			CSVPath:   os.Getenv("RDHUB_DATA_CSV"),
			Family:    family,
			FloorZero: os.Getenv("RDHUB_FLOOR_ZERO") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("RDHUB_REDIS_URL"),
			PoolSize:     envInt("RDHUB_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("RDHUB_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("RDHUB_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("RDHUB_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("RDHUB_REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("RDHUB_CACHE_TTL", 15*time.Minute),
		},
		Postgres: PostgresConfig{
			DSN:          os.Getenv("RDHUB_PG_DSN"),
			StagingTable: stagingTable,
		},
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
