package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Session store backends
const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

// Config holds the application configuration
type Config struct {
	Port         int
	Env          string
	Location     *time.Location
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	DatabaseURL string

	SessionStore  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AllowedOrigins []string
}

// IsProduction reports whether the app runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	env := GetEnvOrDefault("APP_ENV", "development")
	// production never falls back to the local development defaults
	if env == "production" {
		required := []string{"DATABASE_URL"}
		if strings.EqualFold(GetEnvOrDefault("SESSION_STORE", ""), SessionStoreRedis) {
			required = append(required, "REDIS_ADDR")
		}
		if err := ValidateEnv(required); err != nil {
			return nil, err
		}
	}

	loc, err := time.LoadLocation(GetEnvOrDefault("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	store := strings.ToLower(GetEnvOrDefault("SESSION_STORE", SessionStorePostgres))
	if store != SessionStorePostgres && store != SessionStoreRedis {
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", store)
	}

	cfg := &Config{
		Port:         GetEnvInt("PORT", 8080),
		Env:          env,
		Location:     loc,
		ReadTimeout:  GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: GetEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),

		DatabaseURL: databaseURL(),

		SessionStore:  store,
		RedisAddr:     GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("REDIS_DB", 0),

		AllowedOrigins: splitList(GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to the discrete DB_* variables
func databaseURL() string {
	if dsn := GetEnvOrDefault("DATABASE_URL", ""); dsn != "" {
		return dsn
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(GetEnvOrDefault("DB_USERNAME", "postgres"), GetEnvOrDefault("DB_PASSWORD", "postgres")),
		Host:   fmt.Sprintf("%s:%s", GetEnvOrDefault("DB_HOST", "localhost"), GetEnvOrDefault("DB_PORT", "5432")),
		Path:   GetEnvOrDefault("DB_DATABASE", "daily_diet"),
	}
	q := u.Query()
	q.Set("sslmode", GetEnvOrDefault("DB_SSLMODE", "disable"))
	q.Set("search_path", GetEnvOrDefault("DB_SCHEMA", "public"))
	u.RawQuery = q.Encode()

	return u.String()
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
