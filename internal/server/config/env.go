package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays Config fields from environment variables. Variables that
// are unset or empty leave the current values untouched. Durations are given
// in minutes. Secrets are expected to arrive this way in deployments
// (typically via a .env file loaded at startup).
func parseEnv(config *Config) {
	if v := os.Getenv("ENDPOINT_ADDR"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		config.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RedisDB = n
		}
	}
	if v := os.Getenv("ACCESS_SECRET"); v != "" {
		config.AccessSecretKey = v
	}
	if v := os.Getenv("REFRESH_SECRET"); v != "" {
		config.RefreshSecretKey = v
	}
	if v := os.Getenv("ACCESS_TOKEN_VALIDITY_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.AccessTokenValidityDuration = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("REFRESH_TOKEN_VALIDITY_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RefreshTokenValidityDuration = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		config.AllowedOrigins = strings.Split(v, ",")
	}
}
