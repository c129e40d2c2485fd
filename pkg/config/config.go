package config

import (
	"os"
	"strconv"
	"time"
)

type GlobalConfig struct {
	AccessTokenTTL  int // in minutes
	RefreshTokenTTL int // in minutes
	ServerPort      string
	LogLevel        string
}

func LoadGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		AccessTokenTTL:  GetEnvInt("ACCESS_TOKEN_TTL_MINUTES", 15),
		RefreshTokenTTL: GetEnvInt("REFRESH_TOKEN_TTL_MINUTES", 10080), // 7 days
		ServerPort:      GetEnvOrDefault("SERVER_PORT", "8000"),
		LogLevel:        GetEnvOrDefault("LOG_LEVEL", "info"),
	}
}

// AccessTTL returns the access token lifetime as a duration.
func (c GlobalConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenTTL) * time.Minute
}

// RefreshTTL returns the refresh token lifetime as a duration.
func (c GlobalConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTL) * time.Minute
}

// GetEnv retrieves the value of the environment variable named by the key.
func GetEnv(key string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	panic("critical config missing: " + key)
}

// GetEnvOrDefault returns the variable or fallback when it is unset or empty.
func GetEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// GetEnvInt parses an integer variable, falling back on absence or parse failure.
func GetEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvBool parses a boolean variable with strconv.ParseBool semantics.
func GetEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
