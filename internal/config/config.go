package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPPort string

	// Empty MongoURI or RedisAddr disables that half of the archive
	MongoURI  string
	MongoDB   string
	RedisAddr string

	JWTSecret string
	TokenTTL  time.Duration

	StartingBalance int
	ArchiveTimeout  time.Duration

	CORSAllowedOrigins string
}

func Load() *Config {
	return &Config{
		HTTPPort:           getEnv("PORT", "8080"),
		MongoURI:           getEnv("MONGO_URI", ""),
		MongoDB:            getEnv("MONGO_DB", "lowbid"),
		RedisAddr:          redisAddr(getEnv("REDIS_URI", "")),
		JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 12*time.Hour),
		StartingBalance:    getEnvInt("STARTING_BALANCE", 10),
		ArchiveTimeout:     getEnvDuration("ARCHIVE_TIMEOUT", 5*time.Second),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, val, defaultVal)
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, val, defaultVal)
		return defaultVal
	}
	return d
}

// Remove redis:// prefix if present
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}
