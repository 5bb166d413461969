package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	API      APIConfig
	Images   ImageConfig
	Session  SessionConfig
	Redis    RedisConfig
	Sync     SyncConfig
	Observ   ObservabilityConfig
	Admin    AdminConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ImageConfig struct {
	BaseURL     string
	Placeholder string
}

type SessionConfig struct {
	Path string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type SyncConfig struct {
	RefreshInterval time.Duration
}

type ObservabilityConfig struct {
	JaegerEndpoint string
	PrometheusPort string
}

type AdminConfig struct {
	Email    string
	Password string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", ""),
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
			Timeout: getDuration("API_TIMEOUT", 15*time.Second),
		},
		Images: ImageConfig{
			BaseURL:     getEnv("IMAGE_BASE_URL", "http://localhost:8080/images"),
			Placeholder: getEnv("IMAGE_PLACEHOLDER_URL", "http://localhost:8080/images/placeholder.png"),
		},
		Session: SessionConfig{
			Path: getEnv("SESSION_PATH", ".backoffice-session"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      getDuration("SNAPSHOT_TTL", 10*time.Minute),
		},
		Sync: SyncConfig{
			RefreshInterval: getDuration("REFRESH_INTERVAL", time.Minute),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			PrometheusPort: getEnv("PROMETHEUS_PORT", "9091"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	log.Printf("Config loaded: api=%s, refresh=%s", cfg.API.BaseURL, cfg.Sync.RefreshInterval)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
