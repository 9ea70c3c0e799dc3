package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Sheets    SheetsConfig
	Self      SelfConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
	DevMode bool
}

type SheetsConfig struct {
	CompetitorsURL  string
	ConfigURL       string
	Placeholders    []string
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
}

type SelfConfig struct {
	LegacyDomain  string
	CurrentDomain string
	CombinedName  string
}

type StorageConfig struct {
	DataDir      string
	RetainMonths int
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// loadEnv reads .env.development first and falls back to .env
func loadEnv() {
	if err := godotenv.Load(".env.development"); err != nil {
		_ = godotenv.Load()
	}
}

func Load() *Config {
	loadEnv()

	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8082"),
			GinMode: getEnv("GIN_MODE", "release"),
			DevMode: getEnvBool("DEV_MODE", false),
		},
		Sheets: SheetsConfig{
			CompetitorsURL:  getEnv("COMPETITORS_CSV_URL", ""),
			ConfigURL:       getEnv("CONFIG_CSV_URL", ""),
			Placeholders:    getEnvList("PLACEHOLDER_MARKERS", []string{"COLE_AQUI"}),
			FetchTimeout:    getPositiveDuration("FETCH_TIMEOUT", 15*time.Second),
			RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 10*time.Minute),
		},
		Self: SelfConfig{
			LegacyDomain:  getEnv("LEGACY_DOMAIN", "caf.io"),
			CurrentDomain: getEnv("CURRENT_DOMAIN", "certta.ai"),
			CombinedName:  getEnv("COMBINED_NAME", "Certta (combined)"),
		},
		Storage: StorageConfig{
			DataDir:      getEnv("DATA_DIR", "data"),
			RetainMonths: getEnvInt("STATS_RETAIN_MONTHS", 12),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			SnapshotTTL: getEnvDuration("SNAPSHOT_TTL", 0),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 2),
			Burst: getEnvInt("RATE_LIMIT_BURST", 5),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return defaultValue
}

// getPositiveDuration is getEnvDuration for settings where zero or a negative
// value would disable the behaviour they bound
func getPositiveDuration(key string, defaultValue time.Duration) time.Duration {
	if d := getEnvDuration(key, defaultValue); d > 0 {
		return d
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
