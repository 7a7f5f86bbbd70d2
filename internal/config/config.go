package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendElastic  = "elastic"
)

// EnvConfig mirrors the environment variables the application reads.
type EnvConfig struct {
	APP_PORT        string
	LOG_FILE_PATH   string
	STORAGE_BACKEND string
	TASKS_FILE_PATH string

	DB_HOST              string
	DB_PORT              string
	DB_NAME              string
	DB_USER              string
	DB_PASSWORD          string
	DB_SSL_MODE          string
	DB_MAX_OPEN_CONNS    int
	DB_MAX_IDLE_CONNS    int
	DB_CONN_MAX_LIFETIME time.Duration

	ES_URL   string
	ES_INDEX string
}

var DefaultEnvConfig EnvConfig

// LoadEnvConfig reads .env if present, then the process environment.
// Database settings are only required when the postgres backend is
// selected; a missing connection config must fail here, not silently
// downstream.
func LoadEnvConfig() error {
	_ = godotenv.Load()

	DefaultEnvConfig = EnvConfig{
		APP_PORT:        getEnv("APP_PORT", "8080"),
		LOG_FILE_PATH:   getEnv("LOG_FILE_PATH", "task_manager.log"),
		STORAGE_BACKEND: getEnv("STORAGE_BACKEND", BackendFile),
		TASKS_FILE_PATH: getEnv("TASKS_FILE_PATH", "tasks.json"),

		DB_HOST:              os.Getenv("DB_HOST"),
		DB_PORT:              getEnv("DB_PORT", "5432"),
		DB_NAME:              os.Getenv("DB_NAME"),
		DB_USER:              os.Getenv("DB_USER"),
		DB_PASSWORD:          os.Getenv("DB_PASSWORD"),
		DB_SSL_MODE:          getEnv("DB_SSL_MODE", "disable"),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DB_CONN_MAX_LIFETIME: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute,

		ES_URL:   getEnv("ES_URL", "http://localhost:9200"),
		ES_INDEX: getEnv("ES_INDEX", "tasks"),
	}

	switch DefaultEnvConfig.STORAGE_BACKEND {
	case BackendFile, BackendElastic:
	case BackendPostgres:
		if DefaultEnvConfig.DB_HOST == "" || DefaultEnvConfig.DB_NAME == "" || DefaultEnvConfig.DB_USER == "" {
			return fmt.Errorf("postgres backend selected but DB_HOST, DB_NAME or DB_USER is not set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", DefaultEnvConfig.STORAGE_BACKEND)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
