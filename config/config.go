package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Postgres    PostgresConfig
	HTTP        HTTPConfig
	Session     SessionConfig
	Pagination  PaginationConfig
	Admin       AdminConfig
	StorageType string
	LogLevel    string
}

type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     int
	SSLMode  string
}

func (pc PostgresConfig) GetDSN() string {
	return pc.dsn("postgres")
}

// GetMigrateDSN is the same database addressed for golang-migrate's pgx/v5
// driver.
func (pc PostgresConfig) GetMigrateDSN() string {
	return pc.dsn("pgx5")
}

func (pc PostgresConfig) dsn(scheme string) string {
	return fmt.Sprintf(
		"%s://%s:%s@%s:%d/%s?sslmode=%s",
		scheme,
		pc.User,
		pc.Password,
		pc.Host,
		pc.Port,
		pc.DB,
		pc.SSLMode,
	)
}

type HTTPConfig struct {
	Port string
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type PaginationConfig struct {
	PostsPerPage int
}

// AdminConfig describes a superuser created at startup. It is optional;
// Enabled reports whether a username and password were both given.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

func (ac AdminConfig) Enabled() bool {
	return ac.Username != "" && ac.Password != ""
}

// LoadConfig reads the environment, after loading a .env file when one is
// present. Missing required keys panic.
func LoadConfig() Config {
	_ = godotenv.Load()

	storageType := getEnv("STORAGE_TYPE", StorageMemory)

	cfg := Config{
		StorageType: storageType,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTP: HTTPConfig{
			Port: mustGetEnv("HTTP_PORT"),
		},
		Session: SessionConfig{
			Secret: mustGetEnv("SESSION_SECRET"),
			TTL:    time.Duration(getInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		},
		Pagination: PaginationConfig{
			PostsPerPage: getInt("POSTS_PER_PAGE", 10),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if storageType == StoragePostgres {
		cfg.Postgres = PostgresConfig{
			User:     mustGetEnv("POSTGRES_USER"),
			Password: mustGetEnv("POSTGRES_PASSWORD"),
			DB:       mustGetEnv("POSTGRES_DB"),
			Host:     mustGetEnv("POSTGRES_HOST"),
			Port:     mustGetInt("POSTGRES_PORT"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("missing required env var: " + key)
	}
	return val
}

func mustGetInt(key string) int {
	val := mustGetEnv(key)
	i, err := strconv.Atoi(val)
	if err != nil {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	i, err := strconv.Atoi(val)
	if err != nil || i <= 0 {
		panic("invalid int for env var " + key + ": " + val)
	}
	return i
}
