package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Memory(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("POSTS_PER_PAGE", "5")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg := LoadConfig()

	require.Equal(t, StorageMemory, cfg.StorageType)
	require.Equal(t, "8080", cfg.HTTP.Port)
	require.Equal(t, "s3cret", cfg.Session.Secret)
	require.Equal(t, 24*time.Hour, cfg.Session.TTL)
	require.Equal(t, 5, cfg.Pagination.PostsPerPage)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.Admin.Enabled())
	require.Empty(t, cfg.Postgres.Host)
}

func TestLoadConfig_Postgres(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "postgres")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("POSTGRES_USER", "blog")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "blogicum")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("POSTGRES_SSLMODE", "")

	cfg := LoadConfig()

	require.Equal(t, "postgres://blog:pw@db:5432/blogicum?sslmode=disable", cfg.Postgres.GetDSN())
	require.Equal(t, "pgx5://blog:pw@db:5432/blogicum?sslmode=disable", cfg.Postgres.GetMigrateDSN())
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "postgres")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("POSTGRES_USER", "")

	require.PanicsWithValue(t, "missing required env var: POSTGRES_USER", func() {
		LoadConfig()
	})
}

func TestLoadConfig_BadInt(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("POSTS_PER_PAGE", "ten")

	require.Panics(t, func() {
		LoadConfig()
	})
}

func TestAdminConfig_Enabled(t *testing.T) {
	t.Parallel()

	require.True(t, AdminConfig{Username: "admin", Password: "pw"}.Enabled())
	require.False(t, AdminConfig{Username: "admin"}.Enabled())
}
