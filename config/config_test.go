package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	chdirForTest(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Storage)
	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, "Asia/Bangkok", cfg.Booking.Timezone)
	assert.Equal(t, "08:00", cfg.Booking.OpenAt)
	assert.Equal(t, "10:00", cfg.Booking.CloseAt)
	assert.False(t, cfg.Booking.Bypass)
	assert.Equal(t, "order-events", cfg.Kafka.OrderEventsTopic)
	assert.Equal(t, time.Hour, cfg.Postgres.ConnMaxLifetime)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	chdirForTest(t, t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("BYPASS_BOOKING_WINDOW", "1")
	t.Setenv("ADMIN_KEY", "secret")
	t.Setenv("PORT", "8088")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("STORAGE", "memory")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, "6543", cfg.Postgres.Port)
	assert.True(t, cfg.Booking.Bypass)
	assert.Equal(t, "secret", cfg.Admin.Key)
	assert.Equal(t, 8088, cfg.HTTP.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Storage)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("booking:\n  open_at: \"07:30\"\n  close_at: \"11:00\"\n"), 0o600))
	t.Setenv(PathEnvVar, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "07:30", cfg.Booking.OpenAt)
	assert.Equal(t, "11:00", cfg.Booking.CloseAt)
}

func TestLoad_InvalidStorage(t *testing.T) {
	chdirForTest(t, t.TempDir())
	t.Setenv("STORAGE", "cassandra")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestPostgresConfig_DSN(t *testing.T) {
	p := PostgresConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", p.DSN())
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
