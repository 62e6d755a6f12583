package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvKeys = []string{
	"CIN7UP_APP_NAME",
	"CIN7UP_APP_ENV",
	"CIN7UP_APP_PORT",
	"CIN7UP_DATABASE_HOST",
	"CIN7UP_DATABASE_PORT",
	"CIN7UP_DATABASE_PASSWORD",
	"CIN7UP_DATABASE_SSLMODE",
	"CIN7UP_ERP_MIN_INTERVAL",
	"CIN7UP_WEBHOOK_SHARED_SECRET",
	"CIN7UP_AUTH_JWT_SECRET",
}

func clearTestEnv(t *testing.T) {
	t.Helper()
	for _, k := range testEnvKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Setenv(k, v) // registers restore
			os.Unsetenv(k)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearTestEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "cin7-uploader", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "cin7_uploader", cfg.Database.DBName)
	assert.Equal(t, "https://inventory.dearsystems.com/ExternalApi/v2/", cfg.ERP.BaseURL)
	assert.Equal(t, int64(340), cfg.ERP.MinInterval.Milliseconds())
	assert.Equal(t, 100, cfg.ERP.MaxPages)
	assert.Equal(t, 100, cfg.ERP.PageLimit)
}

func TestLoadFromEnv(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("CIN7UP_APP_PORT", "9000")
	t.Setenv("CIN7UP_DATABASE_HOST", "db.internal")
	t.Setenv("CIN7UP_ERP_MIN_INTERVAL", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, int64(500), cfg.ERP.MinInterval.Milliseconds())
}

func TestProductionValidation(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("CIN7UP_APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "database.password"))

	t.Setenv("CIN7UP_DATABASE_PASSWORD", "secret")
	t.Setenv("CIN7UP_DATABASE_SSLMODE", "require")
	t.Setenv("CIN7UP_WEBHOOK_SHARED_SECRET", "hook-secret")
	t.Setenv("CIN7UP_AUTH_JWT_SECRET", strings.Repeat("x", 32))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Env)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "cin7_uploader",
		SSLMode:  "disable",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "cin7_uploader")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password are escaped.
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
