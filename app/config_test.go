package app

import (
	"path/filepath"
	"testing"
	"time"

	"Gin_postgres_redis_local_library/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))
	t.Setenv("WEB_ORIGIN", "https://library.example.org")
	t.Setenv("RP_ORIGINS", "")
	t.Setenv("ADMIN_EMAILS", " Boss@Example.com ,, ops@example.org")
	t.Setenv("APP_SESSION_TTL", "2h")
	t.Setenv("BOOTSTRAP_EMAIL", " First@Example.org ")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://library.example.org"}, cfg.RPOrigins)
	assert.Equal(t, []string{"boss@example.com", "ops@example.org"}, cfg.AdminEmails)
	assert.Equal(t, 2*time.Hour, cfg.AppSessionTTL)
	assert.Equal(t, "first@example.org", cfg.BootstrapEmail)
	assert.True(t, cfg.SecureCookies())
}

func TestConfigIsAdmin(t *testing.T) {
	cfg := Config{AdminEmails: []string{"boss@example.com"}}

	assert.True(t, cfg.IsAdmin(&models.User{Username: "Boss@Example.com"}))
	assert.True(t, cfg.IsAdmin(&models.User{Username: "flagged", IsAdmin: true}))
	assert.False(t, cfg.IsAdmin(&models.User{Username: "member@example.com"}))
	assert.False(t, cfg.IsAdmin(nil))
}

func TestConfigLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Config{TimeZone: "Nowhere/Special"}.Location())
	assert.Equal(t, time.UTC, Config{TimeZone: "UTC"}.Location())
}

func TestDBOptionsDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "lib", DBPassword: "pw", DBName: "catalog"}
	assert.Equal(t, "host=db user=lib password=pw dbname=catalog port=5432 sslmode=disable", cfg.DBOptions().DSN())
}
