package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://papelaria.nebulaweb.com.br"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, float64(10), cfg.Inventory.LowStockThreshold)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DATABASE_URL", "postgres://u:p@db.supabase.co:6543/postgres")
	t.Setenv("LOW_STOCK_THRESHOLD", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://u:p@db.supabase.co:6543/postgres", cfg.Database.DSN())
	assert.Equal(t, 2.5, cfg.Inventory.LowStockThreshold)
}

func TestValidateRejectsSharedSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "same")
	t.Setenv("JWT_REFRESH_SECRET", "same")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsDefaultSecretsInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "postgres://x")

	_, err := Load()
	assert.ErrorContains(t, err, "production")
}

func TestDSNFromParts(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
