package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.AppPort)
	assert.Equal(t, 720*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 10*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "accounts", cfg.DynamoTables.Accounts)
	assert.Equal(t, "events", cfg.DynamoTables.Events)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://localhost:5173",
		"https://kgpnow.vercel.app",
		"https://kgpnow-backend.vercel.app",
	}, cfg.AllowedOrigins)
	assert.NotContains(t, cfg.AllowedOrigins, "*")
	assert.False(t, cfg.TrustProxyHeaders)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://kgpnow.vercel.app,http://localhost:5173")
	t.Setenv("MAIL_WORKERS", "0")
	t.Setenv("DYNAMO_TABLE_ACCOUNTS", "prod_accounts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://kgpnow.vercel.app", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 1, cfg.Mail.Workers)
	assert.Equal(t, "prod_accounts", cfg.DynamoTables.Accounts)
}
