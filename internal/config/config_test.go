package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/authz_test")
}

func TestLoadFailsWithoutJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/authz_test")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadFailsWithoutDatabaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_ACCESS_TTL", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("DB_OP_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, int32(8), cfg.DBMaxConns)
	assert.Equal(t, 5*time.Second, cfg.DBOpTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_ACCESS_TTL", "45m")
	t.Setenv("DB_OP_TIMEOUT", "2s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 45*time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 2*time.Second, cfg.DBOpTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsAbsurdBcryptCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BCRYPT_COST", "99")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}
