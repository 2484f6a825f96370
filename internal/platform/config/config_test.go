package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	err := Load()
	require.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("JWT_TTL", "garbage")

	require.NoError(t, Load())
	assert.Equal(t, []byte("test-secret"), AppConfig.JWTKey)
	assert.Equal(t, time.Hour, AppConfig.JWTTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, AppConfig.CORSAllowedOrigins)
	assert.Contains(t, AppConfig.DBConnStr, "dbname=")
}
