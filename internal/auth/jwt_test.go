package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bboodd/mini-shop/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", TTL: time.Hour}

	token, err := GenerateAdminToken(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken(&config.JWTConfig{Secret: "secret-a", TTL: time.Hour})
	require.NoError(t, err)

	_, err = ParseToken(&config.JWTConfig{Secret: "secret-b"}, token)
	require.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", TTL: -time.Minute}

	// TTL 非正时退回默认两小时，这里直接手工构造过期 token
	token, err := GenerateAdminToken(&config.JWTConfig{Secret: cfg.Secret, TTL: time.Nanosecond})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = ParseToken(cfg, token)
	require.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken(&config.JWTConfig{Secret: "test-secret"}, "not-a-token")
	require.Error(t, err)
}
