package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_TTL_MINUTES", "5")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
}

func TestLoadIgnoresUnparsableInts(t *testing.T) {
	t.Setenv("TOKEN_TTL_MINUTES", "soon")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
}
