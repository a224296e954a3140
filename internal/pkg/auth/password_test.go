package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/storefront-backend/internal/config"
)

func newTestPasswordManager() *PasswordManager {
	cfg := &config.Config{}
	// min cost keeps the test fast
	cfg.Security.BcryptCost = bcrypt.MinCost
	return NewPasswordManager(cfg)
}

func TestHashAndVerifyPassword(t *testing.T) {
	pm := newTestPasswordManager()

	hash, err := pm.HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, pm.VerifyPassword("s3cret-pass", hash))
	assert.Error(t, pm.VerifyPassword("wrong-pass", hash))
}

func TestHashPassword_Empty(t *testing.T) {
	pm := newTestPasswordManager()

	_, err := pm.HashPassword("")
	assert.Error(t, err)
}

func TestNewPasswordManager_ClampsCost(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.BcryptCost = 99
	pm := NewPasswordManager(cfg)
	assert.Equal(t, bcrypt.DefaultCost, pm.cost)
}
