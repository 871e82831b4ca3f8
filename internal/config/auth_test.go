package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		wantHours  int
		wantErr    bool
	}{
		{name: "default expiration", secret: "s", wantHours: 24},
		{name: "custom expiration", secret: "s", expiration: "12", wantHours: 12},
		{name: "missing secret", wantErr: true},
		{name: "non-numeric expiration", secret: "s", expiration: "abc", wantErr: true},
		{name: "zero expiration", secret: "s", expiration: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)
			t.Setenv("JWT_ISSUER", "")

			cfg, err := NewJWTConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
			assert.Equal(t, "ats-autofill", cfg.Issuer)
		})
	}
}

func TestAPIKeyConfig(t *testing.T) {
	hash, err := HashAPIKey("sekrit", bcrypt.MinCost)
	require.NoError(t, err)

	t.Setenv("AUTOFILL_API_KEY_HASH", hash)
	t.Setenv("BCRYPT_COST", "")
	cfg, err := NewAPIKeyConfig()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.Verify("sekrit"))
	assert.False(t, cfg.Verify("wrong"))
}

func TestAPIKeyConfig_Errors(t *testing.T) {
	t.Setenv("AUTOFILL_API_KEY_HASH", "")
	_, err := NewAPIKeyConfig()
	assert.ErrorContains(t, err, "AUTOFILL_API_KEY_HASH")

	t.Setenv("AUTOFILL_API_KEY_HASH", "$2a$04$abc")
	t.Setenv("BCRYPT_COST", "99")
	_, err = NewAPIKeyConfig()
	assert.ErrorContains(t, err, "out of range")

	_, err = HashAPIKey("", bcrypt.MinCost)
	assert.Error(t, err)
}
