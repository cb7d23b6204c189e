package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "qurandist",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	adminID := uuid.New()
	now := time.Now()

	signed, err := MintAccessToken(testJWTConfig(), now, AccessTokenPayload{
		AdminID: adminID,
		Email:   "admin@example.org",
		Role:    enums.AdminRoleSuperAdmin,
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(testJWTConfig(), signed)
	require.NoError(t, err)
	assert.Equal(t, adminID, claims.AdminID)
	assert.Equal(t, "admin@example.org", claims.Email)
	assert.Equal(t, enums.AdminRoleSuperAdmin, claims.Role)
	assert.Equal(t, "qurandist", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestMintAccessTokenValidation(t *testing.T) {
	now := time.Now()

	_, err := MintAccessToken(config.JWTConfig{Issuer: "qurandist", ExpirationMinutes: 30}, now, AccessTokenPayload{
		AdminID: uuid.New(),
		Role:    enums.AdminRoleManager,
	})
	assert.Error(t, err)

	_, err = MintAccessToken(testJWTConfig(), now, AccessTokenPayload{
		AdminID: uuid.New(),
		Role:    enums.AdminRole("owner"),
	})
	assert.Error(t, err)

	_, err = MintAccessToken(testJWTConfig(), now, AccessTokenPayload{
		Role: enums.AdminRoleManager,
	})
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		AdminID: uuid.New(),
		Role:    enums.AdminRoleManager,
	})
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "different-secret"
	_, err = ParseAccessToken(other, signed)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now().Add(-2*time.Hour), AccessTokenPayload{
		AdminID: uuid.New(),
		Role:    enums.AdminRoleManager,
	})
	require.NoError(t, err)

	_, err = ParseAccessToken(testJWTConfig(), signed)
	assert.Error(t, err)
}
