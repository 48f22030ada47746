package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workshophub/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                  "test-secret-key-at-least-32-chars-long",
		AccessTokenExpiration:   15 * time.Minute,
		ImpersonationExpiration: time.Hour,
		Issuer:                  "workshophub-test",
	})
}

func TestJWTService_AccessToken(t *testing.T) {
	service := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	token, expiresAt, err := service.GenerateAccessToken(tenantID, userID, "owner")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.False(t, claims.IsImpersonation())

	_, present, err := claims.GetImpersonatorUUID()
	require.NoError(t, err)
	assert.False(t, present)
}

func TestJWTService_ImpersonationToken(t *testing.T) {
	service := newTestService()
	adminID := uuid.New()
	tenantID := uuid.New()
	userID := uuid.New()

	token, expiresAt, err := service.IssueImpersonationToken(adminID, tenantID, userID, "manager")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsImpersonation())
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)

	impersonator, present, err := claims.GetImpersonatorUUID()
	require.NoError(t, err)
	assert.True(t, present)
	assert.Equal(t, adminID, impersonator)
}

func TestJWTService_ValidateToken_Rejections(t *testing.T) {
	service := newTestService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                  "a-completely-different-secret-key-here",
			AccessTokenExpiration:   time.Minute,
			ImpersonationExpiration: time.Minute,
			Issuer:                  "workshophub-test",
		})
		token, _, err := other.GenerateAccessToken(uuid.New(), uuid.New(), "owner")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                  "test-secret-key-at-least-32-chars-long",
			AccessTokenExpiration:   -time.Minute,
			ImpersonationExpiration: time.Minute,
			Issuer:                  "workshophub-test",
		})
		token, _, err := expired.GenerateAccessToken(uuid.New(), uuid.New(), "owner")
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}
