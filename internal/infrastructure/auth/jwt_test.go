package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencatalog/backend/internal/infrastructure/config"
)

func testJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough",
		AccessTokenExpiration: time.Hour,
		Issuer:                "opencatalog-test",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := testJWTService()
	tenantID := uuid.New()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: "ops",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ops", claims.Username)
	assert.Equal(t, "opencatalog-test", claims.Issuer)

	gotTenant, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, gotTenant)

	gotUser, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	svc := testJWTService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-key",
			AccessTokenExpiration: time.Hour,
			Issuer:                "opencatalog-test",
		})
		token, _, err := other.GenerateToken(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
		})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-that-is-long-enough",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "opencatalog-test",
		})
		token, _, err := expired.GenerateToken(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
		})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("missing tenant claim", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
			UserID: uuid.New().String(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret-key-that-is-long-enough"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("missing user claim", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
			TenantID: uuid.New().String(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("test-secret-key-that-is-long-enough"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingUserID)
	})
}
