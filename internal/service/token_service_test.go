package service

import (
	"testing"
	"time"

	"momo-ledger/config"
	"momo-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(accessExpiry time.Duration) *JWTTokenService {
	return NewJWTTokenService(config.JWTConfig{
		Secret:        "test-secret-at-least-32-bytes-long!",
		AccessExpiry:  accessExpiry,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "momo-ledger-test",
	})
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser(uuid.New(), "Token User", "token@example.com", domain.RoleCustomer)
	require.NoError(t, err)
	return user
}

func TestJWTTokenService_GeneratePairAndValidate(t *testing.T) {
	svc := newTestTokenService(15 * time.Minute)
	user := testUser(t)

	pair, err := svc.GeneratePair(user)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	claims, err := svc.Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	claims, err = svc.Validate(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestJWTTokenService_Validate_WrongSecret(t *testing.T) {
	svc := newTestTokenService(15 * time.Minute)
	user := testUser(t)

	pair, err := svc.GeneratePair(user)
	require.NoError(t, err)

	other := NewJWTTokenService(config.JWTConfig{
		Secret:       "a-completely-different-signing-secret",
		AccessExpiry: 15 * time.Minute,
		Issuer:       "momo-ledger-test",
	})

	_, err = other.Validate(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Expired(t *testing.T) {
	svc := newTestTokenService(-1 * time.Minute)
	user := testUser(t)

	pair, err := svc.GeneratePair(user)
	require.NoError(t, err)

	_, err = svc.Validate(pair.AccessToken)
	assert.Error(t, err)
}

func TestJWTTokenService_Validate_Garbage(t *testing.T) {
	svc := newTestTokenService(15 * time.Minute)

	_, err := svc.Validate("not.a.jwt")
	assert.Error(t, err)
}
