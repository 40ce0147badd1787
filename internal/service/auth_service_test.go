package service

import (
	"context"
	"testing"
	"time"

	"github.com/stemsi/seatpredictor-backend/internal/config"
	"github.com/stemsi/seatpredictor-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
		BcryptCost:       bcrypt.MinCost,
	}
}

func TestAuthService_PasswordRoundTrip(t *testing.T) {
	svc := NewAuthService(testConfig(), newFakeRefreshStore())

	hash, err := svc.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NoError(t, svc.CheckPassword(hash, "s3cret-pass"))
	assert.ErrorIs(t, svc.CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestAuthService_IssueAndRefresh(t *testing.T) {
	store := newFakeRefreshStore()
	svc := NewAuthService(testConfig(), store)
	admin := &model.Admin{ID: 7, Username: "root", IsStaff: true}

	pair, err := svc.IssueTokens(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, store.active, 1)

	claims, err := svc.ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.True(t, claims.IsStaff)

	_, err = svc.ValidateAccessToken(pair.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token is not an access token")

	access, err := svc.Refresh(context.Background(), pair.Refresh)
	require.NoError(t, err)
	claims, err = svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.True(t, claims.IsStaff)
}

func TestAuthService_RefreshRejectsAccessAndRevoked(t *testing.T) {
	store := newFakeRefreshStore()
	svc := NewAuthService(testConfig(), store)

	pair, err := svc.IssueTokens(context.Background(), &model.Admin{ID: 1})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Revoke(context.Background(), pair.Refresh))
	_, err = svc.Refresh(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewAuthService(testConfig(), newFakeRefreshStore())

	other := testConfig()
	other.JWTSecret = "another-secret"
	forged, err := NewAuthService(other, newFakeRefreshStore()).IssueTokens(context.Background(), &model.Admin{ID: 1, IsStaff: true})
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(forged.Access)
	assert.Error(t, err)

	expired := testConfig()
	expired.JWTAccessExpiry = -time.Minute
	old, err := NewAuthService(expired, newFakeRefreshStore()).IssueTokens(context.Background(), &model.Admin{ID: 1})
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(old.Access)
	assert.Error(t, err)

	_, err = svc.ValidateToken("garbage")
	assert.Error(t, err)
}
