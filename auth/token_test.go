package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/errs"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := newTestManager()

	access, err := tm.NewAccessToken(42)
	require.NoError(t, err)
	userID, err := tm.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	refresh, err := tm.NewRefreshToken(42)
	require.NoError(t, err)
	userID, err = tm.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
}

// The two token kinds are signed with separate secrets, so one can never
// stand in for the other.
func TestTokenKindsNotInterchangeable(t *testing.T) {
	tm := newTestManager()

	access, err := tm.NewAccessToken(42)
	require.NoError(t, err)
	_, err = tm.ParseRefreshToken(access)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))

	refresh, err := tm.NewRefreshToken(42)
	require.NoError(t, err)
	_, err = tm.ParseAccessToken(refresh)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, err := tm.NewAccessToken(42)
	require.NoError(t, err)
	_, err = tm.ParseAccessToken(access)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenGarbageRejected(t *testing.T) {
	tm := newTestManager()
	_, err := tm.ParseAccessToken("not.a.token")
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}

func TestTokenWrongSecretRejected(t *testing.T) {
	tm := newTestManager()
	other := NewTokenManager("different-secret", "different-secret", 15*time.Minute, 24*time.Hour)

	access, err := other.NewAccessToken(42)
	require.NoError(t, err)
	_, err = tm.ParseAccessToken(access)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}
