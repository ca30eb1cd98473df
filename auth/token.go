package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vidtube/errs"
)

// TokenManager issues and verifies the JWT session credentials: a short
// lived access token and a long lived refresh token, signed with separate
// HS256 secrets so one can never stand in for the other.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager returns a TokenManager using the given secrets and TTLs.
func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// NewAccessToken issues an access token for the given user id.
func (tm *TokenManager) NewAccessToken(userID int) (string, error) {
	return tm.sign(userID, tm.accessSecret, tm.accessTTL)
}

// NewRefreshToken issues a refresh token for the given user id. The caller
// persists it on the account so a rotated or logged-out token stops working
// even before it expires.
func (tm *TokenManager) NewRefreshToken(userID int) (string, error) {
	return tm.sign(userID, tm.refreshSecret, tm.refreshTTL)
}

// ParseAccessToken verifies an access token and returns the user id it was
// issued for.
func (tm *TokenManager) ParseAccessToken(token string) (int, error) {
	return tm.parse(token, tm.accessSecret)
}

// ParseRefreshToken verifies a refresh token and returns the user id it was
// issued for.
func (tm *TokenManager) ParseRefreshToken(token string) (int, error) {
	return tm.parse(token, tm.refreshSecret)
}

func (tm *TokenManager) sign(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errs.Errorf(errs.EINTERNAL, "Could not sign token.")
	}
	return signed, nil
}

func (tm *TokenManager) parse(tokenString string, secret []byte) (int, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
	if err != nil || !token.Valid {
		return 0, errs.Errorf(errs.EUNAUTHORIZED, "Token is not valid.")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, errs.Errorf(errs.EUNAUTHORIZED, "Token is not valid.")
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, errs.Errorf(errs.EUNAUTHORIZED, "Token is not valid.")
	}
	return userID, nil
}
