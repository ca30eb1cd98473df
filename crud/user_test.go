package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtube/domain"
	"vidtube/errs"
)

const testPepper = "test-pepper"

func TestUserCreateAndAuthenticate(t *testing.T) {
	db := openTestDB(t)
	us := NewUserService(db, testPepper)
	ctx := context.Background()

	user := domain.User{
		Username: "  Alice  ",
		Email:    "Alice@Example.COM",
		Password: "supersecret",
	}
	require.NoError(t, us.Create(ctx, &user))

	// Username and email are normalized, the plain password is gone.
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.PasswordHash)

	found, err := us.Authenticate(ctx, "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = us.Authenticate(ctx, "alice@example.com", "wrongpassword")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = us.Authenticate(ctx, "nobody@example.com", "supersecret")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUserCreateValidation(t *testing.T) {
	db := openTestDB(t)
	us := NewUserService(db, testPepper)
	ctx := context.Background()

	tests := []struct {
		name string
		user domain.User
	}{
		{"missing username", domain.User{Email: "a@example.com", Password: "supersecret"}},
		{"bad username format", domain.User{Username: "a!", Email: "a@example.com", Password: "supersecret"}},
		{"missing email", domain.User{Username: "alice", Password: "supersecret"}},
		{"bad email format", domain.User{Username: "alice", Email: "not-an-email", Password: "supersecret"}},
		{"missing password", domain.User{Username: "alice", Email: "a@example.com"}},
		{"short password", domain.User{Username: "alice", Email: "a@example.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := us.Create(ctx, &tt.user)
			assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
		})
	}
}

func TestUserCreateTakenIdentity(t *testing.T) {
	db := openTestDB(t)
	us := NewUserService(db, testPepper)
	ctx := context.Background()

	first := domain.User{Username: "alice", Email: "alice@example.com", Password: "supersecret"}
	require.NoError(t, us.Create(ctx, &first))

	dupUsername := domain.User{Username: "ALICE", Email: "other@example.com", Password: "supersecret"}
	err := us.Create(ctx, &dupUsername)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))

	dupEmail := domain.User{Username: "bob", Email: "alice@example.com", Password: "supersecret"}
	err = us.Create(ctx, &dupEmail)
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))
}

func TestUserChangePassword(t *testing.T) {
	db := openTestDB(t)
	us := NewUserService(db, testPepper)
	ctx := context.Background()

	user := domain.User{Username: "alice", Email: "alice@example.com", Password: "supersecret"}
	require.NoError(t, us.Create(ctx, &user))

	err := us.ChangePassword(ctx, user.ID, "wrongpassword", "newsecret123")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	require.NoError(t, us.ChangePassword(ctx, user.ID, "supersecret", "newsecret123"))

	_, err = us.Authenticate(ctx, "alice@example.com", "supersecret")
	assert.Error(t, err)
	found, err := us.Authenticate(ctx, "alice@example.com", "newsecret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserUpdateRefreshToken(t *testing.T) {
	db := openTestDB(t)
	us := NewUserService(db, testPepper)
	ctx := context.Background()

	user := seedUser(t, db, "alice")

	token := "opaque-refresh-token"
	require.NoError(t, us.UpdateRefreshToken(ctx, user.ID, &token))
	found, err := us.ByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.RefreshToken)
	assert.Equal(t, token, *found.RefreshToken)

	// Passing nil clears the credential, which is how logout revokes it.
	require.NoError(t, us.UpdateRefreshToken(ctx, user.ID, nil))
	found, err = us.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, found.RefreshToken)

	err = us.UpdateRefreshToken(ctx, 9999, &token)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUserByUsernameCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	us := NewUserService(db, testPepper)
	ctx := context.Background()

	seedUser(t, db, "alice")

	found, err := us.ByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
}
