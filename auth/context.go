package auth

import (
	"context"

	"vidtube/domain"
)

type privateKey string

const (
	userKey privateKey = "user"
)

// SetUserInContext stores the authenticated user in the request context.
func SetUserInContext(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext returns the authenticated user, or nil for an anonymous
// request. Read views treat nil as an anonymous viewer; mutations reject it.
func GetUserFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(userKey).(*domain.User); ok {
		return user
	}
	return nil
}
