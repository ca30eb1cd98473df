package domain

import (
	"context"
	"time"
)

// User represents a registered account. Every user doubles as a channel that
// other users can subscribe to. The password and refresh token fields are
// credentials and must never appear in a response body.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"uniqueIndex;notNull"`
	Email    string `json:"email" gorm:"uniqueIndex;notNull"`
	FullName string `json:"full_name"`

	// Avatar and CoverImage hold asset URLs, the matching ID fields hold the
	// object-store reference needed to delete the asset later.
	Avatar       string `json:"avatar"`
	AvatarID     string `json:"-"`
	CoverImage   string `json:"cover_image"`
	CoverImageID string `json:"-"`

	// Password is only ever set on incoming requests. It gets hashed into
	// PasswordHash and zeroed before the record is stored.
	Password     string  `json:"password,omitempty" gorm:"-"`
	PasswordHash string  `json:"-"`
	RefreshToken *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserUpdate holds the account fields a user may change after registration.
type UserUpdate struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	ByID(ctx context.Context, id int) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, id int, upd *UserUpdate) (*User, error)
	UpdateAvatar(ctx context.Context, id int, ref AssetRef) (*User, error)
	UpdateCover(ctx context.Context, id int, ref AssetRef) (*User, error)
	UpdateRefreshToken(ctx context.Context, id int, token *string) error
	Authenticate(ctx context.Context, email, password string) (*User, error)
	ChangePassword(ctx context.Context, id int, oldPassword, newPassword string) error
}
