package crud

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vidtube/domain"
	"vidtube/errs"
)

// UserService manages Users. It also contains the part of the authentication
// system that handles database interactions and password hashing, with the
// token side living in the auth package. It implements the
// domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	pepper        string
	emailRegex    *regexp.Regexp
	usernameRegex *regexp.Regexp
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB, pepper string) *UserService {
	return &UserService{
		userValidator{
			pepper:        pepper,
			emailRegex:    regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			usernameRegex: regexp.MustCompile(`^[a-z0-9_\-]{3,30}$`),
			userGorm: userGorm{
				db: db,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Authenticate checks a submitted email address and password for existence
// and correctness.
func (uv *userValidator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	found, err := uv.userGorm.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	// Append the predefined pepper to the submitted password, hash it, and
	// compare the result to the hash stored in the user's record.
	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.Errorf(errs.EINVALID, "The password is incorrect.")
		}
		return nil, err
	}
	return found, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (uv *userValidator) ChangePassword(ctx context.Context, id int, oldPassword, newPassword string) error {
	user, err := uv.userGorm.ByID(ctx, id)
	if err != nil {
		return err
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword+uv.pepper))
	if err != nil {
		return errs.Errorf(errs.EINVALID, "The old password is incorrect.")
	}
	user.Password = newPassword
	err = runUserValFns(user,
		uv.passwordRequired,
		uv.passwordMinLength,
		uv.passwordBcrypt)
	if err != nil {
		return err
	}
	return uv.userGorm.savePasswordHash(ctx, id, user.PasswordHash)
}

// Create runs validations needed for creating new User database records.
func (uv *userValidator) Create(ctx context.Context, user *domain.User) error {
	err := runUserValFns(user,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameFormat,
		uv.usernameIsAvail(ctx),
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailIsAvail(ctx),
		uv.passwordRequired,
		uv.passwordMinLength,
		uv.passwordBcrypt)
	if err != nil {
		return err
	}
	return uv.userGorm.Create(ctx, user)
}

// Update runs validations needed for updating a User's account fields.
func (uv *userValidator) Update(ctx context.Context, id int, upd *domain.UserUpdate) (*domain.User, error) {
	user, err := uv.userGorm.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.FullName != nil {
		user.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.Email != nil {
		user.Email = *upd.Email
		err := runUserValFns(user,
			uv.emailNormalize,
			uv.emailRequired,
			uv.emailFormat,
			uv.emailIsAvailForUpdate(ctx, id))
		if err != nil {
			return nil, err
		}
	}
	if err := uv.userGorm.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// runUserValFns runs any number of functions of type userValFn on the passed
// in User object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runUserValFns(user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object
// and returns an error.
type userValFn func(user *domain.User) error

func (uv *userValidator) usernameNormalize(user *domain.User) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	return nil
}

func (uv *userValidator) usernameRequired(user *domain.User) error {
	if user.Username == "" {
		return errs.Errorf(errs.EINVALID, "Username is required.")
	}
	return nil
}

func (uv *userValidator) usernameFormat(user *domain.User) error {
	if !uv.usernameRegex.MatchString(user.Username) {
		return errs.Errorf(errs.EINVALID, "Username must be 3-30 characters of a-z, 0-9, _ or -.")
	}
	return nil
}

// usernameIsAvail makes sure nobody else already registered the username.
// Usernames are stored lower-cased, which is what makes the lookup
// case-insensitive.
func (uv *userValidator) usernameIsAvail(ctx context.Context) userValFn {
	return func(user *domain.User) error {
		_, err := uv.userGorm.ByUsername(ctx, user.Username)
		if err == nil {
			return errs.Errorf(errs.ECONFLICT, "Username is already taken.")
		}
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil
		}
		return err
	}
}

func (uv *userValidator) emailNormalize(user *domain.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return nil
}

func (uv *userValidator) emailRequired(user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "Email address is required.")
	}
	return nil
}

func (uv *userValidator) emailFormat(user *domain.User) error {
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "Email address is not valid.")
	}
	return nil
}

func (uv *userValidator) emailIsAvail(ctx context.Context) userValFn {
	return func(user *domain.User) error {
		_, err := uv.userGorm.ByEmail(ctx, user.Email)
		if err == nil {
			return errs.Errorf(errs.ECONFLICT, "Email address is already taken.")
		}
		if errs.ErrorCode(err) == errs.ENOTFOUND {
			return nil
		}
		return err
	}
}

func (uv *userValidator) emailIsAvailForUpdate(ctx context.Context, id int) userValFn {
	return func(user *domain.User) error {
		found, err := uv.userGorm.ByEmail(ctx, user.Email)
		if err == nil && found.ID != id {
			return errs.Errorf(errs.ECONFLICT, "Email address is already taken.")
		}
		if err != nil && errs.ErrorCode(err) != errs.ENOTFOUND {
			return err
		}
		return nil
	}
}

func (uv *userValidator) passwordRequired(user *domain.User) error {
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "Password is required.")
	}
	return nil
}

func (uv *userValidator) passwordMinLength(user *domain.User) error {
	if utf8.RuneCountInString(user.Password) < 8 {
		return errs.Errorf(errs.EINVALID, "Password must be at least 8 characters long.")
	}
	return nil
}

// passwordBcrypt hashes the plain-text password with the service pepper and
// zeroes the plain text so it can't accidentally be stored.
func (uv *userValidator) passwordBcrypt(user *domain.User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password+uv.pepper), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.Password = ""
	return nil
}

// ByID retrieves a user by their ID.
func (ug *userGorm) ByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User does not exist.")
		}
		return nil, dbError("user.by_id", err)
	}
	return &user, nil
}

// ByEmail retrieves a user by their email address.
func (ug *userGorm) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The email address does not exist in our database.")
		}
		return nil, dbError("user.by_email", err)
	}
	return &user, nil
}

// ByUsername retrieves a user by their username. Usernames are stored
// lower-cased, so the incoming value is lowered before the lookup.
func (ug *userGorm) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).First(&user, "username = ?", strings.ToLower(username)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Channel does not exist.")
		}
		return nil, dbError("user.by_username", err)
	}
	return &user, nil
}

// Create stores the data from the User object in a new database record.
func (ug *userGorm) Create(ctx context.Context, user *domain.User) error {
	err := ug.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.Errorf(errs.ECONFLICT, "Username or email address is already taken.")
		}
		return dbError("user.create", err)
	}
	return nil
}

// Update saves the full user record.
func (ug *userGorm) Update(ctx context.Context, user *domain.User) error {
	if err := ug.db.WithContext(ctx).Save(user).Error; err != nil {
		return dbError("user.update", err)
	}
	return nil
}

// UpdateAvatar swaps the user's avatar asset reference.
func (ug *userGorm) UpdateAvatar(ctx context.Context, id int, ref domain.AssetRef) (*domain.User, error) {
	return ug.updateAsset(ctx, id, map[string]interface{}{
		"avatar":    ref.URL,
		"avatar_id": ref.ReferenceID,
	})
}

// UpdateCover swaps the user's cover image asset reference.
func (ug *userGorm) UpdateCover(ctx context.Context, id int, ref domain.AssetRef) (*domain.User, error) {
	return ug.updateAsset(ctx, id, map[string]interface{}{
		"cover_image":    ref.URL,
		"cover_image_id": ref.ReferenceID,
	})
}

func (ug *userGorm) updateAsset(ctx context.Context, id int, patch map[string]interface{}) (*domain.User, error) {
	user, err := ug.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ug.db.WithContext(ctx).Model(user).Updates(patch).Error; err != nil {
		return nil, dbError("user.update_asset", err)
	}
	return user, nil
}

// UpdateRefreshToken stores the user's current refresh credential.
// Passing nil clears it, which is how logout invalidates the session.
func (ug *userGorm) UpdateRefreshToken(ctx context.Context, id int, token *string) error {
	res := ug.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Update("refresh_token", token)
	if res.Error != nil {
		return dbError("user.update_refresh_token", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.Errorf(errs.ENOTFOUND, "User does not exist.")
	}
	return nil
}

func (ug *userGorm) savePasswordHash(ctx context.Context, id int, hash string) error {
	err := ug.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Update("password_hash", hash).Error
	if err != nil {
		return dbError("user.save_password_hash", err)
	}
	return nil
}
