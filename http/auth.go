package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"vidtube/domain"
	"vidtube/errs"
)

// registerAuthRoutes is a helper for registering all account and session routes.
func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.requireAuth(s.handleLogout)).Methods("POST")
	r.HandleFunc("/refresh", s.handleRefresh).Methods("POST")
	r.HandleFunc("/password", s.requireAuth(s.handleChangePassword)).Methods("PUT")
	r.HandleFunc("/me", s.requireAuth(s.handleCurrentUser)).Methods("GET")
	r.HandleFunc("/me", s.requireAuth(s.handleUpdateAccount)).Methods("PUT")
	r.HandleFunc("/me/avatar", s.requireAuth(s.handleUpdateAvatar)).Methods("PUT")
	r.HandleFunc("/me/cover", s.requireAuth(s.handleUpdateCover)).Methods("PUT")
}

// handleRegister handles the route "POST /register".
// It creates a new user account and signs it in right away.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.us.Create(r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, r, &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusCreated, &user)
}

// handleLogin handles the route "POST /login".
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user, err := s.us.Authenticate(r.Context(), creds.Email, creds.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, r, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, user)
}

// handleLogout handles the route "POST /logout".
// It clears the stored refresh credential, so the session cannot be renewed,
// and expires both cookies.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r)
	if err := s.us.UpdateRefreshToken(r.Context(), user.ID, nil); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	expireCookie(w, "access_token")
	expireCookie(w, "refresh_token")
	returnJSON(w, r, http.StatusOK, map[string]string{"message": "successfully logged out"})
}

// handleRefresh handles the route "POST /refresh".
// It verifies the presented refresh token against the one stored on the
// account and rotates the full token pair.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil || cookie.Value == "" {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Refresh token is required."))
		return
	}
	userID, err := s.tokens.ParseRefreshToken(cookie.Value)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user, err := s.us.ByID(r.Context(), userID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if user.RefreshToken == nil || *user.RefreshToken != cookie.Value {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Refresh token has been revoked."))
		return
	}
	if err := s.signIn(w, r, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, map[string]string{"message": "access token refreshed"})
}

// handleChangePassword handles the route "PUT /password".
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user := s.getUserFromContext(r)
	if err := s.us.ChangePassword(r.Context(), user.ID, body.OldPassword, body.NewPassword); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

// handleCurrentUser handles the route "GET /me".
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	returnJSON(w, r, http.StatusOK, s.getUserFromContext(r))
}

// handleUpdateAccount handles the route "PUT /me".
func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var upd domain.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user := s.getUserFromContext(r)
	updated, err := s.us.Update(r.Context(), user.ID, &upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, updated)
}

// handleUpdateAvatar handles the route "PUT /me/avatar".
func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	s.updateUserAsset(w, r, "avatar")
}

// handleUpdateCover handles the route "PUT /me/cover".
func (s *Server) handleUpdateCover(w http.ResponseWriter, r *http.Request) {
	s.updateUserAsset(w, r, "cover_image")
}

// updateUserAsset uploads the multipart file under the given form field,
// swaps the user's asset reference, and deletes the replaced object
// best-effort.
func (s *Server) updateUserAsset(w http.ResponseWriter, r *http.Request, field string) {
	ref, err := s.uploadFormFile(r, field)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := s.getUserFromContext(r)

	var updated *domain.User
	var oldRef string
	if field == "avatar" {
		oldRef = user.AvatarID
		updated, err = s.us.UpdateAvatar(r.Context(), user.ID, *ref)
	} else {
		oldRef = user.CoverImageID
		updated, err = s.us.UpdateCover(r.Context(), user.ID, *ref)
	}
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if oldRef != "" {
		if err := s.assets.Delete(r.Context(), oldRef); err != nil {
			slog.Warn("replaced asset not deleted", "reference_id", oldRef, "err", err)
		}
	}
	returnJSON(w, r, http.StatusOK, updated)
}

// uploadFormFile reads one multipart file field and stores it as an asset.
func (s *Server) uploadFormFile(r *http.Request, field string) (*domain.AssetRef, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, errs.Errorf(errs.EINVALID, "File field %q is required.", field)
	}
	defer file.Close()
	return s.assets.Upload(r.Context(), domain.AssetUpload{
		File:        file,
		Size:        header.Size,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	})
}

// signIn issues a fresh token pair for the user, persists the refresh half
// on the account, and sets both cookies.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	access, err := s.tokens.NewAccessToken(user.ID)
	if err != nil {
		return err
	}
	refresh, err := s.tokens.NewRefreshToken(user.ID)
	if err != nil {
		return err
	}
	if err := s.us.UpdateRefreshToken(r.Context(), user.ID, &refresh); err != nil {
		return err
	}
	setCookie(w, "access_token", access)
	setCookie(w, "refresh_token", refresh)
	return nil
}

func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}
