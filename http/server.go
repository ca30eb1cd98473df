package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"vidtube/auth"
	"vidtube/crud"
	"vidtube/domain"
	"vidtube/errs"
)

// Server provides the http functionality of this app, namely routing,
// request handling, and middleware. It performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	vs     domain.VideoService
	cs     domain.CommentService
	ts     domain.TweetService
	ps     domain.PlaylistService
	ls     domain.LikeService
	ss     domain.SubscriptionService
	views  domain.ViewService
	assets domain.AssetService
	tokens *auth.TokenManager
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(services *crud.Services, assets domain.AssetService, tokens *auth.TokenManager) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		vs:     services.Video,
		cs:     services.Comment,
		ts:     services.Tweet,
		ps:     services.Playlist,
		ls:     services.Like,
		ss:     services.Subscription,
		views:  services.View,
		assets: assets,
		tokens: tokens,
	}

	s.router.HandleFunc("/healthcheck", s.handleHealthcheck).Methods("GET")

	s.registerAuthRoutes(s.router)
	s.registerUserRoutes(s.router)
	s.registerVideoRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerTweetRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerSubscriptionRoutes(s.router)
	s.registerPlaylistRoutes(s.router)
	s.registerDashboardRoutes(s.router)

	s.router.Use(logRequest, setContentTypeJSON, s.checkUser)
	return s
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) error {
	addr := ":" + strconv.Itoa(port)
	slog.Info("server listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// handleHealthcheck handles the route "GET /healthcheck".
func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	returnJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The logRequest middleware logs every request with its duration.
func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// The checkUser middleware looks for an access token in the Authorization
// header or the access_token cookie. A valid token puts the user into the
// request context; anything else leaves the request anonymous. Rejecting
// anonymous requests is requireAuth's job, on the routes that need it.
func (s *Server) checkUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := s.tokens.ParseAccessToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByID(r.Context(), userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := auth.SetUserInContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth wraps a handler so that it only runs for authenticated users.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUserFromContext(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next(w, r)
	}
}

// bearerToken extracts the access token from the Authorization header,
// falling back to the access_token cookie.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// getUserFromContext is a small wrapper to keep handlers terse.
func (s *Server) getUserFromContext(r *http.Request) *domain.User {
	return auth.GetUserFromContext(r.Context())
}

// viewerID returns the authenticated user's id, or zero for anonymous
// viewers. Read views use it to decide viewer-specific fields.
func (s *Server) viewerID(r *http.Request) int {
	if user := auth.GetUserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return 0
}

// returnJSON writes a response body as json.
func returnJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errs.LogError(r, err)
	}
}

// hasFormFile reports whether the multipart request carries the named file
// field, without opening a file handle.
func hasFormFile(r *http.Request, field string) bool {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return false
		}
	}
	return len(r.MultipartForm.File[field]) > 0
}

// pathID parses an integer id from the named route variable.
func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, errs.Errorf(errs.EINVALID, "Invalid id format.")
	}
	return id, nil
}

// parsePageRequest reads the uniform pagination query parameters. Missing
// parameters fall back to the defaults; non-numeric page or limit values are
// rejected rather than silently clamped.
func parsePageRequest(r *http.Request) (domain.PageRequest, error) {
	var req domain.PageRequest
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return req, errs.Errorf(errs.EINVALID, "Page must be a positive integer.")
		}
		req.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return req, errs.Errorf(errs.EINVALID, "Limit must be a positive integer.")
		}
		req.Limit = limit
	}
	req.SortBy = q.Get("sort_by")
	req.SortDir = q.Get("sort_dir")
	return req, nil
}
