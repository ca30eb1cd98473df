package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidtube/domain"
	"vidtube/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
// Each target kind gets its own toggle endpoint.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	r.HandleFunc("/likes/videos/{video_id:[0-9]+}", s.requireAuth(s.handleToggleLike(domain.TargetVideo, "video_id"))).Methods("POST")
	r.HandleFunc("/likes/comments/{comment_id:[0-9]+}", s.requireAuth(s.handleToggleLike(domain.TargetComment, "comment_id"))).Methods("POST")
	r.HandleFunc("/likes/tweets/{tweet_id:[0-9]+}", s.requireAuth(s.handleToggleLike(domain.TargetTweet, "tweet_id"))).Methods("POST")
}

// handleToggleLike builds the toggle handler for one target kind. Toggling
// creates the like if it's absent and removes it if it's present; the
// response states which of the two happened.
func (s *Server) handleToggleLike(kind, pathVar string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := pathID(r, pathVar)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		user := s.getUserFromContext(r)
		toggle, err := s.ls.Toggle(r.Context(), user.ID, domain.LikeTarget{Kind: kind, ID: targetID})
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		returnJSON(w, r, http.StatusOK, toggle)
	}
}
