package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidtube/errs"
)

// registerDashboardRoutes is a helper for registering the channel dashboard
// routes. Both serve the authed user's own channel.
func (s *Server) registerDashboardRoutes(r *mux.Router) {
	r.HandleFunc("/dashboard/stats", s.requireAuth(s.handleChannelStats)).Methods("GET")
	r.HandleFunc("/dashboard/videos", s.requireAuth(s.handleChannelVideos)).Methods("GET")
}

// handleChannelStats handles the route "GET /dashboard/stats".
// The totals are computed fresh on every call.
func (s *Server) handleChannelStats(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r)
	stats, err := s.views.ChannelStats(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, stats)
}

// handleChannelVideos handles the route "GET /dashboard/videos".
// Unlike the public search, this listing includes unpublished videos.
func (s *Server) handleChannelVideos(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := s.getUserFromContext(r)
	videos, err := s.views.ChannelVideos(r.Context(), user.ID, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, videos)
}
