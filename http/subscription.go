package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidtube/errs"
)

// registerSubscriptionRoutes is a helper for registering all Subscription routes.
func (s *Server) registerSubscriptionRoutes(r *mux.Router) {
	r.HandleFunc("/subscriptions/{channel_id:[0-9]+}", s.requireAuth(s.handleToggleSubscription)).Methods("POST")
}

// handleToggleSubscription handles the route "POST /subscriptions/{channel_id}".
// Toggling subscribes the authed user to the channel if they aren't
// subscribed yet, and unsubscribes them if they are.
func (s *Server) handleToggleSubscription(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channel_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user := s.getUserFromContext(r)
	toggle, err := s.ss.Toggle(r.Context(), user.ID, channelID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, toggle)
}
