package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vidtube/errs"
)

// registerUserRoutes is a helper for registering all channel-facing user routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Get the public profile of a channel by username.
	r.HandleFunc("/channels/{username}", s.handleChannelProfile).Methods("GET")

	// Get the accounts subscribed to a channel.
	r.HandleFunc("/channels/{channel_id:[0-9]+}/subscribers", s.handleSubscribers).Methods("GET")

	// Get the channels an account subscribes to.
	r.HandleFunc("/users/{user_id:[0-9]+}/subscriptions", s.handleSubscribedChannels).Methods("GET")

	// Get the videos a user has liked.
	r.HandleFunc("/users/liked-videos", s.requireAuth(s.handleLikedVideos)).Methods("GET")

	// Get a user's tweets.
	r.HandleFunc("/users/{user_id:[0-9]+}/tweets", s.handleUserTweets).Methods("GET")
}

// handleChannelProfile handles the route "GET /channels/{username}".
// Anonymous viewers get the profile without viewer-specific fields.
func (s *Server) handleChannelProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	profile, err := s.views.ChannelProfile(r.Context(), username, s.viewerID(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, profile)
}

// handleSubscribers handles the route "GET /channels/{channel_id}/subscribers".
func (s *Server) handleSubscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := pathID(r, "channel_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	subscribers, err := s.views.Subscribers(r.Context(), channelID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, subscribers)
}

// handleSubscribedChannels handles the route "GET /users/{user_id}/subscriptions".
func (s *Server) handleSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	channels, err := s.views.SubscribedChannels(r.Context(), userID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, channels)
}

// handleLikedVideos handles the route "GET /users/liked-videos".
func (s *Server) handleLikedVideos(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r)
	liked, err := s.views.LikedVideos(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, liked)
}

// handleUserTweets handles the route "GET /users/{user_id}/tweets".
func (s *Server) handleUserTweets(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	tweets, err := s.views.UserTweets(r.Context(), userID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, tweets)
}
