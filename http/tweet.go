package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"vidtube/domain"
	"vidtube/errs"
)

// registerTweetRoutes is a helper for registering all Tweet routes.
func (s *Server) registerTweetRoutes(r *mux.Router) {
	r.HandleFunc("/tweets", s.requireAuth(s.handleCreateTweet)).Methods("POST")
	r.HandleFunc("/tweets/{tweet_id:[0-9]+}", s.requireAuth(s.handleUpdateTweet)).Methods("PUT")
	r.HandleFunc("/tweets/{tweet_id:[0-9]+}", s.requireAuth(s.handleDeleteTweet)).Methods("DELETE")
}

// handleCreateTweet handles the route "POST /tweets".
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user := s.getUserFromContext(r)
	tweet := domain.Tweet{
		Content: body.Content,
		UserID:  user.ID,
	}
	if err := s.ts.Create(r.Context(), &tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusCreated, &tweet)
}

// handleUpdateTweet handles the route "PUT /tweets/{tweet_id}".
// Only the tweet's owner may change it.
func (s *Server) handleUpdateTweet(w http.ResponseWriter, r *http.Request) {
	tweetID, err := pathID(r, "tweet_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.requireTweetOwner(r, tweetID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	tweet, err := s.ts.Update(r.Context(), tweetID, body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, tweet)
}

// handleDeleteTweet handles the route "DELETE /tweets/{tweet_id}".
// Only the tweet's owner may delete it.
func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	tweetID, err := pathID(r, "tweet_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.requireTweetOwner(r, tweetID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.ts.Delete(r.Context(), tweetID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireTweetOwner checks that the authed user owns the tweet.
func (s *Server) requireTweetOwner(r *http.Request, tweetID int) error {
	tweet, err := s.ts.ByID(r.Context(), tweetID)
	if err != nil {
		return err
	}
	user := s.getUserFromContext(r)
	if tweet.UserID != user.ID {
		return errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to modify this tweet.")
	}
	return nil
}
