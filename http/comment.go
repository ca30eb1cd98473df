package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"vidtube/domain"
	"vidtube/errs"
)

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	r.HandleFunc("/videos/{video_id:[0-9]+}/comments", s.requireAuth(s.handleCreateComment)).Methods("POST")
	r.HandleFunc("/comments/{comment_id:[0-9]+}", s.requireAuth(s.handleUpdateComment)).Methods("PUT")
	r.HandleFunc("/comments/{comment_id:[0-9]+}", s.requireAuth(s.handleDeleteComment)).Methods("DELETE")
}

// handleCreateComment handles the route "POST /videos/{video_id}/comments".
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "video_id")
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
	user := s.getUserFromContext(r)
	comment := domain.Comment{
		Content: body.Content,
		VideoID: videoID,
		UserID:  user.ID,
	}
	if err := s.cs.Create(r.Context(), &comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusCreated, &comment)
}

// handleUpdateComment handles the route "PUT /comments/{comment_id}".
// Only the comment's owner may change it.
func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "comment_id")
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
	if err := s.requireCommentOwner(r, commentID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	comment, err := s.cs.Update(r.Context(), commentID, body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, comment)
}

// handleDeleteComment handles the route "DELETE /comments/{comment_id}".
// Only the comment's owner may delete it.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "comment_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.requireCommentOwner(r, commentID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.cs.Delete(r.Context(), commentID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireCommentOwner checks that the authed user owns the comment.
func (s *Server) requireCommentOwner(r *http.Request, commentID int) error {
	comment, err := s.cs.ByID(r.Context(), commentID)
	if err != nil {
		return err
	}
	user := s.getUserFromContext(r)
	if comment.UserID != user.ID {
		return errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to modify this comment.")
	}
	return nil
}
