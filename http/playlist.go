package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"vidtube/domain"
	"vidtube/errs"
)

// registerPlaylistRoutes is a helper for registering all Playlist routes.
func (s *Server) registerPlaylistRoutes(r *mux.Router) {
	r.HandleFunc("/playlists", s.requireAuth(s.handleCreatePlaylist)).Methods("POST")
	r.HandleFunc("/playlists/{playlist_id:[0-9]+}", s.handleGetPlaylist).Methods("GET")
	r.HandleFunc("/playlists/{playlist_id:[0-9]+}", s.requireAuth(s.handleUpdatePlaylist)).Methods("PUT")
	r.HandleFunc("/playlists/{playlist_id:[0-9]+}", s.requireAuth(s.handleDeletePlaylist)).Methods("DELETE")
	r.HandleFunc("/playlists/{playlist_id:[0-9]+}/videos/{video_id:[0-9]+}", s.requireAuth(s.handleAddPlaylistVideo)).Methods("POST")
	r.HandleFunc("/playlists/{playlist_id:[0-9]+}/videos/{video_id:[0-9]+}", s.requireAuth(s.handleRemovePlaylistVideo)).Methods("DELETE")
	r.HandleFunc("/users/{user_id:[0-9]+}/playlists", s.handleUserPlaylists).Methods("GET")
}

// handleCreatePlaylist handles the route "POST /playlists".
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user := s.getUserFromContext(r)
	playlist := domain.Playlist{
		Name:        body.Name,
		Description: body.Description,
		UserID:      user.ID,
	}
	if err := s.ps.Create(r.Context(), &playlist); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusCreated, &playlist)
}

// handleGetPlaylist handles the route "GET /playlists/{playlist_id}".
// The resolved view includes unpublished videos only when the viewer owns
// the playlist.
func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, err := pathID(r, "playlist_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	view, err := s.views.Playlist(r.Context(), playlistID, s.viewerID(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, view)
}

// handleUpdatePlaylist handles the route "PUT /playlists/{playlist_id}".
// Only the playlist's owner may change it.
func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, err := pathID(r, "playlist_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	var upd domain.PlaylistUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.requirePlaylistOwner(r, playlistID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	playlist, err := s.ps.Update(r.Context(), playlistID, &upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, playlist)
}

// handleDeletePlaylist handles the route "DELETE /playlists/{playlist_id}".
// Only the playlist's owner may delete it.
func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, err := pathID(r, "playlist_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.requirePlaylistOwner(r, playlistID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.ps.Delete(r.Context(), playlistID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddPlaylistVideo handles the route
// "POST /playlists/{playlist_id}/videos/{video_id}". The video is appended
// to the end of the playlist; adding the same video again appends another
// entry.
func (s *Server) handleAddPlaylistVideo(w http.ResponseWriter, r *http.Request) {
	playlistID, videoID, err := playlistVideoIDs(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.requirePlaylistOwner(r, playlistID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.ps.AddVideo(r.Context(), playlistID, videoID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, map[string]string{"message": "video added to playlist"})
}

// handleRemovePlaylistVideo handles the route
// "DELETE /playlists/{playlist_id}/videos/{video_id}". When a video appears
// more than once only the first entry is removed.
func (s *Server) handleRemovePlaylistVideo(w http.ResponseWriter, r *http.Request) {
	playlistID, videoID, err := playlistVideoIDs(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.requirePlaylistOwner(r, playlistID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.ps.RemoveVideo(r.Context(), playlistID, videoID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUserPlaylists handles the route "GET /users/{user_id}/playlists".
func (s *Server) handleUserPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	playlists, err := s.views.UserPlaylists(r.Context(), userID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, playlists)
}

// requirePlaylistOwner checks that the authed user owns the playlist.
func (s *Server) requirePlaylistOwner(r *http.Request, playlistID int) error {
	playlist, err := s.ps.ByID(r.Context(), playlistID)
	if err != nil {
		return err
	}
	user := s.getUserFromContext(r)
	if playlist.UserID != user.ID {
		return errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to modify this playlist.")
	}
	return nil
}

func playlistVideoIDs(r *http.Request) (int, int, error) {
	playlistID, err := pathID(r, "playlist_id")
	if err != nil {
		return 0, 0, err
	}
	videoID, err := pathID(r, "video_id")
	if err != nil {
		return 0, 0, err
	}
	return playlistID, videoID, nil
}
