package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vidtube/domain"
	"vidtube/errs"
)

// registerVideoRoutes is a helper for registering all Video routes.
func (s *Server) registerVideoRoutes(r *mux.Router) {
	r.HandleFunc("/videos", s.handleSearchVideos).Methods("GET")
	r.HandleFunc("/videos", s.requireAuth(s.handlePublishVideo)).Methods("POST")
	r.HandleFunc("/videos/{video_id:[0-9]+}", s.handleGetVideo).Methods("GET")
	r.HandleFunc("/videos/{video_id:[0-9]+}", s.requireAuth(s.handleUpdateVideo)).Methods("PUT")
	r.HandleFunc("/videos/{video_id:[0-9]+}", s.requireAuth(s.handleDeleteVideo)).Methods("DELETE")
	r.HandleFunc("/videos/{video_id:[0-9]+}/publish", s.requireAuth(s.handleTogglePublish)).Methods("PATCH")
	r.HandleFunc("/videos/{video_id:[0-9]+}/comments", s.handleVideoComments).Methods("GET")
}

// handleSearchVideos handles the route "GET /videos".
// It lists published videos matching the optional query string, paginated.
func (s *Server) handleSearchVideos(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	videos, err := s.vs.Search(r.Context(), r.URL.Query().Get("query"), page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, videos)
}

// handlePublishVideo handles the route "POST /videos".
// It uploads the video and thumbnail files, then creates the video record
// from the returned asset references.
func (s *Server) handlePublishVideo(w http.ResponseWriter, r *http.Request) {
	videoRef, err := s.uploadFormFile(r, "video")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	thumbRef, err := s.uploadFormFile(r, "thumbnail")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	user := s.getUserFromContext(r)
	video := domain.Video{
		UserID:      user.ID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		VideoFileID: videoRef.ReferenceID,
		VideoFile:   videoRef.URL,
		ThumbnailID: thumbRef.ReferenceID,
		Thumbnail:   thumbRef.URL,
		Duration:    duration,
		IsPublished: true,
	}
	if err := s.vs.Create(r.Context(), &video); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusCreated, &video)
}

// handleGetVideo handles the route "GET /videos/{video_id}".
// Fetching a video counts as a view.
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "video_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	video, err := s.vs.ByID(r.Context(), videoID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.vs.IncrementViews(r.Context(), videoID); err == nil {
		video.Views++
	}
	returnJSON(w, r, http.StatusOK, video)
}

// handleUpdateVideo handles the route "PUT /videos/{video_id}".
// Only the owner may update a video.
func (s *Server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "video_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	video, err := s.requireVideoOwner(r, videoID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	upd := domain.VideoUpdate{}
	if title := r.FormValue("title"); title != "" {
		upd.Title = &title
	}
	if description := r.FormValue("description"); description != "" {
		upd.Description = &description
	}
	oldThumb := ""
	if hasFormFile(r, "thumbnail") {
		ref, err := s.uploadFormFile(r, "thumbnail")
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		upd.Thumbnail = ref
		oldThumb = video.ThumbnailID
	}

	updated, err := s.vs.Update(r.Context(), videoID, &upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if oldThumb != "" {
		if err := s.assets.Delete(r.Context(), oldThumb); err != nil {
			slog.Warn("replaced thumbnail not deleted", "reference_id", oldThumb, "err", err)
		}
	}
	returnJSON(w, r, http.StatusOK, updated)
}

// handleDeleteVideo handles the route "DELETE /videos/{video_id}".
// Only the owner may delete a video. The stored assets are removed
// best-effort after the record and its dependents.
func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "video_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	video, err := s.requireVideoOwner(r, videoID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.vs.Delete(r.Context(), videoID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	for _, ref := range []string{video.VideoFileID, video.ThumbnailID} {
		if ref == "" {
			continue
		}
		if err := s.assets.Delete(r.Context(), ref); err != nil {
			slog.Warn("video asset not deleted", "reference_id", ref, "err", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTogglePublish handles the route "PATCH /videos/{video_id}/publish".
func (s *Server) handleTogglePublish(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "video_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if _, err := s.requireVideoOwner(r, videoID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	video, err := s.vs.TogglePublish(r.Context(), videoID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, video)
}

// handleVideoComments handles the route "GET /videos/{video_id}/comments".
func (s *Server) handleVideoComments(w http.ResponseWriter, r *http.Request) {
	videoID, err := pathID(r, "video_id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	page, err := parsePageRequest(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	comments, err := s.views.VideoComments(r.Context(), videoID, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	returnJSON(w, r, http.StatusOK, comments)
}

// requireVideoOwner fetches the video and checks that the authed user owns it.
func (s *Server) requireVideoOwner(r *http.Request, videoID int) (*domain.Video, error) {
	video, err := s.vs.ByID(r.Context(), videoID)
	if err != nil {
		return nil, err
	}
	user := s.getUserFromContext(r)
	if video.UserID != user.ID {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to modify this video.")
	}
	return video, nil
}
