package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"video-playlist-service/internal/httputil"
)

func (s *Server) handleListUserPlaylists(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	playlists, err := s.svc.ListUserPlaylists(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, "list playlists", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, playlists)
}

// handleCreatePlaylist creates a new, empty playlist owned by the current user.
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-User-Id")
	if ownerID == "" {
		httputil.WriteError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var body CreateInput
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	pl, err := s.svc.CreatePlaylist(r.Context(), body, ownerID)
	if err != nil {
		s.writeServiceError(w, "create playlist", err)
		return
	}

	s.publishEvent(r.Context(), eventPlaylistCreated, map[string]any{
		"playlistId": pl.ID,
		"ownerId":    pl.OwnerID,
		"name":       pl.Name,
	})

	httputil.WriteJSON(w, http.StatusCreated, pl)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	pl, err := s.svc.GetPlaylistByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, "get playlist", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pl)
}

func (s *Server) handlePatchPlaylist(w http.ResponseWriter, r *http.Request) {
	var body UpdateInput
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	pl, err := s.svc.UpdatePlaylist(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		s.writeServiceError(w, "update playlist", err)
		return
	}

	s.publishEvent(r.Context(), eventPlaylistUpdated, map[string]any{
		"playlistId":  pl.ID,
		"name":        pl.Name,
		"description": pl.Description,
	})

	httputil.WriteJSON(w, http.StatusOK, pl)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, err := canonicalID("playlist", chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, "delete playlist", err)
		return
	}

	if err := s.svc.DeletePlaylist(r.Context(), playlistID); err != nil {
		s.writeServiceError(w, "delete playlist", err)
		return
	}

	s.publishEvent(r.Context(), eventPlaylistDeleted, map[string]any{
		"playlistId": playlistID,
	})

	w.WriteHeader(http.StatusNoContent)
}
