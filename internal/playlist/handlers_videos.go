package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"video-playlist-service/internal/httputil"
)

// handleAddVideo appends a snapshot of the catalog video to the playlist.
func (s *Server) handleAddVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pl, err := s.svc.AddVideoToPlaylist(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "videoId"))
	if err != nil {
		s.writeServiceError(w, "add video", err)
		return
	}

	added := pl.Videos[len(pl.Videos)-1]
	s.publishEvent(ctx, eventVideoAdded, map[string]any{
		"playlistId": pl.ID,
		"video":      added,
	})

	httputil.WriteJSON(w, http.StatusOK, pl)
}

func (s *Server) handleRemoveVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := s.svc.RemoveVideoFromPlaylist(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "videoId"))
	if err != nil {
		s.writeServiceError(w, "remove video", err)
		return
	}

	if res.Removed > 0 {
		s.publishEvent(ctx, eventVideoRemoved, map[string]any{
			"playlistId": res.PlaylistID,
			"videoId":    res.VideoID,
		})
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleResyncPlaylist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := s.svc.ResyncPlaylist(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, "resync playlist", err)
		return
	}

	s.publishEvent(ctx, eventResynced, map[string]any{
		"playlistId": res.Playlist.ID,
		"refreshed":  res.Refreshed,
		"missing":    res.Missing,
	})

	httputil.WriteJSON(w, http.StatusOK, res)
}
