package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"video-playlist-service/internal/httputil"
)

const eventsChannel = "broadcast"

const (
	eventPlaylistCreated = "playlist.created"
	eventPlaylistUpdated = "playlist.updated"
	eventPlaylistDeleted = "playlist.deleted"
	eventVideoAdded      = "playlist.video_added"
	eventVideoRemoved    = "playlist.video_removed"
	eventResynced        = "playlist.resynced"
)

// writeServiceError maps the error taxonomy onto status codes. Anything
// untyped is an infrastructure failure and is logged, not echoed.
func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ve):
		httputil.WriteError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nf):
		httputil.WriteError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ce):
		httputil.WriteError(w, http.StatusConflict, ce.Error())
	default:
		s.log.Error(op, zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// publishEvent is best-effort: the mutation already happened, so failures
// are only logged.
func (s *Server) publishEvent(ctx context.Context, eventType string, payload any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(map[string]any{
		"type":    eventType,
		"payload": payload,
	})
	if err != nil {
		s.log.Warn("marshal event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.rdb.Publish(ctx, eventsChannel, string(data)).Err(); err != nil {
		s.log.Warn("publish event", zap.String("type", eventType), zap.Error(err))
	}
}
