package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"video-playlist-service/internal/httputil"
)

type Server struct {
	svc *Service
	rdb *redis.Client
	log *zap.Logger
}

// NewServer wires the HTTP layer. rdb may be nil, which disables events.
func NewServer(svc *Service, rdb *redis.Client, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		svc: svc,
		rdb: rdb,
		log: log,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Post("/playlists", s.handleCreatePlaylist)
	r.Get("/playlists/{id}", s.handleGetPlaylist)
	r.Patch("/playlists/{id}", s.handlePatchPlaylist)
	r.Delete("/playlists/{id}", s.handleDeletePlaylist)
	r.Get("/users/{userId}/playlists", s.handleListUserPlaylists)

	// Membership
	r.Post("/playlists/{id}/videos/{videoId}", s.handleAddVideo)
	r.Delete("/playlists/{id}/videos/{videoId}", s.handleRemoveVideo)
	r.Post("/playlists/{id}/resync", s.handleResyncPlaylist)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "playlist-service",
	})
}
