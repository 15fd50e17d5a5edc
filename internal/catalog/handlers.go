package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"video-playlist-service/internal/httputil"
)

type Handler struct {
	catalog Catalog
	log     *zap.Logger
}

func NewHandler(c Catalog, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{catalog: c, log: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/videos", h.handleCreateVideo)
	r.Get("/videos/{id}", h.handleGetVideo)
	r.Patch("/videos/{id}", h.handlePatchVideo)
	r.Delete("/videos/{id}", h.handleDeleteVideo)
}

type createVideoRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	VideoFile   string  `json:"videoFile"`
	Thumbnail   string  `json:"thumbnail"`
	Duration    float64 `json:"duration"`
	IsPublished *bool   `json:"isPublished"`
}

func (h *Handler) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-User-Id")
	if ownerID == "" {
		httputil.WriteError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var body createVideoRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	v := Video{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(body.Title),
		Description: strings.TrimSpace(body.Description),
		VideoFile:   strings.TrimSpace(body.VideoFile),
		Thumbnail:   strings.TrimSpace(body.Thumbnail),
		Duration:    body.Duration,
		IsPublished: true,
	}
	if body.IsPublished != nil {
		v.IsPublished = *body.IsPublished
	}

	if v.Title == "" || v.Description == "" {
		httputil.WriteError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if v.VideoFile == "" {
		httputil.WriteError(w, http.StatusBadRequest, "videoFile is required")
		return
	}
	if v.Thumbnail == "" {
		httputil.WriteError(w, http.StatusBadRequest, "thumbnail is required")
		return
	}
	if v.Duration < 0 {
		httputil.WriteError(w, http.StatusBadRequest, "duration must be >= 0")
		return
	}

	if err := h.catalog.Create(r.Context(), &v); err != nil {
		h.log.Error("create video", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDParam(w, r)
	if !ok {
		return
	}

	v, err := h.catalog.FindVideoByID(r.Context(), id)
	if err != nil {
		h.writeErr(w, "get video", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handlePatchVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDParam(w, r)
	if !ok {
		return
	}

	var patch VideoPatch
	if err := httputil.DecodeJSON(r, &patch); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.empty() {
		httputil.WriteError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			httputil.WriteError(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		patch.Title = &t
	}
	if patch.Duration != nil && *patch.Duration < 0 {
		httputil.WriteError(w, http.StatusBadRequest, "duration must be >= 0")
		return
	}
	if patch.Views != nil && *patch.Views < 0 {
		httputil.WriteError(w, http.StatusBadRequest, "views must be >= 0")
		return
	}

	v, err := h.catalog.Update(r.Context(), id, patch)
	if err != nil {
		h.writeErr(w, "update video", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDParam(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.writeErr(w, "delete video", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func videoIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	u, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid video id")
		return "", false
	}
	// Cache keys and snapshot ids use the lowercase form.
	return u.String(), true
}

func (h *Handler) writeErr(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrVideoNotFound) {
		httputil.WriteError(w, http.StatusNotFound, "video not found")
		return
	}
	h.log.Error(op, zap.Error(err))
	httputil.WriteError(w, http.StatusInternalServerError, "internal error")
}
