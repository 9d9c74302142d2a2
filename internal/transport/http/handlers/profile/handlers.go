package profilehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/profile"
	"hrdash/internal/domain/session"
	"hrdash/internal/platform/cache"
	"hrdash/internal/platform/requestctx"
	"hrdash/internal/transport/http/api"
)

type Handler struct {
	Manager *session.Manager
	Sync    *profile.Synchronizer
}

func NewHandler(manager *session.Manager, sync *profile.Synchronizer) *Handler {
	return &Handler{Manager: manager, Sync: sync}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile", h.handleLoad)
	r.Put("/profile", h.handleSave)
	r.Post("/profile/refresh", h.handleRefresh)
}

func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	sess, ok := h.Manager.Get()
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "no_session", "no active session", reqID)
		return
	}

	result, err := h.Sync.Load(r.Context(), sess)
	switch {
	case err == nil:
		api.Success(w, result, reqID)
	case errors.Is(err, profile.ErrUnavailable):
		api.Fail(w, http.StatusServiceUnavailable, "profile_unavailable", "unable to load profile", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "load_failed", "failed to load profile", reqID)
	}
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	sess, ok := h.Manager.Get()
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "no_session", "no active session", reqID)
		return
	}

	var next profile.Record
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	err := h.Sync.Save(r.Context(), sess, next)
	switch {
	case err == nil:
		api.Success(w, map[string]string{"status": "saved"}, reqID)
	case errors.Is(err, profile.ErrSyncFailed):
		// The edit is on the device; only the remote leg is behind.
		api.SuccessWithWarning(w, map[string]string{"status": "saved_locally"},
			"saved locally, remote sync pending", reqID)
	case errors.Is(err, cache.ErrPersist):
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "device cache write failed", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "save_failed", "failed to save profile", reqID)
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	sess, ok := h.Manager.Get()
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "no_session", "no active session", reqID)
		return
	}

	result, err := h.Sync.Refresh(r.Context(), sess)
	if err != nil {
		api.Fail(w, http.StatusServiceUnavailable, "profile_unavailable", "unable to refresh profile", reqID)
		return
	}
	api.Success(w, result, reqID)
}
