package actionshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/actions"
	"hrdash/internal/platform/cache"
	"hrdash/internal/platform/requestctx"
	"hrdash/internal/transport/http/api"
)

const dateLayout = "2006-01-02"

type Handler struct {
	Store *actions.Store
}

func NewHandler(store *actions.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/actions", h.handleState)
	r.Get("/actions/view", h.handleView)
	r.Post("/actions/leave", h.handleSubmitLeave)
	r.Post("/actions/leave/{id}/cancel", h.handleCancelLeave)
	r.Post("/actions/documents", h.handleUploadDocument)
	r.Delete("/actions/documents/{id}", h.handleDeleteDocument)
	r.Post("/actions/notifications/{id}/read", h.handleMarkRead)
	r.Post("/actions/notifications/{id}/dismiss", h.handleDismiss)
	r.Post("/actions/reset", h.handleReset)
}

type leaveRequest struct {
	Type   string `json:"type"`
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

type documentRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Expiry   string `json:"expiry"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Store.State(), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Store.View(), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitLeave(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload leaveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	from, fromErr := time.Parse(dateLayout, payload.From)
	to, toErr := time.Parse(dateLayout, payload.To)
	if fromErr != nil || toErr != nil {
		api.Fail(w, http.StatusBadRequest, "validation_failed", "from and to dates are required as YYYY-MM-DD", reqID)
		return
	}

	req, err := h.Store.SubmitLeave(payload.Type, from, to, payload.Reason)
	switch {
	case err == nil:
		api.Created(w, req, reqID)
	case errors.Is(err, actions.ErrInvalidRange):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), reqID)
	case errors.Is(err, cache.ErrPersist):
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "device cache write failed", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "submit_failed", "failed to submit leave request", reqID)
	}
}

func (h *Handler) handleCancelLeave(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	if err := h.Store.CancelLeave(chi.URLParam(r, "id")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "device cache write failed", reqID)
		return
	}
	api.Success(w, h.Store.State(), reqID)
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload documentRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "validation_failed", "document name is required", reqID)
		return
	}

	var expiry *time.Time
	if payload.Expiry != "" {
		parsed, err := time.Parse(dateLayout, payload.Expiry)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "validation_failed", "expiry must be YYYY-MM-DD", reqID)
			return
		}
		expiry = &parsed
	}

	doc, err := h.Store.UploadDocumentMeta(payload.Name, payload.Category, expiry)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "device cache write failed", reqID)
		return
	}
	api.Created(w, doc, reqID)
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	if err := h.Store.DeleteDocumentMeta(chi.URLParam(r, "id")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "device cache write failed", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	if err := h.Store.MarkNotificationRead(chi.URLParam(r, "id")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "device cache write failed", reqID)
		return
	}
	api.Success(w, h.Store.View(), reqID)
}

func (h *Handler) handleDismiss(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	if err := h.Store.DismissNotification(chi.URLParam(r, "id")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "device cache write failed", reqID)
		return
	}
	api.Success(w, h.Store.View(), reqID)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	if err := h.Store.ResetToSeed(); err != nil {
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "device cache write failed", reqID)
		return
	}
	api.Success(w, h.Store.State(), reqID)
}
