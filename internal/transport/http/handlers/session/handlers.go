package sessionhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrdash/internal/domain/gate"
	"hrdash/internal/domain/session"
	"hrdash/internal/platform/requestctx"
	"hrdash/internal/transport/http/api"
)

type Handler struct {
	Manager *session.Manager
	Gate    *gate.Gate
}

func NewHandler(manager *session.Manager, g *gate.Gate) *Handler {
	return &Handler{Manager: manager, Gate: g}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/session", h.handleCurrent)
	r.Get("/gate", h.handleGate)
	r.Post("/setup/complete", h.handleSetupComplete)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var input session.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	sess, err := h.Manager.Login(r.Context(), input)
	switch {
	case err == nil:
		api.Success(w, sess, reqID)
	case errors.Is(err, session.ErrMissingField), errors.Is(err, session.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), reqID)
	case errors.Is(err, session.ErrAuthFailed):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to establish session", reqID)
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	err := h.Manager.Logout(r.Context())
	switch {
	case err == nil:
		api.Success(w, map[string]string{"status": "logged_out"}, reqID)
	case errors.Is(err, session.ErrNoSession):
		api.Fail(w, http.StatusBadRequest, "no_session", "no active session", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "logout_failed", "failed to clear session", reqID)
	}
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	sess, ok := h.Manager.Get()
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "no_session", "no active session", reqID)
		return
	}
	api.Success(w, sess, reqID)
}

func (h *Handler) handleGate(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	api.Success(w, h.Gate.Check(path), requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSetupComplete(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	sess, ok := h.Manager.Get()
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "no_session", "no active session", reqID)
		return
	}
	if err := h.Gate.MarkComplete(sess.Role); err != nil {
		api.Fail(w, http.StatusInternalServerError, "persist_failed", "failed to record setup completion", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "completed"}, reqID)
}
