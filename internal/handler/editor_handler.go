package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"filter-studio/internal/kv"
	"filter-studio/internal/models"
	"filter-studio/internal/scene"
	"filter-studio/internal/service"
	"filter-studio/internal/storage"
	"filter-studio/internal/suggest"
	"filter-studio/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EditorHandler struct {
	Identity    *service.IdentityService
	Drafts      *service.DraftService
	Suggestions *suggest.Provider
	Storage     storage.Storage
	Log         *zap.Logger

	// Probe backs /health. Nil means always healthy.
	Probe kv.Pinger

	// DefaultPrice applies when a save request carries no price.
	DefaultPrice int
}

var errInvalidJSON = errors.New("invalid JSON")

// SessionCookie carries the client's session token.
const SessionCookie = "filter_studio_session"

type sessionKey struct{}

// sessionToken returns the token presented by the client, or "" when the
// cookie is missing or not a token this server could have issued.
func sessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// WithSession restores the caller's session once per request and passes
// it down in the request context. Handlers never read it from the store.
// Requests without a session token are anonymous.
func (h *EditorHandler) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		s, err := h.Identity.Restore(r.Context(), token)
		if err != nil && !errors.Is(err, service.ErrNoSession) {
			h.fail(w, err)
			return
		}
		if s != nil {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, s))
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey{}).(*models.Session)
	return s
}

// requireAdmin writes 401/403 and returns nil unless an admin is signed in.
func (h *EditorHandler) requireAdmin(w http.ResponseWriter, r *http.Request) *models.Session {
	s := sessionFrom(r.Context())
	if s == nil {
		writeError(w, http.StatusUnauthorized, service.ErrNoSession.Error())
		return nil
	}
	if !s.IsAdmin {
		writeError(w, http.StatusForbidden, "admin only")
		return nil
	}
	return s
}

func (h *EditorHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Probe != nil {
		if err := h.Probe.Ping(r.Context()); err != nil {
			h.Log.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps service errors onto HTTP statuses.
func (h *EditorHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errInvalidJSON),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidEventType),
		errors.Is(err, service.ErrInvalidOwner),
		errors.Is(err, service.ErrEmptyCanvas),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, scene.ErrInvalidDocument),
		errors.Is(err, validation.ErrInvalidEmail),
		errors.Is(err, validation.ErrNameTooLong),
		errors.Is(err, validation.ErrEmptyFile),
		errors.Is(err, validation.ErrFileTooLarge),
		errors.Is(err, validation.ErrFilenameTooLong),
		errors.Is(err, validation.ErrInvalidFileType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoSession):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrDraftNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, kv.ErrStorageUnavailable):
		h.Log.Error("storage unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		h.Log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
