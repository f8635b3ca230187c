package handler

import (
	"net/http"

	"filter-studio/internal/models"
	"filter-studio/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (h *EditorHandler) Signup(w http.ResponseWriter, r *http.Request) {

	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		h.fail(w, err)
		return
	}
	if err := validation.ValidateName(req.Name); err != nil {
		h.fail(w, err)
		return
	}

	// a fresh token on every signup; the previous one stops working
	token := uuid.NewString()
	user, err := h.Identity.Signup(r.Context(), token, req.Email, req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	if prev := sessionToken(r); prev != "" {
		if err := h.Identity.Logout(r.Context(), prev); err != nil {
			h.Log.Warn("dropping previous session failed", zap.Error(err))
		}
	}
	setSessionCookie(w, token)

	writeJSON(w, http.StatusOK, models.NewSession(user))
}

func (h *EditorHandler) GetSession(w http.ResponseWriter, r *http.Request) {

	s := sessionFrom(r.Context())
	if s == nil {
		writeError(w, http.StatusUnauthorized, "no active session")
		return
	}

	writeJSON(w, http.StatusOK, s)
}

func (h *EditorHandler) Logout(w http.ResponseWriter, r *http.Request) {

	if token := sessionToken(r); token != "" {
		if err := h.Identity.Logout(r.Context(), token); err != nil {
			h.fail(w, err)
			return
		}
	}
	clearSessionCookie(w)

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
