package handler

import (
	"net/http"

	"filter-studio/internal/models"
)

func (h *EditorHandler) Suggest(w http.ResponseWriter, r *http.Request) {

	var req struct {
		EventType models.EventType `json:"eventType"`
		Lang      string           `json:"lang"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !req.EventType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown event type")
		return
	}

	lang := models.ParseLanguage(req.Lang)
	writeJSON(w, http.StatusOK, map[string]any{
		"lang":        lang,
		"dir":         lang.Dir(),
		"suggestions": h.Suggestions.Suggest(r.Context(), req.EventType, lang),
	})
}
