package handler

import (
	"net/http"

	"filter-studio/internal/models"
	"filter-studio/internal/scene"
	"filter-studio/internal/validation"

	"github.com/gorilla/mux"
)

type draftRequest struct {
	Name       string           `json:"name"`
	EventType  models.EventType `json:"eventType"`
	CanvasJSON string           `json:"canvasJson"`
	PreviewURL string           `json:"previewUrl"`
	Price      *int             `json:"price"`
	IsTemplate bool             `json:"isTemplate"`
}

// parseDraft checks the request at the boundary and returns the composer
// snapshot it describes along with the draft metadata.
func (h *EditorHandler) parseDraft(r *http.Request) (*scene.Snapshot, models.DraftInput, error) {
	var req draftRequest
	if err := decode(r, &req); err != nil {
		return nil, models.DraftInput{}, errInvalidJSON
	}
	if err := validation.ValidateName(req.Name); err != nil {
		return nil, models.DraftInput{}, err
	}

	doc, err := scene.ParseDocument(req.CanvasJSON)
	if err != nil {
		return nil, models.DraftInput{}, err
	}

	price := h.DefaultPrice
	if req.Price != nil {
		price = *req.Price
	}

	meta := models.DraftInput{
		Name:       req.Name,
		EventType:  req.EventType,
		CanvasJSON: doc.String(),
		PreviewURL: req.PreviewURL,
		Price:      price,
		IsTemplate: req.IsTemplate,
	}
	return scene.NewSnapshot(doc, req.PreviewURL), meta, nil
}

// Gallery lists every published draft, newest first.
func (h *EditorHandler) Gallery(w http.ResponseWriter, r *http.Request) {

	drafts, err := h.Drafts.Gallery(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, drafts)
}

func (h *EditorHandler) GetDraft(w http.ResponseWriter, r *http.Request) {

	d, err := h.Drafts.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *EditorHandler) ListUserDrafts(w http.ResponseWriter, r *http.Request) {

	drafts, err := h.Drafts.ListByOwner(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, drafts)
}

// SaveDraft publishes the posted composition. Posting identical content
// again updates the existing draft instead of adding one.
func (h *EditorHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {

	s := h.requireAdmin(w, r)
	if s == nil {
		return
	}

	snap, meta, err := h.parseDraft(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	d, err := h.Drafts.SaveScene(r.Context(), s.User.ID, snap, meta)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

// ReplaceDraft saves the posted composition in place of draft {id}, the
// way the editor does when a loaded draft is re-published.
func (h *EditorHandler) ReplaceDraft(w http.ResponseWriter, r *http.Request) {

	s := h.requireAdmin(w, r)
	if s == nil {
		return
	}

	_, meta, err := h.parseDraft(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	d, err := h.Drafts.Replace(r.Context(), s.User.ID, mux.Vars(r)["id"], meta)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *EditorHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {

	if h.requireAdmin(w, r) == nil {
		return
	}

	if err := h.Drafts.DeleteByID(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
