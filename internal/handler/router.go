package handler

import (
	"github.com/gorilla/mux"
)

// NewRouter mounts the API under /api/v1 so the shop front can call
// /api/v1/* without conflicts.
func NewRouter(h *EditorHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.WithSession)

	api.HandleFunc("/auth/signup", h.Signup).Methods("POST")
	api.HandleFunc("/auth/session", h.GetSession).Methods("GET")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	api.HandleFunc("/drafts", h.Gallery).Methods("GET")
	api.HandleFunc("/drafts", h.SaveDraft).Methods("POST")
	api.HandleFunc("/drafts/{id}", h.GetDraft).Methods("GET")
	api.HandleFunc("/drafts/{id}", h.ReplaceDraft).Methods("PUT")
	api.HandleFunc("/drafts/{id}", h.DeleteDraft).Methods("DELETE")
	api.HandleFunc("/users/{id}/drafts", h.ListUserDrafts).Methods("GET")

	api.HandleFunc("/suggestions", h.Suggest).Methods("POST")
	api.HandleFunc("/assets", h.UploadAsset).Methods("POST")

	return r
}
