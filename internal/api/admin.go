package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/ValueCharts/internal/session"
)

type AdminHandler struct {
	sessions *session.Manager
}

func NewAdminHandler(m *session.Manager) *AdminHandler {
	return &AdminHandler{sessions: m}
}

func (h *AdminHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.List())
}

// EvictAll drops every live session. Uncommitted edits are lost.
func (h *AdminHandler) EvictAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"evicted": h.sessions.EvictAll()})
}

func (h *AdminHandler) Evict(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Evict(chi.URLParam(r, "chartID"), chi.URLParam(r, "username")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
