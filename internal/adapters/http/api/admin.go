// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// AdminHandler handles operator endpoints.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// HandleReload handles POST /api/admin/reload: drop the corpus cache
// and load the current data files. Idempotent.
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.ReloadCorpus(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
