package http

import (
	"net/http"

	"github.com/vitrinehq/vitrine/internal/domain/theme"
)

// ListThemes handles GET /api/v1/themes
//
// Merchants browse the active gallery only; retired themes stay visible to
// superadmins through the console routes.
func (h *Handlers) ListThemes(w http.ResponseWriter, r *http.Request) {
	if _, ok := principalTenant(w, r); !ok {
		return
	}

	themes, err := h.Themes.List(r.Context(), true)
	if err != nil {
		writeDomainError(w, err, "themes not found")
		return
	}
	if themes == nil {
		themes = []theme.Theme{}
	}
	writeJSON(w, http.StatusOK, themes)
}

// ApplyTheme handles POST /api/v1/themes/{id}/apply
func (h *Handlers) ApplyTheme(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	t, err := h.Themes.Apply(r.Context(), p.TenantID, urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "theme not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// RevertTheme handles POST /api/v1/themes/revert
func (h *Handlers) RevertTheme(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	t, err := h.Themes.Revert(r.Context(), p.TenantID)
	if err != nil {
		writeDomainError(w, err, "store not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}
