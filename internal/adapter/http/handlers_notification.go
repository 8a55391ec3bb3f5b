package http

import (
	"net/http"

	"github.com/vitrinehq/vitrine/internal/domain/notification"
)

// ListNotifications handles GET /api/v1/notifications
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	items, err := h.Notifications.List(r.Context(), p.TenantID, unreadOnly)
	if err != nil {
		writeDomainError(w, err, "notifications not found")
		return
	}
	if items == nil {
		items = []notification.Notification{}
	}
	writeJSON(w, http.StatusOK, items)
}

// MarkNotificationRead handles POST /api/v1/notifications/{id}/read
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principalTenant(w, r)
	if !ok {
		return
	}

	if err := h.Notifications.MarkRead(r.Context(), p.TenantID, urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
