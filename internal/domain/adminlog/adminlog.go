// Package adminlog defines the flat audit trail of superadmin actions.
package adminlog

import "time"

// Entry records one superadmin mutation. Writes are best-effort: a failed
// log insert never fails the mutation it describes.
type Entry struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	TenantID  *string           `json:"tenant_id,omitempty"`
	UserID    string            `json:"user_id"`
	Meta      map[string]string `json:"meta,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
