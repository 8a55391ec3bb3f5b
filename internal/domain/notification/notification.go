// Package notification defines in-app notifications shown on the dashboard.
package notification

import "time"

// Kind classifies a notification.
type Kind string

const (
	KindLimitReached     Kind = "limit_reached"
	KindPaymentConfirmed Kind = "payment_confirmed"
	KindPaymentFailed    Kind = "payment_failed"
	KindTrialEnding      Kind = "trial_ending"
	KindQuoteRequest     Kind = "quote_request"
	KindAdminAction      Kind = "admin_action"
)

// Notification is a tenant-scoped dashboard message.
type Notification struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
