// Package subscription defines the tenant subscription lifecycle.
package subscription

import "time"

// Status is the subscription lifecycle state.
type Status string

const (
	StatusTrial    Status = "trial"
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
	StatusInactive Status = "inactive"
)

// ValidStatuses is the set of all valid subscription statuses.
var ValidStatuses = map[Status]bool{
	StatusTrial:    true,
	StatusActive:   true,
	StatusPastDue:  true,
	StatusCanceled: true,
	StatusInactive: true,
}

// Subscription is the one-to-one link between a tenant and its plan.
type Subscription struct {
	ID               string    `json:"id"`
	TenantID         string    `json:"tenant_id"`
	PlanID           string    `json:"plan_id"`
	Status           Status    `json:"status"`
	TrialEndsAt      time.Time `json:"trial_ends_at"`
	PaymentConfirmed bool      `json:"payment_confirmed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TrialExpired reports whether the trial window has closed without payment.
func (s *Subscription) TrialExpired(now time.Time) bool {
	return s.Status == StatusTrial && !s.PaymentConfirmed && now.After(s.TrialEndsAt)
}

// Blocked reports whether the subscription state forbids catalog mutations.
func (s *Subscription) Blocked(now time.Time) bool {
	switch s.Status {
	case StatusCanceled, StatusInactive:
		return true
	case StatusTrial:
		return s.TrialExpired(now)
	default:
		return false
	}
}

// Quota is the plan-gate response for product creation.
type Quota struct {
	CanCreate bool  `json:"can_create"`
	Current   int64 `json:"current"`
	Limit     int64 `json:"limit"` // -1 = unlimited
	Remaining int64 `json:"remaining"`
}
