package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	natsadapter "github.com/vitrinehq/vitrine/internal/adapter/nats"
	"github.com/vitrinehq/vitrine/internal/adapter/otel"
	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/domain/notification"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
	"github.com/vitrinehq/vitrine/internal/port/database"
	"github.com/vitrinehq/vitrine/internal/port/mailer"
	"github.com/vitrinehq/vitrine/internal/port/messagequeue"
	"github.com/vitrinehq/vitrine/internal/port/payments"
)

// BillingService starts checkout sessions and settles gateway webhooks.
type BillingService struct {
	store    database.Store
	gateways map[string]payments.Gateway
	queue    messagequeue.Queue
	mailer   mailer.Mailer
	cfg      config.Billing
	metrics  *otel.Metrics
}

// NewBillingService creates a new billing service over the given gateways.
func NewBillingService(store database.Store, gws []payments.Gateway, queue messagequeue.Queue, m mailer.Mailer, cfg config.Billing, metrics *otel.Metrics) *BillingService {
	byName := make(map[string]payments.Gateway, len(gws))
	for _, gw := range gws {
		byName[gw.Name()] = gw
	}
	return &BillingService{
		store:    store,
		gateways: byName,
		queue:    queue,
		mailer:   m,
		cfg:      cfg,
		metrics:  metrics,
	}
}

// Checkout starts a hosted checkout session for upgrading to planSlug.
func (s *BillingService) Checkout(ctx context.Context, tenantID, email, gatewayName, planSlug string) (*payments.CheckoutSession, error) {
	gw, ok := s.gateways[gatewayName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown gateway %q", domain.ErrValidation, gatewayName)
	}

	p, err := s.store.GetPlanBySlug(ctx, planSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown plan %q", domain.ErrValidation, planSlug)
		}
		return nil, err
	}

	session, err := gw.CreateCheckout(ctx, payments.CheckoutRequest{
		TenantID:   tenantID,
		PlanSlug:   p.Slug,
		PriceCents: p.PriceCents,
		Email:      email,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	s.metrics.CheckoutStarted.Add(ctx, 1)
	return session, nil
}

// HandleWebhook verifies and settles one gateway callback. A confirmed
// payment activates the subscription and the tenant; a failed one marks
// it past due.
func (s *BillingService) HandleWebhook(ctx context.Context, gatewayName string, payload []byte, signature string) error {
	gw, ok := s.gateways[gatewayName]
	if !ok {
		return fmt.Errorf("%w: unknown gateway %q", domain.ErrValidation, gatewayName)
	}

	ev, err := gw.VerifyWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("verify webhook: %w", err)
	}
	if ev.TenantID == "" {
		return fmt.Errorf("%w: webhook carries no tenant reference", domain.ErrValidation)
	}

	if ev.Confirmed {
		return s.settleConfirmed(ctx, ev)
	}
	return s.settleFailed(ctx, ev)
}

func (s *BillingService) settleConfirmed(ctx context.Context, ev *payments.WebhookEvent) error {
	sub, err := s.store.GetSubscriptionByTenant(ctx, ev.TenantID)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}

	sub.Status = subscription.StatusActive
	sub.PaymentConfirmed = true
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	t, err := s.store.GetTenant(ctx, ev.TenantID)
	if err != nil {
		return fmt.Errorf("get tenant: %w", err)
	}
	t.SubscriptionStatus = string(subscription.StatusActive)
	if err := s.store.UpdateTenant(ctx, t); err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}

	s.notify(ctx, ev.TenantID, notification.KindPaymentConfirmed,
		"Payment confirmed", "Your subscription is active. Thanks!")
	s.mailOwner(ctx, ev.TenantID, "Payment confirmed",
		"<p>Your Vitrine subscription is active. Thanks for your payment.</p>")
	s.publish(ctx, natsadapter.SubjectPaymentConfirmed, ev)
	return nil
}

func (s *BillingService) settleFailed(ctx context.Context, ev *payments.WebhookEvent) error {
	sub, err := s.store.GetSubscriptionByTenant(ctx, ev.TenantID)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}

	sub.Status = subscription.StatusPastDue
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}

	s.notify(ctx, ev.TenantID, notification.KindPaymentFailed,
		"Payment failed", "We could not process your payment. Please update your billing details.")
	s.mailOwner(ctx, ev.TenantID, "Payment failed",
		"<p>We could not process your payment. Please update your billing details to keep your store online.</p>")
	s.publish(ctx, natsadapter.SubjectPaymentFailed, ev)
	return nil
}

// mailOwner emails the tenant's owner, best-effort.
func (s *BillingService) mailOwner(ctx context.Context, tenantID, subject, html string) {
	members, err := s.store.ListMembershipsByTenant(ctx, tenantID)
	if err != nil {
		slog.Warn("billing mail: list members failed", "tenant_id", tenantID, "error", err)
		return
	}
	for _, m := range members {
		if m.Role != membership.RoleOwner {
			continue
		}
		u, err := s.store.GetUser(ctx, m.UserID)
		if err != nil {
			continue
		}
		if err := s.mailer.Send(ctx, mailer.Message{To: u.Email, Subject: subject, HTML: html}); err != nil {
			slog.Warn("billing mail failed", "tenant_id", tenantID, "error", err)
		}
		return
	}
}

// NotifyTrialsEnding raises a trial-ending notification and email for
// tenants whose trial closes within the window. Run from a scheduler.
func (s *BillingService) NotifyTrialsEnding(ctx context.Context, window time.Duration) error {
	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	now := time.Now()
	for _, t := range tenants {
		if t.SubscriptionStatus != string(subscription.StatusTrial) {
			continue
		}
		if t.TrialEndsAt.Before(now) || t.TrialEndsAt.After(now.Add(window)) {
			continue
		}
		s.notify(ctx, t.ID, notification.KindTrialEnding,
			"Your trial is ending soon",
			fmt.Sprintf("Your trial ends on %s. Pick a plan to keep your store online.", t.TrialEndsAt.Format("January 2")))
	}
	return nil
}

func (s *BillingService) notify(ctx context.Context, tenantID string, kind notification.Kind, title, body string) {
	n := &notification.Notification{
		ID:       generateID(),
		TenantID: tenantID,
		Kind:     kind,
		Title:    title,
		Body:     body,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		slog.Warn("billing notification failed", "tenant_id", tenantID, "kind", kind, "error", err)
	}
}

func (s *BillingService) publish(ctx context.Context, subject string, ev *payments.WebhookEvent) {
	data, err := json.Marshal(map[string]string{"tenant_id": ev.TenantID, "reference": ev.Reference})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, subject, data); err != nil {
		slog.Warn("billing publish failed", "subject", subject, "error", err)
	}
}
