package service

import (
	"context"
	"errors"
	"testing"
	"time"

	natsadapter "github.com/vitrinehq/vitrine/internal/adapter/nats"
	"github.com/vitrinehq/vitrine/internal/config"
	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/domain/notification"
	"github.com/vitrinehq/vitrine/internal/domain/subscription"
	"github.com/vitrinehq/vitrine/internal/domain/tenant"
	"github.com/vitrinehq/vitrine/internal/domain/user"
	"github.com/vitrinehq/vitrine/internal/port/payments"
)

func newBillingFixture(t *testing.T, gw *mockGateway) (*BillingService, *mockStore, *mockQueue, *mockMailer) {
	store := &mockStore{}
	store.tenants = append(store.tenants, tenant.Tenant{
		ID: "t1", Slug: "loja", Active: true,
		SubscriptionStatus: string(subscription.StatusTrial),
	})
	store.users = append(store.users, user.User{ID: "u1", Email: "owner@example.com", Enabled: true})
	store.memberships = append(store.memberships, membership.Membership{
		ID: "m1", UserID: "u1", TenantID: "t1", Role: membership.RoleOwner,
	})
	seedSubscribedTenant(store, 200, subscription.StatusTrial, time.Now().Add(24*time.Hour))

	queue := &mockQueue{}
	mail := &mockMailer{}
	cfg := config.Billing{SuccessURL: "https://app.example.com/ok", CancelURL: "https://app.example.com/cancel"}
	svc := NewBillingService(store, []payments.Gateway{gw}, queue, mail, cfg, testMetrics(t))
	return svc, store, queue, mail
}

func TestBillingCheckout(t *testing.T) {
	gw := &mockGateway{
		name:    "stripe",
		session: &payments.CheckoutSession{ID: "cs_1", RedirectURL: "https://pay.example.com/cs_1"},
	}
	svc, _, _, _ := newBillingFixture(t, gw)

	s, err := svc.Checkout(context.Background(), "t1", "owner@example.com", "stripe", "plan")
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if s.RedirectURL == "" {
		t.Errorf("session = %+v", s)
	}
}

func TestBillingCheckoutUnknownGateway(t *testing.T) {
	svc, _, _, _ := newBillingFixture(t, &mockGateway{name: "stripe"})

	if _, err := svc.Checkout(context.Background(), "t1", "o@e.com", "paypal", "plan"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestBillingCheckoutUnknownPlan(t *testing.T) {
	svc, _, _, _ := newBillingFixture(t, &mockGateway{name: "stripe"})

	if _, err := svc.Checkout(context.Background(), "t1", "o@e.com", "stripe", "gold"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestBillingWebhookConfirmed(t *testing.T) {
	gw := &mockGateway{
		name:  "stripe",
		event: &payments.WebhookEvent{TenantID: "t1", Confirmed: true, Reference: "in_1"},
	}
	svc, store, queue, mail := newBillingFixture(t, gw)

	if err := svc.HandleWebhook(context.Background(), "stripe", []byte("{}"), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	if store.subscriptions[0].Status != subscription.StatusActive || !store.subscriptions[0].PaymentConfirmed {
		t.Errorf("subscription = %+v", store.subscriptions[0])
	}
	if store.tenants[0].SubscriptionStatus != string(subscription.StatusActive) {
		t.Errorf("tenant status = %s", store.tenants[0].SubscriptionStatus)
	}
	if len(store.notifications) != 1 || store.notifications[0].Kind != notification.KindPaymentConfirmed {
		t.Errorf("notifications = %+v", store.notifications)
	}
	if len(mail.sent) != 1 || mail.sent[0].To != "owner@example.com" {
		t.Errorf("mail = %+v", mail.sent)
	}
	if len(queue.published) != 1 || queue.published[0].Subject != natsadapter.SubjectPaymentConfirmed {
		t.Errorf("published = %+v", queue.published)
	}
}

func TestBillingWebhookFailed(t *testing.T) {
	gw := &mockGateway{
		name:  "mercadopago",
		event: &payments.WebhookEvent{TenantID: "t1", Confirmed: false, Reference: "pay_9"},
	}
	svc, store, queue, _ := newBillingFixture(t, gw)

	if err := svc.HandleWebhook(context.Background(), "mercadopago", []byte("{}"), "sig"); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	if store.subscriptions[0].Status != subscription.StatusPastDue {
		t.Errorf("status = %s, want past_due", store.subscriptions[0].Status)
	}
	if len(store.notifications) != 1 || store.notifications[0].Kind != notification.KindPaymentFailed {
		t.Errorf("notifications = %+v", store.notifications)
	}
	if len(queue.published) != 1 || queue.published[0].Subject != natsadapter.SubjectPaymentFailed {
		t.Errorf("published = %+v", queue.published)
	}
}

func TestBillingWebhookBadSignature(t *testing.T) {
	gw := &mockGateway{name: "stripe", err: errors.New("signature mismatch")}
	svc, store, _, _ := newBillingFixture(t, gw)

	if err := svc.HandleWebhook(context.Background(), "stripe", []byte("{}"), "bad"); err == nil {
		t.Fatal("expected error")
	}
	if store.subscriptions[0].Status != subscription.StatusTrial {
		t.Error("unverified webhook must not touch the subscription")
	}
}

func TestBillingWebhookNoTenant(t *testing.T) {
	gw := &mockGateway{name: "stripe", event: &payments.WebhookEvent{Confirmed: true}}
	svc, _, _, _ := newBillingFixture(t, gw)

	if err := svc.HandleWebhook(context.Background(), "stripe", []byte("{}"), "sig"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestBillingNotifyTrialsEnding(t *testing.T) {
	gw := &mockGateway{name: "stripe"}
	svc, store, _, _ := newBillingFixture(t, gw)

	store.tenants[0].TrialEndsAt = time.Now().Add(36 * time.Hour)
	store.tenants = append(store.tenants,
		tenant.Tenant{ID: "t2", Slug: "far", SubscriptionStatus: string(subscription.StatusTrial), TrialEndsAt: time.Now().Add(30 * 24 * time.Hour)},
		tenant.Tenant{ID: "t3", Slug: "paid", SubscriptionStatus: string(subscription.StatusActive)},
	)

	if err := svc.NotifyTrialsEnding(context.Background(), 72*time.Hour); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(store.notifications) != 1 {
		t.Fatalf("notifications = %+v", store.notifications)
	}
	n := store.notifications[0]
	if n.TenantID != "t1" || n.Kind != notification.KindTrialEnding {
		t.Errorf("notification = %+v", n)
	}
}
