package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	natsadapter "github.com/vitrinehq/vitrine/internal/adapter/nats"
	"github.com/vitrinehq/vitrine/internal/adapter/otel"
	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/analytics"
	"github.com/vitrinehq/vitrine/internal/domain/notification"
	"github.com/vitrinehq/vitrine/internal/domain/quote"
	"github.com/vitrinehq/vitrine/internal/port/database"
	"github.com/vitrinehq/vitrine/internal/port/messagequeue"
)

// QuoteService handles shopper quote requests and merchant follow-up.
type QuoteService struct {
	store   database.Store
	queue   messagequeue.Queue
	metrics *otel.Metrics
}

// NewQuoteService creates a new quote service.
func NewQuoteService(store database.Store, queue messagequeue.Queue, metrics *otel.Metrics) *QuoteService {
	return &QuoteService{store: store, queue: queue, metrics: metrics}
}

// Create records a shopper's quote request against the tenant resolved
// from the storefront slug. Unit prices are snapshotted at creation so
// later price edits do not rewrite history. Each line item also feeds the
// popularity ranking as a quote event.
func (s *QuoteService) Create(ctx context.Context, tenantID string, req *quote.CreateRequest) (*quote.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	ids := make([]string, len(req.Items))
	for i, it := range req.Items {
		ids[i] = it.ProductID
	}

	products, err := s.store.ListProductsByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	priceByID := make(map[string]int64, len(products))
	for _, p := range products {
		priceByID[p.ID] = p.PriceCents
	}

	q := &quote.Quote{
		ID:            generateID(),
		TenantID:      tenantID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Status:        quote.StatusOpen,
		Note:          req.Note,
	}
	for _, it := range req.Items {
		price, ok := priceByID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %s is not available", domain.ErrValidation, it.ProductID)
		}
		q.Items = append(q.Items, quote.Item{
			ID:             generateID(),
			QuoteID:        q.ID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: price,
		})
	}

	if err := s.store.CreateQuote(ctx, q); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	s.metrics.QuotesCreated.Add(ctx, 1)
	s.recordQuoteEvents(ctx, q)
	s.notifyMerchant(ctx, q)

	return q, nil
}

// Get returns one quote with items.
func (s *QuoteService) Get(ctx context.Context, tenantID, id string) (*quote.Quote, error) {
	return s.store.GetQuote(ctx, tenantID, id)
}

// List returns the tenant's quotes, newest first.
func (s *QuoteService) List(ctx context.Context, tenantID string) ([]quote.Quote, error) {
	return s.store.ListQuotes(ctx, tenantID)
}

// UpdateStatus moves a quote through its lifecycle.
func (s *QuoteService) UpdateStatus(ctx context.Context, tenantID, id string, status quote.Status) (*quote.Quote, error) {
	if !quote.ValidStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}
	if err := s.store.UpdateQuoteStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	return s.store.GetQuote(ctx, tenantID, id)
}

// Delete removes a quote and its items.
func (s *QuoteService) Delete(ctx context.Context, tenantID, id string) error {
	return s.store.DeleteQuote(ctx, tenantID, id)
}

// recordQuoteEvents feeds the popularity ranking. Ranking data is
// best-effort; a failed insert never fails the quote.
func (s *QuoteService) recordQuoteEvents(ctx context.Context, q *quote.Quote) {
	events := make([]analytics.Event, len(q.Items))
	for i, it := range q.Items {
		events[i] = analytics.Event{
			ID:        generateID(),
			TenantID:  q.TenantID,
			ProductID: it.ProductID,
			Kind:      analytics.KindQuote,
		}
	}
	if err := s.store.RecordEvents(ctx, events); err != nil {
		slog.Warn("quote analytics failed", "quote_id", q.ID, "error", err)
	}
}

// notifyMerchant raises the dashboard notification and the queue event.
func (s *QuoteService) notifyMerchant(ctx context.Context, q *quote.Quote) {
	n := &notification.Notification{
		ID:       generateID(),
		TenantID: q.TenantID,
		Kind:     notification.KindQuoteRequest,
		Title:    "New quote request",
		Body:     fmt.Sprintf("%s requested a quote with %d item(s).", q.CustomerName, len(q.Items)),
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		slog.Warn("quote notification failed", "quote_id", q.ID, "error", err)
	}

	payload, err := json.Marshal(map[string]string{"quote_id": q.ID, "tenant_id": q.TenantID})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, natsadapter.SubjectQuoteCreated, payload); err != nil {
		slog.Warn("quote publish failed", "quote_id", q.ID, "error", err)
	}
}
