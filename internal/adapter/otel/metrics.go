package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "vitrine"

// Metrics holds all Vitrine metric instruments.
type Metrics struct {
	ProductsCreated  metric.Int64Counter
	LimitRejections  metric.Int64Counter
	QuotesCreated    metric.Int64Counter
	ThemeApplies     metric.Int64Counter
	StorefrontReads  metric.Int64Counter
	StorefrontMisses metric.Int64Counter
	CheckoutStarted  metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.ProductsCreated, err = meter.Int64Counter("vitrine.products.created",
		metric.WithDescription("Products created across all tenants"))
	if err != nil {
		return nil, err
	}

	m.LimitRejections, err = meter.Int64Counter("vitrine.products.limit_rejections",
		metric.WithDescription("Product creations rejected by the plan limit"))
	if err != nil {
		return nil, err
	}

	m.QuotesCreated, err = meter.Int64Counter("vitrine.quotes.created",
		metric.WithDescription("Quotes submitted by shoppers"))
	if err != nil {
		return nil, err
	}

	m.ThemeApplies, err = meter.Int64Counter("vitrine.themes.applies",
		metric.WithDescription("Theme apply operations"))
	if err != nil {
		return nil, err
	}

	m.StorefrontReads, err = meter.Int64Counter("vitrine.storefront.reads",
		metric.WithDescription("Public storefront home reads"))
	if err != nil {
		return nil, err
	}

	m.StorefrontMisses, err = meter.Int64Counter("vitrine.storefront.cache_misses",
		metric.WithDescription("Storefront home reads that missed the cache"))
	if err != nil {
		return nil, err
	}

	m.CheckoutStarted, err = meter.Int64Counter("vitrine.billing.checkouts",
		metric.WithDescription("Checkout sessions started"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
