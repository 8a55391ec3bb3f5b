package postgres

import (
	"context"
	"fmt"

	"github.com/vitrinehq/vitrine/internal/domain/quote"
)

func (s *Store) CreateQuote(ctx context.Context, q *quote.Quote) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create quote: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO quotes (id, tenant_id, customer_name, customer_email, customer_phone, status, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		q.ID, q.TenantID, q.CustomerName, q.CustomerEmail, q.CustomerPhone, string(q.Status), q.Note)
	if err != nil {
		return fmt.Errorf("create quote: %w", err)
	}

	for _, it := range q.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO quote_items (id, quote_id, product_id, quantity, unit_price_cents)
			 VALUES ($1, $2, $3, $4, $5)`,
			it.ID, it.QuoteID, it.ProductID, it.Quantity, it.UnitPriceCents)
		if err != nil {
			return fmt.Errorf("create quote item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) GetQuote(ctx context.Context, tenantID, id string) (*quote.Quote, error) {
	var q quote.Quote
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, customer_name, customer_email, customer_phone, status, note, created_at
		 FROM quotes WHERE id = $1 AND tenant_id = $2`, id, tenantID).
		Scan(&q.ID, &q.TenantID, &q.CustomerName, &q.CustomerEmail, &q.CustomerPhone,
			&status, &q.Note, &q.CreatedAt)
	if err != nil {
		return nil, notFoundWrap(err, "get quote %s", id)
	}
	q.Status = quote.Status(status)

	rows, err := s.pool.Query(ctx,
		`SELECT id, quote_id, product_id, quantity, unit_price_cents
		 FROM quote_items WHERE quote_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("get quote %s items: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it quote.Item
		if err := rows.Scan(&it.ID, &it.QuoteID, &it.ProductID, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan quote item: %w", err)
		}
		q.Items = append(q.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Store) ListQuotes(ctx context.Context, tenantID string) ([]quote.Quote, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, customer_name, customer_email, customer_phone, status, note, created_at
		 FROM quotes WHERE tenant_id = $1 ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []quote.Quote
	for rows.Next() {
		var q quote.Quote
		var status string
		if err := rows.Scan(&q.ID, &q.TenantID, &q.CustomerName, &q.CustomerEmail,
			&q.CustomerPhone, &status, &q.Note, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		q.Status = quote.Status(status)
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return quotes, nil
	}

	ids := make([]string, len(quotes))
	index := make(map[string]int, len(quotes))
	for i, q := range quotes {
		ids[i] = q.ID
		index[q.ID] = i
	}

	itemRows, err := s.pool.Query(ctx,
		`SELECT id, quote_id, product_id, quantity, unit_price_cents
		 FROM quote_items WHERE quote_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list quote items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it quote.Item
		if err := itemRows.Scan(&it.ID, &it.QuoteID, &it.ProductID, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan quote item: %w", err)
		}
		if i, ok := index[it.QuoteID]; ok {
			quotes[i].Items = append(quotes[i].Items, it)
		}
	}
	return quotes, itemRows.Err()
}

func (s *Store) UpdateQuoteStatus(ctx context.Context, tenantID, id string, status quote.Status) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE quotes SET status = $3 WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, string(status))
	return execExpectOne(tag, err, "update quote %s status", id)
}

func (s *Store) DeleteQuote(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM quotes WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "delete quote %s", id)
}
