package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vitrinehq/vitrine/internal/domain/adminlog"
	"github.com/vitrinehq/vitrine/internal/domain/analytics"
	"github.com/vitrinehq/vitrine/internal/domain/notification"
)

// --- Notifications ---

func (s *Store) CreateNotification(ctx context.Context, n *notification.Notification) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (id, tenant_id, kind, title, body, read)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.TenantID, string(n.Kind), n.Title, n.Body, n.Read)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, tenantID string, unreadOnly bool) ([]notification.Notification, error) {
	query := `SELECT id, tenant_id, kind, title, body, read, created_at
		 FROM notifications WHERE tenant_id = $1`
	if unreadOnly {
		query += ` AND read = false`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		var kind string
		if err := rows.Scan(&n.ID, &n.TenantID, &kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Kind = notification.Kind(kind)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	return execExpectOne(tag, err, "mark notification %s read", id)
}

// --- Admin logs ---

func (s *Store) AppendAdminLog(ctx context.Context, e *adminlog.Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO admin_logs (id, action, tenant_id, user_id, meta) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Action, e.TenantID, e.UserID, e.Meta)
	if err != nil {
		return fmt.Errorf("append admin log: %w", err)
	}
	return nil
}

func (s *Store) ListAdminLogs(ctx context.Context, limit int) ([]adminlog.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, action, tenant_id, user_id, meta, created_at
		 FROM admin_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list admin logs: %w", err)
	}
	defer rows.Close()

	var entries []adminlog.Entry
	for rows.Next() {
		var e adminlog.Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.TenantID, &e.UserID, &e.Meta, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Analytics ---

// RecordEvents batch-inserts raw analytics rows. A quote with ten items is
// one call, not ten round trips.
func (s *Store) RecordEvents(ctx context.Context, events []analytics.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO analytics_events (id, tenant_id, product_id, kind) VALUES ($1, $2, $3, $4)`,
			e.ID, e.TenantID, e.ProductID, string(e.Kind))
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range events {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("record events: %w", err)
		}
	}
	return nil
}

func (s *Store) ProductCountsByTenant(ctx context.Context, tenantID string) ([]analytics.ProductCounts, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT product_id,
		        count(*) FILTER (WHERE kind = 'view')  AS views,
		        count(*) FILTER (WHERE kind = 'quote') AS quotes
		 FROM analytics_events
		 WHERE tenant_id = $1
		 GROUP BY product_id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("product counts for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var counts []analytics.ProductCounts
	for rows.Next() {
		var c analytics.ProductCounts
		if err := rows.Scan(&c.ProductID, &c.Views, &c.Quotes); err != nil {
			return nil, fmt.Errorf("scan product counts: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
