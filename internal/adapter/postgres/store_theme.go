package postgres

import (
	"context"
	"fmt"

	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/theme"
)

const themeColumns = `id, name, pro, active, css_vars, created_at`

func scanTheme(row scannable) (*theme.Theme, error) {
	var t theme.Theme
	err := row.Scan(&t.ID, &t.Name, &t.Pro, &t.Active, &t.CSSVars, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) CreateTheme(ctx context.Context, t *theme.Theme) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO themes (id, name, pro, active, css_vars) VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Name, t.Pro, t.Active, t.CSSVars)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create theme %s: %w", t.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create theme: %w", err)
	}
	return nil
}

func (s *Store) GetTheme(ctx context.Context, id string) (*theme.Theme, error) {
	t, err := scanTheme(s.pool.QueryRow(ctx,
		`SELECT `+themeColumns+` FROM themes WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get theme %s", id)
	}
	return t, nil
}

func (s *Store) ListThemes(ctx context.Context, activeOnly bool) ([]theme.Theme, error) {
	query := `SELECT ` + themeColumns + ` FROM themes`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	var themes []theme.Theme
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		themes = append(themes, *t)
	}
	return themes, rows.Err()
}

func (s *Store) UpdateTheme(ctx context.Context, t *theme.Theme) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE themes SET name = $2, pro = $3, active = $4, css_vars = $5, updated_at = now()
		 WHERE id = $1`,
		t.ID, t.Name, t.Pro, t.Active, t.CSSVars)
	return execExpectOne(tag, err, "update theme %s", t.ID)
}

func (s *Store) DeleteTheme(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM themes WHERE id = $1`, id)
	return execExpectOne(tag, err, "delete theme %s", id)
}
