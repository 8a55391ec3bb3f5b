package postgres

import (
	"context"
	"fmt"

	"github.com/vitrinehq/vitrine/internal/domain"
	"github.com/vitrinehq/vitrine/internal/domain/membership"
	"github.com/vitrinehq/vitrine/internal/domain/user"
)

const userColumns = `id, email, name, password_hash, enabled, must_change_password, created_at, updated_at`

func scanUser(row scannable) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Enabled,
		&u.MustChangePassword, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, enabled, must_change_password)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Enabled, u.MustChangePassword)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user %s: %w", u.Email, domain.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundWrap(err, "get user %s", id)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, notFoundWrap(err, "get user by email")
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET name = $2, password_hash = $3, enabled = $4, must_change_password = $5, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.Name, u.PasswordHash, u.Enabled, u.MustChangePassword)
	return execExpectOne(tag, err, "update user %s", u.ID)
}

// --- Memberships ---

func (s *Store) GetMembershipByUser(ctx context.Context, userID string) (*membership.Membership, error) {
	var m membership.Membership
	var role int
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, tenant_id, role, created_at FROM memberships WHERE user_id = $1`,
		userID).Scan(&m.ID, &m.UserID, &m.TenantID, &role, &m.CreatedAt)
	if err != nil {
		return nil, notFoundWrap(err, "get membership for user %s", userID)
	}
	m.Role = membership.Role(role)
	return &m, nil
}

func (s *Store) ListMembershipsByTenant(ctx context.Context, tenantID string) ([]membership.Membership, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, tenant_id, role, created_at FROM memberships
		 WHERE tenant_id = $1 ORDER BY created_at ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var members []membership.Membership
	for rows.Next() {
		var m membership.Membership
		var role int
		if err := rows.Scan(&m.ID, &m.UserID, &m.TenantID, &role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.Role = membership.Role(role)
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) SetMembershipRole(ctx context.Context, userID string, role membership.Role) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE memberships SET role = $2 WHERE user_id = $1`, userID, int(role))
	return execExpectOne(tag, err, "set role for user %s", userID)
}

// --- Refresh tokens ---

func (s *Store) CreateRefreshToken(ctx context.Context, rt *user.RefreshToken) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1, $2, $3, $4)`,
		rt.ID, rt.UserID, rt.TokenHash, rt.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

func (s *Store) GetRefreshTokenByHash(ctx context.Context, hash string) (*user.RefreshToken, error) {
	var rt user.RefreshToken
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`,
		hash).Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		return nil, notFoundWrap(err, "get refresh token")
	}
	return &rt, nil
}

// RotateRefreshToken atomically deletes the old token and inserts the new one.
func (s *Store) RotateRefreshToken(ctx context.Context, oldID string, next *user.RefreshToken) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("rotate refresh token: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, oldID)
	if err != nil {
		return fmt.Errorf("rotate refresh token: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already rotated by a concurrent refresh; treat as replay.
		return fmt.Errorf("rotate refresh token %s: %w", oldID, domain.ErrConflict)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1, $2, $3, $4)`,
		next.ID, next.UserID, next.TokenHash, next.ExpiresAt)
	if err != nil {
		return fmt.Errorf("rotate refresh token: insert: %w", err)
	}

	return tx.Commit(ctx)
}

func (s *Store) DeleteRefreshToken(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete refresh token %s: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteRefreshTokensByUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete refresh tokens for user %s: %w", userID, err)
	}
	return nil
}
