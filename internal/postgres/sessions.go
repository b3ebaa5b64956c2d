package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/curvaqz/curvaqz/internal/session"
)

// uniqueViolation is the PostgreSQL error code for duplicate primary keys.
const uniqueViolation = "23505"

// Store implements session.Store and quiz.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewStore creates a relational store over the given pool.
func NewStore(pool *pgxpool.Pool, log *slog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

func (s *Store) GetSession(ctx context.Context, id string) (*session.Session, error) {
	const q = `SELECT id, user_id, created_at, last_seen_at, revoked
	           FROM sessions WHERE id = $1`

	var sess session.Session
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.LastSeenAt, &sess.Revoked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

func (s *Store) CreateSession(ctx context.Context, id string, userID *string) (*session.Session, error) {
	const q = `INSERT INTO sessions (id, user_id, created_at, last_seen_at, revoked)
	           VALUES ($1, $2, now(), now(), false)
	           RETURNING id, user_id, created_at, last_seen_at, revoked`

	var sess session.Session
	err := s.pool.QueryRow(ctx, q, id, userID).Scan(
		&sess.ID, &sess.UserID, &sess.CreatedAt, &sess.LastSeenAt, &sess.Revoked,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, session.ErrDuplicateID
		}
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &sess, nil
}

func (s *Store) TouchSession(ctx context.Context, id string) error {
	// Missing rows are a silent no-op; callers check existence first when it matters.
	const q = `UPDATE sessions SET last_seen_at = now() WHERE id = $1`

	if _, err := s.pool.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (s *Store) LinkSessionToUser(ctx context.Context, id, userID string) error {
	const q = `UPDATE sessions SET user_id = $2, last_seen_at = now() WHERE id = $1`

	if _, err := s.pool.Exec(ctx, q, id, userID); err != nil {
		return fmt.Errorf("link session to user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*session.User, error) {
	const q = `SELECT id, display_name, provider, provider_sub, created_at, updated_at
	           FROM users WHERE id = $1`

	var user session.User
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&user.ID, &user.DisplayName, &user.Provider, &user.ProviderSub,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *Store) UpsertUser(ctx context.Context, params session.UpsertUserParams) (*session.User, error) {
	const q = `INSERT INTO users (id, display_name, provider, provider_sub, created_at, updated_at)
	           VALUES ($1, $2, $3, $4, now(), now())
	           ON CONFLICT (id) DO UPDATE SET
	             display_name = COALESCE(EXCLUDED.display_name, users.display_name),
	             provider     = COALESCE(EXCLUDED.provider, users.provider),
	             provider_sub = COALESCE(EXCLUDED.provider_sub, users.provider_sub),
	             updated_at   = EXCLUDED.updated_at`

	if _, err := s.pool.Exec(ctx, q,
		params.ID, params.DisplayName, params.Provider, params.ProviderSub,
	); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	user, err := s.GetUser(ctx, params.ID)
	if err != nil {
		// The row must exist after the write above; its absence is an
		// integrity violation, not a normal not-found.
		return nil, fmt.Errorf("upsert user %s: read-back failed: %w", params.ID, err)
	}
	return user, nil
}

// RevokeSession marks a session revoked. Revocation is logical; rows are
// never physically deleted by this service.
func (s *Store) RevokeSession(ctx context.Context, id string) error {
	const q = `UPDATE sessions SET revoked = true WHERE id = $1`

	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}
