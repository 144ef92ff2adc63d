// Package postgres stores profiles in PostgreSQL through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nfrund/profiledesk/internal/domain"
)

// Connect opens a pool for dsn and verifies it with a ping.
//
// Simple protocol is used and statement caching disabled so the pool works
// behind transaction-mode poolers such as PgBouncer.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.StatementCacheCapacity = 0
	poolCfg.ConnConfig.DescriptionCacheCapacity = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

const (
	uniqueViolation = "23505"
	usernameIndex   = "users_username_key"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	uid        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	username   TEXT NOT NULL,
	email      TEXT NOT NULL,
	phone      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
DROP INDEX IF EXISTS users_username_idx;
CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (username);
`

// Migrate creates the users table when it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate profiles: %w", err)
	}
	return nil
}

// ProfileStore implements domain.ProfileRepository using PostgreSQL.
type ProfileStore struct {
	pool *pgxpool.Pool
}

// NewProfileStore creates a new PostgreSQL profile store.
func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

// Save upserts p. created_at is only set by the insert branch, so a later
// save never moves it.
func (s *ProfileStore) Save(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO users (uid, name, username, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (uid) DO UPDATE SET
			name = EXCLUDED.name,
			username = EXCLUDED.username,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone
		RETURNING uid, name, username, email, phone, created_at`

	saved, err := scanProfile(s.pool.QueryRow(ctx, query, p.UID, p.Name, p.Username, p.Email, p.Phone))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == usernameIndex {
			return nil, domain.ErrUsernameInUse
		}
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return saved, nil
}

// GetByUID retrieves a profile by its identity UID.
func (s *ProfileStore) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	query := `SELECT uid, name, username, email, phone, created_at FROM users WHERE uid = $1`
	p, err := scanProfile(s.pool.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// FindByUsername returns the profile with the given username.
func (s *ProfileStore) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	query := `SELECT uid, name, username, email, phone, created_at FROM users WHERE username = $1`
	p, err := scanProfile(s.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("query profile by username: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var createdAt time.Time
	if err := row.Scan(&p.UID, &p.Name, &p.Username, &p.Email, &p.Phone, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = createdAt.UTC()
	return &p, nil
}
