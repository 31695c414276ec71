// Package postgres is the production store.Store implementation, backed
// by pgx/pgxpool with goose-managed migrations. Table layout and the
// per-entity query shapes (join tables for Button/Schedule's many-to-many
// sides, a native uuid[] column for TempAction.RoomIDs, delete-then-insert
// upserts for Schedule/Price) are ported from original_source's db/*.rs
// modules, restructured around pgx's connection-pool idiom the way
// 115b4113_damir5-kosarica's price cache uses *pgxpool.Pool.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver registration, used only by goose's *sql.DB handle
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is the postgres-backed store.Store implementation. The zero value
// is not usable; construct with Open.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and returns a ready Store. It does not run
// migrations; call Migrate separately (typically once, at startup, before
// Open) since migrations need the dedicated database/sql handle goose
// requires.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate applies every pending migration embedded in this package.
func Migrate(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("postgres: open migration handle: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("postgres: set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("postgres: migrate: %w", err)
	}
	return nil
}
