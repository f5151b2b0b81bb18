package db

import (
	"context"
	"fmt"

	"mercari_mini_back_end_go/config"

	"github.com/jackc/pgx/v4/pgxpool"
)

// InitDatabase connects to Postgres and bootstraps the schema. The
// statements are idempotent so repeated startups are safe.
func InitDatabase(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s database=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseName)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlQueries := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			user_id uuid PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			hashed_password VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS items (
			item_id uuid PRIMARY KEY DEFAULT uuid_generate_v4(),
			title VARCHAR(200) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC NOT NULL CHECK (price >= 0),
			image_url TEXT NOT NULL DEFAULT '',
			seller_id uuid NOT NULL REFERENCES users(user_id),
			sold BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS items_seller_id_idx ON items (seller_id)`,
	}

	for _, query := range sqlQueries {
		if _, err := pool.Exec(ctx, query); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	return pool, nil
}
