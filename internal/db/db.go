// Package db holds the Postgres pool and the catalog tables used when the
// catalog is served from the database instead of the embedded seeds.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/bazaar/internal/config"
	"github.com/sudo-init-do/bazaar/internal/logx"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and ensures the catalog tables exist.
func Init(cfg config.DatabaseConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	Conn, err = pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		logx.Fatal().Err(err).Msg("unable to connect to database")
	}
	if err = Conn.Ping(ctx); err != nil {
		logx.Fatal().Err(err).Msg("unable to ping database")
	}
	logx.Info().Str("host", cfg.Host).Str("db", cfg.Name).Msg("connected to postgres")

	if err := EnsureCatalogSchema(ctx, Conn); err != nil {
		logx.Fatal().Err(err).Msg("failed to ensure catalog schema")
	}
}

// Ready pings the pool; it is nil-safe for deployments without Postgres.
func Ready(ctx context.Context) bool {
	return Conn != nil && Conn.Ping(ctx) == nil
}

// EnsureCatalogSchema creates the vendors and offerings tables if missing.
func EnsureCatalogSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS vendors (
            vertical TEXT NOT NULL,
            id TEXT NOT NULL,
            position INTEGER NOT NULL,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            location TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            website TEXT NOT NULL DEFAULT '',
            verified BOOLEAN NOT NULL DEFAULT FALSE,
            since INTEGER NOT NULL DEFAULT 0,
            rating DOUBLE PRECISION NULL,
            PRIMARY KEY (vertical, id)
        );
        CREATE TABLE IF NOT EXISTS offerings (
            vertical TEXT NOT NULL,
            id TEXT NOT NULL,
            vendor_id TEXT NOT NULL,
            position INTEGER NOT NULL,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            subcategory TEXT NOT NULL DEFAULT '',
            tags TEXT[] NOT NULL DEFAULT '{}',
            price NUMERIC(14,2) NOT NULL CHECK (price >= 0),
            currency TEXT NOT NULL,
            original_price NUMERIC(14,2) NULL,
            date_added TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
            rating DOUBLE PRECISION NULL,
            stock_available INTEGER NULL,
            stock_total INTEGER NULL,
            location TEXT NOT NULL DEFAULT '',
            brand TEXT NOT NULL DEFAULT '',
            gender TEXT NOT NULL DEFAULT '',
            is_new BOOLEAN NOT NULL DEFAULT FALSE,
            is_hot_deal BOOLEAN NOT NULL DEFAULT FALSE,
            is_trending BOOLEAN NOT NULL DEFAULT FALSE,
            is_popular BOOLEAN NOT NULL DEFAULT FALSE,
            deal_ends_at TIMESTAMP WITH TIME ZONE NULL,
            image_url TEXT NOT NULL DEFAULT '',
            PRIMARY KEY (vertical, id),
            FOREIGN KEY (vertical, vendor_id) REFERENCES vendors(vertical, id) ON DELETE CASCADE
        );
        CREATE INDEX IF NOT EXISTS idx_offerings_vendor ON offerings(vertical, vendor_id, position);
    `)
	return err
}
