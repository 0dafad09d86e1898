package database

import (
	"context"
	"log"
	"time"

	"onetracker/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the global Postgres connection pool.
var Pool *pgxpool.Pool

// InitDB initializes the Postgres connection pool.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := pgxpool.ParseConfig(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to parse Postgres DSN: %v", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to create Postgres pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("failed to ping Postgres: %v", err)
	}
	if err := ensureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}
	Pool = pool
	log.Println("Connected to Postgres successfully!")
}

// ensureSchema applies the idempotent bootstrap DDL. The unique index on
// booking_datetime is what makes concurrent double-booking impossible.
func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			business_name TEXT NOT NULL,
			work_email TEXT NOT NULL,
			contact_number TEXT NOT NULL,
			booking_datetime TIMESTAMPTZ NOT NULL,
			message TEXT,
			timezone TEXT NOT NULL DEFAULT 'UTC',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE UNIQUE INDEX IF NOT EXISTS bookings_booking_datetime_key
			ON bookings (booking_datetime);
	`)
	return err
}
