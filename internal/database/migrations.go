package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT,
			first_name TEXT,
			last_name TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS pantry_groups (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			join_code TEXT NOT NULL UNIQUE,
			host_id BIGINT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS group_members (
			id SERIAL PRIMARY KEY,
			group_id INTEGER NOT NULL REFERENCES pantry_groups(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id),
			is_host BOOLEAN NOT NULL DEFAULT FALSE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (group_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS ingredients (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			group_id INTEGER REFERENCES pantry_groups(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			quantity TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			expiry_raw TEXT NOT NULL DEFAULT '',
			expires_at DATE,
			image_file_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_ingredients_user_id ON ingredients(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ingredients_group_id ON ingredients(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ingredients_expires_at ON ingredients(expires_at)`,

		`CREATE TABLE IF NOT EXISTS vendors (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			city TEXT NOT NULL DEFAULT '',
			promptpay_id TEXT NOT NULL DEFAULT '',
			delivery_base_fee DECIMAL(12, 2) NOT NULL DEFAULT 0,
			delivery_per_km DECIMAL(12, 2) NOT NULL DEFAULT 0,
			lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			vendor_id INTEGER NOT NULL REFERENCES vendors(id),
			amount DECIMAL(12, 2) NOT NULL,
			delivery_fee DECIMAL(12, 2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,

		`CREATE TABLE IF NOT EXISTS notify_flags (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// SeedVendors inserts a starter set of local vendors so a fresh install has
// something to order from.
func SeedVendors(ctx context.Context, pool *pgxpool.Pool) error {
	vendors := []struct {
		name, city, promptpay string
		baseFee, perKm        string
		lat, lng              float64
	}{
		{"Talad Thai Fresh Mart", "Pathum Thani", "0812345678", "15.00", "7.00", 14.0208, 100.6522},
		{"Or Tor Kor Market", "Bangkok", "0899999999", "20.00", "9.00", 13.8003, 100.5500},
		{"Khlong Toei Grocer", "Bangkok", "1234567890123", "10.00", "6.50", 13.7222, 100.5562},
	}

	for _, v := range vendors {
		_, err := pool.Exec(ctx, `
			INSERT INTO vendors (name, city, promptpay_id, delivery_base_fee, delivery_per_km, lat, lng)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name) DO NOTHING
		`, v.name, v.city, v.promptpay, v.baseFee, v.perKm, v.lat, v.lng)
		if err != nil {
			return fmt.Errorf("failed to seed vendor %q: %w", v.name, err)
		}
	}

	return nil
}
