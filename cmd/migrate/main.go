package main

import (
	"database/sql"
	"log"

	"techstore/internal/config"

	_ "github.com/lib/pq"
)

// Raw-SQL migrations for production Postgres. Development and tests use
// the gorm AutoMigrate path; this binary exists so the production schema
// (jsonb columns, partial indexes) is explicit and reviewable.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		woo_commerce_id BIGINT UNIQUE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		description TEXT,
		parent_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		image_url TEXT,
		count INTEGER NOT NULL DEFAULT 0,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		woo_commerce_id BIGINT UNIQUE,
		name TEXT NOT NULL,
		slug TEXT NOT NULL,
		permalink TEXT,
		type TEXT NOT NULL DEFAULT 'simple',
		status TEXT NOT NULL DEFAULT 'publish',
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		catalog_visibility TEXT NOT NULL DEFAULT 'visible',
		description TEXT,
		short_description TEXT,
		sku TEXT,
		price DECIMAL(12,2),
		regular_price DECIMAL(12,2),
		sale_price DECIMAL(12,2),
		on_sale BOOLEAN NOT NULL DEFAULT FALSE,
		purchasable BOOLEAN NOT NULL DEFAULT TRUE,
		stock_status TEXT NOT NULL DEFAULT 'instock',
		stock_quantity INTEGER,
		manage_stock BOOLEAN NOT NULL DEFAULT FALSE,
		weight TEXT,
		dimensions JSONB,
		images JSONB,
		attributes JSONB,
		categories JSONB,
		tags JSONB,
		meta_data JSONB,
		pc_component_category TEXT,
		site_id TEXT,
		site_name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		synced_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS product_categories (
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		category_woo_id BIGINT NOT NULL,
		PRIMARY KEY (product_id, category_woo_id)
	)`,

	`CREATE TABLE IF NOT EXISTS sync_logs (
		id BIGSERIAL PRIMARY KEY,
		sync_type TEXT NOT NULL,
		status TEXT NOT NULL,
		products_synced INTEGER NOT NULL DEFAULT 0,
		categories_synced INTEGER NOT NULL DEFAULT 0,
		errors JSONB,
		started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ,
		duration_seconds INTEGER
	)`,

	`CREATE TABLE IF NOT EXISTS site_settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)`,
	`CREATE INDEX IF NOT EXISTS idx_products_stock_status ON products(stock_status)`,
	`CREATE INDEX IF NOT EXISTS idx_products_slug ON products(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)`,
	`CREATE INDEX IF NOT EXISTS idx_products_component ON products(pc_component_category)`,
	`CREATE INDEX IF NOT EXISTS idx_product_categories_woo ON product_categories(category_woo_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_logs_started ON sync_logs(started_at DESC)`,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to reach database:", err)
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("Migration statement %d failed: %v", i+1, err)
		}
	}

	log.Printf("Migrations applied (%d statements)", len(statements))
}
