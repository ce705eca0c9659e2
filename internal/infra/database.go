package infra

import (
	"fmt"

	"eventpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection, runs AutoMigrate to create or
// update all tables, then applies the idempotent SQL patches that GORM cannot
// express (the pgcrypto extension for gen_random_uuid and partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// gen_random_uuid() requires pgcrypto on Postgres < 13; a no-op elsewhere.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus post-migration patches. Exposed
// separately so integration tests can migrate a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Event{},
		&model.Product{},
		&model.Supply{},
		&model.ProductSupply{},
		&model.EventProductInventory{},
		&model.EventSupplyInventory{},
		&model.Order{},
		&model.OrderItem{},
		&model.Sale{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Only one ACTIVE event may carry a given name; inactive and closed
		// events keep theirs for history. Enforced here because GORM has no
		// partial-index tag.
		{"unique active event name", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_events_active_name') THEN
    CREATE UNIQUE INDEX idx_events_active_name
        ON events (lower(name))
        WHERE is_active = true AND is_closed = false;
  END IF;
END $$`},
		// Kitchen queue scans pending orders per event in arrival order.
		{"kitchen queue index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_orders_event_status_created') THEN
    CREATE INDEX idx_orders_event_status_created
        ON orders (event_id, status, created_at);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
