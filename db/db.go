package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/artlurun/api/config"
	"github.com/artlurun/api/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order and applies the
// uniqueness constraints the purchase flow depends on. The payment_id index
// is the actual guard against duplicate webhook delivery; access_code
// uniqueness backs exactly-once code issuance.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Race)(nil),
		(*models.RaceSection)(nil),
		(*models.Purchase)(nil),
		(*models.RaceRequest)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS purchases_payment_id_uniq ON purchases (payment_id) WHERE payment_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS purchases_email_idx ON purchases (email)`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_sections_no_dupes') THEN ALTER TABLE race_sections ADD CONSTRAINT race_sections_no_dupes UNIQUE (race_id, section_number); END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
