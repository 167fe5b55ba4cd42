package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkgstf/DocRP-Backend/internal/config"
	"github.com/mkgstf/DocRP-Backend/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedCatalog inserts medicines and diagnoses from the seed catalog.
// Entries that already exist (case-insensitive name match) are skipped.
// Each catalog entry also gets a lookup entry so autocomplete works
// before anything has been prescribed.
func (d *DB) SeedCatalog(ctx context.Context, catalog *config.SeedCatalog) error {
	if catalog == nil {
		return nil
	}

	for _, m := range catalog.Medicines {
		_, err := d.Pool.Exec(ctx, `
			INSERT INTO medicines (name, description, dosage_form, strength, manufacturer)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (LOWER(name)) DO NOTHING
		`, m.Name, m.Description, m.DosageForm, m.Strength, m.Manufacturer)
		if err != nil {
			return fmt.Errorf("failed to seed medicine %s: %w", m.Name, err)
		}
		if err := d.seedLookupEntry(ctx, "medicine", m.Name); err != nil {
			return err
		}
	}

	for _, dg := range catalog.Diagnoses {
		_, err := d.Pool.Exec(ctx, `
			INSERT INTO diagnoses (name, description, icd_code, category)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (LOWER(name)) DO NOTHING
		`, dg.Name, dg.Description, dg.ICDCode, dg.Category)
		if err != nil {
			return fmt.Errorf("failed to seed diagnosis %s: %w", dg.Name, err)
		}
		if err := d.seedLookupEntry(ctx, "diagnosis", dg.Name); err != nil {
			return err
		}
	}

	return nil
}
