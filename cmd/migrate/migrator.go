package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/contactsmgr/contacts/migrations"
)

// migrator records applied versions in schema_migrations and runs each
// step in its own transaction.
type migrator struct {
	db     *sql.DB
	logger *slog.Logger
}

func (m *migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func (m *migrator) applied(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	out := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out[v] = true
	}
	return out, rows.Err()
}

func (m *migrator) up(ctx context.Context, all []migrations.Migration) error {
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	for _, mig := range pendingUp(all, done) {
		if err := m.step(ctx, mig.Up, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
			return fmt.Errorf("apply %s: %w", mig.Version, err)
		}
		m.logger.Info("migration applied", "version", mig.Version)
	}
	return nil
}

func (m *migrator) down(ctx context.Context, all []migrations.Migration, steps int) error {
	done, err := m.applied(ctx)
	if err != nil {
		return err
	}

	for _, mig := range pendingDown(all, done, steps) {
		if err := m.step(ctx, mig.Down, `DELETE FROM schema_migrations WHERE version = $1`, mig.Version); err != nil {
			return fmt.Errorf("revert %s: %w", mig.Version, err)
		}
		m.logger.Info("migration reverted", "version", mig.Version)
	}
	return nil
}

func (m *migrator) step(ctx context.Context, script, record, version string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return err
	}
	return tx.Commit()
}

// pendingUp returns the migrations not yet applied, oldest first.
func pendingUp(all []migrations.Migration, applied map[string]bool) []migrations.Migration {
	var out []migrations.Migration
	for _, mig := range all {
		if !applied[mig.Version] {
			out = append(out, mig)
		}
	}
	return out
}

// pendingDown returns up to steps applied migrations, newest first.
// steps <= 0 selects all of them.
func pendingDown(all []migrations.Migration, applied map[string]bool, steps int) []migrations.Migration {
	var out []migrations.Migration
	for i := len(all) - 1; i >= 0; i-- {
		if !applied[all[i].Version] {
			continue
		}
		out = append(out, all[i])
		if steps > 0 && len(out) == steps {
			break
		}
	}
	return out
}
