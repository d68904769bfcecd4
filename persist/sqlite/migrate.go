package sqlite

import (
	"context"
	"database/sql"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const migrationTable = "schema_migrations"

const (
	markerUp   = "-- +migrate Up"
	markerDown = "-- +migrate Down"
)

type migration struct {
	name string
	up   string
}

// applyMigrations runs every .sql file in migrationFS that the database has
// not recorded yet, in name order, each in its own transaction.
func applyMigrations(ctx context.Context, sqlDB *sql.DB, migrationFS fs.FS) error {
	pending, err := loadMigrations(migrationFS)
	if err != nil {
		return err
	}
	if _, err := sqlDB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return eris.Wrap(err, "create migration table")
	}
	done, err := appliedMigrations(ctx, sqlDB)
	if err != nil {
		return err
	}
	for _, m := range pending {
		if done[m.name] {
			continue
		}
		if err := m.apply(ctx, sqlDB); err != nil {
			return eris.Wrapf(err, "migration %s", m.name)
		}
	}
	return nil
}

func loadMigrations(migrationFS fs.FS) ([]migration, error) {
	names, err := fs.Glob(migrationFS, "*.sql")
	if err != nil {
		return nil, eris.Wrap(err, "list migrations")
	}
	slices.Sort(names)

	out := make([]migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return nil, eris.Wrapf(err, "read migration %s", name)
		}
		out = append(out, migration{name: name, up: upSection(string(content))})
	}
	return out, nil
}

func appliedMigrations(ctx context.Context, sqlDB *sql.DB) (map[string]bool, error) {
	rows, err := sqlDB.QueryContext(ctx, "SELECT name FROM "+migrationTable)
	if err != nil {
		return nil, eris.Wrap(err, "list applied migrations")
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "scan applied migration")
		}
		done[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate applied migrations")
	}
	return done, nil
}

// apply runs the migration and records it. A migration with an empty Up
// section is recorded without running anything.
func (m migration) apply(ctx context.Context, sqlDB *sql.DB) (err error) {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if strings.TrimSpace(m.up) != "" {
		if _, err := tx.ExecContext(ctx, m.up); err != nil && !alreadyExists(err) {
			return eris.Wrap(err, "exec")
		}
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		m.name, time.Now().UTC().UnixMilli(),
	); err != nil {
		return eris.Wrap(err, "record")
	}
	if err = tx.Commit(); err != nil {
		return eris.Wrap(err, "commit")
	}
	return nil
}

// upSection returns the SQL between the Up and Down markers. Files without
// an Up marker are used whole.
func upSection(content string) string {
	_, after, found := strings.Cut(content, markerUp)
	if !found {
		return content
	}
	up, _, _ := strings.Cut(after, markerDown)
	return up
}

func alreadyExists(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}
