// Package sqlite keeps world snapshots in named save slots in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/plus3/hearth/persist"
	"github.com/plus3/hearth/persist/sqlite/migrations"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is a persist.SlotStore backed by SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ persist.SlotStore = (*Store)(nil)

// Open opens or creates the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, eris.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "open sqlite db")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, eris.Wrap(err, "ping sqlite db")
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, eris.Wrap(err, "run migrations")
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save writes snap to slot, replacing whatever the slot held, and records it
// in the slot's history.
func (s *Store) Save(ctx context.Context, slot string, snap *persist.Snapshot) error {
	if strings.TrimSpace(slot) == "" {
		return eris.New("slot name is required")
	}
	if snap == nil {
		return eris.New("snapshot is required")
	}
	payload, err := persist.Marshal(snap)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin save")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO slots (name, snapshot_id, version, entity_count, saved_at, payload)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	snapshot_id = excluded.snapshot_id,
	version = excluded.version,
	entity_count = excluded.entity_count,
	saved_at = excluded.saved_at,
	payload = excluded.payload
`, slot, snap.Id.String(), snap.Version, len(snap.Entities), toMillis(snap.SavedAt), payload); err != nil {
		return eris.Wrapf(err, "write slot %q", slot)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO slot_history (snapshot_id, slot, version, entity_count, saved_at)
VALUES (?, ?, ?, ?, ?)
`, snap.Id.String(), slot, snap.Version, len(snap.Entities), toMillis(snap.SavedAt)); err != nil {
		return eris.Wrapf(err, "record history for slot %q", slot)
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "commit save")
	}
	return nil
}

// Load reads the snapshot held in slot.
func (s *Store) Load(ctx context.Context, slot string) (*persist.Snapshot, error) {
	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(persist.ErrSlotNotFound, "slot %q", slot)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read slot %q", slot)
	}
	return persist.Unmarshal(payload)
}

// List describes every slot, ordered by name.
func (s *Store) List(ctx context.Context) ([]persist.SlotInfo, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT name, snapshot_id, version, entity_count, saved_at
FROM slots
ORDER BY name
`)
	if err != nil {
		return nil, eris.Wrap(err, "list slots")
	}
	defer rows.Close()

	var infos []persist.SlotInfo
	for rows.Next() {
		info, err := scanSlotInfo(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate slots")
	}
	return infos, nil
}

// History lists every snapshot ever saved to slot, oldest first.
func (s *Store) History(ctx context.Context, slot string) ([]persist.SlotInfo, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT slot, snapshot_id, version, entity_count, saved_at
FROM slot_history
WHERE slot = ?
ORDER BY saved_at, snapshot_id
`, slot)
	if err != nil {
		return nil, eris.Wrapf(err, "list history for slot %q", slot)
	}
	defer rows.Close()

	var infos []persist.SlotInfo
	for rows.Next() {
		info, err := scanSlotInfo(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "iterate history")
	}
	return infos, nil
}

// Delete removes slot. Its history is kept.
func (s *Store) Delete(ctx context.Context, slot string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, slot)
	if err != nil {
		return eris.Wrapf(err, "delete slot %q", slot)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(persist.ErrSlotNotFound, "slot %q", slot)
	}
	return nil
}

func scanSlotInfo(rows *sql.Rows) (persist.SlotInfo, error) {
	var (
		info       persist.SlotInfo
		snapshotId string
		savedAt    int64
	)
	if err := rows.Scan(&info.Name, &snapshotId, &info.Version, &info.Entities, &savedAt); err != nil {
		return info, eris.Wrap(err, "scan slot")
	}
	id, err := ulid.ParseStrict(snapshotId)
	if err != nil {
		return info, eris.Wrapf(err, "slot %q has bad snapshot id", info.Name)
	}
	info.SnapshotId = id
	info.SavedAt = fromMillis(savedAt)
	return info, nil
}
