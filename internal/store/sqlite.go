// Package store is the SQLite persistence collaborator. Outline keys double
// as storage locators: the active namespace and the limbo namespace are both
// rows here, distinguished by key prefix.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mindkeep/mindkeep/internal/model"
)

// LimboPrefix marks soft-deleted outline keys.
const LimboPrefix = "limbo/"

// SQLiteStore persists outlines, notes, and inferred relations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS outlines (
		key         TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL,
		importance  INTEGER NOT NULL DEFAULT 0,
		urgency     INTEGER NOT NULL DEFAULT 0,
		progress    INTEGER NOT NULL DEFAULT 0,
		tags        TEXT,
		preamble    TEXT,
		description TEXT,
		created_at  TEXT NOT NULL,
		modified_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_outlines_created ON outlines(created_at);

	CREATE TABLE IF NOT EXISTS notes (
		outline_key TEXT NOT NULL REFERENCES outlines(key) ON DELETE CASCADE,
		pos         INTEGER NOT NULL,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL,
		depth       INTEGER NOT NULL DEFAULT 0,
		tags        TEXT,
		progress    INTEGER NOT NULL DEFAULT 0,
		description TEXT,
		modified_at TEXT NOT NULL,
		PRIMARY KEY (outline_key, pos)
	);

	CREATE TABLE IF NOT EXISTS relations (
		from_key   TEXT NOT NULL,
		from_pos   INTEGER NOT NULL,
		to_key     TEXT NOT NULL,
		to_pos     INTEGER NOT NULL,
		rel        TEXT NOT NULL,
		weight     REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		PRIMARY KEY (from_key, from_pos, to_key, to_pos, rel)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveOutline writes the outline and its full note sequence, replacing any
// previous rows for the same key.
func (s *SQLiteStore) SaveOutline(ctx context.Context, o *model.Outline) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO outlines (key, name, type, importance, urgency, progress,
		                      tags, preamble, description, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			name=excluded.name, type=excluded.type,
			importance=excluded.importance, urgency=excluded.urgency,
			progress=excluded.progress, tags=excluded.tags,
			preamble=excluded.preamble, description=excluded.description,
			modified_at=excluded.modified_at`,
		o.Key, o.Name, string(o.Type), o.Importance, o.Urgency, o.Progress,
		marshalStrings(o.Tags), marshalStrings(o.Preamble), marshalStrings(o.Description),
		formatTime(o.Created), formatTime(o.Modified))
	if err != nil {
		return fmt.Errorf("save outline %s: %w", o.Key, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE outline_key = ?`, o.Key); err != nil {
		return err
	}
	for pos, n := range o.Notes() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (outline_key, pos, name, type, depth, tags, progress, description, modified_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.Key, pos, n.Name, string(n.Type), n.Depth,
			marshalStrings(n.Tags), n.Progress, marshalStrings(n.Description),
			formatTime(n.Modified))
		if err != nil {
			return fmt.Errorf("save note %s/%d: %w", o.Key, pos, err)
		}
	}

	return tx.Commit()
}

// LoadAll reads every outline in the active namespace, notes included,
// ordered by creation time.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]*model.Outline, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, name, type, importance, urgency, progress,
		       tags, preamble, description, created_at, modified_at
		FROM outlines WHERE key NOT LIKE ? ORDER BY created_at, rowid`, LimboPrefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outlines []*model.Outline
	for rows.Next() {
		o, err := scanOutline(rows)
		if err != nil {
			return nil, err
		}
		outlines = append(outlines, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range outlines {
		if err := s.loadNotes(ctx, o); err != nil {
			return nil, err
		}
	}
	return outlines, nil
}

// LoadOutline reads a single outline by key, active or limbo.
// Returns (nil, nil) when the key does not exist.
func (s *SQLiteStore) LoadOutline(ctx context.Context, key string) (*model.Outline, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, name, type, importance, urgency, progress,
		       tags, preamble, description, created_at, modified_at
		FROM outlines WHERE key = ?`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	o, err := scanOutline(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()
	if err := s.loadNotes(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *SQLiteStore) loadNotes(ctx context.Context, o *model.Outline) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, type, depth, tags, progress, description, modified_at
		FROM notes WHERE outline_key = ? ORDER BY pos`, o.Key)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var n model.Note
		var typ string
		var tags, desc sql.NullString
		var modified string
		if err := rows.Scan(&n.Name, &typ, &n.Depth, &tags, &n.Progress, &desc, &modified); err != nil {
			return err
		}
		n.Type = model.NoteType(typ)
		n.Tags = unmarshalStrings(tags)
		n.Description = unmarshalStrings(desc)
		if n.Modified, err = parseTime(modified); err != nil {
			return err
		}
		o.AddNote(&n, o.NoteCount())
	}
	return rows.Err()
}

// Rename moves an outline's backing storage to a new key. Used by soft
// delete to shift content into the limbo namespace.
func (s *SQLiteStore) Rename(ctx context.Context, oldKey, newKey string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// notes reference outlines(key); defer the check so parent and
	// children can move within one transaction
	if _, err := tx.ExecContext(ctx, `PRAGMA defer_foreign_keys = ON`); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `UPDATE outlines SET key = ? WHERE key = ?`, newKey, oldKey)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("rename %s: no such outline", oldKey)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE notes SET outline_key = ? WHERE outline_key = ?`, newKey, oldKey); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE relations SET from_key = ? WHERE from_key = ?`, newKey, oldKey); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE relations SET to_key = ? WHERE to_key = ?`, newKey, oldKey); err != nil {
		return err
	}
	return tx.Commit()
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanOutline(rows *sql.Rows) (*model.Outline, error) {
	o := &model.Outline{}
	var typ string
	var tags, preamble, desc sql.NullString
	var created, modified string
	err := rows.Scan(&o.Key, &o.Name, &typ, &o.Importance, &o.Urgency, &o.Progress,
		&tags, &preamble, &desc, &created, &modified)
	if err != nil {
		return nil, err
	}
	o.Type = model.OutlineType(typ)
	o.Tags = unmarshalStrings(tags)
	o.Preamble = unmarshalStrings(preamble)
	o.Description = unmarshalStrings(desc)
	if o.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	if o.Modified, err = parseTime(modified); err != nil {
		return nil, err
	}
	return o, nil
}

func marshalStrings(ss []string) *string {
	if len(ss) == 0 {
		return nil
	}
	b, _ := json.Marshal(ss)
	s := string(b)
	return &s
}

func unmarshalStrings(ns sql.NullString) []string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var ss []string
	json.Unmarshal([]byte(ns.String), &ss)
	return ss
}

// timeLayout is fixed-width so that lexicographic order matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
