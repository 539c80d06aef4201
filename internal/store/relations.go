package store

import (
	"context"
	"time"
)

// Relation is an inferred association between two notes, addressed by
// outline key and sequence position. Relations are advisory and rebuilt by
// the dream pass; they may go stale between rebuilds.
type Relation struct {
	FromKey string  `json:"from_key"`
	FromPos int     `json:"from_pos"`
	ToKey   string  `json:"to_key"`
	ToPos   int     `json:"to_pos"`
	Rel     string  `json:"rel"`
	Weight  float64 `json:"weight"`
}

// ReplaceRelations atomically replaces the stored relation set.
func (s *SQLiteStore) ReplaceRelations(ctx context.Context, rels []Relation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM relations`); err != nil {
		return err
	}
	now := formatTime(time.Now())
	for _, r := range rels {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO relations (from_key, from_pos, to_key, to_pos, rel, weight, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.FromKey, r.FromPos, r.ToKey, r.ToPos, r.Rel, r.Weight, now)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Relations returns all stored relations.
func (s *SQLiteStore) Relations(ctx context.Context) ([]Relation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_key, from_pos, to_key, to_pos, rel, weight FROM relations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rels []Relation
	for rows.Next() {
		var r Relation
		if err := rows.Scan(&r.FromKey, &r.FromPos, &r.ToKey, &r.ToPos, &r.Rel, &r.Weight); err != nil {
			return nil, err
		}
		rels = append(rels, r)
	}
	return rels, rows.Err()
}
