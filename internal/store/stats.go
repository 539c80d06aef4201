package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string `json:"db_path"`
	DBSizeBytes    int64  `json:"db_size_bytes"`
	ActiveOutlines int    `json:"active_outlines"`
	LimboOutlines  int    `json:"limbo_outlines"`
	TotalNotes     int    `json:"total_notes"`
	Relations      int    `json:"relations"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outlines WHERE key NOT LIKE ?`, LimboPrefix+"%").Scan(&st.ActiveOutlines)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outlines WHERE key LIKE ?`, LimboPrefix+"%").Scan(&st.LimboOutlines)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&st.TotalNotes)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relations`).Scan(&st.Relations)

	return st, nil
}
