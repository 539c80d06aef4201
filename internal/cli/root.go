// Package cli implements the mindkeep CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mindkeep/mindkeep/internal/assoc"
	"github.com/mindkeep/mindkeep/internal/config"
	"github.com/mindkeep/mindkeep/internal/logging"
	"github.com/mindkeep/mindkeep/internal/memory"
	"github.com/mindkeep/mindkeep/internal/mind"
	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/store"
)

var (
	configPath string
	dbPath     string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mindkeep",
	Short: "A thinking notebook in your terminal",
	Long:  "Markdown-minded knowledge base. Outlines of notes, full-text search, and an associative engine that dreams up connections. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config path (default: ~/.mindkeep/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MINDKEEP_DB_PATH or ~/.mindkeep/mind.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// session bundles the wired mind with its backing store so commands can
// release the database when done.
type session struct {
	mind   *mind.Mind
	engine *assoc.HeuristicEngine
	store  *store.SQLiteStore
	cfg    *config.Config
}

func (s *session) Close() {
	s.store.Close()
}

// openMind loads configuration, opens storage, and wakes the mind by
// learning the persisted outlines.
func openMind(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	log := logging.New(cfg.LogLevel)

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	mem := memory.New(s)
	engine := assoc.NewHeuristicEngine(mem, s, log)
	m := mind.New(cfg, mem, engine, log)

	if _, err := m.Learn(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return &session{mind: m, engine: engine, store: s, cfg: cfg}, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// noteAt resolves a note by its position in an outline's flattened
// sequence.
func noteAt(m *mind.Mind, outlineKey string, pos int) (*model.Note, error) {
	o := m.Outline(outlineKey)
	if o == nil {
		return nil, fmt.Errorf("outline not found: %s", outlineKey)
	}
	notes := o.Notes()
	if pos < 0 || pos >= len(notes) {
		return nil, fmt.Errorf("note position %d out of range [0,%d)", pos, len(notes))
	}
	return notes[pos], nil
}
