// Package assoc defines the associative engine contract and a heuristic
// implementation of it: term-overlap ranking stands in for the opaque
// inference collaborator.
package assoc

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mindkeep/mindkeep/internal/memory"
	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/store"
)

// LeaderboardSize caps the association leaderboard returned by ranking.
const LeaderboardSize = 10

// Engine accepts triggers and reports results asynchronously. Dream and
// RankAssociations are invoked while the caller holds the exclusive gate;
// implementations must snapshot whatever memory content they need before
// returning, so the asynchronous work never touches live memory.
type Engine interface {
	// Dream runs the long-running consolidation pass: structural sanity
	// checks and relation inference. Success or failure arrives on the
	// returned task.
	Dream(ctx context.Context) *Task

	// Sleep is the synchronous refusal check. It returns false while the
	// engine still holds live references into memory; on true it has
	// released its inferred relation cache.
	Sleep() bool

	// RankAssociations returns an awaitable relevance leaderboard for the
	// given note. Advisory only, no mutation.
	RankAssociations(ctx context.Context, n *model.Note) *RankTask
}

// noteSnapshot is the engine's private copy of a note's content, taken
// under the gate so that async work is race-free.
type noteSnapshot struct {
	key   string
	pos   int
	name  string
	empty bool
	terms map[string]float64
	tags  []string
	note  *model.Note
}

// HeuristicEngine infers associations from term and tag overlap.
type HeuristicEngine struct {
	mem  *memory.Memory
	sink RelationSink
	log  zerolog.Logger

	live atomic.Int32

	mu      sync.Mutex
	triples []store.Relation
}

// RelationSink receives the inferred relation set at the end of a dream.
type RelationSink interface {
	ReplaceRelations(ctx context.Context, rels []store.Relation) error
}

// NewHeuristicEngine creates the engine over the given memory. The sink
// may be nil when inferred relations should stay in memory only.
func NewHeuristicEngine(mem *memory.Memory, sink RelationSink, log zerolog.Logger) *HeuristicEngine {
	return &HeuristicEngine{mem: mem, sink: sink, log: log.With().Str("component", "assoc").Logger()}
}

// Dream snapshots memory synchronously, then consolidates in the
// background: a structural sanity pass and a relation inference pass.
func (e *HeuristicEngine) Dream(ctx context.Context) *Task {
	task := NewTask()
	outlineCount := e.mem.OutlineCount()
	empties := e.emptyOutlineKeys()
	notes := e.snapshotNotes()

	e.live.Add(1)
	go func() {
		defer e.live.Add(-1)

		log := e.log.With().Str("job", task.ID()).Logger()
		log.Info().Int("outlines", outlineCount).Int("notes", len(notes)).Msg("dream started")

		var rels []store.Relation
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			for _, key := range empties {
				log.Warn().Str("outline", key).Msg("outline has no notes")
			}
			for _, n := range notes {
				if n.empty {
					log.Warn().Str("outline", n.key).Int("pos", n.pos).Str("note", n.name).Msg("note has no description")
				}
			}
			return nil
		})
		g.Go(func() error {
			rels = inferRelations(gctx, notes)
			return gctx.Err()
		})

		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("dream aborted")
			task.Resolve(false)
			return
		}

		if e.sink != nil {
			if err := e.sink.ReplaceRelations(ctx, rels); err != nil {
				log.Error().Err(err).Msg("persist inferred relations")
				task.Resolve(false)
				return
			}
		}

		e.mu.Lock()
		e.triples = rels
		e.mu.Unlock()

		log.Info().Int("relations", len(rels)).Msg("dream finished")
		task.Resolve(true)
	}()
	return task
}

// Sleep refuses while async work is in flight; otherwise it drops the
// inferred relation cache and agrees.
func (e *HeuristicEngine) Sleep() bool {
	if e.live.Load() > 0 {
		return false
	}
	e.mu.Lock()
	e.triples = nil
	e.mu.Unlock()
	return true
}

// Triples returns the in-memory inferred relation cache.
func (e *HeuristicEngine) Triples() []store.Relation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.triples
}

// RankAssociations snapshots candidates synchronously and scores them in
// the background.
func (e *HeuristicEngine) RankAssociations(ctx context.Context, n *model.Note) *RankTask {
	task := NewRankTask()
	if n == nil {
		task.Resolve(nil)
		return task
	}
	subject := snapshotNote(n)
	candidates := e.snapshotNotes()

	e.live.Add(1)
	go func() {
		defer e.live.Add(-1)

		var board []Association
		for _, c := range candidates {
			if c.note == n {
				continue
			}
			if s := score(subject, c); s > 0 {
				board = append(board, Association{Note: c.note, Score: s})
			}
			select {
			case <-ctx.Done():
				task.Resolve(nil)
				return
			default:
			}
		}
		sort.SliceStable(board, func(i, j int) bool { return board[i].Score > board[j].Score })
		if len(board) > LeaderboardSize {
			board = board[:LeaderboardSize]
		}
		task.Resolve(board)
	}()
	return task
}

func (e *HeuristicEngine) emptyOutlineKeys() []string {
	var keys []string
	for _, o := range e.mem.Outlines() {
		if o.NoteCount() == 0 {
			keys = append(keys, o.Key)
		}
	}
	return keys
}

func (e *HeuristicEngine) snapshotNotes() []noteSnapshot {
	var snaps []noteSnapshot
	for _, o := range e.mem.Outlines() {
		for pos, n := range o.Notes() {
			s := snapshotNote(n)
			s.key = o.Key
			s.pos = pos
			snaps = append(snaps, s)
		}
	}
	return snaps
}

func snapshotNote(n *model.Note) noteSnapshot {
	blocks := append([]string{n.Name}, n.Description...)
	return noteSnapshot{
		name:  n.Name,
		empty: len(n.Description) == 0,
		terms: termVector(blocks...),
		tags:  append([]string(nil), n.Tags...),
		note:  n,
	}
}

// inferRelations links every note to its best-scoring peer.
func inferRelations(ctx context.Context, notes []noteSnapshot) []store.Relation {
	var rels []store.Relation
	for i, a := range notes {
		select {
		case <-ctx.Done():
			return rels
		default:
		}
		best := -1
		bestScore := 0.0
		for j, b := range notes {
			if i == j {
				continue
			}
			if s := score(a, b); s > bestScore {
				best, bestScore = j, s
			}
		}
		if best >= 0 {
			rels = append(rels, store.Relation{
				FromKey: a.key, FromPos: a.pos,
				ToKey: notes[best].key, ToPos: notes[best].pos,
				Rel: "associates", Weight: bestScore,
			})
		}
	}
	return rels
}
