// Package memory is the owning in-memory store of all outlines. Physical
// load and save are delegated to the persistence collaborator; Memory itself
// is not goroutine safe and relies on the Mind gate for serialization.
package memory

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/store"
	"github.com/mindkeep/mindkeep/internal/timescope"
)

// Domain errors for operations whose contract requires an existing target.
var (
	ErrOutlineNotFound    = errors.New("outline not found")
	ErrNoteWithoutOutline = errors.New("note has no owning outline")
)

// Persistence is the collaborator contract Memory needs from the physical
// store. Keys double as storage locators.
type Persistence interface {
	LoadAll(ctx context.Context) ([]*model.Outline, error)
	SaveOutline(ctx context.Context, o *model.Outline) error
	Rename(ctx context.Context, oldKey, newKey string) error
}

// Memory owns the outlines currently known to the mind.
type Memory struct {
	persist  Persistence
	scope    *timescope.Aspect
	outlines []*model.Outline
	byKey    map[string]*model.Outline
	entropy  *rand.Rand
}

// New creates an empty Memory backed by the given persistence collaborator.
func New(p Persistence) *Memory {
	return &Memory{
		persist: p,
		byKey:   map[string]*model.Outline{},
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetTimeScope attaches the temporal visibility aspect consulted by
// listings and search.
func (m *Memory) SetTimeScope(a *timescope.Aspect) {
	m.scope = a
}

// TimeScope returns the attached aspect, possibly nil.
func (m *Memory) TimeScope() *timescope.Aspect {
	return m.scope
}

// Learn replaces the current contents with everything the persistence
// collaborator knows. Callers wipe first; Learn does not merge.
func (m *Memory) Learn(ctx context.Context) error {
	outlines, err := m.persist.LoadAll(ctx)
	if err != nil {
		return err
	}
	m.outlines = outlines
	m.byKey = make(map[string]*model.Outline, len(outlines))
	for _, o := range outlines {
		m.byKey[o.Key] = o
	}
	return nil
}

// Remember registers the outline if it is new and persists it.
func (m *Memory) Remember(ctx context.Context, o *model.Outline) error {
	if _, known := m.byKey[o.Key]; !known {
		m.outlines = append(m.outlines, o)
		m.byKey[o.Key] = o
	}
	return m.persist.SaveOutline(ctx, o)
}

// Forget removes the outline from the active namespace. The caller rewrites
// the key and renames the backing storage; content is not destroyed.
func (m *Memory) Forget(o *model.Outline) {
	delete(m.byKey, o.Key)
	for i, c := range m.outlines {
		if c == o {
			m.outlines = append(m.outlines[:i], m.outlines[i+1:]...)
			break
		}
	}
}

// Amnesia irreversibly wipes all in-memory contents.
func (m *Memory) Amnesia() {
	m.outlines = nil
	m.byKey = map[string]*model.Outline{}
}

// Outline returns the outline for the given key, nil when unknown.
func (m *Memory) Outline(key string) *model.Outline {
	return m.byKey[key]
}

// Outlines returns the full backing sequence in registration order.
// Callers must not mutate it.
func (m *Memory) Outlines() []*model.Outline {
	return m.outlines
}

// OutlineCount returns the number of active outlines.
func (m *Memory) OutlineCount() int {
	return len(m.outlines)
}

// AllNotes collects every note of every outline, outlines in registration
// order, honoring the time scope aspect.
func (m *Memory) AllNotes() []*model.Note {
	var notes []*model.Note
	for _, o := range m.outlines {
		for _, n := range o.Notes() {
			if m.scope.Enabled() && !m.scope.InScopeNote(n) {
				continue
			}
			notes = append(notes, n)
		}
	}
	return notes
}

// Persist saves a single outline through the collaborator.
func (m *Memory) Persist(ctx context.Context, o *model.Outline) error {
	return m.persist.SaveOutline(ctx, o)
}

// RenameStorage moves an outline's backing storage between keys.
func (m *Memory) RenameStorage(ctx context.Context, oldKey, newKey string) error {
	return m.persist.Rename(ctx, oldKey, newKey)
}

// CreateOutlineKey allocates a fresh key derived from the name plus a
// time-sortable unique suffix.
func (m *Memory) CreateOutlineKey(name string) string {
	return slug(name) + "-" + ulid.MustNew(ulid.Timestamp(time.Now()), m.entropy).String()
}

// CreateLimboKey allocates a key in the limbo namespace for soft deletion.
func (m *Memory) CreateLimboKey(name string) string {
	return store.LimboPrefix + m.CreateOutlineKey(name)
}

// slug lowercases the name and reduces it to hyphen-separated word runs.
func slug(name string) string {
	var b strings.Builder
	dash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "outline"
	}
	return s
}
