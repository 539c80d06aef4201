package mind

import (
	"context"
	"time"

	"github.com/mindkeep/mindkeep/internal/assoc"
	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/search"
)

// Outline returns the outline for the given key, nil when unknown.
func (m *Mind) Outline(key string) *model.Outline {
	m.gate.RLock()
	defer m.gate.RUnlock()
	return m.mem.Outline(key)
}

// Outlines lists the outlines visible under the current time scope. With
// the scope active the filtered sequence is recomputed on each call, since
// scope membership depends on the current time; otherwise the full backing
// sequence is returned directly.
func (m *Mind) Outlines() []*model.Outline {
	m.gate.RLock()
	defer m.gate.RUnlock()

	if !m.scope.Enabled() {
		return m.mem.Outlines()
	}
	var visible []*model.Outline
	for _, o := range m.mem.Outlines() {
		if m.scope.InScopeOutline(o) {
			visible = append(visible, o)
		}
	}
	return visible
}

// OutlineNames lists the names of all visible outlines.
func (m *Mind) OutlineNames() []string {
	var names []string
	for _, o := range m.Outlines() {
		names = append(names, o.Name)
	}
	return names
}

// AllNotes lists every note in memory, populating the derived cache. The
// cache stays empty until this query runs and is cleared on any structural
// change and on sleep.
func (m *Mind) AllNotes() []*model.Note {
	m.gate.Lock()
	defer m.gate.Unlock()

	if m.allNotes == nil {
		m.allNotes = m.mem.AllNotes()
	}
	return m.allNotes
}

// FindNotes runs the full-text scan. An empty outlineKey scans every
// outline in memory; an unknown key yields an empty result.
func (m *Mind) FindNotes(query string, ignoreCase bool, outlineKey string) []*model.Note {
	m.gate.RLock()
	defer m.gate.RUnlock()

	outlines := m.mem.Outlines()
	if outlineKey != "" {
		o := m.mem.Outline(outlineKey)
		if o == nil {
			return nil
		}
		outlines = []*model.Outline{o}
	}
	return search.FindNotes(nil, query, ignoreCase, outlines, &m.scope)
}

// OutlinesByName returns every outline whose name equals the query
// verbatim.
func (m *Mind) OutlinesByName(name string) []*model.Outline {
	m.gate.RLock()
	defer m.gate.RUnlock()
	return search.OutlinesByName(m.mem.Outlines(), name)
}

// Remind appends a visited note to the memory dwell, evicting the oldest
// entries beyond the configured bound.
func (m *Mind) Remind(n *model.Note) {
	if n == nil {
		return
	}
	m.gate.Lock()
	defer m.gate.Unlock()

	m.dwell = append(m.dwell, n)
	if len(m.dwell) > m.dwellLimit {
		m.dwell = m.dwell[len(m.dwell)-m.dwellLimit:]
	}
}

// Dwell returns the recently visited notes, oldest first.
func (m *Mind) Dwell() []*model.Note {
	m.gate.RLock()
	defer m.gate.RUnlock()
	return m.dwell
}

// DwellDepth returns the number of notes in the dwell history.
func (m *Mind) DwellDepth() int {
	m.gate.RLock()
	defer m.gate.RUnlock()
	return len(m.dwell)
}

// Tags returns every tag in use mapped to its cardinality across outlines
// and notes. Cardinality is always computed, never stored.
func (m *Mind) Tags() map[string]int {
	m.gate.RLock()
	defer m.gate.RUnlock()

	tags := map[string]int{}
	for _, o := range m.mem.Outlines() {
		for _, t := range o.Tags {
			tags[t]++
		}
		for _, n := range o.Notes() {
			for _, t := range n.Tags {
				tags[t]++
			}
		}
	}
	return tags
}

// TagCardinality returns how many outlines and notes reference the tag.
func (m *Mind) TagCardinality(tag string) int {
	return m.OutlineTagCardinality(tag) + m.NoteTagCardinality(tag)
}

// OutlineTagCardinality returns how many outlines reference the tag.
func (m *Mind) OutlineTagCardinality(tag string) int {
	m.gate.RLock()
	defer m.gate.RUnlock()

	count := 0
	for _, o := range m.mem.Outlines() {
		if o.HasTag(tag) {
			count++
		}
	}
	return count
}

// NoteTagCardinality returns how many notes reference the tag.
func (m *Mind) NoteTagCardinality(tag string) int {
	m.gate.RLock()
	defer m.gate.RUnlock()

	count := 0
	for _, o := range m.mem.Outlines() {
		for _, n := range o.Notes() {
			if n.HasTag(tag) {
				count++
			}
		}
	}
	return count
}

// AssociationsFor returns the associative engine's relevance leaderboard
// for a note. The computation counts as an active process until it
// resolves, which keeps sleep and amnesia out while the engine holds
// references into memory.
func (m *Mind) AssociationsFor(ctx context.Context, n *model.Note) *assoc.RankTask {
	m.gate.RLock()
	task := m.engine.RankAssociations(ctx, n)
	m.gate.RUnlock()

	m.BeginProcess()
	go func() {
		task.Await(context.Background())
		m.EndProcess()
	}()
	return task
}

// SetTimeScope activates the temporal visibility filter from the given
// threshold onward.
func (m *Mind) SetTimeScope(after time.Time) {
	m.gate.Lock()
	defer m.gate.Unlock()
	m.scope.Enable(after)
	m.onRememberingLocked()
}

// ClearTimeScope deactivates the temporal visibility filter.
func (m *Mind) ClearTimeScope() {
	m.gate.Lock()
	defer m.gate.Unlock()
	m.scope.Disable()
	m.onRememberingLocked()
}
