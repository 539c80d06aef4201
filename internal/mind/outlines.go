package mind

import (
	"context"
	"time"

	"github.com/mindkeep/mindkeep/internal/chunker"
	"github.com/mindkeep/mindkeep/internal/model"
)

// Rating bounds. Importance and urgency are star ratings, progress is a
// percentage.
const (
	MaxImportance = 5
	MaxUrgency    = 5
	MaxProgress   = 100
)

// OutlineNewParams holds parameters for creating an outline.
type OutlineNewParams struct {
	Name       string
	Type       string // named outline type, empty for the default
	Importance int
	Urgency    int
	Progress   int
	Tags       []string
	Preamble   []string
	Stencil    *model.Stencil
}

// OutlineNew creates a fresh outline under a newly allocated key, seeded
// from the stencil when supplied. A newly created outline is guaranteed to
// contain at least one note. Returns the new key.
func (m *Mind) OutlineNew(ctx context.Context, p OutlineNewParams) (string, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	now := time.Now().UTC()
	o := &model.Outline{
		Type:     m.onto.DefaultOutlineType(),
		Created:  now,
		Modified: now,
	}
	if p.Stencil != nil {
		o.Name = p.Stencil.Name
		o.Description = chunker.Blocks(p.Stencil.Content)
	}
	if p.Name != "" {
		o.Name = p.Name
	}
	if o.Name == "" {
		o.Name = "Outline"
	}
	if p.Type != "" {
		o.Type = m.onto.OutlineType(p.Type)
	}
	o.Key = m.mem.CreateOutlineKey(o.Name)
	o.Importance = clamp(p.Importance, MaxImportance)
	o.Urgency = clamp(p.Urgency, MaxUrgency)
	o.Progress = clamp(p.Progress, MaxProgress)
	o.Tags = append(o.Tags, p.Tags...)
	o.Preamble = append(o.Preamble, p.Preamble...)

	if o.NoteCount() == 0 {
		key := &model.Note{Name: o.Name, Type: m.onto.KeyNoteType(), Modified: now}
		o.AddNote(key, 0)
	}

	if err := m.mem.Remember(ctx, o); err != nil {
		return "", err
	}
	m.onRememberingLocked()
	m.log.Debug().Str("outline", o.Key).Msg("outline created")
	return o.Key, nil
}

// OutlineClone deep-copies an existing outline under a new generated key
// and registers the clone as independent. Returns nil when the key is
// unknown.
func (m *Mind) OutlineClone(ctx context.Context, outlineKey string) (*model.Outline, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	o := m.mem.Outline(outlineKey)
	if o == nil {
		return nil, nil
	}
	clone := o.Clone()
	clone.Key = m.mem.CreateOutlineKey(o.Name)
	clone.Touch()
	if err := m.mem.Remember(ctx, clone); err != nil {
		return nil, err
	}
	m.onRememberingLocked()
	m.log.Debug().Str("outline", outlineKey).Str("clone", clone.Key).Msg("outline cloned")
	return clone, nil
}

// OutlineForget soft-deletes an outline: it leaves the active namespace,
// its backing storage is renamed under a limbo key, and content is
// preserved there. Returns false when the key is unknown.
func (m *Mind) OutlineForget(ctx context.Context, outlineKey string) (bool, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	o := m.mem.Outline(outlineKey)
	if o == nil {
		return false, nil
	}
	limboKey := m.mem.CreateLimboKey(o.Name)
	if err := m.mem.RenameStorage(ctx, outlineKey, limboKey); err != nil {
		return false, err
	}
	m.mem.Forget(o)
	o.Key = limboKey
	m.onRememberingLocked()
	m.log.Debug().Str("outline", outlineKey).Str("limbo", limboKey).Msg("outline forgotten")
	return true, nil
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
