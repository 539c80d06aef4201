package mind

import (
	"context"
	"fmt"

	"github.com/mindkeep/mindkeep/internal/chunker"
	"github.com/mindkeep/mindkeep/internal/memory"
	"github.com/mindkeep/mindkeep/internal/model"
)

// NoteNewParams holds parameters for creating a note.
type NoteNewParams struct {
	OutlineKey string
	// Offset is the explicit insertion position; 0 means top-level
	// insertion at the head of the sequence.
	Offset   int
	Name     string
	Type     string // named note type, empty derives from stencil or default
	Depth    int
	Tags     []string
	Progress int
	Stencil  *model.Stencil
}

// NoteNew creates a note inside an existing outline. The note's type
// derives from the stencil when supplied, else the default type.
func (m *Mind) NoteNew(ctx context.Context, p NoteNewParams) (*model.Note, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	o := m.mem.Outline(p.OutlineKey)
	if o == nil {
		return nil, fmt.Errorf("%w: %s", memory.ErrOutlineNotFound, p.OutlineKey)
	}

	n := &model.Note{Type: m.onto.DefaultNoteType()}
	if p.Stencil != nil {
		if p.Stencil.Type != "" {
			n.Type = p.Stencil.Type
		}
		n.Description = chunker.Blocks(p.Stencil.Content)
	}
	if p.Type != "" {
		n.Type = m.onto.FindOrCreateNoteType(p.Type)
	}
	n.Name = p.Name
	n.Depth = p.Depth
	n.Tags = append(n.Tags, p.Tags...)
	n.Progress = clamp(p.Progress, MaxProgress)
	n.Touch()

	o.AddNote(n, p.Offset)
	o.Touch()
	if err := m.mem.Persist(ctx, o); err != nil {
		return nil, err
	}
	m.onRememberingLocked()
	return n, nil
}

// NoteClone duplicates a note, with its descendants, within its owning
// outline.
func (m *Mind) NoteClone(ctx context.Context, outlineKey string, n *model.Note) (*model.Note, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	o := m.mem.Outline(outlineKey)
	if o == nil {
		return nil, fmt.Errorf("%w: %s", memory.ErrOutlineNotFound, outlineKey)
	}
	clone := o.CloneNote(n)
	if clone == nil {
		return nil, memory.ErrNoteWithoutOutline
	}
	o.Touch()
	if err := m.mem.Persist(ctx, o); err != nil {
		return nil, err
	}
	m.onRememberingLocked()
	return clone, nil
}

// NoteRefactor moves a note together with all of its descendants to the
// head of the target outline as one atomic group, then persists both
// outlines. Readers never observe the subtree in neither or both outlines:
// the whole move happens under the exclusive gate.
func (m *Mind) NoteRefactor(ctx context.Context, n *model.Note, targetOutlineKey string) (*model.Outline, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	if n == nil || n.Outline() == nil {
		return nil, memory.ErrNoteWithoutOutline
	}
	target := m.mem.Outline(targetOutlineKey)
	if target == nil {
		return nil, fmt.Errorf("%w: %s", memory.ErrOutlineNotFound, targetOutlineKey)
	}
	source := n.Outline()
	if source == target {
		source.MoveNoteToFirst(n)
		source.Touch()
		if err := m.mem.Persist(ctx, source); err != nil {
			return nil, err
		}
		m.onRememberingLocked()
		return target, nil
	}

	group := append([]*model.Note{n}, source.NoteChildren(n)...)
	source.RemoveNote(n)
	base := n.Depth
	for _, g := range group {
		g.Depth -= base
	}
	target.AddNotes(group, 0)

	source.Touch()
	target.Touch()
	if err := m.mem.Persist(ctx, source); err != nil {
		return nil, err
	}
	if err := m.mem.Persist(ctx, target); err != nil {
		return nil, err
	}
	m.onRememberingLocked()
	m.log.Debug().Str("from", source.Key).Str("to", target.Key).Int("notes", len(group)).Msg("note refactored")
	return target, nil
}

// NoteForget removes a note, with its descendants, from its owning outline.
func (m *Mind) NoteForget(ctx context.Context, n *model.Note) (*model.Outline, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	if n == nil || n.Outline() == nil {
		return nil, memory.ErrNoteWithoutOutline
	}
	o := n.Outline()
	o.RemoveNote(n)
	o.Touch()
	if err := m.mem.Persist(ctx, o); err != nil {
		return nil, err
	}
	m.onRememberingLocked()
	return o, nil
}

// NoteUp moves the note's subtree before its preceding sibling.
func (m *Mind) NoteUp(ctx context.Context, n *model.Note) (model.Patch, error) {
	return m.reorder(ctx, n, (*model.Outline).MoveNoteUp)
}

// NoteDown moves the note's subtree after its following sibling.
func (m *Mind) NoteDown(ctx context.Context, n *model.Note) (model.Patch, error) {
	return m.reorder(ctx, n, (*model.Outline).MoveNoteDown)
}

// NoteFirst moves the note's subtree to the head of the outline.
func (m *Mind) NoteFirst(ctx context.Context, n *model.Note) (model.Patch, error) {
	return m.reorder(ctx, n, (*model.Outline).MoveNoteToFirst)
}

// NoteLast moves the note's subtree to the tail of the outline.
func (m *Mind) NoteLast(ctx context.Context, n *model.Note) (model.Patch, error) {
	return m.reorder(ctx, n, (*model.Outline).MoveNoteToLast)
}

// NotePromote lifts the note's subtree one level up.
func (m *Mind) NotePromote(ctx context.Context, n *model.Note) (model.Patch, error) {
	return m.reorder(ctx, n, (*model.Outline).PromoteNote)
}

// NoteDemote pushes the note's subtree one level down.
func (m *Mind) NoteDemote(ctx context.Context, n *model.Note) (model.Patch, error) {
	return m.reorder(ctx, n, (*model.Outline).DemoteNote)
}

// reorder runs one of the outline move operations under the gate and
// persists the outline when anything moved. The returned patch describes
// the change for external representations.
func (m *Mind) reorder(ctx context.Context, n *model.Note, op func(*model.Outline, *model.Note) model.Patch) (model.Patch, error) {
	m.gate.Lock()
	defer m.gate.Unlock()

	if n == nil || n.Outline() == nil {
		return model.Patch{Diff: model.PatchNoChange}, memory.ErrNoteWithoutOutline
	}
	o := n.Outline()
	patch := op(o, n)
	if patch.Diff == model.PatchNoChange {
		return patch, nil
	}
	o.Touch()
	if err := m.mem.Persist(ctx, o); err != nil {
		return patch, err
	}
	m.onRememberingLocked()
	return patch, nil
}
