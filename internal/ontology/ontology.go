// Package ontology is the type taxonomy collaborator. It resolves default
// and named outline/note type tags; callers treat the returned values as
// opaque identifiers.
package ontology

import "github.com/mindkeep/mindkeep/internal/model"

// Built-in type tags.
const (
	OutlineTypeOutline model.OutlineType = "outline"
	OutlineTypeGrow    model.OutlineType = "grow"

	NoteTypeNote       model.NoteType = "note"
	NoteTypeKeyNote    model.NoteType = "key-note"
	NoteTypeIdea       model.NoteType = "idea"
	NoteTypeQuestion   model.NoteType = "question"
	NoteTypeFact       model.NoteType = "fact"
	NoteTypeLesson     model.NoteType = "lesson"
	NoteTypeConclusion model.NoteType = "conclusion"
)

// Ontology holds the known outline and note types.
type Ontology struct {
	outlineTypes map[string]model.OutlineType
	noteTypes    map[string]model.NoteType
}

// New returns an Ontology seeded with the built-in types.
func New() *Ontology {
	o := &Ontology{
		outlineTypes: map[string]model.OutlineType{},
		noteTypes:    map[string]model.NoteType{},
	}
	for _, t := range []model.OutlineType{OutlineTypeOutline, OutlineTypeGrow} {
		o.outlineTypes[string(t)] = t
	}
	for _, t := range []model.NoteType{
		NoteTypeNote, NoteTypeKeyNote, NoteTypeIdea, NoteTypeQuestion,
		NoteTypeFact, NoteTypeLesson, NoteTypeConclusion,
	} {
		o.noteTypes[string(t)] = t
	}
	return o
}

// DefaultOutlineType returns the type used when none is requested.
func (o *Ontology) DefaultOutlineType() model.OutlineType {
	return OutlineTypeOutline
}

// DefaultNoteType returns the type used when none is requested.
func (o *Ontology) DefaultNoteType() model.NoteType {
	return NoteTypeNote
}

// KeyNoteType returns the type of the default note guaranteed to exist in
// every freshly created outline.
func (o *Ontology) KeyNoteType() model.NoteType {
	return NoteTypeKeyNote
}

// OutlineType resolves a named outline type, falling back to the default
// for unknown names.
func (o *Ontology) OutlineType(name string) model.OutlineType {
	if t, ok := o.outlineTypes[name]; ok {
		return t
	}
	return o.DefaultOutlineType()
}

// FindOrCreateNoteType resolves a named note type, registering unknown
// names as new types.
func (o *Ontology) FindOrCreateNoteType(name string) model.NoteType {
	if name == "" {
		return o.DefaultNoteType()
	}
	if t, ok := o.noteTypes[name]; ok {
		return t
	}
	t := model.NoteType(name)
	o.noteTypes[name] = t
	return t
}
