package model

import "time"

// NoteType is an opaque type tag resolved by the ontology collaborator.
type NoteType string

// Note is a node within an Outline's tree. It has no global identity;
// it is identified by its position in the owning Outline's sequence.
type Note struct {
	Name        string
	Type        NoteType
	Depth       int
	Tags        []string
	Progress    int
	Description []string
	Modified    time.Time

	outline *Outline // non-owning back-reference, maintained by Outline
}

// Outline returns the Outline that currently owns this Note, or nil for
// a detached Note.
func (n *Note) Outline() *Outline {
	return n.outline
}

// Touch updates the modification timestamp.
func (n *Note) Touch() {
	n.Modified = time.Now().UTC()
}

// HasTag reports whether the Note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// clone deep-copies the Note's content. The copy is detached.
func (n *Note) clone() *Note {
	c := &Note{
		Name:     n.Name,
		Type:     n.Type,
		Depth:    n.Depth,
		Progress: n.Progress,
		Modified: n.Modified,
	}
	c.Tags = append(c.Tags, n.Tags...)
	c.Description = append(c.Description, n.Description...)
	return c
}
