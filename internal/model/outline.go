// Package model defines the outline and note domain types and the tree
// operations over them. Mutation always goes through Outline methods so the
// note back-references and depth values stay consistent.
package model

import "time"

// OutlineType is an opaque type tag resolved by the ontology collaborator.
type OutlineType string

// Outline is a standalone document owning an ordered sequence of Notes.
// The sequence is a flattened tree: a Note's children are the Notes that
// immediately follow it with a greater depth.
type Outline struct {
	Key         string
	Name        string
	Type        OutlineType
	Importance  int
	Urgency     int
	Progress    int
	Tags        []string
	Preamble    []string
	Description []string
	Created     time.Time
	Modified    time.Time

	notes []*Note
}

// Touch updates the modification timestamp.
func (o *Outline) Touch() {
	o.Modified = time.Now().UTC()
}

// HasTag reports whether the Outline carries the given tag.
func (o *Outline) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Notes returns the Outline's note sequence. Callers must not mutate it.
func (o *Outline) Notes() []*Note {
	return o.notes
}

// NoteCount returns the number of Notes in the Outline.
func (o *Outline) NoteCount() int {
	return len(o.notes)
}

// DescriptorNote builds a synthetic Note representing the Outline itself,
// used as the Outline's match record in search results.
func (o *Outline) DescriptorNote() *Note {
	return &Note{
		Name:        o.Name,
		Type:        NoteType(o.Type),
		Tags:        o.Tags,
		Progress:    o.Progress,
		Description: o.Description,
		Modified:    o.Modified,
		outline:     o,
	}
}

// AddNote inserts a Note at the given offset, clamped to the sequence
// bounds, and takes ownership of it.
func (o *Outline) AddNote(n *Note, offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(o.notes) {
		offset = len(o.notes)
	}
	n.outline = o
	o.notes = append(o.notes, nil)
	copy(o.notes[offset+1:], o.notes[offset:])
	o.notes[offset] = n
}

// AddNotes inserts a group of Notes at the given offset as one contiguous
// run, preserving their order.
func (o *Outline) AddNotes(ns []*Note, offset int) {
	for i := len(ns) - 1; i >= 0; i-- {
		o.AddNote(ns[i], offset)
	}
}

// NoteChildren returns the descendants of n: the Notes following it whose
// depth is greater, up to the first Note at the same or shallower depth.
// Returns nil if n is not in the Outline.
func (o *Outline) NoteChildren(n *Note) []*Note {
	i := o.indexOf(n)
	if i < 0 {
		return nil
	}
	var children []*Note
	for j := i + 1; j < len(o.notes) && o.notes[j].Depth > n.Depth; j++ {
		children = append(children, o.notes[j])
	}
	return children
}

// RemoveNote removes n together with all of its descendants from the
// sequence and detaches them. Returns the number of Notes removed,
// 0 if n is not in the Outline.
func (o *Outline) RemoveNote(n *Note) int {
	i := o.indexOf(n)
	if i < 0 {
		return 0
	}
	size := o.subtreeSize(i)
	for _, r := range o.notes[i : i+size] {
		r.outline = nil
	}
	o.notes = append(o.notes[:i], o.notes[i+size:]...)
	return size
}

// CloneNote duplicates n and its descendants within the Outline, inserting
// the copy immediately after the original subtree. Returns the clone of n,
// or nil if n is not in the Outline.
func (o *Outline) CloneNote(n *Note) *Note {
	i := o.indexOf(n)
	if i < 0 {
		return nil
	}
	size := o.subtreeSize(i)
	clones := make([]*Note, 0, size)
	for _, src := range o.notes[i : i+size] {
		c := src.clone()
		c.Touch()
		clones = append(clones, c)
	}
	o.AddNotes(clones, i+size)
	return clones[0]
}

// indexOf returns the position of n in the sequence, -1 if absent.
func (o *Outline) indexOf(n *Note) int {
	for i, c := range o.notes {
		if c == n {
			return i
		}
	}
	return -1
}

// subtreeSize returns the number of Notes in the subtree rooted at index i:
// the Note itself plus every following Note at a greater depth.
func (o *Outline) subtreeSize(i int) int {
	size := 1
	for j := i + 1; j < len(o.notes) && o.notes[j].Depth > o.notes[i].Depth; j++ {
		size++
	}
	return size
}

// Clone deep-copies the Outline's structure and content. The copy has an
// empty key; the caller assigns a fresh one before registering it.
func (o *Outline) Clone() *Outline {
	c := &Outline{
		Name:       o.Name,
		Type:       o.Type,
		Importance: o.Importance,
		Urgency:    o.Urgency,
		Progress:   o.Progress,
		Created:    o.Created,
		Modified:   o.Modified,
	}
	c.Tags = append(c.Tags, o.Tags...)
	c.Preamble = append(c.Preamble, o.Preamble...)
	c.Description = append(c.Description, o.Description...)
	for _, n := range o.notes {
		nc := n.clone()
		nc.outline = c
		c.notes = append(c.notes, nc)
	}
	return c
}
