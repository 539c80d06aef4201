package model

// Stencil is a read-only template used to seed a new Outline or Note.
// Content is raw markdown; the creating operation splits it into ordered
// description blocks.
type Stencil struct {
	Name    string
	Type    NoteType // type tag seeded into Notes created from the stencil
	Content string
}
