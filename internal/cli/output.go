package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mindkeep/mindkeep/internal/model"
)

// outlineView is the wire shape of an outline.
type outlineView struct {
	Key        string     `json:"key"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Importance int        `json:"importance"`
	Urgency    int        `json:"urgency"`
	Progress   int        `json:"progress"`
	Tags       []string   `json:"tags,omitempty"`
	NoteCount  int        `json:"note_count"`
	Created    time.Time  `json:"created"`
	Modified   time.Time  `json:"modified"`
	Notes      []noteView `json:"notes,omitempty"`
}

// noteView is the wire shape of a note.
type noteView struct {
	Outline  string    `json:"outline,omitempty"`
	Pos      int       `json:"pos"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Depth    int       `json:"depth"`
	Tags     []string  `json:"tags,omitempty"`
	Progress int       `json:"progress,omitempty"`
	Modified time.Time `json:"modified"`
}

func viewOutline(o *model.Outline, withNotes bool) outlineView {
	v := outlineView{
		Key:        o.Key,
		Name:       o.Name,
		Type:       string(o.Type),
		Importance: o.Importance,
		Urgency:    o.Urgency,
		Progress:   o.Progress,
		Tags:       o.Tags,
		NoteCount:  o.NoteCount(),
		Created:    o.Created,
		Modified:   o.Modified,
	}
	if withNotes {
		for i, n := range o.Notes() {
			v.Notes = append(v.Notes, viewNote(n, i, false))
		}
	}
	return v
}

func viewNote(n *model.Note, pos int, withOutline bool) noteView {
	v := noteView{
		Pos:      pos,
		Name:     n.Name,
		Type:     string(n.Type),
		Depth:    n.Depth,
		Tags:     n.Tags,
		Progress: n.Progress,
		Modified: n.Modified,
	}
	if withOutline && n.Outline() != nil {
		v.Outline = n.Outline().Key
	}
	return v
}

// notePos finds the note's position in its owning outline, -1 when
// detached.
func notePos(n *model.Note) int {
	o := n.Outline()
	if o == nil {
		return -1
	}
	for i, c := range o.Notes() {
		if c == n {
			return i
		}
	}
	return -1
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}
