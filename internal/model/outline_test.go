package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildOutline creates an outline with notes at the given depths, named
// n0, n1, ... in sequence order.
func buildOutline(depths ...int) *Outline {
	o := &Outline{Key: "test", Name: "Test"}
	for i, d := range depths {
		o.AddNote(&Note{Name: fmt.Sprintf("n%d", i), Depth: d}, o.NoteCount())
	}
	return o
}

func names(o *Outline) []string {
	var out []string
	for _, n := range o.Notes() {
		out = append(out, n.Name)
	}
	return out
}

func TestAddNoteSetsBackReference(t *testing.T) {
	o := buildOutline(0)
	require.Equal(t, 1, o.NoteCount())
	assert.Same(t, o, o.Notes()[0].Outline())
}

func TestAddNoteOffsetClamped(t *testing.T) {
	o := buildOutline(0, 0)
	n := &Note{Name: "x"}
	o.AddNote(n, 99)
	assert.Equal(t, []string{"n0", "n1", "x"}, names(o))

	o.AddNote(&Note{Name: "y"}, -5)
	assert.Equal(t, "y", o.Notes()[0].Name)
}

func TestNoteChildren(t *testing.T) {
	// n0
	//   n1
	//     n2
	//   n3
	// n4
	o := buildOutline(0, 1, 2, 1, 0)
	children := o.NoteChildren(o.Notes()[0])
	require.Len(t, children, 3)
	assert.Equal(t, "n1", children[0].Name)
	assert.Equal(t, "n3", children[2].Name)

	assert.Empty(t, o.NoteChildren(o.Notes()[4]))
	assert.Nil(t, o.NoteChildren(&Note{Name: "stranger"}))
}

func TestRemoveNoteRemovesSubtree(t *testing.T) {
	o := buildOutline(0, 1, 2, 0)
	removed := o.RemoveNote(o.Notes()[0])
	assert.Equal(t, 3, removed)
	assert.Equal(t, []string{"n3"}, names(o))
}

func TestRemoveNoteDetaches(t *testing.T) {
	o := buildOutline(0)
	n := o.Notes()[0]
	o.RemoveNote(n)
	assert.Nil(t, n.Outline())
}

func TestCloneNoteDuplicatesSubtree(t *testing.T) {
	o := buildOutline(0, 1, 0)
	clone := o.CloneNote(o.Notes()[0])
	require.NotNil(t, clone)
	assert.Equal(t, []string{"n0", "n1", "n0", "n1", "n2"}, names(o))
	assert.Same(t, o, clone.Outline())
	assert.NotSame(t, o.Notes()[0], clone)
}

func TestOutlineClone(t *testing.T) {
	o := buildOutline(0, 1)
	o.Key = "orig"
	o.Tags = []string{"a"}
	c := o.Clone()
	assert.Empty(t, c.Key)
	assert.Equal(t, o.Name, c.Name)
	require.Equal(t, o.NoteCount(), c.NoteCount())
	assert.Same(t, c, c.Notes()[0].Outline())
	// deep copy: mutating the clone leaves the original alone
	c.Notes()[0].Name = "changed"
	assert.Equal(t, "n0", o.Notes()[0].Name)
}

func TestMoveNoteUpSwapsSiblingSubtrees(t *testing.T) {
	// n0, n1(+child n2), n3
	o := buildOutline(0, 0, 1, 0)
	p := o.MoveNoteUp(o.Notes()[1])
	assert.Equal(t, PatchMove, p.Diff)
	assert.Equal(t, 0, p.Start)
	assert.Equal(t, 3, p.Count)
	assert.Equal(t, []string{"n1", "n2", "n0", "n3"}, names(o))
}

func TestMoveNoteUpAtTopIsNoop(t *testing.T) {
	o := buildOutline(0, 0)
	p := o.MoveNoteUp(o.Notes()[0])
	assert.Equal(t, PatchNoChange, p.Diff)
	assert.Equal(t, []string{"n0", "n1"}, names(o))
}

func TestMoveNoteUpFirstChildIsNoop(t *testing.T) {
	o := buildOutline(0, 1, 1)
	p := o.MoveNoteUp(o.Notes()[1])
	assert.Equal(t, PatchNoChange, p.Diff)
}

func TestMoveNoteDown(t *testing.T) {
	o := buildOutline(0, 1, 0)
	p := o.MoveNoteDown(o.Notes()[0])
	assert.Equal(t, PatchMove, p.Diff)
	assert.Equal(t, []string{"n2", "n0", "n1"}, names(o))

	p = o.MoveNoteDown(o.Notes()[1])
	assert.Equal(t, PatchNoChange, p.Diff)
}

func TestMoveNoteToFirstPromotesSubtree(t *testing.T) {
	o := buildOutline(0, 1, 2)
	p := o.MoveNoteToFirst(o.Notes()[1])
	assert.Equal(t, PatchMove, p.Diff)
	assert.Equal(t, []string{"n1", "n2", "n0"}, names(o))
	assert.Equal(t, 0, o.Notes()[0].Depth)
	assert.Equal(t, 1, o.Notes()[1].Depth)
}

func TestMoveNoteToLast(t *testing.T) {
	o := buildOutline(0, 0)
	p := o.MoveNoteToLast(o.Notes()[0])
	assert.Equal(t, PatchMove, p.Diff)
	assert.Equal(t, []string{"n1", "n0"}, names(o))

	p = o.MoveNoteToLast(o.Notes()[1])
	assert.Equal(t, PatchNoChange, p.Diff)
}

func TestPromoteDemote(t *testing.T) {
	o := buildOutline(0, 1, 2)
	p := o.PromoteNote(o.Notes()[1])
	assert.Equal(t, PatchDepthChange, p.Diff)
	assert.Equal(t, 0, o.Notes()[1].Depth)
	assert.Equal(t, 1, o.Notes()[2].Depth)

	p = o.DemoteNote(o.Notes()[1])
	assert.Equal(t, PatchDepthChange, p.Diff)
	assert.Equal(t, 1, o.Notes()[1].Depth)
	assert.Equal(t, 2, o.Notes()[2].Depth)

	// top note has no preceding sibling to become its parent
	p = o.DemoteNote(o.Notes()[0])
	assert.Equal(t, PatchNoChange, p.Diff)
}

func TestPromoteAtTopLevelIsNoop(t *testing.T) {
	o := buildOutline(0)
	p := o.PromoteNote(o.Notes()[0])
	assert.Equal(t, PatchNoChange, p.Diff)
}

func TestDescriptorNote(t *testing.T) {
	o := buildOutline(0)
	o.Description = []string{"first", "second"}
	d := o.DescriptorNote()
	assert.Equal(t, o.Name, d.Name)
	assert.Equal(t, o.Description, d.Description)
	assert.Same(t, o, d.Outline())
}
