package model

// PatchDiff classifies what a reorder operation changed.
type PatchDiff int

const (
	// PatchNoChange means the operation was a no-op (already at the edge,
	// nowhere to move).
	PatchNoChange PatchDiff = iota
	// PatchMove means notes changed position within the sequence.
	PatchMove
	// PatchDepthChange means notes kept their position but changed depth.
	PatchDepthChange
)

// Patch describes a structural reorder so that callers can update any
// external representation of the sequence (a rendering cache, a table
// model). It is data only; the in-memory reorder has already happened.
// Start and Count delimit the affected region of the note sequence.
type Patch struct {
	Diff  PatchDiff
	Start int
	Count int
}

// MoveNoteUp swaps n's subtree with the preceding sibling subtree.
// No-op when n is the first child of its parent or not in the Outline.
func (o *Outline) MoveNoteUp(n *Note) Patch {
	i := o.indexOf(n)
	if i < 0 {
		return Patch{Diff: PatchNoChange}
	}
	pi := o.prevSiblingIndex(i)
	if pi < 0 {
		return Patch{Diff: PatchNoChange}
	}
	size := o.subtreeSize(i)
	o.swapSubtrees(pi, i)
	return Patch{Diff: PatchMove, Start: pi, Count: (i - pi) + size}
}

// MoveNoteDown swaps n's subtree with the following sibling subtree.
// No-op when n is the last child of its parent or not in the Outline.
func (o *Outline) MoveNoteDown(n *Note) Patch {
	i := o.indexOf(n)
	if i < 0 {
		return Patch{Diff: PatchNoChange}
	}
	size := o.subtreeSize(i)
	ni := i + size
	if ni >= len(o.notes) || o.notes[ni].Depth != n.Depth {
		return Patch{Diff: PatchNoChange}
	}
	next := o.subtreeSize(ni)
	o.swapSubtrees(i, ni)
	return Patch{Diff: PatchMove, Start: i, Count: size + next}
}

// MoveNoteToFirst moves n's subtree to the head of the sequence and
// promotes it to top level.
func (o *Outline) MoveNoteToFirst(n *Note) Patch {
	i := o.indexOf(n)
	if i < 0 || i == 0 {
		return Patch{Diff: PatchNoChange}
	}
	size := o.subtreeSize(i)
	group := o.detach(i, size)
	shiftDepth(group, -n.Depth)
	o.AddNotes(group, 0)
	return Patch{Diff: PatchMove, Start: 0, Count: i + size}
}

// MoveNoteToLast moves n's subtree to the tail of the sequence and
// promotes it to top level.
func (o *Outline) MoveNoteToLast(n *Note) Patch {
	i := o.indexOf(n)
	if i < 0 {
		return Patch{Diff: PatchNoChange}
	}
	size := o.subtreeSize(i)
	if i+size == len(o.notes) && n.Depth == 0 {
		return Patch{Diff: PatchNoChange}
	}
	group := o.detach(i, size)
	shiftDepth(group, -n.Depth)
	o.AddNotes(group, len(o.notes))
	return Patch{Diff: PatchMove, Start: i, Count: len(o.notes) - i}
}

// PromoteNote lifts n's subtree one level up. No-op at top level.
func (o *Outline) PromoteNote(n *Note) Patch {
	i := o.indexOf(n)
	if i < 0 || n.Depth == 0 {
		return Patch{Diff: PatchNoChange}
	}
	size := o.subtreeSize(i)
	shiftDepth(o.notes[i:i+size], -1)
	return Patch{Diff: PatchDepthChange, Start: i, Count: size}
}

// DemoteNote pushes n's subtree one level down, making it a child of the
// preceding sibling. No-op when there is no preceding sibling.
func (o *Outline) DemoteNote(n *Note) Patch {
	i := o.indexOf(n)
	if i < 0 || o.prevSiblingIndex(i) < 0 {
		return Patch{Diff: PatchNoChange}
	}
	size := o.subtreeSize(i)
	shiftDepth(o.notes[i:i+size], 1)
	return Patch{Diff: PatchDepthChange, Start: i, Count: size}
}

// prevSiblingIndex returns the index of the nearest preceding Note at the
// same depth, stopping at any shallower Note (the parent boundary).
// Returns -1 when i has no preceding sibling.
func (o *Outline) prevSiblingIndex(i int) int {
	depth := o.notes[i].Depth
	for j := i - 1; j >= 0; j-- {
		if o.notes[j].Depth < depth {
			return -1
		}
		if o.notes[j].Depth == depth {
			return j
		}
	}
	return -1
}

// swapSubtrees exchanges the adjacent subtrees rooted at indexes a and b,
// a < b. The subtrees must be siblings.
func (o *Outline) swapSubtrees(a, b int) {
	sizeA := o.subtreeSize(a)
	sizeB := o.subtreeSize(b)
	merged := make([]*Note, 0, sizeA+sizeB)
	merged = append(merged, o.notes[b:b+sizeB]...)
	merged = append(merged, o.notes[a:a+sizeA]...)
	copy(o.notes[a:], merged)
}

// detach removes size Notes starting at index i and returns them without
// clearing their back-references; the caller re-inserts them immediately.
func (o *Outline) detach(i, size int) []*Note {
	group := make([]*Note, size)
	copy(group, o.notes[i:i+size])
	o.notes = append(o.notes[:i], o.notes[i+size:]...)
	return group
}

func shiftDepth(ns []*Note, by int) {
	for _, n := range ns {
		n.Depth += by
		if n.Depth < 0 {
			n.Depth = 0
		}
	}
}
