// Package search implements the stateless full-text scan over memory
// contents. One normalization-parameterized matcher serves both the
// case-sensitive and case-insensitive modes.
package search

import (
	"strings"

	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/timescope"
)

// matcher checks substring containment, optionally case-folded.
type matcher struct {
	query string
	fold  bool
}

func newMatcher(query string, ignoreCase bool) matcher {
	if ignoreCase {
		query = strings.ToLower(query)
	}
	return matcher{query: query, fold: ignoreCase}
}

func (m matcher) match(s string) bool {
	if m.fold {
		s = strings.ToLower(s)
	}
	return strings.Contains(s, m.query)
}

// matchAny reports whether any block matches, stopping at the first hit.
func (m matcher) matchAny(blocks []string) bool {
	for _, b := range blocks {
		if m.match(b) {
			return true
		}
	}
	return false
}

// FindNotes appends matching notes from the given outlines to dst and
// returns it. An outline contributes at most one match record for itself,
// represented by its descriptor note, followed by its matching notes.
// Outlines and notes out of the time scope are invisible even when their
// text matches.
func FindNotes(dst []*model.Note, query string, ignoreCase bool, outlines []*model.Outline, scope *timescope.Aspect) []*model.Note {
	m := newMatcher(query, ignoreCase)
	for _, o := range outlines {
		dst = scanOutline(dst, m, o, scope)
	}
	return dst
}

func scanOutline(dst []*model.Note, m matcher, o *model.Outline, scope *timescope.Aspect) []*model.Note {
	if scope.Enabled() && !scope.InScopeOutline(o) {
		return dst
	}
	if m.match(o.Name) || m.matchAny(o.Description) {
		dst = append(dst, o.DescriptorNote())
	}
	for _, n := range o.Notes() {
		if scope.Enabled() && !scope.InScopeNote(n) {
			continue
		}
		if m.match(n.Name) || m.matchAny(n.Description) {
			dst = append(dst, n)
		}
	}
	return dst
}

// OutlinesByName returns every outline whose name equals the query string
// verbatim. This is a narrower operation than its full-text sibling: no
// substring or pattern semantics.
func OutlinesByName(outlines []*model.Outline, name string) []*model.Outline {
	var result []*model.Outline
	if name == "" {
		return result
	}
	for _, o := range outlines {
		if o.Name == name {
			result = append(result, o)
		}
	}
	return result
}
