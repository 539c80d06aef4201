// Package timescope implements the optional temporal visibility filter.
// When enabled, outlines and notes whose modification time falls before the
// threshold are invisible to listings and search, without touching the
// underlying memory.
package timescope

import (
	"time"

	"github.com/mindkeep/mindkeep/internal/model"
)

// Aspect is a time-based visibility predicate. The zero value is disabled.
type Aspect struct {
	enabled bool
	after   time.Time
}

// Enable activates the aspect: only entities modified at or after the given
// threshold are in scope.
func (a *Aspect) Enable(after time.Time) {
	a.enabled = true
	a.after = after
}

// Disable deactivates the aspect; everything is in scope again.
func (a *Aspect) Disable() {
	a.enabled = false
	a.after = time.Time{}
}

// Enabled reports whether the aspect is active.
func (a *Aspect) Enabled() bool {
	return a != nil && a.enabled
}

// Threshold returns the active threshold, zero when disabled.
func (a *Aspect) Threshold() time.Time {
	return a.after
}

// InScopeOutline reports whether the outline is visible under the aspect.
func (a *Aspect) InScopeOutline(o *model.Outline) bool {
	return !a.Enabled() || !o.Modified.Before(a.after)
}

// InScopeNote reports whether the note is visible under the aspect.
func (a *Aspect) InScopeNote(n *model.Note) bool {
	return !a.Enabled() || !n.Modified.Before(a.after)
}
