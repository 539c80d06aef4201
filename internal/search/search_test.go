package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/timescope"
)

func planOutline() *model.Outline {
	o := &model.Outline{Key: "plan", Name: "Project Plan", Modified: time.Now().UTC()}
	o.AddNote(&model.Note{Name: "Kickoff", Description: []string{"schedule the kickoff"}, Modified: time.Now().UTC()}, 0)
	o.AddNote(&model.Note{Name: "Budget", Description: []string{"numbers"}, Modified: time.Now().UTC()}, 1)
	return o
}

func TestCaseInsensitiveFindsFoldedName(t *testing.T) {
	o := planOutline()
	result := FindNotes(nil, "project", true, []*model.Outline{o}, nil)
	require.Len(t, result, 1)
	assert.Equal(t, "Project Plan", result[0].Name)
	assert.Same(t, o, result[0].Outline())
}

func TestCaseSensitiveMissesFoldedName(t *testing.T) {
	o := planOutline()
	result := FindNotes(nil, "project", false, []*model.Outline{o}, nil)
	assert.Empty(t, result)
}

func TestOutlineContributesAtMostOneDescriptor(t *testing.T) {
	o := planOutline()
	// name and every description paragraph match
	o.Description = []string{"plan early", "plan often"}
	result := FindNotes(nil, "Plan", false, []*model.Outline{o}, nil)
	require.Len(t, result, 1)
	assert.Equal(t, o.Name, result[0].Name)
}

func TestNoteMatchesNameThenDescription(t *testing.T) {
	o := planOutline()
	result := FindNotes(nil, "kickoff", true, []*model.Outline{o}, nil)
	// note matches on both its name and a description paragraph, reported once
	require.Len(t, result, 1)
	assert.Equal(t, "Kickoff", result[0].Name)
}

func TestDiscoveryOrderDescriptorFirst(t *testing.T) {
	o := planOutline()
	o.Notes()[0].Description = []string{"the plan in detail"}
	result := FindNotes(nil, "plan", true, []*model.Outline{o}, nil)
	require.Len(t, result, 2)
	assert.Equal(t, "Project Plan", result[0].Name)
	assert.Equal(t, "Kickoff", result[1].Name)
}

func TestTimeScopeHidesNotes(t *testing.T) {
	o := planOutline()
	o.Notes()[0].Modified = time.Now().UTC().Add(-48 * time.Hour)

	var scope timescope.Aspect
	scope.Enable(time.Now().UTC().Add(-time.Hour))

	result := FindNotes(nil, "kickoff", true, []*model.Outline{o}, &scope)
	assert.Empty(t, result)
}

func TestTimeScopeHidesOutlines(t *testing.T) {
	o := planOutline()
	o.Modified = time.Now().UTC().Add(-48 * time.Hour)

	var scope timescope.Aspect
	scope.Enable(time.Now().UTC().Add(-time.Hour))

	assert.Empty(t, FindNotes(nil, "plan", true, []*model.Outline{o}, &scope))
}

func TestAccumulatesAcrossOutlines(t *testing.T) {
	a := planOutline()
	b := &model.Outline{Key: "b", Name: "Plan B", Modified: time.Now().UTC()}
	result := FindNotes(nil, "plan", true, []*model.Outline{a, b}, nil)
	require.Len(t, result, 2)
	assert.Equal(t, "Project Plan", result[0].Name)
	assert.Equal(t, "Plan B", result[1].Name)
}

func TestOutlinesByNameExactOnly(t *testing.T) {
	a := planOutline()
	b := &model.Outline{Key: "b", Name: "Project"}

	got := OutlinesByName([]*model.Outline{a, b}, "Project")
	require.Len(t, got, 1)
	assert.Same(t, b, got[0])

	assert.Empty(t, OutlinesByName([]*model.Outline{a, b}, ""))
	assert.Empty(t, OutlinesByName([]*model.Outline{a, b}, "project"))
}
