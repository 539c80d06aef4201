package mind

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindkeep/mindkeep/internal/assoc"
	"github.com/mindkeep/mindkeep/internal/config"
	"github.com/mindkeep/mindkeep/internal/memory"
	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/store"
)

// fakeEngine lets tests control when the dream resolves and whether the
// engine agrees to sleep.
type fakeEngine struct {
	dream       *assoc.Task
	rank        *assoc.RankTask
	refuseSleep bool
	sleeps      int
}

func (e *fakeEngine) Dream(context.Context) *assoc.Task {
	if e.dream == nil {
		return assoc.Resolved(true)
	}
	return e.dream
}

func (e *fakeEngine) Sleep() bool {
	e.sleeps++
	return !e.refuseSleep
}

func (e *fakeEngine) RankAssociations(context.Context, *model.Note) *assoc.RankTask {
	if e.rank == nil {
		t := assoc.NewRankTask()
		t.Resolve(nil)
		return t
	}
	return e.rank
}

func newTestMind(t *testing.T, engine assoc.Engine) *Mind {
	t.Helper()
	dir := t.TempDir()

	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	cfg.DBPath = filepath.Join(dir, "mind.db")

	s, err := store.NewSQLiteStore(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return New(cfg, memory.New(s), engine, zerolog.Nop())
}

func mustOutline(t *testing.T, m *Mind, name string) *model.Outline {
	t.Helper()
	key, err := m.OutlineNew(context.Background(), OutlineNewParams{Name: name})
	require.NoError(t, err)
	o := m.Outline(key)
	require.NotNil(t, o)
	return o
}

func TestThinkTransitionsThroughDream(t *testing.T) {
	engine := &fakeEngine{dream: assoc.NewTask()}
	m := newTestMind(t, engine)

	require.Equal(t, config.Sleeping, m.State())
	outer := m.Think(context.Background())
	assert.Equal(t, config.Dreaming, m.State())

	// nothing interrupts a dream
	assert.False(t, m.Sleep(context.Background()))
	assert.False(t, m.Amnesia(context.Background()))
	again, err := m.Think(context.Background()).Await(context.Background())
	require.NoError(t, err)
	assert.False(t, again)
	assert.Equal(t, config.Dreaming, m.State())

	engine.dream.Resolve(true)
	ok, err := outer.Await(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, config.Thinking, m.State())
}

func TestThinkRefusedWhileThinking(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})

	ok, err := m.Think(context.Background()).Await(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, config.Thinking, m.State())

	ok, err = m.Think(context.Background()).Await(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, config.Thinking, m.State())
}

func TestFailedDreamStillWakesThinking(t *testing.T) {
	engine := &fakeEngine{dream: assoc.NewTask()}
	m := newTestMind(t, engine)

	outer := m.Think(context.Background())
	engine.dream.Resolve(false)

	ok, err := outer.Await(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, config.Thinking, m.State())
}

func TestSleepRefusedWhileProcessesActive(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})

	m.BeginProcess()
	assert.False(t, m.Sleep(context.Background()))
	assert.False(t, m.Amnesia(context.Background()))

	m.EndProcess()
	assert.True(t, m.Sleep(context.Background()))
	assert.Equal(t, config.Sleeping, m.State())
}

func TestSleepRefusedByEngine(t *testing.T) {
	engine := &fakeEngine{refuseSleep: true}
	m := newTestMind(t, engine)

	assert.False(t, m.Sleep(context.Background()))
	assert.False(t, m.Amnesia(context.Background()))
	assert.Equal(t, 2, engine.sleeps)
}

func TestSleepClearsDerivedCaches(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	o := mustOutline(t, m, "Garden")

	require.NotEmpty(t, m.AllNotes())
	m.Remind(o.Notes()[0])
	require.Equal(t, 1, m.DwellDepth())

	require.True(t, m.Sleep(context.Background()))
	assert.Equal(t, 0, m.DwellDepth())
	assert.Nil(t, m.allNotes)
}

func TestAmnesiaWipesMemory(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	mustOutline(t, m, "One")
	mustOutline(t, m, "Two")
	require.Len(t, m.Outlines(), 2)

	require.True(t, m.Amnesia(context.Background()))
	assert.Empty(t, m.Outlines())
	assert.Empty(t, m.AllNotes())
	assert.Equal(t, config.Sleeping, m.State())
}

func TestLearnRefusedWhileProcessesActive(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	mustOutline(t, m, "Kept")

	m.BeginProcess()
	ok, err := m.Learn(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, m.Outlines(), 1)
	m.EndProcess()
}

func TestLearnReloadsFromStorage(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	o := mustOutline(t, m, "Persisted Plan")

	ok, err := m.Learn(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	reloaded := m.Outline(o.Key)
	require.NotNil(t, reloaded)
	assert.NotSame(t, o, reloaded)
	assert.Equal(t, "Persisted Plan", reloaded.Name)
}

func TestOutlineLifecycle(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})

	key, err := m.OutlineNew(context.Background(), OutlineNewParams{
		Name:       "Great Plan",
		Importance: 9,
		Tags:       []string{"todo"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "great-plan-"))

	o := m.Outline(key)
	require.NotNil(t, o)
	assert.Equal(t, MaxImportance, o.Importance)
	require.GreaterOrEqual(t, o.NoteCount(), 1)
	assert.Equal(t, "Great Plan", o.DescriptorNote().Name)

	clone, err := m.OutlineClone(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, clone)
	assert.NotEqual(t, key, clone.Key)
	assert.Equal(t, o.NoteCount(), clone.NoteCount())
	assert.Len(t, m.Outlines(), 2)

	ok, err := m.OutlineForget(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(o.Key, store.LimboPrefix))
	assert.Nil(t, m.Outline(key))
	assert.Len(t, m.Outlines(), 1)

	// unknown key is not an error
	ok, err = m.OutlineForget(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNoteRefactorMovesSubtreeAtomically(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	src := mustOutline(t, m, "Source")
	dst := mustOutline(t, m, "Target")

	parent, err := m.NoteNew(context.Background(), NoteNewParams{
		OutlineKey: src.Key, Name: "Chapter", Offset: 1, Depth: 0,
	})
	require.NoError(t, err)
	_, err = m.NoteNew(context.Background(), NoteNewParams{
		OutlineKey: src.Key, Name: "Section", Offset: 2, Depth: 2,
	})
	require.NoError(t, err)
	before := src.NoteCount()

	target, err := m.NoteRefactor(context.Background(), parent, dst.Key)
	require.NoError(t, err)
	require.Same(t, dst, target)

	assert.Equal(t, before-2, src.NoteCount())
	notes := dst.Notes()
	require.GreaterOrEqual(t, len(notes), 2)
	assert.Equal(t, "Chapter", notes[0].Name)
	assert.Equal(t, 0, notes[0].Depth)
	assert.Equal(t, "Section", notes[1].Name)
	assert.Equal(t, 2, notes[1].Depth)
	assert.Same(t, dst, notes[0].Outline())
}

func TestNoteRefactorErrors(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	o := mustOutline(t, m, "Home")
	n := o.Notes()[0]

	_, err := m.NoteRefactor(context.Background(), nil, o.Key)
	assert.ErrorIs(t, err, memory.ErrNoteWithoutOutline)

	_, err = m.NoteRefactor(context.Background(), n, "no-such-outline")
	assert.ErrorIs(t, err, memory.ErrOutlineNotFound)
}

func TestNoteReorderPersistsOnlyOnChange(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	o := mustOutline(t, m, "List")
	second, err := m.NoteNew(context.Background(), NoteNewParams{
		OutlineKey: o.Key, Name: "Second", Offset: 1,
	})
	require.NoError(t, err)

	patch, err := m.NoteUp(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, model.PatchMove, patch.Diff)
	assert.Equal(t, "Second", o.Notes()[0].Name)

	patch, err = m.NoteUp(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, model.PatchNoChange, patch.Diff)
}

func TestRemindIsBounded(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	m.dwellLimit = 3
	o := mustOutline(t, m, "Visits")

	for i := 0; i < 5; i++ {
		m.Remind(o.Notes()[0])
	}
	assert.Equal(t, 3, m.DwellDepth())

	m.Remind(nil)
	assert.Equal(t, 3, m.DwellDepth())
}

func TestTagCardinality(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	o := mustOutline(t, m, "Tagged")
	o.Tags = []string{"important"}
	_, err := m.NoteNew(context.Background(), NoteNewParams{
		OutlineKey: o.Key, Name: "Task", Offset: 1, Tags: []string{"important", "later"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, m.OutlineTagCardinality("important"))
	assert.Equal(t, 1, m.NoteTagCardinality("important"))
	assert.Equal(t, 2, m.TagCardinality("important"))
	assert.Equal(t, map[string]int{"important": 2, "later": 1}, m.Tags())
}

func TestFindNotesScoped(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	a := mustOutline(t, m, "Alpha")
	b := mustOutline(t, m, "Beta")
	_, err := m.NoteNew(context.Background(), NoteNewParams{
		OutlineKey: a.Key, Name: "Needle in alpha", Offset: 1,
	})
	require.NoError(t, err)
	_, err = m.NoteNew(context.Background(), NoteNewParams{
		OutlineKey: b.Key, Name: "Needle in beta", Offset: 1,
	})
	require.NoError(t, err)

	assert.Len(t, m.FindNotes("needle", true, ""), 2)
	assert.Len(t, m.FindNotes("needle", true, a.Key), 1)
	assert.Empty(t, m.FindNotes("needle", true, "no-such-outline"))
	assert.Empty(t, m.FindNotes("Needle in Alpha", false, ""))

	byName := m.OutlinesByName("Alpha")
	require.Len(t, byName, 1)
	assert.Same(t, a, byName[0])
}

func TestTimeScopeHidesStaleEntities(t *testing.T) {
	m := newTestMind(t, &fakeEngine{})
	o := mustOutline(t, m, "Recent")
	require.Len(t, m.Outlines(), 1)

	m.SetTimeScope(time.Now().UTC().Add(time.Hour))
	assert.Empty(t, m.Outlines())
	assert.Empty(t, m.AllNotes())
	assert.Empty(t, m.FindNotes("recent", true, ""))

	m.ClearTimeScope()
	require.Len(t, m.Outlines(), 1)
	assert.Same(t, o, m.Outlines()[0])
	assert.Equal(t, []string{"Recent"}, m.OutlineNames())
}

func TestAssociationsForCountsAsProcess(t *testing.T) {
	engine := &fakeEngine{rank: assoc.NewRankTask()}
	m := newTestMind(t, engine)
	o := mustOutline(t, m, "Ideas")

	task := m.AssociationsFor(context.Background(), o.Notes()[0])
	assert.Equal(t, 1, m.ActiveProcesses())
	assert.False(t, m.Sleep(context.Background()))

	engine.rank.Resolve([]assoc.Association{})
	_, err := task.Await(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return m.ActiveProcesses() == 0 },
		time.Second, 5*time.Millisecond)
	assert.True(t, m.Sleep(context.Background()))
}
