package memory

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindkeep/mindkeep/internal/model"
	"github.com/mindkeep/mindkeep/internal/store"
	"github.com/mindkeep/mindkeep/internal/timescope"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "mem.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s)
}

func rememberOutline(t *testing.T, m *Memory, name string) *model.Outline {
	t.Helper()
	o := &model.Outline{
		Key:      m.CreateOutlineKey(name),
		Name:     name,
		Type:     "outline",
		Created:  time.Now().UTC(),
		Modified: time.Now().UTC(),
	}
	o.AddNote(&model.Note{Name: name + " note", Type: "note", Modified: time.Now().UTC()}, 0)
	require.NoError(t, m.Remember(context.Background(), o))
	return o
}

func TestRememberAndLookup(t *testing.T) {
	m := newTestMemory(t)
	o := rememberOutline(t, m, "Project Plan")

	assert.Same(t, o, m.Outline(o.Key))
	assert.Equal(t, 1, m.OutlineCount())

	// remembering again does not duplicate
	require.NoError(t, m.Remember(context.Background(), o))
	assert.Equal(t, 1, m.OutlineCount())
}

func TestLearnReloadsFromStore(t *testing.T) {
	m := newTestMemory(t)
	o := rememberOutline(t, m, "Kept")

	m.Amnesia()
	assert.Equal(t, 0, m.OutlineCount())

	require.NoError(t, m.Learn(context.Background()))
	require.Equal(t, 1, m.OutlineCount())
	loaded := m.Outline(o.Key)
	require.NotNil(t, loaded)
	assert.Equal(t, "Kept", loaded.Name)
	assert.Equal(t, 1, loaded.NoteCount())
}

func TestForgetRemovesFromActiveNamespace(t *testing.T) {
	m := newTestMemory(t)
	o := rememberOutline(t, m, "Doomed")
	key := o.Key

	m.Forget(o)
	assert.Nil(t, m.Outline(key))
	assert.Equal(t, 0, m.OutlineCount())
}

func TestCreateOutlineKey(t *testing.T) {
	m := newTestMemory(t)
	k1 := m.CreateOutlineKey("My Great Plan!")
	k2 := m.CreateOutlineKey("My Great Plan!")

	assert.True(t, strings.HasPrefix(k1, "my-great-plan-"), k1)
	assert.NotEqual(t, k1, k2)

	limbo := m.CreateLimboKey("My Great Plan!")
	assert.True(t, strings.HasPrefix(limbo, store.LimboPrefix), limbo)
}

func TestCreateOutlineKeyEmptyName(t *testing.T) {
	m := newTestMemory(t)
	k := m.CreateOutlineKey("!!!")
	assert.True(t, strings.HasPrefix(k, "outline-"), k)
}

func TestAllNotesHonorsTimeScope(t *testing.T) {
	m := newTestMemory(t)
	o := rememberOutline(t, m, "Scoped")
	old := &model.Note{Name: "ancient", Type: "note", Modified: time.Now().UTC().Add(-48 * time.Hour)}
	o.AddNote(old, o.NoteCount())

	assert.Len(t, m.AllNotes(), 2)

	var aspect timescope.Aspect
	aspect.Enable(time.Now().UTC().Add(-time.Hour))
	m.SetTimeScope(&aspect)

	notes := m.AllNotes()
	require.Len(t, notes, 1)
	assert.NotEqual(t, "ancient", notes[0].Name)
}
