package task

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeNowPlusSecond() time.Time {
	return time.Now().Add(time.Second)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "fleet_tasks.json"))
}

func TestAddToggleSurvivesReload(t *testing.T) {
	s := newTestStore(t)

	item, err := s.Add("api", "write tests")
	require.NoError(t, err)
	require.NoError(t, s.Toggle("api", item.ID))

	// A fresh store reading the same document sees the identical list.
	reloaded := NewStore(s.Path())
	items := reloaded.List("api")
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
	assert.Equal(t, "write tests", items[0].Text)
	assert.True(t, items[0].Done)
}

func TestAddSurfacesPersistFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet_tasks.json")
	s := NewStore(path)

	// Occupy the document path with a directory so the atomic rename can
	// never land, on the first write or the retry.
	require.NoError(t, os.Mkdir(path, 0o755))

	item, err := s.Add("api", "doomed")
	require.Error(t, err)
	assert.Nil(t, item)
	assert.Contains(t, err.Error(), "persist task document")
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	for _, text := range []string{"first", "second", "third"} {
		_, err := s.Add("api", text)
		require.NoError(t, err)
	}

	items := s.List("api")
	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Text)
	assert.Equal(t, "second", items[1].Text)
	assert.Equal(t, "third", items[2].Text)

	// Deleting the middle item keeps the others in order.
	require.NoError(t, s.Delete("api", items[1].ID))
	items = s.List("api")
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Text)
	assert.Equal(t, "third", items[1].Text)
}

func TestToggleUnknownID(t *testing.T) {
	s := newTestStore(t)
	assert.ErrorIs(t, s.Toggle("api", "nope"), ErrNotFound)
	assert.ErrorIs(t, s.Delete("api", "nope"), ErrNotFound)
}

func TestListsAreIndependentPerWorkspace(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("api", "api task")
	require.NoError(t, err)
	_, err = s.Add("web", "web task")
	require.NoError(t, err)

	assert.Len(t, s.List("api"), 1)
	assert.Len(t, s.List("web"), 1)
	assert.Empty(t, s.List("other"))
	assert.Equal(t, []string{"api", "web"}, s.Workspaces())
}

func TestMalformedDocumentDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet_tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(path)
	assert.Empty(t, s.Workspaces())

	// The store still works after degrading.
	_, err := s.Add("api", "recovered")
	require.NoError(t, err)
	assert.Len(t, NewStore(path).List("api"), 1)
}

func TestMutationLeavesNoTempFile(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("api", "x")
	require.NoError(t, err)

	_, statErr := os.Stat(s.Path() + ".tmp")
	assert.True(t, os.IsNotExist(statErr), "temp file must be renamed into place")
}

func TestListReturnsCopies(t *testing.T) {
	s := newTestStore(t)
	item, err := s.Add("api", "original")
	require.NoError(t, err)

	s.List("api")[0].Text = "mutated"
	assert.Equal(t, "original", s.List("api")[0].Text)
	_ = item
}

func TestReloadIfChanged(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("api", "mine")
	require.NoError(t, err)

	// No external change: nothing to do.
	assert.False(t, s.ReloadIfChanged())

	// Simulate an external writer (the CLI) updating the document.
	other := NewStore(s.Path())
	_, err = other.Add("api", "from cli")
	require.NoError(t, err)

	// Force a distinguishable mtime even on coarse filesystems.
	future := timeNowPlusSecond()
	require.NoError(t, os.Chtimes(s.Path(), future, future))

	assert.True(t, s.ReloadIfChanged())
	assert.Len(t, s.List("api"), 2)
}
