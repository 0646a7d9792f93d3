package logtail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendTo(t *testing.T, path, s string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(s)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestTailDeliversCompleteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_fleet_a.log")
	appendTo(t, path, "one\ntwo\n")

	tail := NewTail(path)
	assert.Equal(t, []string{"one", "two"}, tail.Poll())
	assert.Nil(t, tail.Poll())
}

func TestTailBuffersPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_fleet_a.log")
	tail := NewTail(path)

	appendTo(t, path, "partial")
	assert.Nil(t, tail.Poll(), "fragment must not be emitted before its terminator")

	appendTo(t, path, "rest\n")
	assert.Equal(t, []string{"partialrest"}, tail.Poll())
}

func TestTailStripsCarriageReturn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_fleet_a.log")
	appendTo(t, path, "line\r\n")

	tail := NewTail(path)
	assert.Equal(t, []string{"line"}, tail.Poll())
}

func TestTailWaitsForSinkToAppear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_fleet_a.log")
	tail := NewTail(path)

	assert.Nil(t, tail.Poll())
	assert.Nil(t, tail.Poll())

	appendTo(t, path, "hello\n")
	assert.Equal(t, []string{"hello"}, tail.Poll())
}

func TestTailTruncationReplaysFromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_fleet_a.log")
	appendTo(t, path, "first\nsecond\n")

	tail := NewTail(path)
	assert.Equal(t, []string{"first", "second"}, tail.Poll())

	// Truncate below the consumed offset, then write fresh content.
	require.NoError(t, os.WriteFile(path, []byte("rewound\n"), 0o644))
	assert.Equal(t, []string{"rewound"}, tail.Poll())
	assert.Equal(t, int64(len("rewound\n")), tail.Offset())
}

func TestTailRestartReplaysFullContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_fleet_a.log")
	appendTo(t, path, "one\ntwo\n")

	first := NewTail(path)
	assert.Equal(t, []string{"one", "two"}, first.Poll())

	// A fresh watch on the same path starts over at byte 0.
	second := NewTail(path)
	assert.Equal(t, []string{"one", "two"}, second.Poll())
}

func TestTailSinkDisappearsAndReturns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_fleet_a.log")
	appendTo(t, path, "old\n")

	tail := NewTail(path)
	assert.Equal(t, []string{"old"}, tail.Poll())

	require.NoError(t, os.Remove(path))
	assert.Nil(t, tail.Poll())

	appendTo(t, path, "new\n")
	assert.Equal(t, []string{"new"}, tail.Poll())
}

func TestTailRenameReplaceReplaysFromStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claude_fleet_a.log")
	appendTo(t, path, "one\ntwo\n")

	tail := NewTail(path)
	assert.Equal(t, []string{"one", "two"}, tail.Poll())

	// Atomic rename-replace with a file at least as large as the consumed
	// offset. Identity changed, so the new content replays from byte 0
	// rather than being read from the stale offset.
	next := filepath.Join(dir, "next.log")
	require.NoError(t, os.WriteFile(next, []byte("alpha\nbeta\ngamma\n"), 0o644))
	require.NoError(t, os.Rename(next, path))

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, tail.Poll())
	assert.Equal(t, int64(len("alpha\nbeta\ngamma\n")), tail.Offset())
}

func TestEngineWatchLifecycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "claude_fleet_a.log")
	b := filepath.Join(dir, "claude_fleet_b.log")
	appendTo(t, a, "from a\n")
	appendTo(t, b, "from b\n")

	e := NewEngine()
	e.Watch(a)
	e.Watch(b)
	assert.Equal(t, 2, e.Len())
	assert.True(t, e.Watching(a))

	out := e.PollAll()
	assert.Equal(t, []string{"from a"}, out[a])
	assert.Equal(t, []string{"from b"}, out[b])

	e.Unwatch(a)
	assert.False(t, e.Watching(a))
	appendTo(t, a, "more\n")
	assert.Nil(t, e.Poll(a))

	// An empty sink never blocks delivery for the active one.
	appendTo(t, b, "again\n")
	assert.Equal(t, []string{"again"}, e.Poll(b))
}

func TestEngineRewatchRestartsCursor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claude_fleet_a.log")
	appendTo(t, path, "one\n")

	e := NewEngine()
	e.Watch(path)
	assert.Equal(t, []string{"one"}, e.Poll(path))

	e.Watch(path)
	assert.Equal(t, []string{"one"}, e.Poll(path))
}
