package fleet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkPath(t *testing.T) {
	got := SinkPath("/tmp", "claude", "web-api")
	assert.Equal(t, filepath.Join("/tmp", "claude_fleet_web-api.log"), got)
}

func TestSinkPathSanitizesWorkspaceName(t *testing.T) {
	got := SinkPath("/tmp", "claude", "my work.dir")
	assert.Equal(t, filepath.Join("/tmp", "claude_fleet_my-work-dir.log"), got)
}

func TestParseSinkName(t *testing.T) {
	tests := []struct {
		filename  string
		tool      string
		workspace string
		ok        bool
	}{
		{"claude_fleet_worktree1.log", "claude", "worktree1", true},
		{"gemini_fleet_web_api.log", "gemini", "web_api", true},
		{"claude_fleet_a.log.bak", "", "", false},
		{"no-infix.log", "", "", false},
		{"_fleet_name.log", "", "", false},
		{"claude_fleet_.log", "", "", false},
		{"two_words_fleet_x.log", "", "", false},
	}
	for _, tt := range tests {
		tool, workspace, ok := ParseSinkName(tt.filename)
		assert.Equal(t, tt.ok, ok, "filename %q", tt.filename)
		assert.Equal(t, tt.tool, tool, "filename %q", tt.filename)
		assert.Equal(t, tt.workspace, workspace, "filename %q", tt.filename)
	}
}

func TestSessionName(t *testing.T) {
	assert.Equal(t, "fleet_api_1", SessionName("api", 0))
	assert.Equal(t, "fleet_my-dir_3", SessionName("my.dir", 2))
}
