package fleet

import (
	"path/filepath"
	"strings"
)

// Log sink naming convention: <tool>_fleet_<workspace>.log inside the
// configured log directory. The dashboard discovers agents purely from
// files matching this shape, which is the only coupling between the
// controller process and the monitoring process.
const (
	sinkInfix  = "_fleet_"
	sinkSuffix = ".log"
)

// SinkPath returns the log sink path for a workspace hosted by tool.
func SinkPath(logDir, tool, workspace string) string {
	return filepath.Join(logDir, tool+sinkInfix+SanitizeName(workspace)+sinkSuffix)
}

// ParseSinkName splits a sink filename into tool and workspace name.
// The tool segment never contains an underscore, so the first "_fleet_"
// is the separator. Non-conforming names report ok=false.
func ParseSinkName(filename string) (tool, workspace string, ok bool) {
	if !strings.HasSuffix(filename, sinkSuffix) {
		return "", "", false
	}
	stem := strings.TrimSuffix(filename, sinkSuffix)
	i := strings.Index(stem, sinkInfix)
	if i < 0 {
		return "", "", false
	}
	tool = stem[:i]
	workspace = stem[i+len(sinkInfix):]
	if tool == "" || workspace == "" || strings.Contains(tool, "_") {
		return "", "", false
	}
	return tool, workspace, true
}

// SanitizeName makes a workspace name safe to use as a filename and tmux
// session component. tmux rejects "." and ":" in session names.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ':', ' ', '\t':
			return '-'
		}
		return r
	}, name)
}
