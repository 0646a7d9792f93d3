// Package fleet provisions agent sessions over isolated workspaces and
// reconciles their log sinks into a live view of per-agent state.
package fleet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoWorkspaces is returned when the root directory holds no candidate
// workspaces. Launching a fleet over nothing is a configuration error.
var ErrNoWorkspaces = errors.New("no workspaces found")

// Workspace is one isolated working directory assigned to a single agent
// session. Identity is the directory name, unique among siblings.
type Workspace struct {
	Name string
	Path string
}

// DiscoverWorkspaces lists the immediate subdirectories of root as
// candidate workspaces, in lexicographic name order. The order is part of
// the contract: when the agent cap drops workspaces, which ones are dropped
// must not depend on filesystem enumeration order. Hidden directories are
// skipped.
func DiscoverWorkspaces(root string) ([]Workspace, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read workspace root %s: %w", root, err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root %s: %w", root, err)
	}

	var workspaces []Workspace
	for _, entry := range entries { // ReadDir sorts by filename
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		workspaces = append(workspaces, Workspace{
			Name: entry.Name(),
			Path: filepath.Join(abs, entry.Name()),
		})
	}

	if len(workspaces) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoWorkspaces, abs)
	}
	return workspaces, nil
}
