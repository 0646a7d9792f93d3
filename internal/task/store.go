// Package task keeps durable per-workspace todo lists. The lists live in a
// single JSON document, independent of any agent session's lifetime, so
// they survive relaunches keyed by workspace name.
package task

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Item is one todo entry in a workspace task list.
type Item struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNotFound is returned when an item id is not present in the list.
var ErrNotFound = fmt.Errorf("task not found")

// Store maps workspace name to an ordered task list, backed by one JSON
// document. Every mutation rewrites the document atomically (write to a
// temporary file, then rename into place), so a crash mid-write never
// leaves a half-written document visible.
type Store struct {
	mu    sync.Mutex
	path  string
	lists map[string][]*Item

	// mtime of the document at last load/save, for cheap external
	// change detection.
	loadedAt time.Time
}

// NewStore creates a store backed by the document at path and loads it.
// An unreadable or malformed document degrades to an empty store; it never
// aborts startup.
func NewStore(path string) *Store {
	s := &Store{path: path, lists: make(map[string][]*Item)}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s
}

// Path returns the backing document path.
func (s *Store) Path() string { return s.path }

// List returns a copy of the ordered task list for a workspace.
func (s *Store) List(workspace string) []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.lists[workspace]
	out := make([]*Item, len(items))
	for i, it := range items {
		copied := *it
		out[i] = &copied
	}
	return out
}

// Workspaces returns the workspace names that have task lists, sorted.
func (s *Store) Workspaces() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.lists))
	for name := range s.lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add appends a new item with a fresh id to the workspace's list and
// persists the document.
func (s *Store) Add(workspace, text string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &Item{
		ID:        uuid.NewString(),
		Text:      text,
		Done:      false,
		CreatedAt: time.Now().UTC(),
	}
	s.lists[workspace] = append(s.lists[workspace], item)
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	copied := *item
	return &copied, nil
}

// Toggle flips an item's done flag and persists the document.
func (s *Store) Toggle(workspace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.lists[workspace] {
		if it.ID == id {
			it.Done = !it.Done
			return s.persistLocked()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes an item from the workspace's list and persists the
// document. Insertion order of the remaining items is preserved.
func (s *Store) Delete(workspace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.lists[workspace]
	for i, it := range items {
		if it.ID == id {
			s.lists[workspace] = append(items[:i], items[i+1:]...)
			if len(s.lists[workspace]) == 0 {
				delete(s.lists, workspace)
			}
			return s.persistLocked()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Reload re-reads the document from disk, replacing in-memory state.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
}

// ReloadIfChanged re-reads the document only if its mtime moved since the
// last load or save. Returns true if a reload happened. Lets the dashboard
// pick up CLI edits without watching the file.
func (s *Store) ReloadIfChanged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fi, err := os.Stat(s.path)
	if err != nil {
		return false
	}
	if !fi.ModTime().After(s.loadedAt) {
		return false
	}
	s.loadLocked()
	return true
}

func (s *Store) loadLocked() {
	s.lists = make(map[string][]*Item)

	fi, err := os.Stat(s.path)
	if err == nil {
		s.loadedAt = fi.ModTime()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var lists map[string][]*Item
	if err := json.Unmarshal(data, &lists); err != nil {
		// Malformed document: degrade to empty rather than abort.
		return
	}
	if lists != nil {
		s.lists = lists
	}
}

// persistLocked writes the document atomically. A failed rewrite is
// retried once before the error is surfaced. Must be called with s.mu held.
func (s *Store) persistLocked() error {
	err := s.writeLocked()
	if err != nil {
		err = s.writeLocked()
	}
	if err != nil {
		return fmt.Errorf("persist task document: %w", err)
	}
	if fi, statErr := os.Stat(s.path); statErr == nil {
		s.loadedAt = fi.ModTime()
	}
	return nil
}

func (s *Store) writeLocked() error {
	data, err := json.MarshalIndent(s.lists, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task document: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write task document: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename task document: %w", err)
	}
	return nil
}
