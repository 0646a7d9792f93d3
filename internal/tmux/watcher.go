package tmux

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// logEventsPerSecond caps how often a single log file may trigger the
// change callback. Agent CLIs redraw their UI constantly; without this the
// dashboard would reconcile on every repaint.
const logEventsPerSecond = 20

// LogWatcher watches a log directory and invokes a callback with the
// session name (filename without the .log suffix) whenever a log file is
// created or written. Events are rate-limited per file.
type LogWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func(sessionName string)

	mu       sync.Mutex
	limiters map[string]*RateLimiter

	done      chan struct{}
	closeOnce sync.Once
}

// NewLogWatcher creates a watcher for dir. Start must be called (usually in
// a goroutine) before events are delivered.
func NewLogWatcher(dir string, onChange func(sessionName string)) (*LogWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch log directory %s: %w", dir, err)
	}
	return &LogWatcher{
		watcher:  fw,
		onChange: onChange,
		limiters: make(map[string]*RateLimiter),
		done:     make(chan struct{}),
	}, nil
}

// Start processes filesystem events until Close is called. It blocks.
func (w *LogWatcher) Start() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			base := filepath.Base(ev.Name)
			if !strings.HasSuffix(base, ".log") {
				continue
			}
			session := strings.TrimSuffix(base, ".log")
			w.limiterFor(session).Coalesce(func() {
				w.onChange(session)
			})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[WATCHER] watch error: %v", err)
		}
	}
}

// Close stops the watcher. Safe to call more than once.
func (w *LogWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *LogWatcher) limiterFor(session string) *RateLimiter {
	w.mu.Lock()
	defer w.mu.Unlock()

	rl, ok := w.limiters[session]
	if !ok {
		rl = NewRateLimiter(logEventsPerSecond)
		w.limiters[session] = rl
	}
	return rl
}
