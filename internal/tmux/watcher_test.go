package tmux

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogWatcher(t *testing.T) {
	logDir := t.TempDir()
	logFile := filepath.Join(logDir, "claude_fleet_api.log")

	events := make(chan string, 10)

	watcher, err := NewLogWatcher(logDir, func(sessionName string) {
		events <- sessionName
	})
	assert.NoError(t, err)
	defer watcher.Close()

	go watcher.Start()
	time.Sleep(100 * time.Millisecond)

	f, err := os.Create(logFile)
	assert.NoError(t, err)
	_, _ = f.WriteString("agent output\n")
	f.Close()

	select {
	case name := <-events:
		assert.Equal(t, "claude_fleet_api", name)
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for file event")
	}
}

func TestLogWatcherIgnoresNonLogFiles(t *testing.T) {
	logDir := t.TempDir()

	events := make(chan string, 10)
	watcher, err := NewLogWatcher(logDir, func(sessionName string) {
		events <- sessionName
	})
	assert.NoError(t, err)
	defer watcher.Close()

	go watcher.Start()
	time.Sleep(100 * time.Millisecond)

	assert.NoError(t, os.WriteFile(filepath.Join(logDir, "notes.txt"), []byte("x"), 0o644))

	select {
	case name := <-events:
		t.Fatalf("unexpected event for non-log file: %s", name)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestLogWatcher_RateLimiting(t *testing.T) {
	logDir := t.TempDir()
	logFile := filepath.Join(logDir, "claude_fleet_burst.log")

	events := make(chan bool, 100)

	watcher, err := NewLogWatcher(logDir, func(sessionName string) {
		events <- true
	})
	assert.NoError(t, err)
	defer watcher.Close()

	go watcher.Start()
	time.Sleep(100 * time.Millisecond)

	// Simulate a chatty agent: 10 writes over ~50ms.
	for i := 0; i < 10; i++ {
		err := os.WriteFile(logFile, []byte(fmt.Sprintf("log line %d\n", i)), 0o644)
		assert.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	finalCount := 0
Loop:
	for {
		select {
		case <-events:
			finalCount++
		default:
			break Loop
		}
	}

	// At 20 events/sec (50ms interval) a 50ms burst passes at most two
	// events: the immediate first one plus possibly one more on the
	// interval boundary.
	assert.LessOrEqual(t, finalCount, 2, "Expected events to be rate limited/coalesced")
}
