package tmux

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
)

// sendEnterDelay gives the agent CLI a moment to buffer typed text before
// the carriage return arrives. Sending both in one call makes some CLIs
// treat the newline as part of the text.
const sendEnterDelay = 100 * time.Millisecond

// Tmux is the tmux implementation of Backend.
type Tmux struct {
	// binary is the tmux executable name; overridable for tests.
	binary string
}

// New returns a Backend backed by the tmux binary on PATH.
func New() *Tmux {
	return &Tmux{binary: "tmux"}
}

func (t *Tmux) run(args ...string) error {
	out, err := exec.Command(t.binary, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("tmux %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}

// CreateSession starts a detached session running command in workdir.
// Environment variables are applied as a prefix on the shell command line,
// which works on every tmux version (the -e flag needs tmux >= 3.2).
func (t *Tmux) CreateSession(name, workdir string, command []string, env map[string]string) error {
	shellCmd := shellescape.QuoteCommand(command)
	if len(env) > 0 {
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var prefix []string
		for _, k := range keys {
			prefix = append(prefix, k+"="+shellescape.Quote(env[k]))
		}
		shellCmd = strings.Join(prefix, " ") + " " + shellCmd
	}
	return t.run("new-session", "-d", "-s", name, "-c", workdir, shellCmd)
}

// KillSession terminates the session. A missing session is not an error;
// relaunching must be idempotent.
func (t *Tmux) KillSession(name string) error {
	if !t.HasSession(name) {
		return nil
	}
	return t.run("kill-session", "-t", name)
}

// HasSession reports whether the named session exists.
func (t *Tmux) HasSession(name string) bool {
	return exec.Command(t.binary, "has-session", "-t", name).Run() == nil
}

// BindOutputCapture pipes the session's pane output into the sink file,
// appending for the session's entire lifetime.
func (t *Tmux) BindOutputCapture(name, sinkPath string) error {
	capture := "cat >> " + shellescape.Quote(sinkPath)
	return t.run("pipe-pane", "-o", "-t", name, capture)
}

// SendText types text into the session, waits briefly, then sends Enter.
func (t *Tmux) SendText(name, text string) error {
	if err := t.run("send-keys", "-t", name, "--", text); err != nil {
		return err
	}
	time.Sleep(sendEnterDelay)
	return t.run("send-keys", "-t", name, "C-m")
}

// ListSessions returns the names of all live tmux sessions. A tmux server
// that is not running means no sessions, not an error.
func (t *Tmux) ListSessions() ([]string, error) {
	out, err := exec.Command(t.binary, "list-sessions", "-F", "#{session_name}").Output()
	if err != nil {
		return nil, nil
	}
	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// AttachCommand returns the manual attach command for the session.
func (t *Tmux) AttachCommand(name string) string {
	return "tmux attach -t " + shellescape.Quote(name)
}
