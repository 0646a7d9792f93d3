// Package tmux hosts agent sessions in a terminal multiplexer and watches
// the log directory their output is captured into.
//
// Everything the rest of the system needs from the multiplexer goes through
// the narrow Backend interface, so the controller and dashboard stay
// backend-agnostic and testable with a fake.
package tmux

// Backend abstracts the session backend hosting agent processes.
type Backend interface {
	// CreateSession starts a detached session named name, in workdir,
	// running command (argv form) with extra environment variables.
	CreateSession(name, workdir string, command []string, env map[string]string) error

	// KillSession terminates a session. Killing a session that does not
	// exist is not an error.
	KillSession(name string) error

	// HasSession reports whether a session with the given name exists.
	HasSession(name string) bool

	// BindOutputCapture appends all of the session's terminal output to
	// the sink file for the session's remaining lifetime.
	BindOutputCapture(name, sinkPath string) error

	// SendText types a line of text into the session and submits it.
	SendText(name, text string) error

	// ListSessions returns the names of all live sessions.
	ListSessions() ([]string, error)

	// AttachCommand returns the shell command an operator runs to attach
	// to the session manually.
	AttachCommand(name string) string
}
