package fleet

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/asheshgoplani/fleet-deck/internal/config"
	"github.com/asheshgoplani/fleet-deck/internal/protocol"
	"github.com/asheshgoplani/fleet-deck/internal/tmux"
)

// Session is the record the controller returns for each created agent
// session.
type Session struct {
	Workspace     Workspace
	Tool          string
	Name          string
	SinkPath      string
	AttachCommand string
}

// LaunchOptions configure one controller run.
type LaunchOptions struct {
	// Root is the directory whose immediate subdirectories become
	// workspaces.
	Root string
	// Tool selects the agent program (config.ToolClaude or
	// config.ToolGemini).
	Tool string
	// MaxAgents caps how many sessions are created. Workspaces beyond
	// the cap, in lexicographic order, are skipped.
	MaxAgents int
	// LogDir is where log sinks are created.
	LogDir string
	// OpenWindows controls whether an operator terminal is opened per
	// session. Failures are advisory either way.
	OpenWindows bool
}

// Controller turns workspaces into running agent sessions bound to log
// sinks. It is a separate process from the dashboard; the two share only
// the filesystem and the backend's session table.
type Controller struct {
	backend tmux.Backend
	opts    LaunchOptions

	// openWindow is swappable for tests.
	openWindow func(attachCmd string) error
}

// NewController creates a controller over the given backend.
func NewController(backend tmux.Backend, opts LaunchOptions) *Controller {
	return &Controller{
		backend:    backend,
		opts:       opts,
		openWindow: tmux.OpenTerminalWindow,
	}
}

// Launch discovers workspaces and creates one agent session per workspace,
// up to the cap. A root with zero workspaces is fatal (ErrNoWorkspaces);
// window-spawn failures are logged and processing continues.
func (c *Controller) Launch() ([]Session, error) {
	workspaces, err := DiscoverWorkspaces(c.opts.Root)
	if err != nil {
		return nil, err
	}

	if len(workspaces) > c.opts.MaxAgents {
		log.Printf("[CONTROLLER] %d workspaces found, launching first %d (max_agents)",
			len(workspaces), c.opts.MaxAgents)
		workspaces = workspaces[:c.opts.MaxAgents]
	}

	// Distinct workspaces must get distinct sinks. Names that sanitize to
	// the same filename component would capture over each other, so the
	// collision is fatal before anything launches.
	sanitized := make(map[string]string, len(workspaces))
	for _, ws := range workspaces {
		key := SanitizeName(ws.Name)
		if prev, ok := sanitized[key]; ok {
			return nil, fmt.Errorf("workspaces %s and %s both map to %q; rename one", prev, ws.Name, key)
		}
		sanitized[key] = ws.Name
	}

	var sessions []Session
	for i, ws := range workspaces {
		sess, err := c.launchOne(ws, i)
		if err != nil {
			return sessions, fmt.Errorf("launch workspace %s: %w", ws.Name, err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// SessionName derives the backend session identifier for a workspace.
func SessionName(workspace string, index int) string {
	return fmt.Sprintf("fleet_%s_%d", SanitizeName(workspace), index+1)
}

func (c *Controller) launchOne(ws Workspace, index int) (Session, error) {
	name := SessionName(ws.Name, index)
	sink := SinkPath(c.opts.LogDir, c.opts.Tool, ws.Name)

	// Relaunch is idempotent: a prior session under the same identifier
	// is killed before the new one is created.
	if c.backend.HasSession(name) {
		log.Printf("[CONTROLLER] killing existing session %s", name)
		if err := c.backend.KillSession(name); err != nil {
			return Session{}, fmt.Errorf("kill existing session: %w", err)
		}
	}

	// Start the sink empty so the dashboard never replays a previous
	// run's markers.
	if err := os.WriteFile(sink, nil, 0o644); err != nil {
		return Session{}, fmt.Errorf("truncate log sink: %w", err)
	}

	command, env, err := c.agentInvocation(ws)
	if err != nil {
		return Session{}, err
	}

	if err := c.backend.CreateSession(name, ws.Path, command, env); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	if err := c.backend.BindOutputCapture(name, sink); err != nil {
		return Session{}, fmt.Errorf("bind output capture: %w", err)
	}

	attach := c.backend.AttachCommand(name)
	if c.opts.OpenWindows {
		if err := c.openWindow(attach); err != nil {
			// Advisory: headless environments have no window to open.
			log.Printf("[CONTROLLER] could not open terminal for %s: %v (attach manually: %s)",
				name, err, attach)
		}
	}

	log.Printf("[CONTROLLER] launched %s in %s, sink %s", name, ws.Path, sink)
	return Session{
		Workspace:     ws,
		Tool:          c.opts.Tool,
		Name:          name,
		SinkPath:      sink,
		AttachCommand: attach,
	}, nil
}

// agentInvocation builds the startup command and environment for the
// configured tool, injecting the status protocol through the mechanism the
// tool supports: claude takes the text as a CLI flag, gemini reads a system
// prompt file named by GEMINI_SYSTEM_MD.
func (c *Controller) agentInvocation(ws Workspace) ([]string, map[string]string, error) {
	switch c.opts.Tool {
	case config.ToolClaude:
		return []string{"claude", "--append-system-prompt", protocol.Instructions}, nil, nil
	case config.ToolGemini:
		promptPath := filepath.Join(c.opts.LogDir,
			c.opts.Tool+sinkInfix+SanitizeName(ws.Name)+".system.md")
		if err := os.WriteFile(promptPath, []byte(protocol.Instructions), 0o644); err != nil {
			return nil, nil, fmt.Errorf("write system prompt file: %w", err)
		}
		return []string{"gemini"}, map[string]string{"GEMINI_SYSTEM_MD": promptPath}, nil
	default:
		return nil, nil, fmt.Errorf("unknown tool %q", c.opts.Tool)
	}
}
