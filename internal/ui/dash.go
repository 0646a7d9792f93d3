// Package ui renders the fleet dashboard: one card per tracked agent,
// driven by registry reconciliation ticks and log-sink activity events.
package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/asheshgoplani/fleet-deck/internal/config"
	"github.com/asheshgoplani/fleet-deck/internal/fleet"
	"github.com/asheshgoplani/fleet-deck/internal/task"
	"github.com/asheshgoplani/fleet-deck/internal/tmux"
)

// Minimum terminal size the grid can render in.
const (
	minTerminalWidth  = 40
	minTerminalHeight = 12
)

// noticeTTL is how long an inline notice (send result, persistence error)
// stays visible.
const noticeTTL = 5 * time.Second

// quickCommands maps each agent tool to its context-compression and
// clear-conversation commands.
var quickCommands = map[string]struct{ compress, clear string }{
	config.ToolClaude: {compress: "/compact", clear: "/clear"},
	config.ToolGemini: {compress: "/compress", clear: "/clear"},
}

// focusArea tracks which element owns keyboard input.
type focusArea int

const (
	focusFleet focusArea = iota
	focusTaskInput
	focusCommandInput
)

// Messages.
type tickMsg time.Time

// sinkActivityMsg signals that a log sink was written; reconcile now
// instead of waiting for the next tick.
type sinkActivityMsg struct{}

// commandSentMsg reports the outcome of forwarding a command to an agent.
type commandSentMsg struct {
	workspace string
	command   string
	err       error
}

// Dash is the dashboard model. It owns the registry and task store for its
// whole lifetime and drives all monitoring from the bubbletea loop: the
// reconcile tick, sink watches, and rendering are cooperative, with no
// goroutine per sink.
type Dash struct {
	width  int
	height int

	cfg      *config.Config
	registry *fleet.Registry
	tasks    *task.Store
	backend  tmux.Backend

	cursor     int // selected card index into registry.Agents()
	taskCursor int // selected task within the selected card
	focus      focusArea

	taskInput textinput.Model
	cmdInput  textinput.Model

	notice   string
	noticeAt time.Time

	watcher  *tmux.LogWatcher
	activity chan struct{}
}

// NewDash creates the dashboard model. A failing log-directory watcher is
// downgraded to tick-only refresh, never a startup failure.
func NewDash(cfg *config.Config, registry *fleet.Registry, tasks *task.Store, backend tmux.Backend) *Dash {
	taskInput := textinput.New()
	taskInput.Placeholder = "new task"
	taskInput.CharLimit = 200

	cmdInput := textinput.New()
	cmdInput.Placeholder = "command for agent"
	cmdInput.CharLimit = 200

	d := &Dash{
		cfg:       cfg,
		registry:  registry,
		tasks:     tasks,
		backend:   backend,
		taskInput: taskInput,
		cmdInput:  cmdInput,
		activity:  make(chan struct{}, 1),
	}

	watcher, err := tmux.NewLogWatcher(cfg.Fleet.LogDir, func(string) {
		select {
		case d.activity <- struct{}{}:
		default:
		}
	})
	if err != nil {
		log.Printf("[DASH] log watcher unavailable, falling back to polling: %v", err)
	} else {
		d.watcher = watcher
		go d.watcher.Start()
	}

	return d
}

// Close releases the watcher. Called when the program exits.
func (d *Dash) Close() {
	if d.watcher != nil {
		_ = d.watcher.Close()
	}
}

func (d *Dash) tick() tea.Cmd {
	return tea.Tick(time.Duration(d.cfg.Dashboard.TickSeconds)*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (d *Dash) waitActivity() tea.Cmd {
	return func() tea.Msg {
		<-d.activity
		return sinkActivityMsg{}
	}
}

// Init implements tea.Model.
func (d *Dash) Init() tea.Cmd {
	d.registry.Reconcile()
	return tea.Batch(d.tick(), d.waitActivity())
}

// Update implements tea.Model.
func (d *Dash) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case tickMsg:
		d.registry.Reconcile()
		if d.tasks.ReloadIfChanged() {
			d.clampTaskCursor()
		}
		d.clampCursor()
		if d.notice != "" && time.Since(d.noticeAt) > noticeTTL {
			d.notice = ""
		}
		return d, d.tick()

	case sinkActivityMsg:
		d.registry.Reconcile()
		d.clampCursor()
		return d, d.waitActivity()

	case commandSentMsg:
		if msg.err != nil {
			d.setNotice(fmt.Sprintf("Error: %v", msg.err))
		} else {
			d.setNotice(fmt.Sprintf("Sent %s to %s", msg.command, msg.workspace))
		}
		return d, nil

	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	return d, nil
}

func (d *Dash) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch d.focus {
	case focusTaskInput:
		return d.handleTaskInputKey(msg)
	case focusCommandInput:
		return d.handleCommandInputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		d.Close()
		return d, tea.Quit
	case "j", "down":
		d.cursor++
		d.clampCursor()
		d.taskCursor = 0
	case "k", "up":
		d.cursor--
		d.clampCursor()
		d.taskCursor = 0
	case "J":
		d.taskCursor++
		d.clampTaskCursor()
	case "K":
		d.taskCursor--
		d.clampTaskCursor()
	case "a":
		if d.selectedAgent() != nil {
			d.focus = focusTaskInput
			d.taskInput.Reset()
			return d, d.taskInput.Focus()
		}
	case "t":
		d.toggleSelectedTask()
	case "d":
		d.deleteSelectedTask()
	case ":":
		if d.selectedAgent() != nil {
			d.focus = focusCommandInput
			d.cmdInput.Reset()
			return d, d.cmdInput.Focus()
		}
	case "1":
		return d, d.sendQuickCommand(func(c struct{ compress, clear string }) string { return c.compress })
	case "2":
		return d, d.sendQuickCommand(func(c struct{ compress, clear string }) string { return c.clear })
	case "r":
		d.registry.Reconcile()
		d.tasks.Reload()
		d.clampCursor()
		d.clampTaskCursor()
	}
	return d, nil
}

func (d *Dash) handleTaskInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.focus = focusFleet
		d.taskInput.Blur()
		return d, nil
	case "enter":
		text := strings.TrimSpace(d.taskInput.Value())
		d.focus = focusFleet
		d.taskInput.Blur()
		if text == "" {
			return d, nil
		}
		agent := d.selectedAgent()
		if agent == nil {
			return d, nil
		}
		if _, err := d.tasks.Add(agent.Workspace, text); err != nil {
			// Persistence failures surface to the operator; the
			// dashboard keeps running.
			d.setNotice(fmt.Sprintf("Error: %v", err))
		}
		return d, nil
	}
	var cmd tea.Cmd
	d.taskInput, cmd = d.taskInput.Update(msg)
	return d, cmd
}

func (d *Dash) handleCommandInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.focus = focusFleet
		d.cmdInput.Blur()
		return d, nil
	case "enter":
		text := strings.TrimSpace(d.cmdInput.Value())
		d.focus = focusFleet
		d.cmdInput.Blur()
		if text == "" {
			return d, nil
		}
		return d, d.sendToAgent(text)
	}
	var cmd tea.Cmd
	d.cmdInput, cmd = d.cmdInput.Update(msg)
	return d, cmd
}

func (d *Dash) sendQuickCommand(pick func(struct{ compress, clear string }) string) tea.Cmd {
	agent := d.selectedAgent()
	if agent == nil {
		return nil
	}
	commands, ok := quickCommands[agent.Tool]
	if !ok {
		commands = quickCommands[config.ToolGemini]
	}
	return d.sendToAgent(pick(commands))
}

// sendToAgent forwards a command line to the selected agent's session.
func (d *Dash) sendToAgent(command string) tea.Cmd {
	agent := d.selectedAgent()
	if agent == nil {
		return nil
	}
	workspace := agent.Workspace
	backend := d.backend
	return func() tea.Msg {
		sessions, err := backend.ListSessions()
		if err != nil {
			return commandSentMsg{workspace: workspace, command: command, err: err}
		}
		name, ok := findSessionFor(workspace, sessions)
		if !ok {
			return commandSentMsg{
				workspace: workspace,
				command:   command,
				err:       fmt.Errorf("session for %q not found", workspace),
			}
		}
		err = backend.SendText(name, command)
		return commandSentMsg{workspace: workspace, command: command, err: err}
	}
}

// findSessionFor matches a workspace to a backend session name. Session
// names embed the sanitized workspace name, so a substring match on the
// normalized forms is enough.
func findSessionFor(workspace string, sessions []string) (string, bool) {
	target := strings.ToLower(fleet.SanitizeName(workspace))
	alt := strings.ReplaceAll(strings.ToLower(workspace), "_", "-")
	for _, name := range sessions {
		lower := strings.ToLower(name)
		if strings.Contains(lower, target) || strings.Contains(lower, alt) ||
			strings.Contains(lower, strings.ToLower(workspace)) {
			return name, true
		}
	}
	return "", false
}

func (d *Dash) selectedAgent() *fleet.AgentState {
	agents := d.registry.Agents()
	if len(agents) == 0 || d.cursor < 0 || d.cursor >= len(agents) {
		return nil
	}
	return agents[d.cursor]
}

func (d *Dash) toggleSelectedTask() {
	agent := d.selectedAgent()
	if agent == nil {
		return
	}
	items := d.tasks.List(agent.Workspace)
	if d.taskCursor < 0 || d.taskCursor >= len(items) {
		return
	}
	if err := d.tasks.Toggle(agent.Workspace, items[d.taskCursor].ID); err != nil {
		d.setNotice(fmt.Sprintf("Error: %v", err))
	}
}

func (d *Dash) deleteSelectedTask() {
	agent := d.selectedAgent()
	if agent == nil {
		return
	}
	items := d.tasks.List(agent.Workspace)
	if d.taskCursor < 0 || d.taskCursor >= len(items) {
		return
	}
	if err := d.tasks.Delete(agent.Workspace, items[d.taskCursor].ID); err != nil {
		d.setNotice(fmt.Sprintf("Error: %v", err))
	}
	d.clampTaskCursor()
}

func (d *Dash) clampCursor() {
	n := d.registry.Len()
	if n == 0 {
		d.cursor = 0
		return
	}
	if d.cursor >= n {
		d.cursor = n - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
}

func (d *Dash) clampTaskCursor() {
	agent := d.selectedAgent()
	if agent == nil {
		d.taskCursor = 0
		return
	}
	n := len(d.tasks.List(agent.Workspace))
	if n == 0 {
		d.taskCursor = 0
		return
	}
	if d.taskCursor >= n {
		d.taskCursor = n - 1
	}
	if d.taskCursor < 0 {
		d.taskCursor = 0
	}
}

func (d *Dash) setNotice(text string) {
	d.notice = text
	d.noticeAt = time.Now()
}
