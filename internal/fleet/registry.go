package fleet

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/asheshgoplani/fleet-deck/internal/logtail"
	"github.com/asheshgoplani/fleet-deck/internal/protocol"
)

// Registry reconciles the log sink directory into a live map of per-agent
// state. It is the single source of truth the dashboard renders from.
//
// The registry has an explicit lifecycle: created when the dashboard
// starts, discarded when it exits. All methods are driven from the
// dashboard's single control loop; nothing here needs locking.
type Registry struct {
	logDir string
	engine *logtail.Engine
	agents map[string]*AgentState // keyed by workspace name

	// now is swappable for tests.
	now func() time.Time
}

// NewRegistry creates an empty registry over the given sink directory.
func NewRegistry(logDir string) *Registry {
	return &Registry{
		logDir: logDir,
		engine: logtail.NewEngine(),
		agents: make(map[string]*AgentState),
		now:    time.Now,
	}
}

// Reconcile performs one tick: re-scan the sink directory, start watches
// for new sinks, drop state for vanished ones, and merge newly parsed
// markers into the surviving agents. Returns true if the set of tracked
// agents changed (the layout must be recomputed).
func (r *Registry) Reconcile() bool {
	changed := false
	found := r.scanSinks()

	// A vanished sink means the session ended: cancel its watch and
	// forget the agent. Liveness never removes anything on its own.
	for name, st := range r.agents {
		if _, ok := found[name]; !ok {
			r.engine.Unwatch(st.SinkPath)
			delete(r.agents, name)
			changed = true
			log.Printf("[REGISTRY] sink gone, dropping agent %s", name)
		}
	}

	// A new sink gets a fresh watch and a fresh Idle state. Recreating a
	// sink after removal starts over; history is not resurrected.
	for name, sink := range found {
		if _, ok := r.agents[name]; ok {
			continue
		}
		r.agents[name] = &AgentState{
			Tool:      sink.tool,
			Workspace: name,
			SinkPath:  sink.path,
		}
		r.engine.Watch(sink.path)
		changed = true
		log.Printf("[REGISTRY] tracking agent %s (%s)", name, sink.path)
	}

	// One bounded read step per sink; a stalled sink cannot starve the
	// rest of the tick.
	for _, st := range r.agents {
		for _, line := range r.engine.Poll(st.SinkPath) {
			if res := protocol.ParseLine(line); res.Kind != protocol.KindNone {
				st.ApplyMarker(res, r.now())
			}
		}
	}

	return changed
}

type sinkInfo struct {
	tool string
	path string
}

func (r *Registry) scanSinks() map[string]sinkInfo {
	found := make(map[string]sinkInfo)
	entries, err := os.ReadDir(r.logDir)
	if err != nil {
		log.Printf("[REGISTRY] read sink directory %s: %v", r.logDir, err)
		return found
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		tool, workspace, ok := ParseSinkName(entry.Name())
		if !ok {
			continue
		}
		// The entry's own name is the path. Rebuilding it through
		// SinkPath would re-sanitize the workspace segment and point at
		// a file that does not exist.
		found[workspace] = sinkInfo{
			tool: tool,
			path: filepath.Join(r.logDir, entry.Name()),
		}
	}
	return found
}

// Agents returns the tracked agents sorted by workspace name.
func (r *Registry) Agents() []*AgentState {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*AgentState, 0, len(names))
	for _, name := range names {
		out = append(out, r.agents[name])
	}
	return out
}

// Agent returns the state for one workspace, or nil.
func (r *Registry) Agent(workspace string) *AgentState {
	return r.agents[workspace]
}

// Len returns the number of tracked agents.
func (r *Registry) Len() int { return len(r.agents) }
