package fleet

import (
	"strings"
	"time"

	"github.com/asheshgoplani/fleet-deck/internal/protocol"
)

// historyCap bounds the per-agent status history. The dashboard only ever
// shows the tail of it.
const historyCap = 50

// Liveness is advisory display state derived from the last marker update.
// It never triggers removal; only sink disappearance removes an agent.
type Liveness int

const (
	// LivenessIdle means no marker has ever been observed.
	LivenessIdle Liveness = iota
	// LivenessActive means a marker arrived within the active window.
	LivenessActive
	// LivenessRecent means the last marker is past the active window but
	// not yet stale.
	LivenessRecent
	// LivenessStale means no marker for longer than the stale threshold.
	LivenessStale
)

// StatusClass buckets a status text for display coloring.
type StatusClass int

const (
	StatusClassActive StatusClass = iota
	StatusClassComplete
	StatusClassError
	StatusClassWaiting
)

var (
	completeWords = []string{"complete", "done", "finished", "success"}
	errorWords    = []string{"error", "fail", "failed", "exception", "crash"}
	waitingWords  = []string{"waiting", "idle", "paused", "blocked"}
)

// ClassifyStatus buckets a status text by keyword. Classification is
// display-only and never alters the stored value.
func ClassifyStatus(status string) StatusClass {
	lower := strings.ToLower(status)
	contains := func(words []string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains(completeWords):
		return StatusClassComplete
	case contains(errorWords):
		return StatusClassError
	case contains(waitingWords):
		return StatusClassWaiting
	default:
		return StatusClassActive
	}
}

// HistoryEntry is one timestamped status report.
type HistoryEntry struct {
	At   time.Time
	Text string
}

// AgentState is the live view of one tracked agent. The registry mutates
// one AgentState in place across reconciliation cycles; it is never
// replaced while its sink exists, so status history survives sink churn.
type AgentState struct {
	Tool      string
	Workspace string
	SinkPath  string

	// Status is the latest reported activity. Empty either before the
	// first report or after an explicit empty status marker.
	Status string
	// Summary is the agent's stated goal. Sticky: once set it is only
	// ever replaced by a newer summary marker.
	Summary string
	// LastUpdate is when the last marker of either kind arrived.
	LastUpdate time.Time
	// History holds recent status reports, oldest first, at most
	// historyCap entries.
	History []HistoryEntry

	statusSeen bool
}

// ApplyMarker merges one parsed marker into the state. Unrelated fields are
// left untouched.
func (s *AgentState) ApplyMarker(res protocol.Result, now time.Time) {
	switch res.Kind {
	case protocol.KindStatus:
		s.Status = res.Text
		s.statusSeen = true
		s.LastUpdate = now
		s.History = append(s.History, HistoryEntry{At: now, Text: res.Text})
		if len(s.History) > historyCap {
			s.History = s.History[len(s.History)-historyCap:]
		}
	case protocol.KindSummary:
		s.Summary = res.Text
		s.LastUpdate = now
	}
}

// Liveness derives the advisory liveness tier at time now.
func (s *AgentState) Liveness(now time.Time, activeWithin, staleAfter time.Duration) Liveness {
	if s.LastUpdate.IsZero() {
		return LivenessIdle
	}
	age := now.Sub(s.LastUpdate)
	switch {
	case age < activeWithin:
		return LivenessActive
	case age < staleAfter:
		return LivenessRecent
	default:
		return LivenessStale
	}
}

// HasReported reports whether any status marker has ever been observed.
func (s *AgentState) HasReported() bool { return s.statusSeen }
