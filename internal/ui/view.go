package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/asheshgoplani/fleet-deck/internal/fleet"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	subtitleStyle = lipgloss.NewStyle().Faint(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	cardSelectedStyle = cardStyle.BorderForeground(lipgloss.Color("62"))

	cardHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	sectionStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Faint(true)
	summaryStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))

	statusStyles = map[fleet.StatusClass]lipgloss.Style{
		fleet.StatusClassActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		fleet.StatusClassComplete: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		fleet.StatusClassError:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		fleet.StatusClassWaiting:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}

	livenessActiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	livenessRecentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	placeholderStyle = lipgloss.NewStyle().Faint(true).Padding(2, 4)
)

// View implements tea.Model.
func (d *Dash) View() string {
	if d.width == 0 {
		return ""
	}
	if d.width < minTerminalWidth || d.height < minTerminalHeight {
		return fmt.Sprintf("Terminal too small (%dx%d). Need at least %dx%d.",
			d.width, d.height, minTerminalWidth, minTerminalHeight)
	}

	agents := d.registry.Agents()

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("Fleet Dashboard"),
		" ",
		subtitleStyle.Render(fmt.Sprintf("%d agent(s) active", len(agents))),
	)

	var body string
	if len(agents) == 0 {
		body = placeholderStyle.Render(
			"No agent logs found. Run fleet-deck launch first.\n" +
				"Expected log sinks matching: " + d.cfg.Fleet.LogDir + "/*_fleet_*.log")
	} else {
		body = d.renderGrid(agents)
	}

	footer := d.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (d *Dash) renderFooter() string {
	if d.notice != "" {
		return noticeStyle.Render(d.notice)
	}
	switch d.focus {
	case focusTaskInput:
		return subtitleStyle.Render("enter=add task  esc=cancel")
	case focusCommandInput:
		return subtitleStyle.Render("enter=send to agent  esc=cancel")
	default:
		return subtitleStyle.Render(
			"j/k=agent  J/K=task  a=add  t=toggle  d=delete  :=send  1=compress  2=clear  r=refresh  q=quit")
	}
}

func (d *Dash) renderGrid(agents []*fleet.AgentState) string {
	cols, rows := Grid(len(agents))

	cardWidth := d.width/cols - 2 // border columns
	cardHeight := (d.height-3)/rows - 2
	if cardHeight < 4 {
		cardHeight = 4
	}
	innerWidth := cardWidth - 2 // padding columns
	if innerWidth < 10 {
		innerWidth = 10
	}

	var rendered []string
	for row := 0; row < rows; row++ {
		var cards []string
		for col := 0; col < cols; col++ {
			i := row*cols + col
			if i >= len(agents) {
				break
			}
			cards = append(cards, d.renderCard(agents[i], i == d.cursor, innerWidth, cardHeight))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (d *Dash) renderCard(agent *fleet.AgentState, selected bool, width, height int) string {
	now := time.Now()
	var lines []string

	title := strings.ToUpper(agent.Tool) + " | " + strings.ToUpper(agent.Workspace)
	lines = append(lines,
		cardHeaderStyle.Render(runewidth.Truncate(title, width, "…")),
		d.livenessLine(agent, now),
	)

	if agent.Summary != "" {
		goal := "Goal: " + agent.Summary
		lines = append(lines, summaryStyle.Render(runewidth.Truncate(goal, width, "…")))
	}

	status := agent.Status
	if !agent.HasReported() {
		status = "Waiting for output..."
	}
	statusLine := "● " + status
	lines = append(lines,
		statusStyles[fleet.ClassifyStatus(agent.Status)].Render(runewidth.Truncate(statusLine, width, "…")))

	// Status history, newest at the bottom, sized to what fits after the
	// fixed sections and the task list.
	taskItems := d.tasks.List(agent.Workspace)
	budget := height - len(lines) - len(taskItems) - 2 // section labels
	if d.focus != focusFleet && selected {
		budget--
	}
	if budget > d.cfg.Dashboard.HistoryLines {
		budget = d.cfg.Dashboard.HistoryLines
	}
	if budget > 0 && len(agent.History) > 0 {
		lines = append(lines, sectionStyle.Render("History"))
		history := agent.History
		if len(history) > budget {
			history = history[len(history)-budget:]
		}
		for _, entry := range history {
			line := dimStyle.Render(entry.At.Format("15:04:05")) + "  " + entry.Text
			lines = append(lines, ansi.Truncate(line, width, "…"))
		}
	}

	lines = append(lines, sectionStyle.Render(fmt.Sprintf("Tasks (%d)", len(taskItems))))
	for i, item := range taskItems {
		marker := "[ ]"
		if item.Done {
			marker = "[x]"
		}
		prefix := "  "
		if selected && i == d.taskCursor && d.focus == focusFleet {
			prefix = "> "
		}
		line := prefix + marker + " " + item.Text
		if item.Done {
			line = dimStyle.Render(runewidth.Truncate(line, width, "…"))
		} else {
			line = runewidth.Truncate(line, width, "…")
		}
		lines = append(lines, line)
	}

	if selected && d.focus == focusTaskInput {
		lines = append(lines, d.taskInput.View())
	}
	if selected && d.focus == focusCommandInput {
		lines = append(lines, d.cmdInput.View())
	}

	if len(lines) > height {
		lines = lines[:height]
	}

	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	return style.Width(width + 2).Height(height).Render(strings.Join(lines, "\n"))
}

// livenessLine renders the advisory staleness indicator: green within the
// active window, yellow until stale, dim after.
func (d *Dash) livenessLine(agent *fleet.AgentState, now time.Time) string {
	activeWithin := time.Duration(d.cfg.Dashboard.ActiveWithinSeconds) * time.Second
	staleAfter := time.Duration(d.cfg.Dashboard.StaleAfterSeconds) * time.Second

	switch agent.Liveness(now, activeWithin, staleAfter) {
	case fleet.LivenessActive:
		return livenessActiveStyle.Render("● active")
	case fleet.LivenessRecent:
		mins := int(now.Sub(agent.LastUpdate).Minutes())
		return livenessRecentStyle.Render(fmt.Sprintf("● %dm ago", mins))
	case fleet.LivenessStale:
		mins := int(now.Sub(agent.LastUpdate).Minutes())
		return dimStyle.Render(fmt.Sprintf("● %dm ago", mins))
	default:
		return dimStyle.Render("○ idle")
	}
}
