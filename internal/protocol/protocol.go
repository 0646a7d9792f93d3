// Package protocol defines the marker grammar agents use to report progress
// through their terminal output, and the parser that extracts those markers
// from raw log lines.
//
// An agent reports by printing marker lines:
//
//	||STATUS: building the parser||
//	||SUMMARY: add retry logic to the uploader||
//
// Markers can appear anywhere inside a line of otherwise arbitrary output
// (shell prompts, spinner frames, ANSI styling). Non-marker lines are
// ordinary output, not errors.
package protocol

import (
	"regexp"
	"strings"
)

// Kind tags a parse result.
type Kind int

const (
	// KindNone means the line carried no marker.
	KindNone Kind = iota
	// KindStatus is a ||STATUS: ...|| marker.
	KindStatus
	// KindSummary is a ||SUMMARY: ...|| marker.
	KindSummary
)

// Result is the outcome of parsing one line.
type Result struct {
	Kind Kind
	Text string
}

const (
	statusOpen  = "||STATUS:"
	summaryOpen = "||SUMMARY:"
	markerClose = "||"
)

// ansiRE matches ANSI escape sequences (CSI, OSC, and single-char escapes).
// Each sequence is replaced with a space rather than removed outright:
// agents sometimes emit cursor-movement codes (e.g. ESC[C) instead of
// literal spaces, and plain removal would merge the surrounding words.
var ansiRE = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\))`)

// Normalize strips ANSI escape sequences from a line of terminal output and
// collapses runs of whitespace into single spaces.
func Normalize(line string) string {
	return strings.Join(strings.Fields(ansiRE.ReplaceAllString(line, " ")), " ")
}

// ParseLine extracts the first marker from one complete log line.
//
// If the line contains several marker occurrences only the earliest one is
// honored. An unterminated marker (no closing ||) is not a match. Empty
// captured text is a valid status and clears the displayed status.
func ParseLine(line string) Result {
	text := Normalize(line)

	kind := KindNone
	idx := -1
	open := ""

	if si := strings.Index(text, statusOpen); si >= 0 {
		kind, idx, open = KindStatus, si, statusOpen
	}
	if mi := strings.Index(text, summaryOpen); mi >= 0 && (idx < 0 || mi < idx) {
		kind, idx, open = KindSummary, mi, summaryOpen
	}
	if kind == KindNone {
		return Result{}
	}

	rest := text[idx+len(open):]
	end := strings.Index(rest, markerClose)
	if end < 0 {
		return Result{}
	}
	return Result{Kind: kind, Text: strings.TrimSpace(rest[:end])}
}
