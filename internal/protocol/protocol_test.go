package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLineStatus(t *testing.T) {
	res := ParseLine("noise||STATUS: Doing thing||more-noise")
	assert.Equal(t, KindStatus, res.Kind)
	assert.Equal(t, "Doing thing", res.Text)
}

func TestParseLineSummary(t *testing.T) {
	res := ParseLine("> ||SUMMARY: refactor the uploader|| ok")
	assert.Equal(t, KindSummary, res.Kind)
	assert.Equal(t, "refactor the uploader", res.Text)
}

func TestParseLineNoMarker(t *testing.T) {
	for _, line := range []string{
		"",
		"plain output",
		"STATUS: missing pipes",
		"||STATUS: never closed",
		"||STATUS missing colon||",
	} {
		assert.Equal(t, KindNone, ParseLine(line).Kind, "line %q", line)
	}
}

func TestParseLineFirstMarkerWins(t *testing.T) {
	res := ParseLine("||STATUS: first|| and ||STATUS: second||")
	assert.Equal(t, KindStatus, res.Kind)
	assert.Equal(t, "first", res.Text)

	// A summary ahead of a status is honored even though both are present.
	res = ParseLine("||SUMMARY: goal|| then ||STATUS: step||")
	assert.Equal(t, KindSummary, res.Kind)
	assert.Equal(t, "goal", res.Text)
}

func TestParseLineEmptyStatusIsValid(t *testing.T) {
	res := ParseLine("||STATUS:||")
	assert.Equal(t, KindStatus, res.Kind)
	assert.Equal(t, "", res.Text)
}

func TestParseLineStripsANSI(t *testing.T) {
	res := ParseLine("\x1b[32m||STATUS: all green||\x1b[0m")
	assert.Equal(t, KindStatus, res.Kind)
	assert.Equal(t, "all green", res.Text)
}

func TestNormalizeCursorMovementDoesNotMergeWords(t *testing.T) {
	// ESC[C moves the cursor right; some CLIs emit it instead of a space.
	assert.Equal(t, "two words", Normalize("two\x1b[Cwords"))
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", Normalize("  a \t b \x1b[2K  c  "))
}

func TestParseLineCollapsesInteriorWhitespace(t *testing.T) {
	res := ParseLine("||STATUS: running \x1b[1m  tests ||")
	assert.Equal(t, "running tests", res.Text)
}
