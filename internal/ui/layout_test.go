package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridDimensions(t *testing.T) {
	tests := []struct {
		agents int
		cols   int
		rows   int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 2, 1},
		{3, 3, 1},
		{4, 3, 2},
		{6, 3, 2},
		{7, 3, 3},
		{9, 3, 3},
	}
	for _, tt := range tests {
		cols, rows := Grid(tt.agents)
		assert.Equal(t, tt.cols, cols, "cols for %d agents", tt.agents)
		assert.Equal(t, tt.rows, rows, "rows for %d agents", tt.agents)
	}
}

func TestGridHoldsAllAgents(t *testing.T) {
	for n := 1; n <= 12; n++ {
		cols, rows := Grid(n)
		assert.GreaterOrEqual(t, cols*rows, n, "grid for %d agents must have a cell per agent", n)
	}
}

func TestFindSessionFor(t *testing.T) {
	sessions := []string{"fleet_api-server_1", "fleet_web_2", "scratch"}

	name, ok := findSessionFor("api-server", sessions)
	assert.True(t, ok)
	assert.Equal(t, "fleet_api-server_1", name)

	// Workspace names get sanitized into session names; the raw form with
	// dots still matches.
	name, ok = findSessionFor("api.server", sessions)
	assert.True(t, ok)
	assert.Equal(t, "fleet_api-server_1", name)

	_, ok = findSessionFor("billing", sessions)
	assert.False(t, ok)

	_, ok = findSessionFor("billing", nil)
	assert.False(t, ok)
}
