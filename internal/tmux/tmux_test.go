package tmux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttachCommand(t *testing.T) {
	b := New()
	assert.Equal(t, "tmux attach -t fleet_api_1", b.AttachCommand("fleet_api_1"))
}

func TestAttachCommandQuotesUnsafeNames(t *testing.T) {
	b := New()
	assert.Equal(t, `tmux attach -t 'fleet web'`, b.AttachCommand("fleet web"))
}
