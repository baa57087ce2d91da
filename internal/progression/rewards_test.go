package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPForKnownActions(t *testing.T) {
	for action, want := range rewardTable {
		assert.Equal(t, want, XPFor(action))
		assert.Positive(t, XPFor(action))
	}
}

func TestXPForUnknownActionPanics(t *testing.T) {
	assert.Panics(t, func() { XPFor(Action("no_such_action")) })
}
