package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_String(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "waiting", StateWaiting.String())
	assert.Equal(t, "in_progress", StateInProgress.String())
	assert.Equal(t, "ended", StateEnded.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestIdleState(t *testing.T) {
	assert.Equal(t, StateEmpty, idleState(0))
	assert.Equal(t, StateWaiting, idleState(1))
}
