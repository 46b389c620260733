package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandKind(t *testing.T) {
	for _, action := range []string{"forward", "backward", "left", "right", "stop"} {
		kind, ok := ParseCommandKind(action)
		assert.True(t, ok, action)
		assert.Equal(t, action, kind.String())
	}

	_, ok := ParseCommandKind("launch")
	assert.False(t, ok)
}

func TestIsMovement(t *testing.T) {
	assert.True(t, CommandForward.IsMovement())
	assert.True(t, CommandBackward.IsMovement())
	assert.True(t, CommandLeft.IsMovement())
	assert.True(t, CommandRight.IsMovement())
	assert.False(t, CommandStop.IsMovement())
}

func TestValidDelayMode(t *testing.T) {
	for _, mode := range []string{"min", "max", "average", "random"} {
		assert.True(t, ValidDelayMode(mode), mode)
	}
	assert.False(t, ValidDelayMode("instant"))
	assert.False(t, ValidDelayMode(""))
}

func TestValidGravityMode(t *testing.T) {
	for _, env := range []string{"moon", "mars", "earth"} {
		assert.True(t, ValidGravityMode(env), env)
	}
	assert.False(t, ValidGravityMode("jupiter"))
}
