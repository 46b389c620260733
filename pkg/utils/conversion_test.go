package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-10, 0, 100))
	assert.Equal(t, 100, Clamp(150, 0, 100))
	assert.Equal(t, 75, Clamp(75, 0, 100))
}

func TestClampFloat(t *testing.T) {
	assert.Equal(t, 0.0, ClampFloat(-0.5, 0, 100))
	assert.Equal(t, 100.0, ClampFloat(101.3, 0, 100))
	assert.Equal(t, 42.5, ClampFloat(42.5, 0, 100))
}

func TestMsToKmh(t *testing.T) {
	assert.InDelta(t, 1.8, MsToKmh(0.5), 0.0001)
	assert.Equal(t, 0.0, MsToKmh(0))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.5", FormatFloat(1.50, 4))
	assert.Equal(t, "2", FormatFloat(2.0, 2))
	assert.Equal(t, "3.14", FormatFloat(3.14159, 2))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2345))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.23, Round2(-1.2345))
	assert.Equal(t, 0.0, Round2(0))
}
