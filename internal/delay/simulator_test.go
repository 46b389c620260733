package delay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rover_go/internal/config"
	"rover_go/internal/models"
)

func testConfig() config.DelayConfig {
	return config.DelayConfig{
		Enabled: true,
		Mode:    "average",
		Min:     2.0,
		Max:     10.0,
		Average: 6.0,
	}
}

func TestComputeFixedModes(t *testing.T) {
	sim := NewSimulator(testConfig(), 1)

	assert.Equal(t, 2.0, sim.Compute(models.DelayModeMin))
	assert.Equal(t, 10.0, sim.Compute(models.DelayModeMax))
	assert.Equal(t, 6.0, sim.Compute(models.DelayModeAverage))
}

func TestComputeRandomWithinBounds(t *testing.T) {
	sim := NewSimulator(testConfig(), 42)

	for i := 0; i < 1000; i++ {
		d := sim.Compute(models.DelayModeRandom)
		assert.GreaterOrEqual(t, d, 2.0)
		assert.Less(t, d, 10.0)
	}
}

func TestComputeUnknownModeFallsBackToAverage(t *testing.T) {
	sim := NewSimulator(testConfig(), 1)

	assert.Equal(t, 6.0, sim.Compute(models.DelayMode("nope")))
}

func TestBounds(t *testing.T) {
	sim := NewSimulator(testConfig(), 1)

	min, max, avg := sim.Bounds()
	assert.Equal(t, 2.0, min)
	assert.Equal(t, 10.0, max)
	assert.Equal(t, 6.0, avg)
}
