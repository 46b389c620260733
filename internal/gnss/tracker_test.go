package gnss

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rover_go/internal/config"
	"rover_go/internal/models"
	"rover_go/pkg/utils"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	return NewTracker(config.GNSSConfig{
		Latitude:        52.0719,
		Longitude:       -0.6176,
		Altitude:        92.0,
		UpdateRate:      10 * time.Millisecond,
		AcquisitionTime: 50 * time.Millisecond,
	}, config.RoverConfig{
		DefaultSpeed:  75,
		MoveDuration:  time.Second,
		BaseSpeedMS:   0.5,
		TurnIncrement: 15,
	}, 11)
}

func TestApplyForwardMovesNorthAndAccumulatesDistance(t *testing.T) {
	tr := newTestTracker(t)
	start := tr.Snapshot()

	delta := tr.Apply(models.CommandForward, 1.0, time.Second)

	// 0.5 m/s por 1s com deriva de ±10%
	assert.InDelta(t, 0.5, delta.DistanceMeters, 0.05)

	snap := tr.Snapshot()
	// Direção inicial 0° = norte: latitude cresce, longitude fica
	assert.Greater(t, snap.Latitude, start.Latitude)
	assert.InDelta(t, start.Longitude, snap.Longitude, 1e-9)
	assert.InDelta(t, delta.DistanceMeters, snap.TotalDistance, 0.01)
	assert.InDelta(t, utils.MsToKmh(0.5), snap.Speed, 0.01)
}

func TestApplyBackwardAlsoAddsOdometricDistance(t *testing.T) {
	tr := newTestTracker(t)

	fwd := tr.Apply(models.CommandForward, 1.0, time.Second)
	back := tr.Apply(models.CommandBackward, 1.0, time.Second)

	assert.Greater(t, back.DistanceMeters, 0.0)

	// Odometria soma os dois trechos mesmo com deslocamento líquido ~zero
	snap := tr.Snapshot()
	assert.InDelta(t, fwd.DistanceMeters+back.DistanceMeters, snap.TotalDistance, 0.01)
	assert.InDelta(t, 52.0719, snap.Latitude, 0.001)
}

func TestApplyTurnsChangeHeading(t *testing.T) {
	tr := newTestTracker(t)

	delta := tr.Apply(models.CommandRight, 0, 0)
	assert.Equal(t, 15.0, delta.HeadingChange)
	assert.Equal(t, 15.0, tr.Snapshot().Heading)

	delta = tr.Apply(models.CommandLeft, 0, 0)
	assert.Equal(t, -15.0, delta.HeadingChange)
	assert.Equal(t, 0.0, tr.Snapshot().Heading)

	// Virar à esquerda a partir de 0° normaliza para [0, 360)
	tr.Apply(models.CommandLeft, 0, 0)
	assert.Equal(t, 345.0, tr.Snapshot().Heading)
}

func TestApplyStopZeroesSpeed(t *testing.T) {
	tr := newTestTracker(t)

	tr.Apply(models.CommandForward, 1.0, time.Second)
	require.Greater(t, tr.Snapshot().Speed, 0.0)

	tr.Apply(models.CommandStop, 0, 0)
	snap := tr.Snapshot()
	assert.Equal(t, 0.0, snap.Speed)
	// A velocidade máxima registrada permanece
	assert.InDelta(t, utils.MsToKmh(0.5), snap.MaxSpeed, 0.01)
}

func TestApplySpeedFactorScalesDistance(t *testing.T) {
	tr := newTestTracker(t)

	delta := tr.Apply(models.CommandForward, 0.4, time.Second)
	assert.InDelta(t, 0.2, delta.DistanceMeters, 0.02)
}

func TestAcquisitionRampsToValidFix(t *testing.T) {
	tr := newTestTracker(t)
	tr.Start()
	defer tr.Stop()

	assert.False(t, tr.Snapshot().Valid)

	require.Eventually(t, func() bool {
		return tr.Snapshot().Valid
	}, 2*time.Second, 10*time.Millisecond)

	snap := tr.Snapshot()
	assert.Equal(t, 1, snap.FixQuality)
	assert.GreaterOrEqual(t, snap.Satellites, 8)
	assert.LessOrEqual(t, snap.Satellites, 12)
	assert.NotEmpty(t, snap.Timestamp)
}

func TestStartAfterStopRestartsAcquisition(t *testing.T) {
	tr := newTestTracker(t)

	tr.Start()
	require.Eventually(t, func() bool {
		return tr.Snapshot().Valid
	}, 2*time.Second, 10*time.Millisecond)
	tr.Stop()

	// Reiniciar recria o contexto e o loop volta a atualizar as leituras
	tr.Start()
	defer tr.Stop()
	require.Eventually(t, func() bool {
		return tr.Snapshot().Satellites >= 8
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHistoryKeepsAppliedPositions(t *testing.T) {
	tr := newTestTracker(t)

	for i := 0; i < 5; i++ {
		tr.Apply(models.CommandForward, 1.0, time.Second)
	}

	history := tr.History()
	require.Len(t, history, 5)

	// Ordem cronológica: latitudes crescentes rumo ao norte
	for i := 1; i < len(history); i++ {
		assert.Greater(t, history[i].Latitude, history[i-1].Latitude)
	}
}

func TestResetKeepsPositionClearsOdometry(t *testing.T) {
	tr := newTestTracker(t)

	tr.Apply(models.CommandForward, 1.0, time.Second)
	snapBefore := tr.Snapshot()
	require.Greater(t, snapBefore.TotalDistance, 0.0)

	tr.Reset()

	snap := tr.Snapshot()
	assert.Equal(t, snapBefore.Latitude, snap.Latitude)
	assert.Equal(t, snapBefore.Longitude, snap.Longitude)
	assert.Equal(t, 0.0, snap.TotalDistance)
	assert.Equal(t, 0.0, snap.MaxSpeed)
	assert.Empty(t, tr.History())
}
