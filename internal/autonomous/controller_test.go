package autonomous

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rover_go/internal/config"
	"rover_go/internal/delay"
	"rover_go/internal/gnss"
	"rover_go/internal/ground"
	"rover_go/internal/models"
	"rover_go/internal/motor"
	"rover_go/internal/rover"
	"rover_go/internal/translog"
)

// stubSensor devolve sempre a leitura programada, sem passeio aleatório
type stubSensor struct {
	mu      sync.Mutex
	reading models.LineReading
}

func (s *stubSensor) Read() models.LineReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reading
}

func (s *stubSensor) set(detected bool, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reading = models.LineReading{Detected: detected, Offset: offset}
}

type controllerFixture struct {
	controller *Controller
	executor   *rover.Executor
	ground     *ground.Conditions
	sensor     *stubSensor
}

func newControllerFixture(t *testing.T, terrain string, maxLostTicks int) *controllerFixture {
	t.Helper()

	roverCfg := config.RoverConfig{
		DefaultSpeed:  75,
		MoveDuration:  time.Millisecond,
		BaseSpeedMS:   0.5,
		TurnIncrement: 15,
	}
	delayCfg := config.DelayConfig{Enabled: false, Mode: "min", Min: 0.01, Max: 0.05, Average: 0.02}

	groundSvc := ground.NewConditions(config.GroundConfig{
		Environment:    "moon",
		InitialTerrain: terrain,
	}, 21)

	tracker := gnss.NewTracker(config.GNSSConfig{
		Latitude:        52.0719,
		Longitude:       -0.6176,
		UpdateRate:      10 * time.Millisecond,
		AcquisitionTime: time.Hour,
	}, roverCfg, 22)

	translogMgr, err := translog.NewManager(config.LogConfig{
		Directory:     t.TempDir(),
		MaxSizeBytes:  1 << 20,
		RetentionDays: 1,
		MemoryEntries: 200,
	})
	require.NoError(t, err)

	executor := rover.NewExecutor(roverCfg, delayCfg,
		delay.NewSimulator(delayCfg, 23), groundSvc, tracker,
		motor.NewDriver(roverCfg.DefaultSpeed), translogMgr)

	sensor := &stubSensor{reading: models.LineReading{Detected: true}}

	controller := NewController(config.AutonomousConfig{
		TickInterval:  5 * time.Millisecond,
		LineColor:     "black",
		BaseSpeed:     60,
		TurnThreshold: 30,
		MaxLostTicks:  maxLostTicks,
	}, executor, sensor, translogMgr)

	return &controllerFixture{
		controller: controller,
		executor:   executor,
		ground:     groundSvc,
		sensor:     sensor,
	}
}

func TestDecideBinaryThresholds(t *testing.T) {
	f := newControllerFixture(t, "flat_rock", 3)

	assert.Equal(t, models.CommandForward, f.controller.decide(0))
	assert.Equal(t, models.CommandForward, f.controller.decide(-30))
	assert.Equal(t, models.CommandForward, f.controller.decide(30))
	assert.Equal(t, models.CommandLeft, f.controller.decide(-31))
	assert.Equal(t, models.CommandRight, f.controller.decide(31))
}

func TestStartSetsBaseSpeedAndFollowsLine(t *testing.T) {
	f := newControllerFixture(t, "flat_rock", 3)

	require.NoError(t, f.controller.Start())
	defer f.controller.Stop()

	assert.True(t, f.controller.Active())
	assert.Equal(t, 60, f.executor.Snapshot().Speed)

	require.Eventually(t, func() bool {
		return f.executor.Snapshot().CommandsSent >= 3
	}, 5*time.Second, 5*time.Millisecond)

	snap := f.controller.Snapshot()
	assert.True(t, snap.Active)
	assert.True(t, snap.LineDetected)
	assert.Greater(t, snap.TicksRun, 0)
	assert.Equal(t, "forward", snap.LastAction)
}

func TestOffsetBeyondThresholdTurns(t *testing.T) {
	f := newControllerFixture(t, "flat_rock", 3)
	f.sensor.set(true, 80)

	require.NoError(t, f.controller.Start())
	defer f.controller.Stop()

	require.Eventually(t, func() bool {
		return f.controller.Snapshot().LastAction == "right"
	}, 5*time.Second, 5*time.Millisecond)

	f.sensor.set(true, -80)
	require.Eventually(t, func() bool {
		return f.controller.Snapshot().LastAction == "left"
	}, 5*time.Second, 5*time.Millisecond)
}

func TestLineLostStopsAfterMaxTicks(t *testing.T) {
	f := newControllerFixture(t, "flat_rock", 3)
	f.sensor.set(false, 0)

	require.NoError(t, f.controller.Start())

	require.Eventually(t, func() bool {
		return !f.controller.Active()
	}, 5*time.Second, 5*time.Millisecond)

	snap := f.controller.Snapshot()
	assert.GreaterOrEqual(t, snap.LostTicks, 3)

	// O rover recebeu o comando de parada antes do desligamento
	require.Eventually(t, func() bool {
		return f.executor.Snapshot().LastCommand == "STOP"
	}, 5*time.Second, 5*time.Millisecond)
}

func TestLineRecoveredResetsLostTicks(t *testing.T) {
	f := newControllerFixture(t, "flat_rock", 1000)
	f.sensor.set(false, 0)

	require.NoError(t, f.controller.Start())
	defer f.controller.Stop()

	require.Eventually(t, func() bool {
		return f.controller.Snapshot().LostTicks >= 1
	}, 5*time.Second, time.Millisecond)

	f.sensor.set(true, 0)
	require.Eventually(t, func() bool {
		return f.controller.Snapshot().LostTicks == 0
	}, 5*time.Second, time.Millisecond)
	assert.True(t, f.controller.Active())
}

func TestStartRejectedWhenRoverInError(t *testing.T) {
	f := newControllerFixture(t, "soft_sand", 3)

	// Atola o rover com comandos lentos até o executor ficar em erro
	f.executor.SetSpeed(10)
	for i := 0; i < 300 && !f.ground.IsStuck(); i++ {
		require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandForward}))
		require.Eventually(t, func() bool {
			return f.executor.Status() != models.StatusBusy
		}, 5*time.Second, time.Millisecond)
	}
	require.True(t, f.ground.IsStuck())
	require.Equal(t, models.StatusError, f.executor.Status())

	err := f.controller.Start()
	assert.ErrorIs(t, err, rover.ErrNotReady)
	assert.False(t, f.controller.Active())
}

func TestStopIsImmediateAndIdempotent(t *testing.T) {
	f := newControllerFixture(t, "flat_rock", 3)

	require.NoError(t, f.controller.Start())
	f.controller.Stop()
	assert.False(t, f.controller.Active())

	// Parar de novo não tem efeito
	f.controller.Stop()
	assert.False(t, f.controller.Active())
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	f := newControllerFixture(t, "flat_rock", 3)

	require.NoError(t, f.controller.Start())
	defer f.controller.Stop()

	require.NoError(t, f.controller.Start())
	assert.True(t, f.controller.Active())
}

func TestConfigureValidatesFieldByField(t *testing.T) {
	f := newControllerFixture(t, "flat_rock", 3)

	f.controller.Configure("white", 60, 50)
	snap := f.controller.Snapshot()
	assert.Equal(t, "white", snap.LineColor)

	// Valores fora de faixa são ignorados sem tocar os demais campos
	f.controller.Configure("", 150, -1)
	assert.Equal(t, "white", f.controller.Snapshot().LineColor)
	assert.Equal(t, models.CommandForward, f.controller.decide(45))
	assert.Equal(t, models.CommandRight, f.controller.decide(51))
}

func TestLineSensorReadStaysWithinFrame(t *testing.T) {
	sensor := NewLineSensor(9)

	detections := 0
	for i := 0; i < 1000; i++ {
		reading := sensor.Read()
		if !reading.Detected {
			assert.Equal(t, 0, reading.Offset)
			continue
		}
		detections++
		assert.LessOrEqual(t, reading.Offset, frameWidth/2)
		assert.GreaterOrEqual(t, reading.Offset, -frameWidth/2)
	}

	// Com 5% de chance de perda e 40% de recuperação, a linha é
	// detectada na grande maioria das leituras
	assert.Greater(t, detections, 500)
}

func TestLineSensorInjectForcesNextReading(t *testing.T) {
	sensor := NewLineSensor(9)

	sensor.Inject(true, 100)
	reading := sensor.Read()
	if reading.Detected {
		// O passeio aleatório parte do offset injetado
		assert.InDelta(t, 100, reading.Offset, 20)
	}
}
