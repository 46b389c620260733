package rover

import (
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
	"rover_go/internal/translog"
)

type executorFixture struct {
	executor *Executor
	ground   *ground.Conditions
	tracker  *gnss.Tracker
	translog *translog.Manager
}

// newFixture monta um executor com atrasos curtos para os testes não
// dependerem de minutos de relógio
func newFixture(t *testing.T, delayEnabled bool, terrain string) *executorFixture {
	t.Helper()

	roverCfg := config.RoverConfig{
		DefaultSpeed:  75,
		MoveDuration:  10 * time.Millisecond,
		BaseSpeedMS:   0.5,
		TurnIncrement: 15,
	}
	delayCfg := config.DelayConfig{
		Enabled: delayEnabled,
		Mode:    "min",
		Min:     0.01,
		Max:     0.05,
		Average: 0.02,
	}

	groundSvc := ground.NewConditions(config.GroundConfig{
		Environment:    "moon",
		InitialTerrain: terrain,
	}, 3)

	tracker := gnss.NewTracker(config.GNSSConfig{
		Latitude:        52.0719,
		Longitude:       -0.6176,
		Altitude:        92.0,
		UpdateRate:      10 * time.Millisecond,
		AcquisitionTime: time.Hour,
	}, roverCfg, 4)

	translogMgr, err := translog.NewManager(config.LogConfig{
		Directory:     t.TempDir(),
		MaxSizeBytes:  1 << 20,
		RetentionDays: 1,
		MemoryEntries: 100,
	})
	require.NoError(t, err)

	driver := motor.NewDriver(roverCfg.DefaultSpeed)
	delaySim := delay.NewSimulator(delayCfg, 5)

	return &executorFixture{
		executor: NewExecutor(roverCfg, delayCfg, delaySim, groundSvc, tracker, driver, translogMgr),
		ground:   groundSvc,
		tracker:  tracker,
		translog: translogMgr,
	}
}

func waitIdle(t *testing.T, e *Executor) {
	t.Helper()
	require.Eventually(t, func() bool {
		return e.Status() != models.StatusBusy
	}, 5*time.Second, 5*time.Millisecond)
}

func TestSubmitExecutesCommandToCompletion(t *testing.T) {
	f := newFixture(t, true, "flat_rock")

	require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandForward}))
	assert.Equal(t, models.StatusBusy, f.executor.Status())

	waitIdle(t, f.executor)

	snap := f.executor.Snapshot()
	assert.Equal(t, models.StatusIdle, snap.Status)
	assert.Equal(t, "FORWARD", snap.LastCommand)
	assert.Equal(t, 1, snap.CommandsSent)
	assert.Greater(t, snap.TotalDelay, 0.0)
}

func TestSubmitRejectsWhileBusy(t *testing.T) {
	f := newFixture(t, true, "flat_rock")

	require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandForward}))

	err := f.executor.Submit(models.Command{Kind: models.CommandLeft})
	assert.ErrorIs(t, err, ErrBusy)

	waitIdle(t, f.executor)

	// Só o comando aceito entra nas estatísticas
	assert.Equal(t, 1, f.executor.Snapshot().CommandsSent)
}

func TestSubmitRejectsMovementWhenStuck(t *testing.T) {
	f := newFixture(t, false, "soft_sand")
	forceStuckExecution(t, f)

	err := f.executor.Submit(models.Command{Kind: models.CommandForward})
	assert.ErrorIs(t, err, ErrStuck)

	// Parar não é movimento e continua aceito
	require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandStop}))
	waitIdle(t, f.executor)

	// Ainda atolado: o estado de erro permanece mesmo após o STOP
	assert.Equal(t, models.StatusError, f.executor.Status())
}

// forceStuckExecution envia comandos lentos em areia macia até o rover atolar
func forceStuckExecution(t *testing.T, f *executorFixture) {
	t.Helper()

	f.executor.SetSpeed(10)

	for i := 0; i < 300; i++ {
		if err := f.executor.Submit(models.Command{Kind: models.CommandForward}); err != nil {
			break
		}
		waitIdle(t, f.executor)
		if f.ground.IsStuck() {
			require.Equal(t, models.StatusError, f.executor.Status())
			return
		}
	}
	t.Fatal("rover não atolou após 300 comandos lentos em areia macia")
}

func TestStuckMovementDoesNotAdvancePosition(t *testing.T) {
	f := newFixture(t, false, "soft_sand")

	f.executor.SetSpeed(10)

	for i := 0; i < 300; i++ {
		before := f.tracker.Snapshot()

		require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandForward}))
		waitIdle(t, f.executor)

		after := f.tracker.Snapshot()
		if f.ground.IsStuck() {
			// O movimento que atolou cobriu 0m: posição e odometria intactas
			assert.InDelta(t, before.Latitude, after.Latitude, 1e-9)
			assert.InDelta(t, before.Longitude, after.Longitude, 1e-9)
			assert.Equal(t, before.TotalDistance, after.TotalDistance)
			return
		}
	}
	t.Fatal("rover não atolou após 300 comandos lentos em areia macia")
}

func TestDelayDisabledSkipsWait(t *testing.T) {
	f := newFixture(t, false, "flat_rock")

	start := time.Now()
	require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandForward}))
	waitIdle(t, f.executor)
	assert.Less(t, time.Since(start), time.Second)

	// O comando conta na estatística mesmo sem atraso
	snap := f.executor.Snapshot()
	assert.Equal(t, 1, snap.CommandsSent)
	assert.Equal(t, 0.0, snap.TotalDelay)
}

func TestSetDelayModeValidation(t *testing.T) {
	f := newFixture(t, true, "flat_rock")

	assert.True(t, f.executor.SetDelayMode(models.DelayModeRandom))
	assert.Equal(t, models.DelayModeRandom, f.executor.Snapshot().DelayMode)

	assert.False(t, f.executor.SetDelayMode(models.DelayMode("instant")))
	assert.Equal(t, models.DelayModeRandom, f.executor.Snapshot().DelayMode)
}

func TestSetDelayEnabled(t *testing.T) {
	f := newFixture(t, true, "flat_rock")

	f.executor.SetDelayEnabled(false)
	assert.False(t, f.executor.Snapshot().DelayEnabled)

	f.executor.SetDelayEnabled(true)
	assert.True(t, f.executor.Snapshot().DelayEnabled)
}

func TestSetSpeedClamps(t *testing.T) {
	f := newFixture(t, true, "flat_rock")

	assert.Equal(t, 100, f.executor.SetSpeed(150))
	assert.Equal(t, 0, f.executor.SetSpeed(-5))
	assert.Equal(t, 50, f.executor.SetSpeed(50))
	assert.Equal(t, 50, f.executor.Snapshot().Speed)
}

func TestResetStats(t *testing.T) {
	f := newFixture(t, false, "flat_rock")

	require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandForward}))
	waitIdle(t, f.executor)
	require.Equal(t, 1, f.executor.Snapshot().CommandsSent)

	f.executor.ResetStats()

	snap := f.executor.Snapshot()
	assert.Equal(t, 0, snap.CommandsSent)
	assert.Equal(t, 0.0, snap.TotalDelay)
	assert.Equal(t, 0.0, snap.AvgDelay)
	assert.Equal(t, "None", snap.LastCommand)
}

func TestClearError(t *testing.T) {
	f := newFixture(t, false, "soft_sand")
	forceStuckExecution(t, f)

	// Limpar o erro não desatola o rover, só o estado de execução
	f.executor.ClearError()
	assert.Equal(t, models.StatusIdle, f.executor.Status())
	assert.True(t, f.ground.IsStuck())
}

func TestSnapshotHandlersReceiveTransitions(t *testing.T) {
	f := newFixture(t, false, "flat_rock")

	snapshots := make(chan models.RoverSnapshot, 10)
	f.executor.RegisterSnapshotHandler(func(snapshot models.RoverSnapshot) {
		snapshots <- snapshot
	})

	require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandForward}))
	waitIdle(t, f.executor)

	// Uma notificação na aceitação e outra na conclusão
	first := <-snapshots
	assert.Equal(t, models.StatusBusy, first.Status)
	second := <-snapshots
	assert.Equal(t, models.StatusIdle, second.Status)
}

func TestTranslogReceivesCommandEntries(t *testing.T) {
	f := newFixture(t, false, "flat_rock")

	require.NoError(t, f.executor.Submit(models.Command{Kind: models.CommandForward}))
	waitIdle(t, f.executor)

	entries := f.translog.Recent(10)
	require.NotEmpty(t, entries)

	var severities []models.LogSeverity
	for _, entry := range entries {
		severities = append(severities, entry.Severity)
	}
	assert.Contains(t, severities, models.LogCommand)
	assert.Contains(t, severities, models.LogSuccess)
}
