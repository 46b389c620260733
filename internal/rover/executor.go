package rover

import (
	"strings"
	"sync"
	"time"

	"rover_go/internal/config"
	"rover_go/internal/delay"
	"rover_go/internal/gnss"
	"rover_go/internal/ground"
	"rover_go/internal/models"
	"rover_go/internal/motor"
	"rover_go/internal/translog"
	"rover_go/pkg/logger"
)

// SnapshotHandler é um tipo de função para receber o estado do rover
// após cada transição (aceitação e conclusão de comandos)
type SnapshotHandler func(snapshot models.RoverSnapshot)

// Executor é o núcleo serializador de comandos do rover. Aceita no máximo
// um comando em trânsito por vez: a flag Busy é verificada e marcada sob o
// mesmo lock, e a sequência atraso/efeitos roda em goroutine própria.
type Executor struct {
	cfg      config.RoverConfig
	delaySim *delay.Simulator
	ground   *ground.Conditions
	tracker  *gnss.Tracker
	driver   *motor.Driver
	translog *translog.Manager

	mu           sync.Mutex
	status       models.RoverStatus
	lastCommand  string
	delayEnabled bool
	delayMode    models.DelayMode

	stats statistics

	handlersLock sync.RWMutex
	handlers     []SnapshotHandler
}

// NewExecutor cria o executor de comandos do rover
func NewExecutor(
	roverCfg config.RoverConfig,
	delayCfg config.DelayConfig,
	delaySim *delay.Simulator,
	groundSvc *ground.Conditions,
	tracker *gnss.Tracker,
	driver *motor.Driver,
	translogMgr *translog.Manager,
) *Executor {
	mode := models.DelayMode(delayCfg.Mode)
	if !models.ValidDelayMode(delayCfg.Mode) {
		mode = models.DelayModeAverage
	}

	return &Executor{
		cfg:          roverCfg,
		delaySim:     delaySim,
		ground:       groundSvc,
		tracker:      tracker,
		driver:       driver,
		translog:     translogMgr,
		status:       models.StatusIdle,
		lastCommand:  "None",
		delayEnabled: delayCfg.Enabled,
		delayMode:    mode,
	}
}

// RegisterSnapshotHandler registra uma função para receber o estado do
// rover após cada transição
func (e *Executor) RegisterSnapshotHandler(handler SnapshotHandler) {
	e.handlersLock.Lock()
	defer e.handlersLock.Unlock()
	e.handlers = append(e.handlers, handler)
}

// Submit aceita um comando para execução. Retorna ErrBusy se já houver um
// comando em trânsito e ErrStuck se o rover estiver atolado e o comando
// for de movimento. Na aceitação o status vira Busy antes do retorno; a
// sequência atraso/efeitos roda de forma assíncrona.
func (e *Executor) Submit(cmd models.Command) error {
	e.mu.Lock()

	if e.status == models.StatusBusy {
		e.mu.Unlock()
		e.translog.Appendf(models.LogWarning, "Comando %s rejeitado: rover ocupado", commandLabel(cmd.Kind))
		return ErrBusy
	}

	if cmd.Kind.IsMovement() && e.ground.IsStuck() {
		e.mu.Unlock()
		e.translog.Appendf(models.LogWarning, "Comando %s rejeitado: rover atolado", commandLabel(cmd.Kind))
		return ErrStuck
	}

	// Modo e habilitação do atraso são lidos na aceitação: mudanças
	// posteriores não afetam um comando já em trânsito
	mode := e.delayMode
	enabled := e.delayEnabled

	e.status = models.StatusBusy
	e.lastCommand = commandLabel(cmd.Kind)
	e.mu.Unlock()

	if cmd.Duration <= 0 {
		cmd.Duration = e.cfg.MoveDuration
	}

	go e.execute(cmd, mode, enabled)

	return nil
}

// execute roda a sequência atraso/efeitos de um comando aceito.
// Não há cancelamento: iniciado o atraso, o comando sempre conclui.
func (e *Executor) execute(cmd models.Command, mode models.DelayMode, delayEnabled bool) {
	delaySeconds := 0.0
	if delayEnabled {
		delaySeconds = e.delaySim.Compute(mode)
	}

	e.stats.record(delaySeconds)
	e.translog.Appendf(models.LogCommand, "Comando: %s | Atraso: %.2fs", commandLabel(cmd.Kind), delaySeconds)
	e.notifyHandlers()

	if delaySeconds > 0 {
		logger.Infof("[TERRA] Comando enviado: %s | sinal em trânsito por %.2fs", commandLabel(cmd.Kind), delaySeconds)
		time.Sleep(time.Duration(delaySeconds * float64(time.Second)))
		logger.Infof("[LUA] Comando recebido: %s", commandLabel(cmd.Kind))
	}

	speed := e.driver.Speed()
	e.driver.Drive(cmd.Kind, speed)

	final := models.StatusIdle

	if cmd.Kind.IsMovement() {
		planned := e.cfg.BaseSpeedMS * cmd.Duration.Seconds()
		delta := e.ground.Apply(planned, speed)

		// Atolado, o movimento não cobriu distância nenhuma; a posição
		// e a odometria não podem avançar
		speedFactor := delta.SpeedFactor
		if delta.NewlyStuck {
			speedFactor = 0
		}
		e.tracker.Apply(cmd.Kind, speedFactor, cmd.Duration)

		if delta.NewlyStuck {
			final = models.StatusError
			e.translog.Appendf(models.LogError, "Rover atolou em %s durante %s", delta.Terrain, commandLabel(cmd.Kind))
		} else {
			if delta.WheelSlip > 50 {
				e.translog.Appendf(models.LogWarning, "Derrapagem alta: %.1f%% em %s", delta.WheelSlip, delta.Terrain)
			}
			e.translog.Appendf(models.LogSuccess, "Executado: %s (%.2fm)", commandLabel(cmd.Kind), delta.ActualDistance)
		}
	} else {
		e.tracker.Apply(cmd.Kind, 0, 0)
		if e.ground.IsStuck() {
			final = models.StatusError
		}
		e.translog.Appendf(models.LogSuccess, "Executado: %s", commandLabel(cmd.Kind))
	}

	e.mu.Lock()
	e.status = final
	e.mu.Unlock()

	e.notifyHandlers()
}

// Status retorna o estado de execução atual
func (e *Executor) Status() models.RoverStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Snapshot monta a visão consolidada consumida pela camada web.
// A leitura nunca bloqueia atrás de um comando em trânsito.
func (e *Executor) Snapshot() models.RoverSnapshot {
	e.mu.Lock()
	status := e.status
	lastCommand := e.lastCommand
	delayEnabled := e.delayEnabled
	delayMode := e.delayMode
	e.mu.Unlock()

	return models.RoverSnapshot{
		Status:       status,
		LastCommand:  lastCommand,
		Speed:        e.driver.Speed(),
		DelayEnabled: delayEnabled,
		DelayMode:    delayMode,
		Statistics:   e.stats.snapshot(),
		Timestamp:    time.Now(),
	}
}

// SetSpeed define a velocidade dos motores (0-100)
func (e *Executor) SetSpeed(speed int) int {
	return e.driver.SetSpeed(speed)
}

// SetDelayEnabled habilita ou desabilita o atraso de transmissão
func (e *Executor) SetDelayEnabled(enabled bool) {
	e.mu.Lock()
	e.delayEnabled = enabled
	e.mu.Unlock()

	state := "desabilitado"
	if enabled {
		state = "habilitado"
	}
	e.translog.Appendf(models.LogInfo, "Atraso de transmissão %s", state)
}

// SetDelayMode define o modo de cálculo do atraso
func (e *Executor) SetDelayMode(mode models.DelayMode) bool {
	if !models.ValidDelayMode(string(mode)) {
		return false
	}

	e.mu.Lock()
	e.delayMode = mode
	e.mu.Unlock()

	e.translog.Appendf(models.LogInfo, "Modo de atraso alterado para %s", mode)
	return true
}

// ResetStats zera as estatísticas de comandos atomicamente
func (e *Executor) ResetStats() {
	e.stats.reset()

	e.mu.Lock()
	e.lastCommand = "None"
	e.mu.Unlock()

	e.translog.Append(models.LogInfo, "Estatísticas de comandos zeradas")
}

// ClearError limpa manualmente o estado de erro, se presente
func (e *Executor) ClearError() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == models.StatusError {
		e.status = models.StatusIdle
	}
}

// notifyHandlers entrega o snapshot atual a todos os handlers registrados
func (e *Executor) notifyHandlers() {
	e.handlersLock.RLock()
	handlers := e.handlers
	e.handlersLock.RUnlock()

	if len(handlers) == 0 {
		return
	}

	snapshot := e.Snapshot()
	for _, handler := range handlers {
		handler(snapshot)
	}
}

func commandLabel(kind models.CommandKind) string {
	return strings.ToUpper(kind.String())
}
