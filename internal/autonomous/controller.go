package autonomous

import (
	"context"
	"sync"
	"time"

	"rover_go/internal/config"
	"rover_go/internal/models"
	"rover_go/internal/rover"
	"rover_go/internal/translog"
	"rover_go/pkg/logger"
)

// Sensor é a fonte de leituras de linha do controlador
type Sensor interface {
	Read() models.LineReading
}

// SnapshotHandler é um tipo de função para receber o estado do modo autônomo
type SnapshotHandler func(snapshot models.AutonomousSnapshot)

// Controller implementa o seguidor de linha autônomo. A cada tick lê o
// sensor e decide um único comando; ticks com o rover ocupado são
// simplesmente pulados, nunca enfileirados.
type Controller struct {
	cfg      config.AutonomousConfig
	executor *rover.Executor
	sensor   Sensor
	translog *translog.Manager

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool

	lastReading models.LineReading
	lostTicks   int
	ticksRun    int
	lastAction  string

	handlersLock sync.RWMutex
	handlers     []SnapshotHandler
}

// NewController cria o controlador do modo autônomo
func NewController(cfg config.AutonomousConfig, executor *rover.Executor, sensor Sensor, translogMgr *translog.Manager) *Controller {
	return &Controller{
		cfg:        cfg,
		executor:   executor,
		sensor:     sensor,
		translog:   translogMgr,
		lastAction: "none",
	}
}

// RegisterSnapshotHandler registra uma função para receber o estado do modo autônomo
func (c *Controller) RegisterSnapshotHandler(handler SnapshotHandler) {
	c.handlersLock.Lock()
	defer c.handlersLock.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Start ativa o modo autônomo. Retorna ErrNotReady se o rover estiver
// em estado de erro.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	if c.executor.Status() == models.StatusError {
		return rover.ErrNotReady
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.running = true
	c.lostTicks = 0
	c.ticksRun = 0
	c.lastReading = models.LineReading{}
	c.lastAction = "none"

	c.executor.SetSpeed(c.cfg.BaseSpeed)

	go c.run()

	logger.Infof("Modo autônomo ativado (linha %s, tick %v)", c.cfg.LineColor, c.cfg.TickInterval)
	c.translog.Append(models.LogInfo, "Modo autônomo ativado")
	return nil
}

// Stop desativa o modo autônomo imediatamente. Um comando já em
// trânsito no executor ainda conclui por conta própria.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.cancel()
	c.mu.Unlock()

	logger.Info("Modo autônomo desativado")
	c.translog.Append(models.LogInfo, "Modo autônomo desativado")
	c.notifyHandlers()
}

// Configure ajusta os parâmetros do seguidor de linha. Valores fora
// de faixa são ignorados campo a campo.
func (c *Controller) Configure(lineColor string, baseSpeed, turnThreshold int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lineColor != "" {
		c.cfg.LineColor = lineColor
	}
	if baseSpeed > 0 && baseSpeed <= 100 {
		c.cfg.BaseSpeed = baseSpeed
	}
	if turnThreshold > 0 {
		c.cfg.TurnThreshold = turnThreshold
	}
}

// Active indica se o modo autônomo está ligado
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// run é o loop principal do seguidor de linha
func (c *Controller) run() {
	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick executa uma iteração do seguidor de linha
func (c *Controller) tick() {
	// Rover ocupado: o tick é descartado, sem fila de comandos
	if c.executor.Status() == models.StatusBusy {
		return
	}

	if c.executor.Status() == models.StatusError {
		logger.Warn("Modo autônomo interrompido: rover em estado de erro")
		c.translog.Append(models.LogError, "Modo autônomo interrompido: rover em estado de erro")
		c.Stop()
		return
	}

	reading := c.sensor.Read()

	c.mu.Lock()
	c.lastReading = reading
	c.ticksRun++

	if !reading.Detected {
		c.lostTicks++
		lost := c.lostTicks
		c.mu.Unlock()

		if lost >= c.cfg.MaxLostTicks {
			logger.Warnf("Linha perdida por %d ticks, parando o rover", lost)
			c.translog.Appendf(models.LogWarning, "Linha perdida por %d ticks, modo autônomo encerrado", lost)
			c.submit(models.CommandStop)
			c.Stop()
		}
		return
	}

	c.lostTicks = 0
	c.mu.Unlock()

	c.submit(c.decide(reading.Offset))
}

// decide escolhe o comando para um offset de linha detectado.
// Controle binário: dentro do limiar segue em frente, fora gira.
func (c *Controller) decide(offset int) models.CommandKind {
	switch {
	case offset < -c.cfg.TurnThreshold:
		return models.CommandLeft
	case offset > c.cfg.TurnThreshold:
		return models.CommandRight
	default:
		return models.CommandForward
	}
}

// submit envia um comando ao executor registrando a ação tomada
func (c *Controller) submit(kind models.CommandKind) {
	err := c.executor.Submit(models.Command{Kind: kind})

	c.mu.Lock()
	if err == nil {
		c.lastAction = kind.String()
	}
	c.mu.Unlock()

	switch err {
	case nil:
		c.notifyHandlers()
	case rover.ErrBusy:
		// Corrida benigna entre a checagem de status e o envio
	case rover.ErrStuck:
		logger.Warn("Modo autônomo interrompido: rover atolado")
		c.translog.Append(models.LogError, "Modo autônomo interrompido: rover atolado")
		c.Stop()
	default:
		logger.Error("Falha ao enviar comando autônomo", err)
	}
}

// Snapshot retorna o estado atual do modo autônomo
func (c *Controller) Snapshot() models.AutonomousSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return models.AutonomousSnapshot{
		Active:       c.running,
		LineColor:    c.cfg.LineColor,
		LineDetected: c.lastReading.Detected,
		LineOffset:   c.lastReading.Offset,
		LostTicks:    c.lostTicks,
		TicksRun:     c.ticksRun,
		LastAction:   c.lastAction,
		Timestamp:    time.Now(),
	}
}

// notifyHandlers entrega o snapshot atual a todos os handlers registrados
func (c *Controller) notifyHandlers() {
	c.handlersLock.RLock()
	handlers := c.handlers
	c.handlersLock.RUnlock()

	if len(handlers) == 0 {
		return
	}

	snapshot := c.Snapshot()
	for _, handler := range handlers {
		handler(snapshot)
	}
}
