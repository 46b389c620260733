package motor

import (
	"sync"

	"rover_go/internal/models"
	"rover_go/pkg/logger"
	"rover_go/pkg/utils"
)

// Driver simula o acionamento dos motores do rover. Em hardware real este
// componente falaria com o driver PWM; aqui apenas registra o acionamento
// e mantém a velocidade configurada.
type Driver struct {
	mu           sync.RWMutex
	currentSpeed int // 0-100%
	lastCommand  models.CommandKind
	moving       bool
}

// NewDriver cria um novo driver de motores simulado
func NewDriver(defaultSpeed int) *Driver {
	d := &Driver{
		currentSpeed: utils.Clamp(defaultSpeed, 0, 100),
		lastCommand:  models.CommandStop,
	}

	logger.Infof("Driver de motores inicializado. Velocidade: %d%%", d.currentSpeed)
	return d
}

// Drive aciona os motores na direção indicada
func (d *Driver) Drive(kind models.CommandKind, speedPercent int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastCommand = kind
	d.moving = kind.IsMovement()

	if kind == models.CommandStop {
		logger.Debug("Motores parados")
		return
	}

	logger.Debugf("Motores acionados: %s a %d%%", kind, speedPercent)
}

// SetSpeed define a velocidade padrão dos motores (0-100)
func (d *Driver) SetSpeed(speed int) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.currentSpeed = utils.Clamp(speed, 0, 100)
	logger.Infof("Velocidade definida para %d%%", d.currentSpeed)

	return d.currentSpeed
}

// Speed retorna a velocidade configurada
func (d *Driver) Speed() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.currentSpeed
}

// Stop para todos os motores
func (d *Driver) Stop() {
	d.Drive(models.CommandStop, 0)
}
