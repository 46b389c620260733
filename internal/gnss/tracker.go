package gnss

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"rover_go/internal/config"
	"rover_go/internal/models"
	"rover_go/pkg/logger"
	"rover_go/pkg/utils"
)

// Tamanho máximo do histórico de posições mantido em memória
const maxPositionHistory = 1000

// PositionPoint é um ponto do histórico de posições
type PositionPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Tracker simula o rastreador GNSS do rover. A posição avança conforme os
// comandos executados; a aquisição do fix roda em segundo plano e só então
// as leituras passam a ser marcadas como válidas.
type Tracker struct {
	cfg      config.GNSSConfig
	roverCfg config.RoverConfig

	mu sync.RWMutex

	latitude   float64
	longitude  float64
	altitude   float64
	speed      float64 // km/h
	heading    float64 // graus
	satellites int
	fixQuality int
	valid      bool
	timestamp  time.Time

	totalDistance float64 // metros, odométrica
	maxSpeed      float64
	positions     []PositionPoint

	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	running   bool

	rng *rand.Rand
}

// NewTracker cria um novo rastreador GNSS simulado
func NewTracker(cfg config.GNSSConfig, roverCfg config.RoverConfig, seed int64) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Tracker{
		cfg:       cfg,
		roverCfg:  roverCfg,
		latitude:  cfg.Latitude,
		longitude: cfg.Longitude,
		altitude:  cfg.Altitude,
		ctx:       ctx,
		cancel:    cancel,
		rng:       rand.New(rand.NewSource(seed)),
		positions: make([]PositionPoint, 0, maxPositionHistory),
	}
}

// Start inicia o loop de aquisição do fix em segundo plano
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}

	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.startedAt = time.Now()
	t.running = true

	go t.acquisitionLoop()

	logger.Info("Rastreamento GNSS iniciado")
}

// Stop encerra o loop de aquisição
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}

	t.cancel()
	t.running = false

	logger.Info("Rastreamento GNSS parado")
}

// acquisitionLoop simula a aquisição gradual de satélites até o fix
func (t *Tracker) acquisitionLoop() {
	ticker := time.NewTicker(t.cfg.UpdateRate)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			elapsed := time.Since(t.startedAt)

			if elapsed >= t.cfg.AcquisitionTime {
				if !t.valid {
					logger.Info("Fix GNSS adquirido")
				}
				t.valid = true
				t.fixQuality = 1
				t.satellites = 8 + t.rng.Intn(5)
			} else {
				// Satélites aparecem gradualmente durante a aquisição
				progress := float64(elapsed) / float64(t.cfg.AcquisitionTime)
				t.satellites = int(progress * 8)
			}

			t.timestamp = time.Now()
			t.mu.Unlock()
		}
	}
}

// Apply avança a posição conforme o comando executado. speedFactor é o
// fator efetivo de velocidade entregue pelas condições do solo.
func (t *Tracker) Apply(kind models.CommandKind, speedFactor float64, duration time.Duration) models.PositionDelta {
	t.mu.Lock()
	defer t.mu.Unlock()

	delta := models.PositionDelta{}

	switch kind {
	case models.CommandForward, models.CommandBackward:
		planned := t.roverCfg.BaseSpeedMS * duration.Seconds() * speedFactor

		// Deriva simulada de até ±10% da distância
		jitter := 1.0 + (t.rng.Float64()*0.2 - 0.1)
		distance := planned * jitter

		heading := t.heading
		if kind == models.CommandBackward {
			heading = utils.NormalizeHeading(heading + 180)
		}

		t.latitude, t.longitude = utils.DestinationPoint(t.latitude, t.longitude, heading, distance)
		t.speed = utils.MsToKmh(t.roverCfg.BaseSpeedMS * speedFactor)

		// Odometria: a distância percorrida nunca diminui, mesmo em ré
		t.totalDistance += distance
		delta.DistanceMeters = distance

	case models.CommandLeft:
		t.heading = utils.NormalizeHeading(t.heading - t.roverCfg.TurnIncrement)
		delta.HeadingChange = -t.roverCfg.TurnIncrement

	case models.CommandRight:
		t.heading = utils.NormalizeHeading(t.heading + t.roverCfg.TurnIncrement)
		delta.HeadingChange = t.roverCfg.TurnIncrement

	case models.CommandStop:
		t.speed = 0
	}

	if t.speed > t.maxSpeed {
		t.maxSpeed = t.speed
	}

	t.timestamp = time.Now()
	t.appendPosition()

	return delta
}

// appendPosition registra o ponto atual no histórico (chamar com lock)
func (t *Tracker) appendPosition() {
	t.positions = append(t.positions, PositionPoint{
		Latitude:  t.latitude,
		Longitude: t.longitude,
		Timestamp: time.Now(),
	})

	if len(t.positions) > maxPositionHistory {
		t.positions = t.positions[len(t.positions)-maxPositionHistory:]
	}
}

// Snapshot retorna a posição atual
func (t *Tracker) Snapshot() models.PositionSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := models.PositionSnapshot{
		Latitude:      t.latitude,
		Longitude:     t.longitude,
		Altitude:      t.altitude,
		Speed:         utils.Round2(t.speed),
		Heading:       utils.Round2(t.heading),
		Satellites:    t.satellites,
		FixQuality:    t.fixQuality,
		Valid:         t.valid,
		TotalDistance: utils.Round2(t.totalDistance),
		MaxSpeed:      utils.Round2(t.maxSpeed),
	}

	if !t.timestamp.IsZero() {
		snap.Timestamp = t.timestamp.Format(time.RFC3339)
	}

	return snap
}

// History retorna uma cópia do histórico de posições
func (t *Tracker) History() []PositionPoint {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]PositionPoint, len(t.positions))
	copy(out, t.positions)
	return out
}

// Reset zera as estatísticas de rastreamento. A posição atual é
// preservada: é um reset de odometria, não um teletransporte.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalDistance = 0
	t.maxSpeed = 0
	t.positions = t.positions[:0]

	logger.Info("Estatísticas GNSS zeradas")
}
