package ground

import (
	"fmt"
	"math/rand"
	"sync"

	"rover_go/internal/config"
	"rover_go/internal/models"
	"rover_go/pkg/logger"
	"rover_go/pkg/utils"
)

// Limite de velocidade abaixo do qual o rover pode atolar em terreno macio
const stuckSpeedThreshold = 50

// Conditions simula as condições do solo e seus efeitos sobre o rover.
// Derrapagem e poeira só aumentam com o movimento; apenas as operações
// explícitas de limpeza/desatolamento as reduzem.
type Conditions struct {
	mu sync.RWMutex

	environment models.GravityMode
	gravity     float64
	terrain     models.TerrainKind

	stuck     bool
	wheelSlip float64 // 0-100%
	dust      float64 // 0-100%

	// Estatísticas acumuladas
	energyConsumed float64
	totalDistance  float64
	stuckCount     int
	slipEvents     int
	terrainChanges int

	rng *rand.Rand
}

// NewConditions cria um novo simulador de condições do solo
func NewConditions(cfg config.GroundConfig, seed int64) *Conditions {
	env := models.GravityMode(cfg.Environment)
	if !models.ValidGravityMode(cfg.Environment) {
		env = models.GravityMoon
	}

	terrain := models.TerrainKind(cfg.InitialTerrain)
	if _, ok := terrainTable[terrain]; !ok {
		terrain = models.TerrainDustyPlain
	}

	c := &Conditions{
		environment: env,
		gravity:     gravityFor(env),
		terrain:     terrain,
		rng:         rand.New(rand.NewSource(seed)),
	}

	logger.Infof("Condições do solo inicializadas: %s (gravidade %.2f m/s², %.1f%% da Terra)",
		env, c.gravity, c.gravity/EarthGravity*100)

	return c
}

// Apply aplica os efeitos de um movimento sobre o solo e as rodas.
// plannedDistance é a distância planejada em metros; speedPercent a
// velocidade dos motores (0-100).
func (c *Conditions) Apply(plannedDistance float64, speedPercent int) models.GroundDelta {
	c.mu.Lock()
	defer c.mu.Unlock()

	terrain := terrainTable[c.terrain]
	gravityFactor := c.gravity / EarthGravity

	// A derrapagem aumenta com a resistência do terreno; gravidade menor
	// significa menos tração e mais derrapagem
	slipIncrement := terrain.Resistance * (1.0 - gravityFactor*0.5) * 10
	slipIncrement += c.rng.Float64() * 5
	c.wheelSlip = utils.ClampFloat(c.wheelSlip+slipIncrement, 0, 100)

	if c.wheelSlip > 30 {
		c.slipEvents++
	}

	// Acúmulo de poeira, mais lento em gravidade baixa
	dustIncrement := terrain.DustLevel * 10 * (1.0 - gravityFactor*0.3)
	c.dust = utils.ClampFloat(c.dust+dustIncrement, 0, 100)

	// Fator de velocidade efetivo: modificador do terreno reduzido pela derrapagem
	speedFactor := terrain.SpeedModifier * (1.0 - c.wheelSlip/100*0.5)
	actualDistance := plannedDistance * speedFactor

	// Sorteio de atolamento: terreno macio em baixa velocidade
	newlyStuck := false
	stuckThreshold := terrain.RiskStuck * (1.2 - gravityFactor)
	if speedPercent < stuckSpeedThreshold && c.rng.Float64() < stuckThreshold {
		c.stuck = true
		c.stuckCount++
		newlyStuck = true
		actualDistance = 0
		logger.Warnf("Rover atolado em %s!", terrain.Name)
	}

	// Consumo de energia: mais resistência e menos gravidade exigem mais tração
	energyUsed := terrain.EnergyCost * plannedDistance / gravityFactor
	c.energyConsumed += energyUsed
	c.totalDistance += actualDistance

	return models.GroundDelta{
		Terrain:        c.terrain,
		SpeedFactor:    speedFactor,
		WheelSlip:      utils.Round2(c.wheelSlip),
		DustLevel:      utils.Round2(c.dust),
		NewlyStuck:     newlyStuck,
		EnergyUsed:     utils.Round2(energyUsed),
		ActualDistance: utils.Round2(actualDistance),
	}
}

// IsStuck verifica se o rover está atolado
func (c *Conditions) IsStuck() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stuck
}

// CleanDust remove poeira acumulada e retorna o novo nível
func (c *Conditions) CleanDust() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.dust
	c.dust = utils.ClampFloat(c.dust-50, 0, 100)
	logger.Infof("Poeira limpa: %.1f%% -> %.1f%%", before, c.dust)

	return c.dust
}

// Unstuck tenta liberar o rover atolado. Em caso de falha o estado
// permanece intacto e o operador deve tentar novamente.
func (c *Conditions) Unstuck() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.stuck {
		return true
	}

	// Chance de sucesso maior em gravidade baixa
	gravityFactor := c.gravity / EarthGravity
	successChance := 0.6 + (1.0-gravityFactor)*0.3

	if c.rng.Float64() < successChance {
		c.stuck = false
		c.wheelSlip = utils.ClampFloat(c.wheelSlip*0.5, 0, 100)
		logger.Info("Rover liberado do atolamento")
		return true
	}

	logger.Warn("Tentativa de desatolamento falhou")
	return false
}

// SetEnvironment altera o ambiente gravitacional (moon/mars/earth)
func (c *Conditions) SetEnvironment(env models.GravityMode) error {
	if !models.ValidGravityMode(string(env)) {
		return fmt.Errorf("ambiente inválido: %s", env)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.environment = env
	c.gravity = gravityFor(env)
	logger.Infof("Ambiente alterado para: %s (%.2f m/s²)", env, c.gravity)

	return nil
}

// SetTerrain altera o tipo de terreno. A troca não redefine
// derrapagem nem poeira acumuladas.
func (c *Conditions) SetTerrain(kind models.TerrainKind) error {
	if _, ok := terrainTable[kind]; !ok {
		return fmt.Errorf("tipo de terreno inválido: %s", kind)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.terrain = kind
	c.terrainChanges++
	logger.Infof("Terreno alterado para: %s", terrainTable[kind].Name)

	return nil
}

// RandomTerrain sorteia um novo tipo de terreno e o aplica
func (c *Conditions) RandomTerrain() models.TerrainKind {
	c.mu.Lock()
	kind := models.AllTerrains[c.rng.Intn(len(models.AllTerrains))]
	c.terrain = kind
	c.terrainChanges++
	c.mu.Unlock()

	logger.Infof("Terreno sorteado: %s", terrainTable[kind].Name)
	return kind
}

// Snapshot retorna a visão completa das condições do solo
func (c *Conditions) Snapshot() models.GroundSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	terrain := terrainTable[c.terrain]

	return models.GroundSnapshot{
		Environment:    c.environment,
		Gravity:        utils.Round2(c.gravity),
		GravityPercent: utils.Round2(c.gravity / EarthGravity * 100),
		Terrain:        c.terrain,
		TerrainName:    terrain.Name,
		WheelSlip:      utils.Round2(c.wheelSlip),
		Dust:           utils.Round2(c.dust),
		Stuck:          c.stuck,
		EnergyConsumed: utils.Round2(c.energyConsumed),
		TotalDistance:  utils.Round2(c.totalDistance),
		StuckCount:     c.stuckCount,
		SlipEvents:     c.slipEvents,
		TerrainChanges: c.terrainChanges,
	}
}

// Warnings deriva os avisos ativos do estado atual. Os avisos são
// recalculados a cada leitura, nunca armazenados.
func (c *Conditions) Warnings() []models.GroundWarning {
	c.mu.RLock()
	defer c.mu.RUnlock()

	warnings := []models.GroundWarning{}

	if c.stuck {
		warnings = append(warnings, models.GroundWarning{
			Level:   models.WarnError,
			Message: "ROVER ATOLADO - use a operação de desatolamento",
		})
	}

	if c.wheelSlip > 50 {
		warnings = append(warnings, models.GroundWarning{
			Level:   models.WarnWarning,
			Message: fmt.Sprintf("Derrapagem alta: %.0f%%", c.wheelSlip),
		})
	}

	if c.dust > 70 {
		warnings = append(warnings, models.GroundWarning{
			Level:   models.WarnWarning,
			Message: "Acúmulo de poeira alto - limpeza recomendada",
		})
	}

	terrain := terrainTable[c.terrain]
	if terrain.RiskStuck > 0.3 {
		warnings = append(warnings, models.GroundWarning{
			Level:   models.WarnCaution,
			Message: fmt.Sprintf("Terreno perigoso: %s", terrain.Name),
		})
	}

	return warnings
}

// ResetStats zera as estatísticas acumuladas do solo
func (c *Conditions) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.energyConsumed = 0
	c.totalDistance = 0
	c.stuckCount = 0
	c.slipEvents = 0
	c.terrainChanges = 0

	logger.Info("Estatísticas das condições do solo zeradas")
}
