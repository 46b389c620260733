package delay

import (
	"math/rand"
	"sync"

	"rover_go/internal/config"
	"rover_go/internal/models"
)

// Simulator calcula o atraso de transmissão Terra-Marte para um comando.
// O cálculo é uma função pura do modo e dos limites configurados; quem
// decide dormir pelo atraso é o executor de comandos.
type Simulator struct {
	cfg config.DelayConfig

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator cria um novo simulador de atraso
func NewSimulator(cfg config.DelayConfig, seed int64) *Simulator {
	return &Simulator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Compute retorna o atraso em segundos para o modo informado
func (s *Simulator) Compute(mode models.DelayMode) float64 {
	switch mode {
	case models.DelayModeMin:
		return s.cfg.Min
	case models.DelayModeMax:
		return s.cfg.Max
	case models.DelayModeAverage:
		return s.cfg.Average
	case models.DelayModeRandom:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.cfg.Min + s.rng.Float64()*(s.cfg.Max-s.cfg.Min)
	default:
		return s.cfg.Average
	}
}

// Bounds retorna os limites configurados (min, max, average)
func (s *Simulator) Bounds() (float64, float64, float64) {
	return s.cfg.Min, s.cfg.Max, s.cfg.Average
}
