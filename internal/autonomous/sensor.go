package autonomous

import (
	"math/rand"
	"sync"

	"rover_go/internal/models"
	"rover_go/pkg/utils"
)

const (
	// Largura do quadro simulado da câmera, em pixels
	frameWidth = 320
	// Probabilidade de perder a linha em uma leitura
	lineLossChance = 0.05
	// Probabilidade de reencontrar a linha após perdê-la
	lineRecoverChance = 0.4
)

// LineSensor simula o detector de linha baseado em câmera. O offset
// faz um passeio aleatório em torno do centro do quadro, com perdas
// ocasionais da linha.
type LineSensor struct {
	mu       sync.Mutex
	rng      *rand.Rand
	offset   int
	detected bool
}

// NewLineSensor cria o sensor de linha simulado
func NewLineSensor(seed int64) *LineSensor {
	return &LineSensor{
		rng:      rand.New(rand.NewSource(seed)),
		detected: true,
	}
}

// Read retorna a leitura atual do sensor e avança a simulação
func (s *LineSensor) Read() models.LineReading {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.detected {
		if s.rng.Float64() < lineLossChance {
			s.detected = false
		}
	} else {
		if s.rng.Float64() < lineRecoverChance {
			s.detected = true
			s.offset = 0
		}
	}

	if !s.detected {
		return models.LineReading{Detected: false}
	}

	// Deriva do offset: passeio aleatório limitado à metade do quadro
	s.offset += s.rng.Intn(41) - 20
	s.offset = utils.Clamp(s.offset, -frameWidth/2, frameWidth/2)

	return models.LineReading{Detected: true, Offset: s.offset}
}

// Inject força uma leitura específica na próxima chamada de Read.
// Usado por testes e pelo endpoint de simulação.
func (s *LineSensor) Inject(detected bool, offset int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detected = detected
	s.offset = offset
}
