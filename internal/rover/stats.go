package rover

import (
	"sync"

	"rover_go/internal/models"
	"rover_go/pkg/utils"
)

// statistics acumula contadores de comandos e atraso com exclusão
// própria, para que leituras não fiquem atrás de um comando em trânsito
type statistics struct {
	mu           sync.Mutex
	commandsSent int
	totalDelay   float64
}

// record registra um comando aceito e seu atraso
func (s *statistics) record(delaySeconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commandsSent++
	s.totalDelay += delaySeconds
}

// snapshot retorna os contadores atuais com a média derivada
func (s *statistics) snapshot() models.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	avg := 0.0
	if s.commandsSent > 0 {
		avg = s.totalDelay / float64(s.commandsSent)
	}

	return models.Statistics{
		CommandsSent: s.commandsSent,
		TotalDelay:   utils.Round2(s.totalDelay),
		AvgDelay:     utils.Round2(avg),
	}
}

// reset zera todos os contadores atomicamente
func (s *statistics) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commandsSent = 0
	s.totalDelay = 0
}
