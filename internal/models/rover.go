package models

import "time"

// CommandKind identifica o tipo de comando de movimento do rover
type CommandKind int

const (
	// CommandForward move o rover para frente
	CommandForward CommandKind = iota
	// CommandBackward move o rover para trás
	CommandBackward
	// CommandLeft gira o rover para a esquerda
	CommandLeft
	// CommandRight gira o rover para a direita
	CommandRight
	// CommandStop para todos os motores
	CommandStop
)

// String retorna o nome do comando
func (k CommandKind) String() string {
	switch k {
	case CommandForward:
		return "forward"
	case CommandBackward:
		return "backward"
	case CommandLeft:
		return "left"
	case CommandRight:
		return "right"
	case CommandStop:
		return "stop"
	default:
		return "unknown"
	}
}

// IsMovement verifica se o comando movimenta o rover (Stop não conta)
func (k CommandKind) IsMovement() bool {
	return k != CommandStop
}

// ParseCommandKind converte o nome de uma ação da API para CommandKind
func ParseCommandKind(action string) (CommandKind, bool) {
	switch action {
	case "forward":
		return CommandForward, true
	case "backward":
		return CommandBackward, true
	case "left":
		return CommandLeft, true
	case "right":
		return CommandRight, true
	case "stop":
		return CommandStop, true
	default:
		return CommandStop, false
	}
}

// Command representa um comando de movimento imutável após o envio
type Command struct {
	Kind     CommandKind
	Duration time.Duration
}

// RoverStatus representa o estado de execução do rover
type RoverStatus string

const (
	// StatusIdle indica que o rover está livre para receber comandos
	StatusIdle RoverStatus = "idle"
	// StatusBusy indica que um comando está em trânsito/execução
	StatusBusy RoverStatus = "busy"
	// StatusError indica falha na última execução (ex: rover atolado)
	StatusError RoverStatus = "error"
)

// DelayMode define como o atraso de transmissão é calculado
type DelayMode string

const (
	DelayModeMin     DelayMode = "min"
	DelayModeMax     DelayMode = "max"
	DelayModeAverage DelayMode = "average"
	DelayModeRandom  DelayMode = "random"
)

// ValidDelayMode verifica se o modo de atraso é reconhecido
func ValidDelayMode(mode string) bool {
	switch DelayMode(mode) {
	case DelayModeMin, DelayModeMax, DelayModeAverage, DelayModeRandom:
		return true
	}
	return false
}

// Statistics acumula estatísticas de comandos e atrasos de transmissão
type Statistics struct {
	CommandsSent int     `json:"commands_sent"`
	TotalDelay   float64 `json:"total_delay"`
	AvgDelay     float64 `json:"avg_delay"`
}

// RoverSnapshot é a visão consolidada do rover exposta à camada web
type RoverSnapshot struct {
	Status       RoverStatus `json:"status"`
	LastCommand  string      `json:"last_command"`
	Speed        int         `json:"speed"`
	DelayEnabled bool        `json:"delay_enabled"`
	DelayMode    DelayMode   `json:"delay_mode"`
	Statistics
	Timestamp time.Time `json:"timestamp"`
}

// LogSeverity classifica as entradas do log de transmissão
type LogSeverity string

const (
	LogInfo    LogSeverity = "info"
	LogCommand LogSeverity = "command"
	LogSuccess LogSeverity = "success"
	LogError   LogSeverity = "error"
	LogWarning LogSeverity = "warning"
)

// LogEntry é uma entrada do log de transmissão do rover
type LogEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Severity  LogSeverity `json:"type"`
	Message   string      `json:"message"`
}
