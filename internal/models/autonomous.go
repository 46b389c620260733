package models

import "time"

// LineReading é uma leitura do sensor de linha simulado
type LineReading struct {
	Detected bool `json:"detected"`
	Offset   int  `json:"offset"` // pixels a partir do centro (negativo = esquerda)
}

// AutonomousSnapshot representa o estado do modo autônomo
type AutonomousSnapshot struct {
	Active       bool      `json:"active"`
	LineColor    string    `json:"line_color"`
	LineDetected bool      `json:"line_detected"`
	LineOffset   int       `json:"line_offset"`
	LostTicks    int       `json:"lost_ticks"`
	TicksRun     int       `json:"ticks_run"`
	LastAction   string    `json:"last_action"`
	Timestamp    time.Time `json:"timestamp"`
}
