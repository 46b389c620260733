package models

import "time"

// WebSocketMessage representa a estrutura base de todas as mensagens WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`            // Tipo da mensagem: "telemetry", "status", "log", etc.
	Timestamp time.Time   `json:"timestamp"`       // Timestamp da mensagem
	Data      interface{} `json:"data,omitempty"`  // Dados adicionais específicos do tipo
	Error     string      `json:"error,omitempty"` // Mensagem de erro, se houver
}

// TelemetryMessage agrega o estado completo do rover para o dashboard
type TelemetryMessage struct {
	WebSocketMessage
	Rover    RoverSnapshot    `json:"rover"`
	Ground   GroundSnapshot   `json:"ground"`
	Warnings []GroundWarning  `json:"warnings"`
	Position PositionSnapshot `json:"position"`
}

// StatusMessage notifica mudanças no estado de execução do rover
type StatusMessage struct {
	WebSocketMessage
	Status      RoverStatus `json:"status"`
	LastCommand string      `json:"lastCommand,omitempty"`
}

// LogMessage carrega uma entrada do log de transmissão para o dashboard
type LogMessage struct {
	WebSocketMessage
	Entry LogEntry `json:"entry"`
}

// CommandMessage é uma mensagem de comando do cliente para o servidor
type CommandMessage struct {
	Type   string      `json:"type"`             // Tipo de comando: "get_status", "ping", etc.
	Params interface{} `json:"params,omitempty"` // Parâmetros adicionais
	ID     string      `json:"id,omitempty"`     // ID opcional para correlacionar solicitações/respostas
}

// ClientCommand representa um comando enviado pelo cliente
type ClientCommand struct {
	Command  string      `json:"command"`
	Params   interface{} `json:"params,omitempty"`
	ClientID string      `json:"-"` // Usado internamente, não enviado no JSON
}

// PingMessage representa um ping enviado pelo cliente
type PingMessage struct {
	WebSocketMessage
	Time int64 `json:"time"` // Timestamp em milissegundos
}

// PongMessage representa um pong enviado pelo servidor
type PongMessage struct {
	WebSocketMessage
	Time       int64 `json:"time"`       // Timestamp original do ping
	ServerTime int64 `json:"serverTime"` // Timestamp do servidor em milissegundos
}
