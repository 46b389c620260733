package websocket

import (
	"encoding/json"
	"time"

	"rover_go/internal/models"
)

// Funções utilitárias para criação e processamento de mensagens WebSocket

// NewTelemetryMessage monta a mensagem de telemetria consolidada do rover
func NewTelemetryMessage(
	rover models.RoverSnapshot,
	ground models.GroundSnapshot,
	warnings []models.GroundWarning,
	position models.PositionSnapshot,
) models.TelemetryMessage {
	return models.TelemetryMessage{
		WebSocketMessage: models.WebSocketMessage{
			Type:      "telemetry",
			Timestamp: time.Now(),
		},
		Rover:    rover,
		Ground:   ground,
		Warnings: warnings,
		Position: position,
	}
}

// NewStatusMessage cria uma nova mensagem de status do rover
func NewStatusMessage(snapshot models.RoverSnapshot) models.StatusMessage {
	return models.StatusMessage{
		WebSocketMessage: models.WebSocketMessage{
			Type:      "status",
			Timestamp: time.Now(),
		},
		Status:      snapshot.Status,
		LastCommand: snapshot.LastCommand,
	}
}

// NewLogMessage cria uma nova mensagem com uma entrada do log de transmissão
func NewLogMessage(entry models.LogEntry) models.LogMessage {
	return models.LogMessage{
		WebSocketMessage: models.WebSocketMessage{
			Type:      "log",
			Timestamp: time.Now(),
		},
		Entry: entry,
	}
}

// NewErrorMessage cria uma nova mensagem de erro
func NewErrorMessage(message string, errorCode string) models.WebSocketMessage {
	return models.WebSocketMessage{
		Type:      "error",
		Timestamp: time.Now(),
		Error:     message,
		Data: map[string]string{
			"code": errorCode,
		},
	}
}

// SerializeMessage serializa uma mensagem para JSON
func SerializeMessage(message interface{}) ([]byte, error) {
	return json.Marshal(message)
}

// ParseClientCommand analisa um comando recebido do cliente
func ParseClientCommand(data []byte) (models.CommandMessage, error) {
	var command models.CommandMessage
	err := json.Unmarshal(data, &command)
	return command, err
}

// CreatePongResponse cria uma resposta para um ping do cliente
func CreatePongResponse(pingTime int64) models.PongMessage {
	return models.PongMessage{
		WebSocketMessage: models.WebSocketMessage{
			Type:      "pong",
			Timestamp: time.Now(),
		},
		Time:       pingTime,
		ServerTime: time.Now().UnixNano() / int64(time.Millisecond),
	}
}
