package websocket

import (
	"context"
	"sync"
	"time"

	"rover_go/internal/models"
	"rover_go/pkg/logger"
)

// TelemetryProvider fornece a telemetria corrente sob demanda (dados
// iniciais de novos clientes e comandos get_status)
type TelemetryProvider func() models.TelemetryMessage

// Hub gerencia todas as conexões WebSocket e distribuição de mensagens
type Hub struct {
	// Clientes registrados
	clients map[*Client]bool

	// Canal para registrar clientes
	register chan *Client

	// Canal para desregistrar clientes
	unregister chan *Client

	// Canal para mensagens de broadcast
	broadcast chan []byte

	// Comando recebido dos clientes
	commands chan models.ClientCommand

	// Mutex para operações concorrentes no mapa de clientes
	mu sync.RWMutex

	// Fonte da telemetria corrente
	providerLock sync.RWMutex
	provider     TelemetryProvider

	// Estatísticas
	stats struct {
		totalMessages      int64
		totalClients       int64
		messagesPerSecond  float64
		lastStatsReset     time.Time
		messagesSinceReset int64
	}
	statsLock sync.Mutex

	// Sinal para encerramento do hub
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub cria uma nova instância do Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		commands:   make(chan models.ClientCommand, 100),
		ctx:        ctx,
		cancel:     cancel,
	}

	h.stats.lastStatsReset = time.Now()

	return h
}

// SetTelemetryProvider define a fonte da telemetria corrente
func (h *Hub) SetTelemetryProvider(provider TelemetryProvider) {
	h.providerLock.Lock()
	defer h.providerLock.Unlock()
	h.provider = provider
}

// Run inicia o loop principal do hub para gerenciar clientes e mensagens
func (h *Hub) Run() {
	logger.Info("Iniciando WebSocket Hub")

	// Ticker para estatísticas periódicas
	statsTicker := time.NewTicker(30 * time.Second)
	defer statsTicker.Stop()

	// Ticker para manter as conexões ativas
	keepAliveTicker := time.NewTicker(5 * time.Second)
	defer keepAliveTicker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			logger.Info("Encerrando WebSocket Hub")
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()

			logger.Infof("Novo cliente WebSocket conectado. ID: %s. Total: %d", client.id, clientCount)

			h.statsLock.Lock()
			h.stats.totalClients++
			h.statsLock.Unlock()

			go h.sendInitialDataToClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.statsLock.Lock()
			h.stats.totalMessages++
			h.stats.messagesSinceReset++
			h.statsLock.Unlock()

			h.mu.RLock()
			if len(h.clients) == 0 {
				h.mu.RUnlock()
				continue
			}

			deadClients := make([]*Client, 0, 4)

			for client := range h.clients {
				select {
				case client.send <- message:
					// Mensagem enviada com sucesso
				default:
					// Canal do cliente está cheio, marcar para desconexão
					deadClients = append(deadClients, client)
				}
			}
			h.mu.RUnlock()

			// Remoção direta: reenviar em h.unregister aqui travaria o loop
			for _, client := range deadClients {
				h.removeClient(client)
			}

		case cmd := <-h.commands:
			go h.handleClientCommand(cmd)

		case <-statsTicker.C:
			h.statsLock.Lock()
			elapsed := time.Since(h.stats.lastStatsReset).Seconds()
			if elapsed > 0 {
				h.stats.messagesPerSecond = float64(h.stats.messagesSinceReset) / elapsed
			}

			h.stats.messagesSinceReset = 0
			h.stats.lastStatsReset = time.Now()

			mps := h.stats.messagesPerSecond
			total := h.stats.totalMessages
			h.statsLock.Unlock()

			h.mu.RLock()
			clientCount := len(h.clients)
			h.mu.RUnlock()

			logger.Debugf("Estatísticas WebSocket: %d clientes, %.2f msgs/seg, total: %d mensagens",
				clientCount, mps, total)

		case <-keepAliveTicker.C:
			h.sendPingToAllClients()
		}
	}
}

// removeClient desregistra um cliente e fecha seu canal de envio
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		logger.Infof("Cliente WebSocket desconectado. ID: %s. Total: %d", client.id, len(h.clients))
	}
}

// trySend entrega uma mensagem a um cliente ainda registrado. Checagem
// e envio acontecem sob o lock para não correr com o fechamento do
// canal em removeClient; com o buffer cheio a mensagem é descartada.
func (h *Hub) trySend(client *Client, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	select {
	case client.send <- message:
	default:
		logger.Warnf("Buffer de envio cheio, mensagem descartada. Cliente: %s", client.id)
	}
}

// BroadcastTelemetry envia a telemetria consolidada para todos os clientes
func (h *Hub) BroadcastTelemetry(telemetry models.TelemetryMessage) {
	telemetry.Type = "telemetry"
	telemetry.Timestamp = time.Now()

	if jsonMessage, err := SerializeMessage(telemetry); err == nil {
		h.broadcast <- jsonMessage
	} else {
		logger.Error("Erro ao serializar mensagem de telemetria", err)
	}
}

// BroadcastStatus envia atualização de status do rover para todos os clientes
func (h *Hub) BroadcastStatus(snapshot models.RoverSnapshot) {
	message := NewStatusMessage(snapshot)

	if jsonMessage, err := SerializeMessage(message); err == nil {
		h.broadcast <- jsonMessage
	} else {
		logger.Error("Erro ao serializar mensagem de status", err)
	}
}

// BroadcastLog envia uma entrada do log de transmissão para todos os clientes
func (h *Hub) BroadcastLog(entry models.LogEntry) {
	message := NewLogMessage(entry)

	if jsonMessage, err := SerializeMessage(message); err == nil {
		h.broadcast <- jsonMessage
	} else {
		logger.Error("Erro ao serializar mensagem de log", err)
	}
}

// handleClientCommand processa comandos recebidos dos clientes
func (h *Hub) handleClientCommand(cmd models.ClientCommand) {
	logger.Debugf("Comando recebido do cliente %s: %s", cmd.ClientID, cmd.Command)

	switch cmd.Command {
	case "get_status":
		h.sendCurrentTelemetry(cmd.ClientID)
	case "ping":
		h.sendPong(cmd.ClientID, cmd.Params)
	default:
		logger.Warnf("Comando desconhecido: %s", cmd.Command)
	}
}

// sendCurrentTelemetry envia a telemetria corrente para um cliente específico
func (h *Hub) sendCurrentTelemetry(clientID string) {
	client := h.getClientByID(clientID)
	if client == nil {
		return
	}

	h.providerLock.RLock()
	provider := h.provider
	h.providerLock.RUnlock()

	if provider == nil {
		return
	}

	telemetry := provider()
	telemetry.Type = "telemetry"
	telemetry.Timestamp = time.Now()

	if jsonMsg, err := SerializeMessage(telemetry); err == nil {
		h.trySend(client, jsonMsg)
	}
}

// sendPong envia resposta de pong para um cliente específico
func (h *Hub) sendPong(clientID string, params interface{}) {
	client := h.getClientByID(clientID)
	if client == nil {
		return
	}

	var pingTime int64
	if paramsMap, ok := params.(map[string]interface{}); ok {
		if timeVal, ok := paramsMap["time"].(float64); ok {
			pingTime = int64(timeVal)
		}
	}

	pong := CreatePongResponse(pingTime)

	if jsonMsg, err := SerializeMessage(pong); err == nil {
		h.trySend(client, jsonMsg)
	}
}

// sendInitialDataToClient envia dados iniciais para um novo cliente
func (h *Hub) sendInitialDataToClient(client *Client) {
	welcome := models.WebSocketMessage{
		Type:      "welcome",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message":  "Conectado ao servidor Lunar Rover",
			"clientId": client.id,
		},
	}

	if jsonMsg, err := SerializeMessage(welcome); err == nil {
		h.trySend(client, jsonMsg)
	}

	// Telemetria corrente logo após o welcome, para o dashboard
	// renderizar sem esperar o próximo ciclo de broadcast
	h.providerLock.RLock()
	provider := h.provider
	h.providerLock.RUnlock()

	if provider == nil {
		return
	}

	telemetry := provider()
	telemetry.Type = "telemetry"
	telemetry.Timestamp = time.Now()

	if jsonMsg, err := SerializeMessage(telemetry); err == nil {
		h.trySend(client, jsonMsg)
	}
}

// Shutdown encerra graciosamente o hub
func (h *Hub) Shutdown() {
	h.cancel()
	// Aguardar um pequeno tempo para processamento finalizar
	time.Sleep(100 * time.Millisecond)
}

// closeAllClients fecha todas as conexões dos clientes
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("Fechando todas as conexões de clientes WebSocket")
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

// ClientCount retorna o número atual de clientes conectados
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// getClientByID retorna um cliente pelo seu ID
func (h *Hub) getClientByID(clientID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.id == clientID {
			return client
		}
	}
	return nil
}

// sendPingToAllClients envia ping para todos os clientes
func (h *Hub) sendPingToAllClients() {
	ping := models.PingMessage{
		WebSocketMessage: models.WebSocketMessage{
			Type:      "ping",
			Timestamp: time.Now(),
		},
		Time: time.Now().UnixNano() / int64(time.Millisecond),
	}

	if jsonMsg, err := SerializeMessage(ping); err == nil {
		h.mu.RLock()
		hasClients := len(h.clients) > 0
		h.mu.RUnlock()

		if hasClients {
			h.broadcast <- jsonMsg
		}
	}
}
