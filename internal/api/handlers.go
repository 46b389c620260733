package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rover_go/internal/autonomous"
	"rover_go/internal/delay"
	"rover_go/internal/gnss"
	"rover_go/internal/ground"
	"rover_go/internal/models"
	"rover_go/internal/redis"
	"rover_go/internal/rover"
	"rover_go/internal/translog"
	"rover_go/pkg/logger"
)

// Handler contém os handlers HTTP da API do rover
type Handler struct {
	executor     *rover.Executor
	groundSvc    *ground.Conditions
	tracker      *gnss.Tracker
	translogMgr  *translog.Manager
	controller   *autonomous.Controller
	redisService *redis.Service
	delaySim     *delay.Simulator
}

// NewHandler cria um novo handler de API
func NewHandler(
	executor *rover.Executor,
	groundSvc *ground.Conditions,
	tracker *gnss.Tracker,
	translogMgr *translog.Manager,
	controller *autonomous.Controller,
	redisService *redis.Service,
	delaySim *delay.Simulator,
) *Handler {
	return &Handler{
		executor:     executor,
		groundSvc:    groundSvc,
		tracker:      tracker,
		translogMgr:  translogMgr,
		controller:   controller,
		redisService: redisService,
		delaySim:     delaySim,
	}
}

// PostCommand aceita um comando de movimento: POST /api/command/{action}
func (h *Handler) PostCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	action := lastPathSegment(r.URL.Path)
	kind, ok := models.ParseCommandKind(action)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Comando desconhecido: %s", action))
		return
	}

	// Duração opcional no corpo
	var body struct {
		Duration float64 `json:"duration"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	cmd := models.Command{Kind: kind}
	if body.Duration > 0 {
		cmd.Duration = time.Duration(body.Duration * float64(time.Second))
	}

	if err := h.executor.Submit(cmd); err != nil {
		h.respondWithCommandError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"command": kind.String(),
		"status":  string(models.StatusBusy),
	})
}

// GetStatus retorna a visão consolidada do rover: GET /api/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	response := map[string]interface{}{
		"success":  true,
		"rover":    h.executor.Snapshot(),
		"ground":   h.groundSvc.Snapshot(),
		"warnings": h.groundSvc.Warnings(),
		"position": h.tracker.Snapshot(),
	}

	h.respondWithJSON(w, http.StatusOK, response)
}

// PostSpeed define a velocidade dos motores: POST /api/speed
func (h *Handler) PostSpeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	var body struct {
		Speed *int `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Speed == nil {
		h.respondWithError(w, http.StatusBadRequest, "Campo 'speed' obrigatório")
		return
	}

	applied := h.executor.SetSpeed(*body.Speed)

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"speed":   applied,
	})
}

// PostDelay habilita/desabilita o atraso de transmissão: POST /api/delay
func (h *Handler) PostDelay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Enabled == nil {
		h.respondWithError(w, http.StatusBadRequest, "Campo 'enabled' obrigatório")
		return
	}

	h.executor.SetDelayEnabled(*body.Enabled)

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"enabled": *body.Enabled,
	})
}

// PostDelayMode define o modo de cálculo do atraso: POST /api/delay/mode
func (h *Handler) PostDelayMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Mode == "" {
		h.respondWithError(w, http.StatusBadRequest, "Campo 'mode' obrigatório")
		return
	}

	if !h.executor.SetDelayMode(models.DelayMode(body.Mode)) {
		h.respondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("Modo inválido: %s (esperado min, max, average ou random)", body.Mode))
		return
	}

	min, max, avg := h.delaySim.Bounds()

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"mode":    body.Mode,
		"bounds":  map[string]float64{"min": min, "max": max, "average": avg},
	})
}

// PostStatsReset zera as estatísticas de comandos: POST /api/stats/reset
func (h *Handler) PostStatsReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	h.executor.ResetStats()

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"rover":   h.executor.Snapshot(),
	})
}

// GetGroundStatus retorna as condições do solo: GET /api/ground/status
func (h *Handler) GetGroundStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"ground":   h.groundSvc.Snapshot(),
		"warnings": h.groundSvc.Warnings(),
	})
}

// GetGroundEnvironment troca o ambiente gravitacional:
// GET /api/ground/environment/{env}
func (h *Handler) GetGroundEnvironment(w http.ResponseWriter, r *http.Request) {
	env := lastPathSegment(r.URL.Path)

	if err := h.groundSvc.SetEnvironment(models.GravityMode(env)); err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.translogMgr.Appendf(models.LogInfo, "Ambiente alterado para %s", env)

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"ground":  h.groundSvc.Snapshot(),
	})
}

// GetGroundTerrain troca o terreno sob o rover (incl. "random"):
// GET /api/ground/terrain/{terrain}
func (h *Handler) GetGroundTerrain(w http.ResponseWriter, r *http.Request) {
	name := lastPathSegment(r.URL.Path)

	if name == "random" {
		terrain := h.groundSvc.RandomTerrain()
		h.translogMgr.Appendf(models.LogInfo, "Terreno sorteado: %s", terrain)

		h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"terrain": terrain,
			"ground":  h.groundSvc.Snapshot(),
		})
		return
	}

	if err := h.groundSvc.SetTerrain(models.TerrainKind(name)); err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.translogMgr.Appendf(models.LogInfo, "Terreno alterado para %s", name)

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"terrain": name,
		"ground":  h.groundSvc.Snapshot(),
	})
}

// PostGroundUnstuck tenta liberar o rover atolado: POST /api/ground/unstuck
func (h *Handler) PostGroundUnstuck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	if !h.groundSvc.IsStuck() {
		h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Rover não está atolado",
			"ground":  h.groundSvc.Snapshot(),
		})
		return
	}

	freed := h.groundSvc.Unstuck()
	if freed {
		h.executor.ClearError()
		h.translogMgr.Append(models.LogSuccess, "Manobra de desatolamento bem-sucedida")
	} else {
		h.translogMgr.Append(models.LogWarning, "Manobra de desatolamento falhou")
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": freed,
		"stuck":   h.groundSvc.IsStuck(),
		"ground":  h.groundSvc.Snapshot(),
	})
}

// PostGroundCleanDust limpa a poeira acumulada: POST /api/ground/clean_dust
func (h *Handler) PostGroundCleanDust(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	dust := h.groundSvc.CleanDust()
	h.translogMgr.Appendf(models.LogInfo, "Limpeza de poeira executada, nível atual %.1f", dust)

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"dust":    dust,
		"ground":  h.groundSvc.Snapshot(),
	})
}

// PostGroundResetStats zera os contadores do solo: POST /api/ground/reset_stats
func (h *Handler) PostGroundResetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	h.groundSvc.ResetStats()

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"ground":  h.groundSvc.Snapshot(),
	})
}

// GetPosition retorna a posição GNSS simulada: GET /api/gnss/position
func (h *Handler) GetPosition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"position": h.tracker.Snapshot(),
	})
}

// GetPositionHistory retorna o rastro percorrido: GET /api/gnss/history
func (h *Handler) GetPositionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	// Com Redis disponível o rastro persistido é preferido
	if h.redisService != nil && h.redisService.IsConnected() {
		track, err := h.redisService.GetTrack(parseLimit(r, 1000))
		if err == nil {
			h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"source":  "redis",
				"track":   track,
			})
			return
		}
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"source":  "memory",
		"track":   h.tracker.History(),
	})
}

// PostPositionReset zera os acumuladores de posição: POST /api/gnss/reset
func (h *Handler) PostPositionReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	h.tracker.Reset()
	h.translogMgr.Append(models.LogInfo, "Acumuladores de posição zerados")

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"position": h.tracker.Snapshot(),
	})
}

// PostAutonomousStart ativa o modo autônomo: POST /api/autonomous/start
func (h *Handler) PostAutonomousStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	if err := h.controller.Start(); err != nil {
		h.respondWithCommandError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"autonomous": h.controller.Snapshot(),
	})
}

// PostAutonomousStop desativa o modo autônomo: POST /api/autonomous/stop
func (h *Handler) PostAutonomousStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	h.controller.Stop()

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"autonomous": h.controller.Snapshot(),
	})
}

// GetAutonomousStatus retorna o estado do modo autônomo: GET /api/autonomous/status
func (h *Handler) GetAutonomousStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"autonomous": h.controller.Snapshot(),
	})
}

// PostAutonomousConfig ajusta o seguidor de linha: POST /api/autonomous/config
func (h *Handler) PostAutonomousConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	var body struct {
		LineColor     string `json:"line_color"`
		BaseSpeed     int    `json:"base_speed"`
		TurnThreshold int    `json:"turn_threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}

	h.controller.Configure(body.LineColor, body.BaseSpeed, body.TurnThreshold)

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"autonomous": h.controller.Snapshot(),
	})
}

// GetLogsRecent retorna as entradas recentes do log: GET /api/logs/recent
func (h *Handler) GetLogsRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	count := int(parseLimit(r, 50))

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"entries": h.translogMgr.Recent(count),
	})
}

// GetLogsList lista os arquivos de log em disco: GET /api/logs/list
func (h *Handler) GetLogsList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	files, err := h.translogMgr.Files()
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"files":   files,
	})
}

// GetLogsStats retorna estatísticas do log de transmissão: GET /api/logs/stats
func (h *Handler) GetLogsStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   h.translogMgr.Stats(),
	})
}

// PostLogsExport força a rotação do log atual: POST /api/logs/export
func (h *Handler) PostLogsExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
		return
	}

	path, err := h.translogMgr.Export()
	if err != nil {
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"file":    path,
	})
}

// respondWithCommandError mapeia os erros do domínio para códigos HTTP
func (h *Handler) respondWithCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rover.ErrBusy):
		h.respondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
			"status":  string(models.StatusBusy),
		})
	case errors.Is(err, rover.ErrStuck):
		h.respondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
			"stuck":   true,
		})
	case errors.Is(err, rover.ErrNotReady):
		h.respondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
	default:
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondWithError responde com erro em formato JSON
func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]interface{}{"success": false, "error": message})
}

// respondWithJSON responde com JSON
func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Errorf("Erro ao codificar resposta JSON: %v", err)
		fmt.Fprintf(w, `{"error":"Erro interno ao processar resposta"}`)
	}
}

// lastPathSegment extrai o último segmento de um caminho de URL
func lastPathSegment(path string) string {
	path = strings.TrimSuffix(path, "/")
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

// parseLimit lê o parâmetro ?limit= com um valor padrão
func parseLimit(r *http.Request, def int64) int64 {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}

	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return def
	}
	return limit
}
