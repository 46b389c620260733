package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"rover_go/internal/config"
	"rover_go/internal/models"
	"rover_go/pkg/logger"
)

// Tamanho máximo do rastro de posições mantido no histórico
const maxTrackSize = 1000

// Service gerencia a persistência da telemetria do rover no Redis.
// Falhas de conexão nunca interrompem a missão: o serviço entra em
// modo offline e as escritas viram no-ops.
type Service struct {
	client    *redis.Client
	ctx       context.Context
	cancel    context.CancelFunc
	prefix    string
	config    config.RedisConfig
	connected bool
	mutex     sync.RWMutex
}

// NewService cria um novo serviço Redis
func NewService(cfg config.RedisConfig) (*Service, error) {
	if !cfg.Enabled {
		logger.Info("Serviço Redis desabilitado por configuração")
		return &Service{
			config:    cfg,
			connected: false,
		}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	service := &Service{
		client: client,
		ctx:    ctx,
		cancel: cancel,
		prefix: cfg.Prefix,
		config: cfg,
	}

	if err := service.TestConnection(); err != nil {
		logger.Warnf("Aviso: %v. O Redis será utilizado em modo offline.", err)
		service.connected = false
		return service, nil
	}

	service.connected = true
	return service, nil
}

// TestConnection testa a conexão com o Redis
func (s *Service) TestConnection() error {
	if !s.config.Enabled {
		return fmt.Errorf("serviço Redis desabilitado")
	}

	result, err := s.client.Ping(s.ctx).Result()
	if err != nil {
		return fmt.Errorf("erro ao conectar ao Redis: %w", err)
	}

	logger.Infof("Conexão com o Redis estabelecida. Resposta: %s", result)
	s.connected = true
	return nil
}

// IsConnected verifica se o serviço está conectado
func (s *Service) IsConnected() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.connected && s.config.Enabled
}

func (s *Service) key(suffix string) string {
	return fmt.Sprintf("%s:%s", s.prefix, suffix)
}

func (s *Service) markOffline() {
	s.mutex.Lock()
	s.connected = false
	s.mutex.Unlock()
}

// WriteRover escreve o estado do rover no Redis
func (s *Service) WriteRover(snapshot models.RoverSnapshot) error {
	if !s.IsConnected() {
		return nil
	}

	pipe := s.client.Pipeline()
	timestamp := snapshot.Timestamp.UnixNano() / int64(time.Millisecond)

	pipe.Set(s.ctx, s.key("status"), string(snapshot.Status), 0)
	pipe.Set(s.ctx, s.key("last_command"), snapshot.LastCommand, 0)
	pipe.Set(s.ctx, s.key("speed"), snapshot.Speed, 0)
	pipe.Set(s.ctx, s.key("delay_mode"), string(snapshot.DelayMode), 0)
	pipe.Set(s.ctx, s.key("delay_enabled"), snapshot.DelayEnabled, 0)
	pipe.Set(s.ctx, s.key("commands_sent"), snapshot.CommandsSent, 0)
	pipe.Set(s.ctx, s.key("total_delay"), snapshot.TotalDelay, 0)
	pipe.Set(s.ctx, s.key("timestamp"), timestamp, 0)

	if _, err := pipe.Exec(s.ctx); err != nil {
		s.markOffline()
		return fmt.Errorf("erro ao escrever estado do rover no Redis: %w", err)
	}

	return nil
}

// WriteGround escreve as condições do solo no Redis
func (s *Service) WriteGround(snapshot models.GroundSnapshot) error {
	if !s.IsConnected() {
		return nil
	}

	pipe := s.client.Pipeline()

	pipe.Set(s.ctx, s.key("ground:environment"), string(snapshot.Environment), 0)
	pipe.Set(s.ctx, s.key("ground:terrain"), string(snapshot.Terrain), 0)
	pipe.Set(s.ctx, s.key("ground:wheel_slip"), snapshot.WheelSlip, 0)
	pipe.Set(s.ctx, s.key("ground:dust"), snapshot.Dust, 0)
	pipe.Set(s.ctx, s.key("ground:stuck"), snapshot.Stuck, 0)
	pipe.Set(s.ctx, s.key("ground:energy"), snapshot.EnergyConsumed, 0)

	if _, err := pipe.Exec(s.ctx); err != nil {
		s.markOffline()
		return fmt.Errorf("erro ao escrever condições do solo no Redis: %w", err)
	}

	return nil
}

// WritePosition escreve a posição atual e alimenta o rastro histórico
func (s *Service) WritePosition(snapshot models.PositionSnapshot) error {
	if !s.IsConnected() {
		return nil
	}

	pipe := s.client.Pipeline()
	timestamp := time.Now().UnixNano() / int64(time.Millisecond)

	pipe.Set(s.ctx, s.key("position:latitude"), snapshot.Latitude, 0)
	pipe.Set(s.ctx, s.key("position:longitude"), snapshot.Longitude, 0)
	pipe.Set(s.ctx, s.key("position:altitude"), snapshot.Altitude, 0)
	pipe.Set(s.ctx, s.key("position:heading"), snapshot.Heading, 0)
	pipe.Set(s.ctx, s.key("position:distance"), snapshot.TotalDistance, 0)

	// Rastro percorrido: membro "lat,lon" pontuado pelo timestamp
	trackKey := s.key("position:track")
	member := fmt.Sprintf("%.6f,%.6f,%d", snapshot.Latitude, snapshot.Longitude, timestamp)
	pipe.ZAdd(s.ctx, trackKey, &redis.Z{
		Score:  float64(timestamp),
		Member: member,
	})
	pipe.ZRemRangeByRank(s.ctx, trackKey, 0, int64(-maxTrackSize-1))

	if _, err := pipe.Exec(s.ctx); err != nil {
		s.markOffline()
		return fmt.Errorf("erro ao escrever posição no Redis: %w", err)
	}

	return nil
}

// WriteLogEntry registra uma entrada do log de transmissão no histórico
func (s *Service) WriteLogEntry(entry models.LogEntry) error {
	if !s.IsConnected() {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("erro ao serializar entrada de log: %w", err)
	}

	pipe := s.client.Pipeline()
	logKey := s.key("translog")

	pipe.ZAdd(s.ctx, logKey, &redis.Z{
		Score:  float64(entry.Timestamp.UnixNano() / int64(time.Millisecond)),
		Member: string(data),
	})
	pipe.ZRemRangeByRank(s.ctx, logKey, 0, int64(-maxTrackSize-1))
	pipe.Incr(s.ctx, s.key("translog:count"))

	if _, err := pipe.Exec(s.ctx); err != nil {
		s.markOffline()
		return fmt.Errorf("erro ao escrever log no Redis: %w", err)
	}

	return nil
}

// GetRover obtém o último estado do rover persistido no Redis
func (s *Service) GetRover() (*models.RoverSnapshot, error) {
	if !s.IsConnected() {
		return nil, fmt.Errorf("Redis não conectado ou desabilitado")
	}

	statusCmd := s.client.Get(s.ctx, s.key("status"))
	if statusCmd.Err() != nil {
		return nil, fmt.Errorf("erro ao obter status: %w", statusCmd.Err())
	}

	snapshot := &models.RoverSnapshot{
		Status:    models.RoverStatus(statusCmd.Val()),
		Timestamp: time.Now(),
	}

	if cmd := s.client.Get(s.ctx, s.key("last_command")); cmd.Err() == nil {
		snapshot.LastCommand = cmd.Val()
	}

	if cmd := s.client.Get(s.ctx, s.key("speed")); cmd.Err() == nil {
		if val, err := cmd.Int(); err == nil {
			snapshot.Speed = val
		}
	}

	if cmd := s.client.Get(s.ctx, s.key("delay_mode")); cmd.Err() == nil {
		snapshot.DelayMode = models.DelayMode(cmd.Val())
	}

	if cmd := s.client.Get(s.ctx, s.key("delay_enabled")); cmd.Err() == nil {
		snapshot.DelayEnabled = cmd.Val() == "1" || cmd.Val() == "true"
	}

	if cmd := s.client.Get(s.ctx, s.key("commands_sent")); cmd.Err() == nil {
		if val, err := cmd.Int(); err == nil {
			snapshot.CommandsSent = val
		}
	}

	if cmd := s.client.Get(s.ctx, s.key("total_delay")); cmd.Err() == nil {
		if val, err := cmd.Float64(); err == nil {
			snapshot.TotalDelay = val
		}
	}

	if cmd := s.client.Get(s.ctx, s.key("timestamp")); cmd.Err() == nil {
		if ts, err := cmd.Int64(); err == nil {
			snapshot.Timestamp = time.Unix(0, ts*int64(time.Millisecond))
		}
	}

	return snapshot, nil
}

// TrackPoint é um ponto do rastro percorrido recuperado do Redis
type TrackPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// GetTrack obtém o rastro de posições percorrido pelo rover
func (s *Service) GetTrack(limit int64) ([]TrackPoint, error) {
	if !s.IsConnected() {
		return nil, fmt.Errorf("Redis não conectado ou desabilitado")
	}

	if limit <= 0 || limit > maxTrackSize {
		limit = maxTrackSize
	}

	dataCmd := s.client.ZRevRangeWithScores(s.ctx, s.key("position:track"), 0, limit-1)
	if dataCmd.Err() != nil {
		return nil, fmt.Errorf("erro ao obter rastro de posições: %w", dataCmd.Err())
	}

	results := dataCmd.Val()
	track := make([]TrackPoint, 0, len(results))

	for _, item := range results {
		member, ok := item.Member.(string)
		if !ok {
			continue
		}

		parts := strings.Split(member, ",")
		if len(parts) < 2 {
			continue
		}

		lat, errLat := strconv.ParseFloat(parts[0], 64)
		lon, errLon := strconv.ParseFloat(parts[1], 64)
		if errLat != nil || errLon != nil {
			continue
		}

		track = append(track, TrackPoint{
			Latitude:  lat,
			Longitude: lon,
			Timestamp: time.Unix(0, int64(item.Score)*int64(time.Millisecond)),
		})
	}

	return track, nil
}

// GetLogEntries obtém as entradas mais recentes do log de transmissão
func (s *Service) GetLogEntries(limit int64) ([]models.LogEntry, error) {
	if !s.IsConnected() {
		return nil, fmt.Errorf("Redis não conectado ou desabilitado")
	}

	if limit <= 0 {
		limit = 50
	}

	dataCmd := s.client.ZRevRange(s.ctx, s.key("translog"), 0, limit-1)
	if dataCmd.Err() != nil {
		return nil, fmt.Errorf("erro ao obter log de transmissão: %w", dataCmd.Err())
	}

	raw := dataCmd.Val()
	entries := make([]models.LogEntry, 0, len(raw))

	for _, item := range raw {
		var entry models.LogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Shutdown encerra graciosamente o serviço Redis
func (s *Service) Shutdown() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	if s.client != nil {
		if err := s.client.Close(); err != nil {
			logger.Errorf("Erro ao fechar conexão com Redis: %v", err)
		} else {
			logger.Info("Conexão com o Redis fechada")
		}
	}

	s.connected = false
}
