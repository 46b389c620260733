package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"rover_go/internal/autonomous"
	"rover_go/internal/config"
	"rover_go/internal/delay"
	"rover_go/internal/discovery"
	"rover_go/internal/gnss"
	"rover_go/internal/ground"
	"rover_go/internal/models"
	"rover_go/internal/motor"
	"rover_go/internal/redis"
	"rover_go/internal/rover"
	"rover_go/internal/translog"
	"rover_go/internal/websocket"
	"rover_go/pkg/logger"
)

// Intervalo do broadcast periódico de telemetria
const telemetryInterval = 1 * time.Second

// Server encapsula o servidor HTTP com todos os componentes do rover
type Server struct {
	config     *config.Config
	httpServer *http.Server
	router     *http.ServeMux

	delaySim    *delay.Simulator
	groundSvc   *ground.Conditions
	tracker     *gnss.Tracker
	driver      *motor.Driver
	translogMgr *translog.Manager
	executor    *rover.Executor
	lineSensor  *autonomous.LineSensor
	controller  *autonomous.Controller

	redisService     *redis.Service
	wsHub            *websocket.Hub
	discoveryService *discovery.DiscoveryService

	telemetryCtx    context.Context
	telemetryCancel context.CancelFunc

	serverInfo ServerInfo
}

// ServerInfo contém informações sobre o servidor
type ServerInfo struct {
	IP           string
	Port         int
	StartTime    time.Time
	Connections  int
	Version      string
	WebSocketURL string
	APIURL       string
}

// NewServer cria uma nova instância do servidor
func NewServer(cfg *config.Config) (*Server, error) {
	server := &Server{
		config: cfg,
		router: http.NewServeMux(),
		serverInfo: ServerInfo{
			StartTime: time.Now(),
			Version:   "1.0.0",
			Port:      cfg.Server.Port,
		},
	}

	ip, err := server.getLocalIP()
	if err != nil {
		return nil, fmt.Errorf("erro ao obter IP local: %w", err)
	}
	server.serverInfo.IP = ip

	server.serverInfo.WebSocketURL = fmt.Sprintf("ws://%s:%d/ws", ip, cfg.Server.Port)
	server.serverInfo.APIURL = fmt.Sprintf("http://%s:%d/api", ip, cfg.Server.Port)

	if err := server.initComponents(); err != nil {
		return nil, err
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return server, nil
}

// initComponents inicializa todos os componentes do servidor
func (s *Server) initComponents() error {
	// Hub WebSocket
	s.wsHub = websocket.NewHub()
	go s.wsHub.Run()

	// Serviço Redis
	redisService, err := redis.NewService(s.config.Redis)
	if err != nil {
		return fmt.Errorf("erro ao inicializar serviço Redis: %w", err)
	}
	s.redisService = redisService

	// Log de transmissão
	translogMgr, err := translog.NewManager(s.config.Log)
	if err != nil {
		return fmt.Errorf("erro ao inicializar log de transmissão: %w", err)
	}
	s.translogMgr = translogMgr

	// Simulações do rover
	seed := time.Now().UnixNano()
	s.delaySim = delay.NewSimulator(s.config.Delay, seed)
	s.groundSvc = ground.NewConditions(s.config.Ground, seed+1)
	s.tracker = gnss.NewTracker(s.config.GNSS, s.config.Rover, seed+2)
	s.driver = motor.NewDriver(s.config.Rover.DefaultSpeed)

	// Executor de comandos
	s.executor = rover.NewExecutor(
		s.config.Rover,
		s.config.Delay,
		s.delaySim,
		s.groundSvc,
		s.tracker,
		s.driver,
		s.translogMgr,
	)

	// Modo autônomo
	s.lineSensor = autonomous.NewLineSensor(seed + 3)
	s.controller = autonomous.NewController(s.config.Autonomous, s.executor, s.lineSensor, s.translogMgr)

	// Serviço de descoberta
	s.discoveryService = discovery.NewDiscoveryService(s.config.Server.Port)

	s.wireHandlers()

	return nil
}

// wireHandlers conecta os componentes via callbacks: transições do rover
// e entradas de log alimentam o WebSocket e o Redis
func (s *Server) wireHandlers() {
	s.wsHub.SetTelemetryProvider(s.buildTelemetry)

	s.executor.RegisterSnapshotHandler(func(snapshot models.RoverSnapshot) {
		s.wsHub.BroadcastStatus(snapshot)

		if err := s.redisService.WriteRover(snapshot); err != nil {
			logger.Debugf("Redis indisponível: %v", err)
		}
		if err := s.redisService.WriteGround(s.groundSvc.Snapshot()); err != nil {
			logger.Debugf("Redis indisponível: %v", err)
		}
		if err := s.redisService.WritePosition(s.tracker.Snapshot()); err != nil {
			logger.Debugf("Redis indisponível: %v", err)
		}
	})

	s.translogMgr.RegisterHandler(func(entry models.LogEntry) {
		s.wsHub.BroadcastLog(entry)

		if err := s.redisService.WriteLogEntry(entry); err != nil {
			logger.Debugf("Redis indisponível: %v", err)
		}
	})
}

// buildTelemetry monta a mensagem de telemetria consolidada
func (s *Server) buildTelemetry() models.TelemetryMessage {
	return websocket.NewTelemetryMessage(
		s.executor.Snapshot(),
		s.groundSvc.Snapshot(),
		s.groundSvc.Warnings(),
		s.tracker.Snapshot(),
	)
}

// telemetryLoop difunde a telemetria consolidada em intervalos fixos
func (s *Server) telemetryLoop() {
	ticker := time.NewTicker(telemetryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.telemetryCtx.Done():
			return
		case <-ticker.C:
			if s.wsHub.ClientCount() == 0 {
				continue
			}
			s.wsHub.BroadcastTelemetry(s.buildTelemetry())
		}
	}
}

// Start inicia o servidor e todos os serviços
func (s *Server) Start() error {
	// Serviço de descoberta: falha não aborta a operação
	if err := s.discoveryService.Start(); err != nil {
		logger.Warnf("Erro ao iniciar serviço de descoberta: %v", err)
	}

	// Aquisição de fix GNSS em segundo plano
	s.tracker.Start()

	// Broadcast periódico de telemetria
	s.telemetryCtx, s.telemetryCancel = context.WithCancel(context.Background())
	go s.telemetryLoop()

	s.translogMgr.Append(models.LogInfo, "Servidor de controle iniciado")

	s.logServerInfo()

	logger.Infof("Iniciando servidor HTTP na porta %d", s.config.Server.Port)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("erro ao iniciar servidor HTTP: %w", err)
	}

	return nil
}

// Shutdown encerra graciosamente o servidor e todos os serviços
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Iniciando shutdown do servidor")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("Erro ao encerrar servidor HTTP: %v", err)
	}

	if s.telemetryCancel != nil {
		s.telemetryCancel()
	}

	if s.controller != nil {
		s.controller.Stop()
	}

	if s.discoveryService != nil {
		s.discoveryService.Stop()
	}

	if s.tracker != nil {
		s.tracker.Stop()
	}

	if s.wsHub != nil {
		s.wsHub.Shutdown()
	}

	if s.redisService != nil {
		s.redisService.Shutdown()
	}

	logger.Info("Shutdown completo")
	return nil
}

// getLocalIP obtém o endereço IP local
func (s *Server) getLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}

	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}

	return "localhost", nil
}

// GetServerInfo retorna informações sobre o servidor
func (s *Server) GetServerInfo() ServerInfo {
	info := s.serverInfo
	info.Connections = s.wsHub.ClientCount()
	return info
}

// logServerInfo exibe informações do servidor no log
func (s *Server) logServerInfo() {
	logger.Info("===============================================")
	logger.Info("           Lunar Rover Control Server          ")
	logger.Info("===============================================")
	logger.Infof("Versão: %s", s.serverInfo.Version)
	logger.Infof("Endereço IP: %s", s.serverInfo.IP)
	logger.Infof("Porta HTTP: %d", s.serverInfo.Port)
	logger.Infof("WebSocket URL: %s", s.serverInfo.WebSocketURL)
	logger.Infof("API URL: %s", s.serverInfo.APIURL)
	logger.Infof("Ambiente: %s | Terreno: %s",
		s.config.Ground.Environment, s.config.Ground.InitialTerrain)
	logger.Infof("mDNS: %s.%s.%s",
		s.discoveryService.GetInstanceName(),
		discovery.ServiceType,
		discovery.ServiceDomain)
	logger.Info("===============================================")
	logger.Info("Servidor pronto para conexões!")
}
