package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"rover_go/internal/config"
	"rover_go/internal/server"
	"rover_go/pkg/logger"
)

func main() {
	// Configurar diretório de logs
	logDir := filepath.Join(".", "logs")
	os.MkdirAll(logDir, 0755)

	// Inicializar logger
	logger.Init()
	logger.SetLevel(logger.DEBUG)
	logger.EnableFileLogging(logDir, "rover")
	defer logger.Sync()

	// Exibir banner de inicialização
	displayBanner()

	logger.Info("Iniciando Lunar Rover Control")

	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Erro ao carregar configurações", err)
	}

	logger.Infof("Configuração carregada: ambiente %s, terreno %s, Redis em %s:%d",
		cfg.Ground.Environment, cfg.Ground.InitialTerrain, cfg.Redis.Host, cfg.Redis.Port)
	logger.Infof("Atraso de transmissão: %v (modo %s, %.1f-%.1fs)",
		cfg.Delay.Enabled, cfg.Delay.Mode, cfg.Delay.Min, cfg.Delay.Max)

	// Criar e iniciar o servidor
	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.Fatal("Erro ao criar servidor", err)
	}

	// Iniciar o servidor em uma goroutine separada
	go func() {
		logger.Infof("Servidor iniciado na porta %d", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			logger.Fatal("Erro ao iniciar o servidor", err)
		}
	}()

	// Configurar captura de sinais para shutdown gracioso
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Desligando servidor...")

	// Criar contexto com timeout para o shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Desligar o servidor
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Erro durante o shutdown do servidor", err)
	}

	logger.Info("Servidor encerrado com sucesso")
}

// displayBanner exibe um banner de inicialização
func displayBanner() {
	banner := `
 _     _     _ __   _ _______  ______      ______  _____  _    _ _______  ______
 |     |     | | \  | |_____| |_____/     |_____/ |     |  \  /  |______ |_____/
 |_____ |_____| |  \_| |     | |    \_    |    \_ |_____|   \/   |______ |    \_  v1.0
                                                          MISSION CONTROL EDITION
 `
	fmt.Println(banner)
	fmt.Printf("Iniciando em %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
}
