package config

import (
	"encoding/json"
	"os"
	"strconv"
	"time"
)

// Config representa a configuração completa da aplicação
type Config struct {
	Server     ServerConfig     `json:"server"`
	Rover      RoverConfig      `json:"rover"`
	Delay      DelayConfig      `json:"delay"`
	Ground     GroundConfig     `json:"ground"`
	GNSS       GNSSConfig       `json:"gnss"`
	Autonomous AutonomousConfig `json:"autonomous"`
	Redis      RedisConfig      `json:"redis"`
	Log        LogConfig        `json:"log"`
}

// ServerConfig contém configurações do servidor HTTP/WebSocket
type ServerConfig struct {
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout"`
}

// RoverConfig contém configurações do rover e dos motores simulados
type RoverConfig struct {
	DefaultSpeed  int           `json:"defaultSpeed"`  // 0-100%
	MoveDuration  time.Duration `json:"moveDuration"`  // Duração padrão de um comando
	BaseSpeedMS   float64       `json:"baseSpeedMs"`   // Velocidade base em m/s
	TurnIncrement float64       `json:"turnIncrement"` // Incremento angular por giro (graus)
}

// DelayConfig contém os limites do atraso de transmissão Terra-Marte
type DelayConfig struct {
	Enabled bool    `json:"enabled"`
	Mode    string  `json:"mode"` // min, max, average, random
	Min     float64 `json:"min"`  // segundos
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// GroundConfig contém configurações das condições do solo simuladas
type GroundConfig struct {
	Environment    string `json:"environment"`    // moon, mars ou earth
	InitialTerrain string `json:"initialTerrain"` // tipo de terreno inicial
}

// GNSSConfig contém configurações do rastreador de posição simulado
type GNSSConfig struct {
	Latitude        float64       `json:"latitude"`
	Longitude       float64       `json:"longitude"`
	Altitude        float64       `json:"altitude"`
	UpdateRate      time.Duration `json:"updateRate"`
	AcquisitionTime time.Duration `json:"acquisitionTime"` // Tempo até obter fix válido
}

// AutonomousConfig contém configurações do seguidor de linha autônomo
type AutonomousConfig struct {
	TickInterval  time.Duration `json:"tickInterval"`
	LineColor     string        `json:"lineColor"`
	BaseSpeed     int           `json:"baseSpeed"`
	TurnThreshold int           `json:"turnThreshold"` // Offset em pixels para disparar giro
	MaxLostTicks  int           `json:"maxLostTicks"`  // Ticks sem linha antes de parar
}

// RedisConfig contém configurações do Redis
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
	Enabled  bool   `json:"enabled"`
}

// LogConfig contém configurações do log de transmissão
type LogConfig struct {
	Directory     string `json:"directory"`
	MaxSizeBytes  int64  `json:"maxSizeBytes"`
	RetentionDays int    `json:"retentionDays"`
	MemoryEntries int    `json:"memoryEntries"`
}

// Load carrega a configuração do arquivo ou usa valores padrão
func Load() (*Config, error) {
	config := getDefaultConfig()

	// Verificar se existe um arquivo de configuração
	if _, err := os.Stat("config.json"); err == nil {
		file, err := os.Open("config.json")
		if err != nil {
			return nil, err
		}
		defer file.Close()

		decoder := json.NewDecoder(file)
		if err := decoder.Decode(&config); err != nil {
			return nil, err
		}
	}

	// Sobrescrever com variáveis de ambiente, se existirem
	applyEnvironmentOverrides(&config)

	return &config, nil
}

// applyEnvironmentOverrides sobrescreve configurações com variáveis de ambiente
func applyEnvironmentOverrides(config *Config) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		config.Redis.Host = host
	}

	if port := os.Getenv("REDIS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Redis.Port = p
		}
	}

	if enabled := os.Getenv("REDIS_ENABLED"); enabled != "" {
		config.Redis.Enabled = enabled == "true" || enabled == "1"
	}

	if env := os.Getenv("ROVER_ENVIRONMENT"); env != "" {
		config.Ground.Environment = env
	}

	if mode := os.Getenv("ROVER_DELAY_MODE"); mode != "" {
		config.Delay.Mode = mode
	}
}
