package config

import "time"

// getDefaultConfig retorna uma configuração padrão
func getDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Rover: RoverConfig{
			DefaultSpeed:  75,
			MoveDuration:  1 * time.Second,
			BaseSpeedMS:   0.5,
			TurnIncrement: 15.0,
		},
		Delay: DelayConfig{
			Enabled: true,
			Mode:    "average",
			// Versão reduzida do atraso real de 3-22 minutos
			Min:     2.0,
			Max:     10.0,
			Average: 6.0,
		},
		Ground: GroundConfig{
			Environment:    "moon",
			InitialTerrain: "dusty_plain",
		},
		GNSS: GNSSConfig{
			// Cranfield University, ponto de partida da missão simulada
			Latitude:        52.0719,
			Longitude:       -0.6176,
			Altitude:        92.0,
			UpdateRate:      1 * time.Second,
			AcquisitionTime: 5 * time.Second,
		},
		Autonomous: AutonomousConfig{
			TickInterval:  500 * time.Millisecond,
			LineColor:     "black",
			BaseSpeed:     40,
			TurnThreshold: 30,
			MaxLostTicks:  10,
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     6379,
			Password: "",
			DB:       0,
			Prefix:   "lunar_rover",
			Enabled:  true,
		},
		Log: LogConfig{
			Directory:     "logs",
			MaxSizeBytes:  10 * 1024 * 1024,
			RetentionDays: 30,
			MemoryEntries: 1000,
		},
	}
}
