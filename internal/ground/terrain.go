package ground

import "rover_go/internal/models"

// Constantes de gravidade (m/s²)
const (
	EarthGravity = 9.81
	MoonGravity  = 1.62 // ~16.6% da Terra
	MarsGravity  = 3.71 // ~37.8% da Terra
)

// Terrain descreve as características físicas de um tipo de terreno
type Terrain struct {
	Name          string  // Nome exibido no dashboard
	Resistance    float64 // Resistência ao rolamento (0-1)
	DustLevel     float64 // Quantidade de poeira no terreno (0-1)
	RiskStuck     float64 // Probabilidade base de atolamento (0-1)
	SpeedModifier float64 // Fator aplicado à velocidade planejada
	EnergyCost    float64 // Custo de energia relativo por metro
}

// terrainTable contém as características de cada tipo de terreno
var terrainTable = map[models.TerrainKind]Terrain{
	models.TerrainFlatRock: {
		Name:          "Flat Rock",
		Resistance:    0.1,
		DustLevel:     0.0,
		RiskStuck:     0.01,
		SpeedModifier: 1.0,
		EnergyCost:    1.0,
	},
	models.TerrainDustyPlain: {
		Name:          "Dusty Plain",
		Resistance:    0.3,
		DustLevel:     0.7,
		RiskStuck:     0.15,
		SpeedModifier: 0.8,
		EnergyCost:    1.3,
	},
	models.TerrainRockyField: {
		Name:          "Rocky Field",
		Resistance:    0.5,
		DustLevel:     0.2,
		RiskStuck:     0.25,
		SpeedModifier: 0.6,
		EnergyCost:    1.5,
	},
	models.TerrainSoftSand: {
		Name:          "Soft Sand/Dust",
		Resistance:    0.8,
		DustLevel:     0.9,
		RiskStuck:     0.40,
		SpeedModifier: 0.4,
		EnergyCost:    2.0,
	},
	models.TerrainCraterRim: {
		Name:          "Crater Rim",
		Resistance:    0.6,
		DustLevel:     0.3,
		RiskStuck:     0.20,
		SpeedModifier: 0.5,
		EnergyCost:    1.7,
	},
	models.TerrainRegolith: {
		Name:          "Regolith",
		Resistance:    0.4,
		DustLevel:     0.6,
		RiskStuck:     0.18,
		SpeedModifier: 0.7,
		EnergyCost:    1.4,
	},
}

// TerrainInfo retorna as características de um tipo de terreno
func TerrainInfo(kind models.TerrainKind) (Terrain, bool) {
	t, ok := terrainTable[kind]
	return t, ok
}

// gravityFor retorna a constante de gravidade do ambiente
func gravityFor(env models.GravityMode) float64 {
	switch env {
	case models.GravityMars:
		return MarsGravity
	case models.GravityEarth:
		return EarthGravity
	default:
		return MoonGravity
	}
}
