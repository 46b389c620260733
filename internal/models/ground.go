package models

// GravityMode identifica o ambiente gravitacional simulado
type GravityMode string

const (
	GravityMoon  GravityMode = "moon"
	GravityMars  GravityMode = "mars"
	GravityEarth GravityMode = "earth"
)

// ValidGravityMode verifica se o ambiente é reconhecido
func ValidGravityMode(env string) bool {
	switch GravityMode(env) {
	case GravityMoon, GravityMars, GravityEarth:
		return true
	}
	return false
}

// TerrainKind identifica o tipo de terreno sob o rover
type TerrainKind string

const (
	TerrainFlatRock   TerrainKind = "flat_rock"
	TerrainDustyPlain TerrainKind = "dusty_plain"
	TerrainRockyField TerrainKind = "rocky_field"
	TerrainSoftSand   TerrainKind = "soft_sand"
	TerrainCraterRim  TerrainKind = "crater_rim"
	TerrainRegolith   TerrainKind = "regolith"
)

// AllTerrains lista todos os terrenos disponíveis
var AllTerrains = []TerrainKind{
	TerrainFlatRock,
	TerrainDustyPlain,
	TerrainRockyField,
	TerrainSoftSand,
	TerrainCraterRim,
	TerrainRegolith,
}

// WarningLevel classifica avisos derivados das condições do solo
type WarningLevel string

const (
	WarnCaution WarningLevel = "caution"
	WarnWarning WarningLevel = "warning"
	WarnError   WarningLevel = "error"
)

// GroundWarning é um aviso derivado (nunca armazenado) do estado do solo
type GroundWarning struct {
	Level   WarningLevel `json:"level"`
	Message string       `json:"message"`
}

// GroundDelta resume o efeito de um movimento sobre o solo/rodas
type GroundDelta struct {
	Terrain        TerrainKind `json:"terrain"`
	SpeedFactor    float64     `json:"speed_factor"`
	WheelSlip      float64     `json:"wheel_slip"`
	DustLevel      float64     `json:"dust_level"`
	NewlyStuck     bool        `json:"stuck"`
	EnergyUsed     float64     `json:"energy_used"`
	ActualDistance float64     `json:"actual_distance"`
}

// GroundSnapshot é a visão completa das condições do solo
type GroundSnapshot struct {
	Environment    GravityMode `json:"environment"`
	Gravity        float64     `json:"gravity"`
	GravityPercent float64     `json:"gravity_percent"`
	Terrain        TerrainKind `json:"terrain_type"`
	TerrainName    string      `json:"terrain"`
	WheelSlip      float64     `json:"wheel_slip"`
	Dust           float64     `json:"dust_accumulation"`
	Stuck          bool        `json:"stuck"`
	EnergyConsumed float64     `json:"energy_consumed"`
	TotalDistance  float64     `json:"total_distance"`
	StuckCount     int         `json:"stuck_count"`
	SlipEvents     int         `json:"slip_events"`
	TerrainChanges int         `json:"terrain_changes"`
}

// PositionSnapshot é a visão da posição GNSS simulada
type PositionSnapshot struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      float64 `json:"altitude"`
	Speed         float64 `json:"speed"`
	Heading       float64 `json:"heading"`
	Satellites    int     `json:"satellites"`
	FixQuality    int     `json:"fix_quality"`
	Valid         bool    `json:"valid"`
	TotalDistance float64 `json:"total_distance"`
	MaxSpeed      float64 `json:"max_speed"`
	Timestamp     string  `json:"timestamp,omitempty"`
}

// PositionDelta resume o efeito de um movimento sobre a posição
type PositionDelta struct {
	DistanceMeters float64 `json:"distance_m"`
	HeadingChange  float64 `json:"heading_change"`
}
