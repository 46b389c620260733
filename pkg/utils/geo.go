package utils

import "math"

// Raio médio da Terra em metros (usado também para a Lua/Marte simulados,
// já que o dashboard espera coordenadas em graus convencionais)
const earthRadiusMeters = 6371000.0

// HaversineDistance calcula a distância em metros entre dois pontos
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLon1 := lon1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	rLon2 := lon2 * math.Pi / 180

	dLat := rLat2 - rLat1
	dLon := rLon2 - rLon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * earthRadiusMeters
}

// DestinationPoint calcula o ponto de destino a partir de uma origem,
// um rumo em graus e uma distância em metros
func DestinationPoint(lat, lon, headingDeg, distanceMeters float64) (float64, float64) {
	angular := distanceMeters / earthRadiusMeters
	bearing := headingDeg * math.Pi / 180

	rLat := lat * math.Pi / 180
	rLon := lon * math.Pi / 180

	newLat := math.Asin(math.Sin(rLat)*math.Cos(angular) +
		math.Cos(rLat)*math.Sin(angular)*math.Cos(bearing))
	newLon := rLon + math.Atan2(
		math.Sin(bearing)*math.Sin(angular)*math.Cos(rLat),
		math.Cos(angular)-math.Sin(rLat)*math.Sin(newLat))

	return newLat * 180 / math.Pi, newLon * 180 / math.Pi
}

// NormalizeHeading normaliza um rumo para o intervalo [0, 360)
func NormalizeHeading(headingDeg float64) float64 {
	h := math.Mod(headingDeg, 360)
	if h < 0 {
		h += 360
	}
	return h
}
