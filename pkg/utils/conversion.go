package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Clamp limita um valor inteiro ao intervalo [min, max]
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampFloat limita um valor float64 ao intervalo [min, max]
func ClampFloat(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// MsToKmh converte metros por segundo para quilômetros por hora
func MsToKmh(ms float64) float64 {
	return ms * 3.6
}

// FormatFloat formata um float com precisão específica
func FormatFloat(value float64, precision int) string {
	format := "%." + strconv.Itoa(precision) + "f"
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf(format, value), "0"), ".")
}

// Round2 arredonda para duas casas decimais (valores exibidos no dashboard)
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
