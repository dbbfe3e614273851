package visit

import (
	"math"
	"strings"
)

// LeadingInt interpreta el entero con que empieza s ("45", " 12.5", "30min", "-3").
// ok=false si no hay dígitos iniciales.
func LeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		if n > (math.MaxInt32-9)/10 {
			n = math.MaxInt32
		} else {
			n = n*10 + int(s[digits]-'0')
		}
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// CoerceDuration convierte la duración textual en minutos enteros.
// Cualquier valor no numérico o negativo se guarda como 0.
func CoerceDuration(raw string) int {
	n, ok := LeadingInt(raw)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// DurationFromNumber trunca una duración numérica; NaN, infinitos y negativos valen 0.
func DurationFromNumber(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}
