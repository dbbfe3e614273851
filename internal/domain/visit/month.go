// Package visit contiene las reglas puras sobre registros de visita:
// normalización del mes de la visita y coerción de la duración.
// No depende del motor de almacenamiento, por lo que se prueba de forma aislada.
package visit

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// dateReplacer unifica los separadores que aparecen en exportaciones de Excel/WPS.
var dateReplacer = strings.NewReplacer(
	"/", "-",
	".", "-",
	"年", "-",
	"月", "-",
	"日", "",
)

// NormalizeMonth convierte la fecha de inicio de una visita al mes "YYYY-MM".
//
// Acepta "2025/06/15", "2025-06-15 09:30:00", "2025-6-1", "2025.06.15",
// "2025年6月15日", "20250615" y variantes de ancho completo ("２０２５／０６／１５").
// Devuelve ok=false si la cadena está vacía o no empieza por un año de 4 dígitos
// seguido de un mes 1–12; esas visitas no se asignan a ningún mes.
func NormalizeMonth(raw string) (string, bool) {
	s := strings.TrimSpace(width.Fold.String(raw))
	if s == "" {
		return "", false
	}
	if i := strings.IndexAny(s, " T"); i >= 0 {
		s = s[:i]
	}
	s = dateReplacer.Replace(s)

	var year, month string
	if isDigits(s) && len(s) == 8 {
		year, month = s[:4], s[4:6]
	} else {
		parts := strings.Split(s, "-")
		if len(parts) < 2 {
			return "", false
		}
		year, month = parts[0], parts[1]
	}

	if len(year) != 4 || !isDigits(year) {
		return "", false
	}
	if len(month) == 0 || len(month) > 2 || !isDigits(month) {
		return "", false
	}
	m := int(month[0] - '0')
	if len(month) == 2 {
		m = m*10 + int(month[1]-'0')
	}
	if m < 1 || m > 12 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d", year, m), true
}

// NormalizeMonthPtr variante para campos anulables.
func NormalizeMonthPtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	m, ok := NormalizeMonth(*raw)
	if !ok {
		return nil
	}
	return &m
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
