package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jhoicas/visit-audit-api/internal/domain/visit"
)

// FlexString texto tolerante a exportaciones de hojas de cálculo: acepta string, número,
// booleano o null. Vacío y null quedan como nulo (Valid=false).
type FlexString struct {
	Value string
	Valid bool
}

// UnmarshalJSON implementa json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	*f = FlexString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != "" {
			*f = FlexString{Value: s, Valid: true}
		}
		return nil
	case '{', '[':
		// Objetos o listas en una celda no tienen representación útil: se tratan como ausentes.
		return nil
	default:
		// Números y booleanos se guardan con su forma textual ("1001", "true").
		*f = FlexString{Value: string(data), Valid: true}
		return nil
	}
}

// MarshalJSON implementa json.Marshaler.
func (f FlexString) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr devuelve nil para valores nulos.
func (f FlexString) Ptr() *string {
	if !f.Valid {
		return nil
	}
	s := f.Value
	return &s
}

// Str construye un FlexString válido (útil en tests y clientes Go).
func Str(s string) FlexString {
	return FlexString{Value: s, Valid: s != ""}
}

// FlexInt duración en minutos: acepta número o texto con un entero inicial ("45", "30min").
// Cualquier otro valor se interpreta como 0.
type FlexInt int

// UnmarshalJSON implementa json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexInt(visit.CoerceDuration(s))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if err != nil {
			return nil
		}
		*f = FlexInt(visit.DurationFromNumber(n))
	}
	return nil
}
