package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UploadRequest cuerpo de POST /uploadVisit y /uploadTerminal: {"records": [...]}.
// Records se decodifica en dos pasos para distinguir "no es una lista" de un elemento inválido.
type UploadRequest struct {
	Records json.RawMessage `json:"records"`
}

// VisitRecord fila de la hoja de visitas. Acepta las claves en inglés o los encabezados
// originales de la hoja (拜访记录编号, 拜访开始时间, ...).
type VisitRecord struct {
	VisitID         FlexString `json:"visit_id"`
	StartTime       FlexString `json:"start_time"`
	EndTime         FlexString `json:"end_time"`
	Visitor         FlexString `json:"visitor"`
	CustomerName    FlexString `json:"customer_name"`
	CustomerCode    FlexString `json:"customer_code"`
	DurationMinutes FlexInt    `json:"duration_minutes"`
}

// TerminalRecord fila del maestro de terminales (customer_code/客户编码, territory/所属片区, region/所属大区).
type TerminalRecord struct {
	CustomerCode FlexString `json:"customer_code"`
	Territory    FlexString `json:"territory"`
	Region       FlexString `json:"region"`
}

// UnmarshalJSON implementa json.Unmarshaler.
func (r *VisitRecord) UnmarshalJSON(data []byte) error {
	*r = VisitRecord{}
	return decodeAliased(data, []aliasedField{
		{&r.VisitID, []string{"visit_id", "拜访记录编号"}},
		{&r.StartTime, []string{"start_time", "拜访开始时间"}},
		{&r.EndTime, []string{"end_time", "拜访结束时间"}},
		{&r.Visitor, []string{"visitor", "拜访人"}},
		{&r.CustomerName, []string{"customer_name", "客户名称"}},
		{&r.CustomerCode, []string{"customer_code", "客户编码"}},
		{&r.DurationMinutes, []string{"duration_minutes", "拜访用时"}},
	})
}

// UnmarshalJSON implementa json.Unmarshaler.
func (r *TerminalRecord) UnmarshalJSON(data []byte) error {
	*r = TerminalRecord{}
	return decodeAliased(data, []aliasedField{
		{&r.CustomerCode, []string{"customer_code", "客户编码"}},
		{&r.Territory, []string{"territory", "所属片区"}},
		{&r.Region, []string{"region", "所属大区"}},
	})
}

// aliasedField campo con sus claves aceptadas, en orden de prioridad.
type aliasedField struct {
	dst  json.Unmarshaler
	keys []string
}

// decodeAliased asigna a cada campo el valor de la primera clave presente y no nula.
func decodeAliased(data []byte, fields []aliasedField) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	for _, f := range fields {
		for _, key := range f.keys {
			raw, ok := obj[key]
			if !ok || strings.TrimSpace(string(raw)) == "null" {
				continue
			}
			if err := f.dst.UnmarshalJSON(raw); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			break
		}
	}
	return nil
}

// IngestResponse respuesta de una carga masiva.
type IngestResponse struct {
	Success       bool   `json:"success"`
	InsertedCount int64  `json:"inserted_count"`
	Message       string `json:"message"`
}

// DecodeRecords valida que raw sea una lista JSON no vacía de objetos y la decodifica.
func DecodeRecords[T any](raw json.RawMessage) ([]T, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("records es obligatorio")
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("records debe ser una lista")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		if !strings.HasPrefix(strings.TrimSpace(string(item)), "{") {
			return nil, fmt.Errorf("records[%d] debe ser un objeto", i)
		}
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
