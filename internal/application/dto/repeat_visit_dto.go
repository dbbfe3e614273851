package dto

import "github.com/shopspring/decimal"

// FrequentVisitsRequest parámetros de GET /getFrequentVisits.
// MinVisits llega como texto: valores vacíos o no numéricos usan el umbral por defecto.
// Area es el nombre histórico del filtro de territorio; Territory es su alias.
type FrequentVisitsRequest struct {
	TargetMonth  string `query:"targetMonth"` // "2025-06"
	MinVisits    string `query:"minVisits"`
	Visitor      string `query:"visitor"`
	CustomerName string `query:"customerName"`
	CustomerCode string `query:"customerCode"`
	Area         string `query:"area"`
	Territory    string `query:"territory"`
	Region       string `query:"region"`
}

// RepeatVisitDTO fila del reporte de visitas repetidas.
type RepeatVisitDTO struct {
	Visitor              *string         `json:"visitor"`
	CustomerName         *string         `json:"customer_name"`
	CustomerCode         *string         `json:"customer_code"`
	VisitMonth           *string         `json:"visit_month"`
	VisitCount           int64           `json:"visit_count"`
	TotalDurationMinutes int64           `json:"total_duration_minutes"`
	AvgDurationMinutes   decimal.Decimal `json:"avg_duration_minutes"`
	Territory            *string         `json:"territory"`
	Region               *string         `json:"region"`
}

// FrequentVisitsResponse respuesta de la consulta.
type FrequentVisitsResponse struct {
	Success   bool             `json:"success"`
	MinVisits int              `json:"min_visits"`
	Count     int              `json:"count"`
	Data      []RepeatVisitDTO `json:"data"`
}
