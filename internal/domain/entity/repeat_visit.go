package entity

import "github.com/shopspring/decimal"

// RepeatVisitFilter criterios de la consulta de visitas repetidas.
// MinVisits es estricto: un grupo entra solo si su conteo es mayor que MinVisits.
// Los filtros de texto vacíos no restringen el resultado.
type RepeatVisitFilter struct {
	MinVisits    int
	TargetMonth  string // coincidencia exacta con VisitMonth (YYYY-MM)
	Visitor      string
	CustomerName string
	CustomerCode string
	Territory    string
	Region       string
}

// RepeatVisit agregado mensual por (visitante, cliente, mes) con datos del terminal.
// Territory y Region son nulos cuando el código de cliente no tiene terminal cargado.
type RepeatVisit struct {
	Visitor              *string
	CustomerName         *string
	CustomerCode         *string
	VisitMonth           *string
	VisitCount           int64
	TotalDurationMinutes int64
	AvgDurationMinutes   decimal.Decimal
	Territory            *string
	Region               *string
}
