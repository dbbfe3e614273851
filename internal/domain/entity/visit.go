package entity

// Visit representa un registro de visita de campo (una fila de la hoja de visitas).
// Los campos de texto son nulos cuando el origen los omite o vienen vacíos.
// No hay restricción de unicidad: la multiplicidad es justamente lo que se mide.
type Visit struct {
	VisitID         *string
	StartTime       *string // "2025/06/01 09:30" o "2025-06-01"; el separador varía según la exportación
	EndTime         *string
	Visitor         *string
	CustomerName    *string
	CustomerCode    *string // clave de unión con Terminal
	DurationMinutes int     // >= 0; 0 si el origen no era numérico
	VisitMonth      *string // YYYY-MM derivado de StartTime; nulo si no se pudo normalizar
}
