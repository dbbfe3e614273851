package repository

import (
	"context"

	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
)

// VisitRepository escritura masiva de visitas. Inserción incondicional (se aceptan duplicados).
type VisitRepository interface {
	// InsertVisits devuelve el número de filas insertadas (igual a len(visits)).
	InsertVisits(ctx context.Context, visits []entity.Visit) (int64, error)
}

// TerminalRepository escritura masiva de terminales con política "el primero gana".
type TerminalRepository interface {
	// InsertTerminals ignora los códigos de cliente ya existentes y no los cuenta.
	InsertTerminals(ctx context.Context, terminals []entity.Terminal) (int64, error)
}

// RepeatVisitRepository consulta de solo lectura de visitas repetidas por mes.
type RepeatVisitRepository interface {
	// FindRepeatVisits agrupa por (visitante, cliente, mes), filtra y ordena por conteo descendente.
	FindRepeatVisits(ctx context.Context, filter entity.RepeatVisitFilter) ([]entity.RepeatVisit, error)
}

// StoreHandle conexión viva a un store efímero.
// Los repositorios que expone operan sobre ese store y dejan de funcionar al cerrarlo.
type StoreHandle interface {
	Name() string
	Visits() VisitRepository
	Terminals() TerminalRepository
	RepeatVisits() RepeatVisitRepository
	// Close libera las conexiones; no elimina la base.
	Close()
}

// StoreProvisioner crea y destruye stores.
type StoreProvisioner interface {
	// Provision crea un store con nombre nuevo, define los esquemas y devuelve el handle.
	Provision(ctx context.Context) (StoreHandle, error)
	// Teardown cierra el handle (best-effort) y elimina el store. Solo falla si falla el DROP.
	Teardown(ctx context.Context, h StoreHandle) error
}
