package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/visit-audit-api/internal/domain"
	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
)

var _ repository.VisitRepository = (*VisitRepo)(nil)

var visitColumns = []string{
	"visit_id", "start_time", "end_time", "visitor",
	"customer_name", "customer_code", "duration_minutes", "visit_month",
}

// VisitRepo carga masiva de visitas vía protocolo COPY.
type VisitRepo struct {
	q Querier
}

// NewVisitRepository construye el adaptador. Acepta pool, conn o tx (Querier).
func NewVisitRepository(q Querier) *VisitRepo {
	return &VisitRepo{q: q}
}

// InsertVisits inserta todas las visitas sin deduplicar; el conteo devuelto es el de COPY.
func (r *VisitRepo) InsertVisits(ctx context.Context, visits []entity.Visit) (int64, error) {
	src := pgx.CopyFromSlice(len(visits), func(i int) ([]any, error) {
		v := visits[i]
		return []any{
			v.VisitID, v.StartTime, v.EndTime, v.Visitor,
			v.CustomerName, v.CustomerCode, v.DurationMinutes, v.VisitMonth,
		}, nil
	})

	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"visit"}, visitColumns, src)
	if err != nil {
		return 0, writeError("visit.InsertVisits", err)
	}
	return n, nil
}

// writeError clasifica el fallo: store desaparecido -> ErrNotReady, resto -> ErrWrite.
func writeError(op string, err error) error {
	if isStoreGone(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrNotReady, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrWrite, op, err)
}
