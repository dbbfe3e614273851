package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/visit-audit-api/internal/domain"
	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
)

var _ repository.RepeatVisitRepository = (*RepeatVisitRepo)(nil)

// RepeatVisitRepo consulta de solo lectura de visitas repetidas por mes.
type RepeatVisitRepo struct {
	q Querier
}

// NewRepeatVisitRepository construye el adaptador.
func NewRepeatVisitRepository(q Querier) *RepeatVisitRepo {
	return &RepeatVisitRepo{q: q}
}

// FindRepeatVisits agrupa las visitas por (visitante, código, nombre, mes), conserva los grupos
// con más de MinVisits visitas, une territorio/región (LEFT JOIN) y ordena por conteo descendente.
func (r *RepeatVisitRepo) FindRepeatVisits(ctx context.Context, filter entity.RepeatVisitFilter) ([]entity.RepeatVisit, error) {
	query, args := buildRepeatVisitQuery(filter)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, queryError("repeatVisit.FindRepeatVisits", err)
	}
	defer rows.Close()

	results := []entity.RepeatVisit{}
	for rows.Next() {
		var row entity.RepeatVisit
		if err := rows.Scan(
			&row.Visitor,
			&row.CustomerName,
			&row.CustomerCode,
			&row.VisitMonth,
			&row.VisitCount,
			&row.TotalDurationMinutes,
			&row.AvgDurationMinutes,
			&row.Territory,
			&row.Region,
		); err != nil {
			return nil, queryError("repeatVisit.FindRepeatVisits scan", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("repeatVisit.FindRepeatVisits rows", err)
	}
	return results, nil
}

// queryError clasifica el fallo: store desaparecido -> ErrNotReady, resto -> ErrQuery.
func queryError(op string, err error) error {
	if isStoreGone(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrNotReady, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrQuery, op, err)
}
