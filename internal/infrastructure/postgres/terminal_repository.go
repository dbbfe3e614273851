package postgres

import (
	"context"

	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
)

var _ repository.TerminalRepository = (*TerminalRepo)(nil)

// TerminalRepo carga masiva de terminales con "el primero gana" por customer_code.
type TerminalRepo struct {
	q Querier
}

// NewTerminalRepository construye el adaptador. Acepta pool, conn o tx (Querier).
func NewTerminalRepository(q Querier) *TerminalRepo {
	return &TerminalRepo{q: q}
}

// InsertTerminals inserta el lote en una sola sentencia. ORDER BY ord conserva el orden del lote,
// así que un código repetido dentro del mismo lote también respeta "el primero gana".
// RowsAffected excluye las filas ignoradas por ON CONFLICT.
func (r *TerminalRepo) InsertTerminals(ctx context.Context, terminals []entity.Terminal) (int64, error) {
	const query = `
	INSERT INTO terminal (customer_code, territory, region)
	SELECT t.customer_code, t.territory, t.region
	FROM unnest($1::text[], $2::text[], $3::text[])
	     WITH ORDINALITY AS t(customer_code, territory, region, ord)
	ORDER BY t.ord
	ON CONFLICT (customer_code) DO NOTHING`

	codes := make([]*string, len(terminals))
	territories := make([]*string, len(terminals))
	regions := make([]*string, len(terminals))
	for i, t := range terminals {
		codes[i] = t.CustomerCode
		territories[i] = t.Territory
		regions[i] = t.Region
	}

	tag, err := r.q.Exec(ctx, query, codes, territories, regions)
	if err != nil {
		return 0, writeError("terminal.InsertTerminals", err)
	}
	return tag.RowsAffected(), nil
}
