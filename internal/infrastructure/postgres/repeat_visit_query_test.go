package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
)

func TestRepeatVisitPredicates_SoloUmbral(t *testing.T) {
	preds := repeatVisitPredicates(entity.RepeatVisitFilter{MinVisits: 3})

	require.Len(t, preds, 1)
	assert.Equal(t, colVisitCount, preds[0].column)
	assert.Equal(t, opGreater, preds[0].op)
	assert.Equal(t, 3, preds[0].value)
}

func TestRepeatVisitPredicates_TodosLosFiltrosEnOrden(t *testing.T) {
	preds := repeatVisitPredicates(entity.RepeatVisitFilter{
		MinVisits:    5,
		TargetMonth:  "2025-06",
		Visitor:      "Li",
		CustomerName: "超市",
		CustomerCode: "C00",
		Territory:    "East",
		Region:       "North",
	})

	columns := make([]string, 0, len(preds))
	for _, p := range preds {
		columns = append(columns, p.column)
	}
	assert.Equal(t, []string{
		colVisitCount, colVisitMonth, colVisitor, colCustomerName,
		colCustomerCode, colTerritory, colRegion,
	}, columns)
	assert.Equal(t, opEqual, preds[1].op)
	for _, p := range preds[2:] {
		assert.Equal(t, opContains, p.op)
	}
}

func TestCompileWhere_ParametrosConsecutivos(t *testing.T) {
	where, args := compileWhere(repeatVisitPredicates(entity.RepeatVisitFilter{
		MinVisits: 3,
		Visitor:   "Li",
		Region:    "South",
	}))

	assert.Equal(t, "m.visit_count > $1 AND strpos(m.visitor, $2) > 0 AND strpos(t.region, $3) > 0", where)
	assert.Equal(t, []any{3, "Li", "South"}, args)
}

func TestBuildRepeatVisitQuery_ValoresNuncaEnElSQL(t *testing.T) {
	malicious := "x' OR '1'='1"
	query, args := buildRepeatVisitQuery(entity.RepeatVisitFilter{
		MinVisits:    3,
		TargetMonth:  "2025-06",
		CustomerName: malicious,
		Territory:    "50%_off",
	})

	assert.NotContains(t, query, malicious)
	assert.NotContains(t, query, "50%_off")
	assert.Contains(t, query, "m.visit_month = $2")
	assert.Contains(t, query, "strpos(m.customer_name, $3) > 0")
	assert.Contains(t, query, "strpos(t.territory, $4) > 0")
	assert.Contains(t, query, "LEFT JOIN terminal t ON t.customer_code = m.customer_code")
	assert.Contains(t, query, "ORDER BY m.visit_count DESC")
	assert.Equal(t, []any{3, "2025-06", malicious, "50%_off"}, args)
}

func TestBuildRepeatVisitQuery_ExcluyeFechasEnBlanco(t *testing.T) {
	query, _ := buildRepeatVisitQuery(entity.RepeatVisitFilter{MinVisits: 3})

	assert.Contains(t, query, "start_time IS NOT NULL AND btrim(start_time) <> ''")
}
