package postgres

import (
	"fmt"
	"strings"

	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
)

// operator comparación soportada por un predicado.
type operator int

const (
	opGreater  operator = iota // col > $n
	opEqual                    // col = $n
	opContains                 // subcadena literal y sensible a mayúsculas
)

// Columnas filtrables. Son constantes: nunca se interpola texto del usuario en el SQL.
const (
	colVisitCount   = "m.visit_count"
	colVisitMonth   = "m.visit_month"
	colVisitor      = "m.visitor"
	colCustomerName = "m.customer_name"
	colCustomerCode = "m.customer_code"
	colTerritory    = "t.territory"
	colRegion       = "t.region"
)

// predicate descriptor de una condición del WHERE.
type predicate struct {
	column string
	op     operator
	value  any
}

// repeatVisitPredicates construye la lista ordenada de condiciones: siempre el umbral,
// y después solo los filtros presentes.
func repeatVisitPredicates(f entity.RepeatVisitFilter) []predicate {
	preds := []predicate{{column: colVisitCount, op: opGreater, value: f.MinVisits}}

	if f.TargetMonth != "" {
		preds = append(preds, predicate{column: colVisitMonth, op: opEqual, value: f.TargetMonth})
	}
	optional := []struct {
		column string
		value  string
	}{
		{colVisitor, f.Visitor},
		{colCustomerName, f.CustomerName},
		{colCustomerCode, f.CustomerCode},
		{colTerritory, f.Territory},
		{colRegion, f.Region},
	}
	for _, o := range optional {
		if o.value != "" {
			preds = append(preds, predicate{column: o.column, op: opContains, value: o.value})
		}
	}
	return preds
}

// compileWhere convierte los predicados en una cláusula parametrizada ($1..$n) y sus argumentos.
// strpos(col, $n) > 0 es una búsqueda literal: '%' y '_' no actúan como comodines,
// y una columna NULL nunca cumple el filtro.
func compileWhere(preds []predicate) (string, []any) {
	conds := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for i, p := range preds {
		n := i + 1
		switch p.op {
		case opGreater:
			conds = append(conds, fmt.Sprintf("%s > $%d", p.column, n))
		case opEqual:
			conds = append(conds, fmt.Sprintf("%s = $%d", p.column, n))
		case opContains:
			conds = append(conds, fmt.Sprintf("strpos(%s, $%d) > 0", p.column, n))
		}
		args = append(args, p.value)
	}
	return strings.Join(conds, " AND "), args
}

const repeatVisitBaseQuery = `
	WITH monthly_visit AS (
	    SELECT
	        visitor,
	        customer_code,
	        customer_name,
	        visit_month,
	        COUNT(*)                         AS visit_count,
	        SUM(duration_minutes)            AS total_duration,
	        ROUND(AVG(duration_minutes), 2)  AS avg_duration
	    FROM visit
	    WHERE start_time IS NOT NULL AND btrim(start_time) <> ''
	    GROUP BY visitor, customer_code, customer_name, visit_month
	)
	SELECT
	    m.visitor,
	    m.customer_name,
	    m.customer_code,
	    m.visit_month,
	    m.visit_count,
	    m.total_duration,
	    m.avg_duration,
	    t.territory,
	    t.region
	FROM monthly_visit m
	LEFT JOIN terminal t ON t.customer_code = m.customer_code
	WHERE %s
	ORDER BY m.visit_count DESC, m.visitor, m.customer_code, m.visit_month`

// buildRepeatVisitQuery SQL final y argumentos para el filtro dado.
func buildRepeatVisitQuery(f entity.RepeatVisitFilter) (string, []any) {
	where, args := compileWhere(repeatVisitPredicates(f))
	return fmt.Sprintf(repeatVisitBaseQuery, where), args
}
