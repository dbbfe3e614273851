package postgres

import (
	"context"
	"fmt"
)

// schemaStatements esquema de un store: Visit y Terminal.
// visit_month se calcula en la ingesta (visit.NormalizeMonth) para agrupar sin reinterpretar fechas en SQL.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS visit (
		visit_id         VARCHAR(50),
		start_time       VARCHAR(50),
		end_time         VARCHAR(50),
		visitor          VARCHAR(50),
		customer_name    VARCHAR(100),
		customer_code    VARCHAR(50),
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		visit_month      CHAR(7)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visit_customer ON visit (customer_code)`,
	`CREATE INDEX IF NOT EXISTS idx_visit_duration ON visit (duration_minutes)`,
	`CREATE INDEX IF NOT EXISTS idx_visit_start ON visit (start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_visit_group ON visit (visitor, customer_code, customer_name, visit_month)`,

	// Un cliente pertenece a un único territorio/región: índice único sobre customer_code.
	`CREATE TABLE IF NOT EXISTS terminal (
		customer_code VARCHAR(50),
		territory     VARCHAR(100),
		region        VARCHAR(100)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_terminal_customer ON terminal (customer_code)`,
}

// migrate define el esquema en la base recién creada.
func migrate(ctx context.Context, q Querier) error {
	for i, stmt := range schemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
