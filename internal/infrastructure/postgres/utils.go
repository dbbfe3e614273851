package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier subconjunto de pgxpool.Pool / pgx.Conn / pgx.Tx que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// SQLSTATE usados por el ciclo de vida del store.
const (
	codeDuplicateDatabase = "42P04"
	codeInvalidCatalog    = "3D000" // la base no existe (p. ej. eliminada por un reset concurrente)
	codeAdminShutdown     = "57P01" // sesión terminada por DROP DATABASE ... WITH (FORCE)
)

// pgErrorCode devuelve el SQLSTATE del error o "" si no viene de PostgreSQL.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isDuplicateDatabase verifica si CREATE DATABASE falló porque la base ya existe (42P04).
func isDuplicateDatabase(err error) bool {
	if err == nil {
		return false
	}
	if pgErrorCode(err) == codeDuplicateDatabase {
		return true
	}
	return strings.Contains(err.Error(), codeDuplicateDatabase)
}

// isStoreGone indica que la operación falló porque el store fue cerrado o eliminado
// mientras estaba en curso (reset concurrente). Se reporta como ErrNotReady.
func isStoreGone(err error) bool {
	if err == nil {
		return false
	}
	switch pgErrorCode(err) {
	case codeInvalidCatalog, codeAdminShutdown:
		return true
	}
	return strings.Contains(err.Error(), "closed pool")
}
