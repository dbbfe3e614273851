package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
)

var _ repository.StoreHandle = (*Store)(nil)

// Store handle de un store efímero: nombre de la base y su pool.
type Store struct {
	name string
	pool *pgxpool.Pool
}

// NewStore envuelve un pool ya abierto sobre la base name.
func NewStore(name string, pool *pgxpool.Pool) *Store {
	return &Store{name: name, pool: pool}
}

func (s *Store) Name() string { return s.name }

func (s *Store) Visits() repository.VisitRepository {
	return NewVisitRepository(s.pool)
}

func (s *Store) Terminals() repository.TerminalRepository {
	return NewTerminalRepository(s.pool)
}

func (s *Store) RepeatVisits() repository.RepeatVisitRepository {
	return NewRepeatVisitRepository(s.pool)
}

// Close espera a que se liberen las conexiones en uso y cierra el pool.
func (s *Store) Close() {
	s.pool.Close()
}
