// Package store coordina el store efímero activo: el registro del handle publicado
// y el coordinador que lo crea, reinicia y elimina.
package store

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/visit-audit-api/internal/domain"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
)

// Registry único punto mutable con el handle del store activo.
// Los consumidores lo obtienen siempre con Current, que falla con ErrNotReady si no hay store.
type Registry struct {
	mu      sync.RWMutex
	current repository.StoreHandle
	log     zerolog.Logger
}

// NewRegistry crea un registro vacío (estado "not ready").
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log}
}

// Publish reemplaza el handle activo. El anterior, si existía, se cierra (best-effort)
// para no filtrar conexiones entre resets.
func (r *Registry) Publish(h repository.StoreHandle) {
	r.mu.Lock()
	prev := r.current
	r.current = h
	r.mu.Unlock()

	if prev != nil && prev != h {
		r.closeQuietly(prev)
	}
	if h != nil {
		r.log.Info().Str("store", h.Name()).Msg("store publicado")
	}
}

// Current devuelve el handle activo o ErrNotReady.
func (r *Registry) Current() (repository.StoreHandle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil, domain.ErrNotReady
	}
	return r.current, nil
}

// Take retira el handle activo y lo devuelve; el registro queda "not ready".
// Lo usa el coordinador antes de eliminar el store para que ninguna petición nueva lo reciba.
func (r *Registry) Take() repository.StoreHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.current
	r.current = nil
	return h
}

// Name nombre del store activo o "" si no hay.
func (r *Registry) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return ""
	}
	return r.current.Name()
}

func (r *Registry) closeQuietly(h repository.StoreHandle) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn().Str("store", h.Name()).Interface("panic", rec).Msg("cerrar handle anterior")
		}
	}()
	h.Close()
}
