package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/jhoicas/visit-audit-api/internal/domain"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
	"github.com/jhoicas/visit-audit-api/pkg/config"
)

var _ repository.StoreProvisioner = (*Lifecycle)(nil)

// defaultCloseGrace tiempo máximo que Teardown espera al cierre del pool antes de forzar el DROP.
const defaultCloseGrace = 2 * time.Second

// Lifecycle crea y elimina stores efímeros: una base PostgreSQL por ejecución.
type Lifecycle struct {
	cfg        config.DBConfig
	prefix     string
	closeGrace time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

// NewLifecycle construye el gestor del ciclo de vida.
func NewLifecycle(cfg config.DBConfig, prefix string, log zerolog.Logger) *Lifecycle {
	return &Lifecycle{
		cfg:        cfg,
		prefix:     strings.ToLower(prefix),
		closeGrace: defaultCloseGrace,
		log:        log,
		now:        time.Now,
	}
}

// NewStoreName genera <prefix>_<unix-millis>_<8 hex>. El sufijo aleatorio evita colisiones
// con un store que todavía se está eliminando o con dos aprovisionamientos en el mismo milisegundo.
func (l *Lifecycle) NewStoreName() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", l.prefix, l.now().UnixMilli(), suffix)
}

// Provision crea la base, abre su pool y define el esquema.
// Si algo falla tras crear la base, se intenta eliminarla para no dejar restos.
func (l *Lifecycle) Provision(ctx context.Context) (repository.StoreHandle, error) {
	name := l.NewStoreName()

	if err := l.createDatabase(ctx, name); err != nil {
		return nil, fmt.Errorf("%w: crear base %s: %w", domain.ErrProvisioning, name, err)
	}

	pool, err := NewPool(ctx, l.cfg, name)
	if err != nil {
		l.discard(ctx, name)
		return nil, fmt.Errorf("%w: conectar a %s: %w", domain.ErrProvisioning, name, err)
	}

	// El DDL de PostgreSQL es transaccional: el esquema queda completo o no queda.
	if err := NewTxRunner(pool).Run(ctx, func(q Querier) error { return migrate(ctx, q) }); err != nil {
		pool.Close()
		l.discard(ctx, name)
		return nil, fmt.Errorf("%w: esquema de %s: %w", domain.ErrProvisioning, name, err)
	}

	l.log.Info().Str("store", name).Msg("store aprovisionado")
	return NewStore(name, pool), nil
}

// Teardown cierra el handle (best-effort, acotado por closeGrace y ctx) y elimina la base.
// Un fallo o demora al cerrar solo se registra; únicamente el DROP produce ErrTeardown.
func (l *Lifecycle) Teardown(ctx context.Context, h repository.StoreHandle) error {
	if h == nil {
		return nil
	}
	name := h.Name()
	l.closeWithin(ctx, h)

	if err := l.dropDatabase(ctx, name); err != nil {
		return fmt.Errorf("%w: eliminar base %s: %w", domain.ErrTeardown, name, err)
	}
	l.log.Info().Str("store", name).Msg("store eliminado")
	return nil
}

// closeWithin cierra el pool en segundo plano. pgxpool.Close espera a que se liberen
// las conexiones adquiridas; el DROP ... WITH (FORCE) posterior termina las que sigan abiertas.
func (l *Lifecycle) closeWithin(ctx context.Context, h repository.StoreHandle) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				l.log.Warn().Str("store", h.Name()).Interface("panic", r).Msg("cierre del pool")
			}
		}()
		h.Close()
	}()

	timer := time.NewTimer(l.closeGrace)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		l.log.Warn().Str("store", h.Name()).Dur("grace", l.closeGrace).Msg("el pool no cerró a tiempo; se fuerza el DROP")
	case <-ctx.Done():
		l.log.Warn().Str("store", h.Name()).Err(ctx.Err()).Msg("cierre del pool interrumpido")
	}
}

func (l *Lifecycle) createDatabase(ctx context.Context, name string) error {
	conn, err := connectAdmin(ctx, l.cfg)
	if err != nil {
		return err
	}
	defer l.closeAdmin(conn)

	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize())
	if err != nil && !isDuplicateDatabase(err) {
		return err
	}
	return nil
}

func (l *Lifecycle) dropDatabase(ctx context.Context, name string) error {
	conn, err := connectAdmin(ctx, l.cfg)
	if err != nil {
		return err
	}
	defer l.closeAdmin(conn)

	_, err = conn.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{name}.Sanitize()+" WITH (FORCE)")
	return err
}

// discard elimina una base a medio aprovisionar; los errores solo se registran.
func (l *Lifecycle) discard(ctx context.Context, name string) {
	if err := l.dropDatabase(ctx, name); err != nil {
		l.log.Warn().Err(err).Str("store", name).Msg("no se pudo eliminar el store incompleto")
	}
}

func (l *Lifecycle) closeAdmin(conn *pgx.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := conn.Close(ctx); err != nil {
		l.log.Warn().Err(err).Msg("cerrar conexión admin")
	}
}
