package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/visit-audit-api/internal/domain"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
)

// CoordinatorConfig parámetros del coordinador.
type CoordinatorConfig struct {
	StartedAt    time.Time     // arranque del proceso
	StartupGrace time.Duration // dentro de esta ventana un fallo de aprovisionamiento es fatal
	OnFatal      func(error)   // normalmente registra y termina el proceso (exit 1)
}

// Coordinator orquesta aprovisionamiento, reset y teardown del store activo.
// Start, Reset y Shutdown se serializan entre sí con lock (semáforo de un lugar, para poder
// abandonar la espera cuando vence el contexto); la ingesta y las consultas solo leen el registro.
type Coordinator struct {
	lock        chan struct{}
	registry    *Registry
	provisioner repository.StoreProvisioner
	cfg         CoordinatorConfig
	now         func() time.Time
	log         zerolog.Logger
}

// NewCoordinator construye el coordinador.
func NewCoordinator(registry *Registry, provisioner repository.StoreProvisioner, cfg CoordinatorConfig, log zerolog.Logger) *Coordinator {
	if cfg.StartedAt.IsZero() {
		cfg.StartedAt = time.Now()
	}
	return &Coordinator{
		lock:        make(chan struct{}, 1),
		registry:    registry,
		provisioner: provisioner,
		cfg:         cfg,
		now:         time.Now,
		log:         log,
	}
}

// Start aprovisiona el primer store y lo publica.
func (c *Coordinator) Start(ctx context.Context) error {
	if err := c.acquire(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrProvisioning, err)
	}
	defer c.release()

	_, err := c.provisionAndPublish(ctx)
	return err
}

// Reset elimina el store actual y publica uno nuevo vacío; devuelve el nombre del nuevo store.
// Un fallo del teardown se registra pero no impide aprovisionar. Si el aprovisionamiento falla,
// el registro queda "not ready" y se devuelve ErrProvisioning.
func (c *Coordinator) Reset(ctx context.Context) (string, error) {
	if err := c.acquire(ctx); err != nil {
		return "", fmt.Errorf("%w: reset en curso: %w", domain.ErrProvisioning, err)
	}
	defer c.release()

	if old := c.registry.Take(); old != nil {
		if err := c.provisioner.Teardown(ctx, old); err != nil {
			c.log.Error().Err(err).Str("store", old.Name()).Msg("teardown durante reset; se continúa con el aprovisionamiento")
		}
	}
	return c.provisionAndPublish(ctx)
}

// Shutdown intento único de eliminar el store actual antes de salir.
// Nunca devuelve error ni reintenta: el proceso debe terminar igualmente.
// Si otro reset sigue en curso cuando vence ctx, se abandona sin esperar.
func (c *Coordinator) Shutdown(ctx context.Context) {
	if err := c.acquire(ctx); err != nil {
		c.log.Warn().Err(err).Msg("teardown al salir omitido: reset en curso")
		return
	}
	defer c.release()

	old := c.registry.Take()
	if old == nil {
		return
	}
	if err := c.provisioner.Teardown(ctx, old); err != nil {
		c.log.Error().Err(err).Str("store", old.Name()).Msg("teardown al salir")
		return
	}
	c.log.Info().Str("store", old.Name()).Msg("store eliminado antes de salir")
}

func (c *Coordinator) acquire(ctx context.Context) error {
	select {
	case c.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) release() { <-c.lock }

func (c *Coordinator) provisionAndPublish(ctx context.Context) (string, error) {
	h, err := c.provisioner.Provision(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrProvisioning) {
			err = fmt.Errorf("%w: %w", domain.ErrProvisioning, err)
		}
		c.log.Error().Err(err).Msg("aprovisionamiento del store")
		c.fatalIfStarting(err)
		return "", err
	}
	c.registry.Publish(h)
	return h.Name(), nil
}

// fatalIfStarting: sin store el servicio no debe arrancar; pasada la ventana de arranque
// el error se devuelve al llamador y el registro queda "not ready".
func (c *Coordinator) fatalIfStarting(err error) {
	if c.cfg.OnFatal == nil {
		return
	}
	if c.now().Sub(c.cfg.StartedAt) < c.cfg.StartupGrace {
		c.cfg.OnFatal(err)
	}
}
