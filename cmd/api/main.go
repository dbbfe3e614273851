package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/visit-audit-api/internal/application/ingest"
	"github.com/jhoicas/visit-audit-api/internal/application/repeatvisit"
	"github.com/jhoicas/visit-audit-api/internal/application/store"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
	"github.com/jhoicas/visit-audit-api/internal/infrastructure/memory"
	"github.com/jhoicas/visit-audit-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/visit-audit-api/internal/interfaces/http"
	"github.com/jhoicas/visit-audit-api/pkg/config"
	"github.com/jhoicas/visit-audit-api/pkg/logger"
)

func main() {
	startedAt := time.Now()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("engine", cfg.Store.Engine).
		Msg("iniciando aplicación")

	log.Debug().
		Str("addr", cfg.HTTP.Addr()).
		Str("store_prefix", cfg.Store.NamePrefix).
		Dur("startup_grace", cfg.Store.StartupGrace).
		Dur("teardown_timeout", cfg.Store.TeardownTimeout).
		Int("ingest_max_records", cfg.Ingest.MaxRecords).
		Msg("configuración cargada")

	var provisioner repository.StoreProvisioner
	switch cfg.Store.Engine {
	case config.EngineMemory:
		provisioner = memory.NewProvisioner(cfg.Store.NamePrefix)
	default:
		provisioner = postgres.NewLifecycle(cfg.DB, cfg.Store.NamePrefix, log.Component("lifecycle"))
	}

	registry := store.NewRegistry(log.Component("registry"))
	coordinator := store.NewCoordinator(registry, provisioner, store.CoordinatorConfig{
		StartedAt:    startedAt,
		StartupGrace: cfg.Store.StartupGrace,
		// Sin store el servicio no tiene sentido: dentro de la ventana de arranque se termina el proceso.
		OnFatal: func(err error) {
			log.Fatal().Err(err).Msg("aprovisionamiento del store en el arranque")
		},
	}, log.Component("coordinator"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := coordinator.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("store inicial")
	}

	ingestUC := ingest.NewUseCase(registry, cfg.Ingest.MaxRecords, log.Component("ingest"))
	repeatVisitUC := repeatvisit.NewUseCase(registry, log.Component("repeat_visit"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitBytes(),
		ReadTimeout:  time.Second * 60,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Visit Audit API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ingest:       ingestUC,
		RepeatVisits: repeatVisitUC,
		Coordinator:  coordinator,
		Registry:     registry,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor")
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}

	// Un solo intento de eliminar el store; se sale igual aunque falle.
	teardownCtx, cancel := context.WithTimeout(context.Background(), cfg.Store.TeardownTimeout)
	coordinator.Shutdown(teardownCtx)
	cancel()

	log.Info().Msg("aplicación detenida")
}
