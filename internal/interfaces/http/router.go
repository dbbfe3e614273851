package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visit-audit-api/internal/application/ingest"
	"github.com/jhoicas/visit-audit-api/internal/application/repeatvisit"
	"github.com/jhoicas/visit-audit-api/internal/application/store"
)

// BasePath prefijo de las rutas de auditoría de visitas.
const BasePath = "/api/audit_visit/monthly_repeat_visits"

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ingest       *ingest.UseCase
	RepeatVisits *repeatvisit.UseCase
	Coordinator  *store.Coordinator
	Registry     *store.Registry
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	audit := app.Group(BasePath)

	// Carga masiva
	uploadHandler := NewUploadHandler(deps.Ingest)
	audit.Post("/uploadVisit", uploadHandler.UploadVisit)
	audit.Post("/uploadTerminal", uploadHandler.UploadTerminal)

	// Reporte
	repeatHandler := NewRepeatVisitHandler(deps.RepeatVisits)
	audit.Get("/getFrequentVisits", repeatHandler.GetFrequentVisits)

	// Store efímero
	storeHandler := NewStoreHandler(deps.Coordinator, deps.Registry)
	audit.Post("/cleanup", storeHandler.Cleanup)
	audit.Get("/status", storeHandler.Status)
}
