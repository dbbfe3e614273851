package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visit-audit-api/internal/application/dto"
	"github.com/jhoicas/visit-audit-api/internal/application/store"
)

// StoreHandler reset y estado del store efímero.
type StoreHandler struct {
	coordinator *store.Coordinator
	registry    *store.Registry
}

// NewStoreHandler construye el handler.
func NewStoreHandler(coordinator *store.Coordinator, registry *store.Registry) *StoreHandler {
	return &StoreHandler{coordinator: coordinator, registry: registry}
}

// Cleanup godoc
// @Summary      Reiniciar datos
// @Description  Elimina el store actual y publica uno nuevo vacío.
// @Tags         audit_visit
// @Produce      json
// @Success      200  {object}  dto.ResetResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/audit_visit/monthly_repeat_visits/cleanup [post]
func (h *StoreHandler) Cleanup(c *fiber.Ctx) error {
	name, err := h.coordinator.Reset(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ResetResponse{
		Success:   true,
		StoreName: name,
		Message:   "datos eliminados; store nuevo listo",
	})
}

// Status godoc
// @Summary      Estado del store
// @Tags         audit_visit
// @Produce      json
// @Success      200  {object}  dto.StoreStatusResponse
// @Failure      503  {object}  dto.StoreStatusResponse
// @Router       /api/audit_visit/monthly_repeat_visits/status [get]
func (h *StoreHandler) Status(c *fiber.Ctx) error {
	name := h.registry.Name()
	if name == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.StoreStatusResponse{})
	}
	return c.JSON(dto.StoreStatusResponse{Success: true, Ready: true, StoreName: name})
}
