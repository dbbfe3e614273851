package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visit-audit-api/internal/application/dto"
	"github.com/jhoicas/visit-audit-api/internal/application/repeatvisit"
)

// RepeatVisitHandler reporte mensual de visitas repetidas.
type RepeatVisitHandler struct {
	uc *repeatvisit.UseCase
}

// NewRepeatVisitHandler construye el handler.
func NewRepeatVisitHandler(uc *repeatvisit.UseCase) *RepeatVisitHandler {
	return &RepeatVisitHandler{uc: uc}
}

// GetFrequentVisits godoc
// @Summary      Visitas repetidas por mes
// @Description  Grupos visitante/cliente/mes con más de minVisits visitas, de mayor a menor.
// @Tags         audit_visit
// @Produce      json
// @Param        targetMonth   query  string  false  "Mes YYYY-MM"
// @Param        minVisits     query  int     false  "Umbral estricto"  default(3)
// @Param        visitor       query  string  false  "Contiene"
// @Param        customerName  query  string  false  "Contiene"
// @Param        customerCode  query  string  false  "Contiene"
// @Param        area          query  string  false  "Territorio, contiene"
// @Param        territory     query  string  false  "Alias de area"
// @Param        region        query  string  false  "Contiene"
// @Success      200  {object}  dto.FrequentVisitsResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/audit_visit/monthly_repeat_visits/getFrequentVisits [get]
func (h *RepeatVisitHandler) GetFrequentVisits(c *fiber.Ctx) error {
	var in dto.FrequentVisitsRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "parámetros inválidos")
	}
	out, err := h.uc.FrequentVisits(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
