package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/visit-audit-api/internal/application/dto"
	"github.com/jhoicas/visit-audit-api/internal/application/ingest"
)

// UploadHandler carga masiva de visitas y terminales en el store activo.
type UploadHandler struct {
	uc *ingest.UseCase
}

// NewUploadHandler construye el handler.
func NewUploadHandler(uc *ingest.UseCase) *UploadHandler {
	return &UploadHandler{uc: uc}
}

// UploadVisit godoc
// @Summary      Importar visitas
// @Description  Inserta todas las filas del lote, incluidas las repetidas.
// @Tags         audit_visit
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UploadRequest  true  "{\"records\": [VisitRecord]}"
// @Success      200   {object}  dto.IngestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/audit_visit/monthly_repeat_visits/uploadVisit [post]
func (h *UploadHandler) UploadVisit(c *fiber.Ctx) error {
	var in dto.UploadRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	records, err := dto.DecodeRecords[dto.VisitRecord](in.Records)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.IngestVisits(c.UserContext(), records)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadTerminal godoc
// @Summary      Importar terminales
// @Description  Un customer_code ya registrado conserva su primer territorio y región.
// @Tags         audit_visit
// @Accept       json
// @Produce      json
// @Param        body  body      dto.UploadRequest  true  "{\"records\": [TerminalRecord]}"
// @Success      200   {object}  dto.IngestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/audit_visit/monthly_repeat_visits/uploadTerminal [post]
func (h *UploadHandler) UploadTerminal(c *fiber.Ctx) error {
	var in dto.UploadRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	records, err := dto.DecodeRecords[dto.TerminalRecord](in.Records)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := h.uc.IngestTerminals(c.UserContext(), records)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
