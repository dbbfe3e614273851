// Package ingest contiene los casos de uso de carga masiva de visitas y terminales.
package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/visit-audit-api/internal/application/dto"
	"github.com/jhoicas/visit-audit-api/internal/domain"
	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
	"github.com/jhoicas/visit-audit-api/internal/domain/visit"
)

// HandleSource origen del store activo (store.Registry).
type HandleSource interface {
	Current() (repository.StoreHandle, error)
}

// UseCase carga lotes en el store activo. La validación ocurre antes de tocar el almacenamiento.
type UseCase struct {
	stores     HandleSource
	maxRecords int
	log        zerolog.Logger
}

// NewUseCase construye el caso de uso. maxRecords <= 0 desactiva el límite por lote.
func NewUseCase(stores HandleSource, maxRecords int, log zerolog.Logger) *UseCase {
	return &UseCase{stores: stores, maxRecords: maxRecords, log: log}
}

// IngestVisits inserta todas las visitas del lote (se aceptan duplicados).
func (uc *UseCase) IngestVisits(ctx context.Context, records []dto.VisitRecord) (*dto.IngestResponse, error) {
	if err := uc.validateBatch("visitas", len(records)); err != nil {
		return nil, err
	}
	h, err := uc.stores.Current()
	if err != nil {
		return nil, err
	}

	visits := make([]entity.Visit, len(records))
	for i, r := range records {
		visits[i] = toVisit(r)
	}

	n, err := h.Visits().InsertVisits(ctx, visits)
	if err != nil {
		uc.log.Error().Err(err).Str("store", h.Name()).Int("records", len(records)).Msg("insertar visitas")
		return nil, err
	}
	uc.log.Info().Str("store", h.Name()).Int64("inserted", n).Msg("visitas importadas")

	return &dto.IngestResponse{
		Success:       true,
		InsertedCount: n,
		Message:       fmt.Sprintf("%d registros de visita importados", n),
	}, nil
}

// IngestTerminals inserta los terminales; los códigos ya existentes se ignoran y no cuentan.
func (uc *UseCase) IngestTerminals(ctx context.Context, records []dto.TerminalRecord) (*dto.IngestResponse, error) {
	if err := uc.validateBatch("terminales", len(records)); err != nil {
		return nil, err
	}
	h, err := uc.stores.Current()
	if err != nil {
		return nil, err
	}

	terminals := make([]entity.Terminal, len(records))
	for i, r := range records {
		terminals[i] = entity.Terminal{
			CustomerCode: r.CustomerCode.Ptr(),
			Territory:    r.Territory.Ptr(),
			Region:       r.Region.Ptr(),
		}
	}

	n, err := h.Terminals().InsertTerminals(ctx, terminals)
	if err != nil {
		uc.log.Error().Err(err).Str("store", h.Name()).Int("records", len(records)).Msg("insertar terminales")
		return nil, err
	}
	uc.log.Info().
		Str("store", h.Name()).
		Int64("inserted", n).
		Int64("ignored", int64(len(records))-n).
		Msg("terminales importados")

	return &dto.IngestResponse{
		Success:       true,
		InsertedCount: n,
		Message:       fmt.Sprintf("%d registros de terminal importados", n),
	}, nil
}

func (uc *UseCase) validateBatch(kind string, n int) error {
	if n == 0 {
		return fmt.Errorf("%w: el lote de %s está vacío", domain.ErrInvalidInput, kind)
	}
	if uc.maxRecords > 0 && n > uc.maxRecords {
		return fmt.Errorf("%w: el lote de %s supera el máximo de %d registros", domain.ErrInvalidInput, kind, uc.maxRecords)
	}
	return nil
}

func toVisit(r dto.VisitRecord) entity.Visit {
	start := r.StartTime.Ptr()
	return entity.Visit{
		VisitID:         r.VisitID.Ptr(),
		StartTime:       start,
		EndTime:         r.EndTime.Ptr(),
		Visitor:         r.Visitor.Ptr(),
		CustomerName:    r.CustomerName.Ptr(),
		CustomerCode:    r.CustomerCode.Ptr(),
		DurationMinutes: int(r.DurationMinutes),
		VisitMonth:      visit.NormalizeMonthPtr(start),
	}
}
