// Package repeatvisit contiene la consulta del reporte mensual de visitas repetidas.
package repeatvisit

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/visit-audit-api/internal/application/dto"
	"github.com/jhoicas/visit-audit-api/internal/domain/entity"
	"github.com/jhoicas/visit-audit-api/internal/domain/repository"
	"github.com/jhoicas/visit-audit-api/internal/domain/visit"
)

// DefaultMinVisits umbral usado cuando minVisits falta, no es numérico o es menor que 1.
const DefaultMinVisits = 3

// HandleSource origen del store activo (store.Registry).
type HandleSource interface {
	Current() (repository.StoreHandle, error)
}

// UseCase ejecuta el agregado sobre el store activo.
type UseCase struct {
	stores HandleSource
	log    zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(stores HandleSource, log zerolog.Logger) *UseCase {
	return &UseCase{stores: stores, log: log}
}

// ParseThreshold entero inicial de raw ("4", "4.7", "5 veces"); si no hay o es < 1, DefaultMinVisits.
func ParseThreshold(raw string) int {
	n, ok := visit.LeadingInt(raw)
	if !ok || n < 1 {
		return DefaultMinVisits
	}
	return n
}

// FilterFrom traduce los parámetros de la petición al filtro del repositorio.
// Los filtros de texto son subcadenas literales: solo un valor vacío deja de filtrar
// (" " sigue siendo un filtro). Area tiene prioridad sobre su alias Territory.
func FilterFrom(req dto.FrequentVisitsRequest) entity.RepeatVisitFilter {
	territory := req.Area
	if territory == "" {
		territory = req.Territory
	}
	return entity.RepeatVisitFilter{
		MinVisits:    ParseThreshold(req.MinVisits),
		TargetMonth:  strings.TrimSpace(req.TargetMonth),
		Visitor:      req.Visitor,
		CustomerName: req.CustomerName,
		CustomerCode: req.CustomerCode,
		Territory:    territory,
		Region:       req.Region,
	}
}

// FrequentVisits grupos (visitante, cliente, mes) con más de MinVisits visitas,
// ordenados por número de visitas descendente.
func (uc *UseCase) FrequentVisits(ctx context.Context, req dto.FrequentVisitsRequest) (*dto.FrequentVisitsResponse, error) {
	filter := FilterFrom(req)

	h, err := uc.stores.Current()
	if err != nil {
		return nil, err
	}
	rows, err := h.RepeatVisits().FindRepeatVisits(ctx, filter)
	if err != nil {
		uc.log.Error().Err(err).Str("store", h.Name()).Msg("consulta de visitas repetidas")
		return nil, err
	}
	uc.log.Debug().
		Str("store", h.Name()).
		Int("min_visits", filter.MinVisits).
		Int("rows", len(rows)).
		Msg("visitas repetidas")

	data := make([]dto.RepeatVisitDTO, len(rows))
	for i, r := range rows {
		data[i] = toDTO(r)
	}
	return &dto.FrequentVisitsResponse{
		Success:   true,
		MinVisits: filter.MinVisits,
		Count:     len(data),
		Data:      data,
	}, nil
}

func toDTO(r entity.RepeatVisit) dto.RepeatVisitDTO {
	return dto.RepeatVisitDTO{
		Visitor:              r.Visitor,
		CustomerName:         r.CustomerName,
		CustomerCode:         r.CustomerCode,
		VisitMonth:           r.VisitMonth,
		VisitCount:           r.VisitCount,
		TotalDurationMinutes: r.TotalDurationMinutes,
		AvgDurationMinutes:   r.AvgDurationMinutes,
		Territory:            r.Territory,
		Region:               r.Region,
	}
}
