// Package analytics contiene las vistas de lectura de la cartera de consignación:
// estado de cuenta por consignatario, cuentas por cobrar y tablero.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/consignaciones-api/internal/application/dto"
	"github.com/jhoicas/consignaciones-api/internal/application/ports"
	"github.com/jhoicas/consignaciones-api/internal/domain/repository"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardUseCase genera el resumen de la cartera.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). Si hay caché configurada,
// el resumen se guarda con un TTL corto.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	cache         ports.Cache
	ttl           time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, cache ports.Cache, ttl time.Duration, log zerolog.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		cache:         cache,
		ttl:           ttl,
		log:           log.With().Str("component", "dashboard").Logger(),
		now:           time.Now,
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Tres consultas en paralelo:
//  1. CountConsignmentsByStatus
//  2. CountUnitsByState
//  3. ConsigneeTotals
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	if cached, ok := uc.fromCache(ctx); ok {
		return cached, nil
	}

	var (
		byStatus map[string]int
		byState  map[string]int
		totals   repository.ConsignmentTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = uc.analyticsRepo.CountConsignmentsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byState, err = uc.analyticsRepo.CountUnitsByState(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = uc.analyticsRepo.ConsigneeTotals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DashboardSummaryDTO{
		ConsignmentsByStatus: byStatus,
		UnitsByState:         byState,
		TotalConsigned:       totals.TotalConsigned,
		TotalPaid:            totals.TotalPaid,
		TotalPending:         totals.TotalPending,
		GeneratedAt:          uc.now(),
	}
	uc.toCache(ctx, out)
	return out, nil
}

// Invalidate descarta el resumen en caché.
func (uc *DashboardUseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, dashboardCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar el tablero en caché")
	}
}

// Los errores de caché se registran y se ignoran: la consulta va directo al repositorio.
func (uc *DashboardUseCase) fromCache(ctx context.Context) (*dto.DashboardSummaryDTO, bool) {
	if uc.cache == nil {
		return nil, false
	}
	raw, found, err := uc.cache.Get(ctx, dashboardCacheKey)
	if err != nil {
		uc.log.Warn().Err(err).Msg("lectura de caché fallida")
		return nil, false
	}
	if !found {
		return nil, false
	}
	var out dto.DashboardSummaryDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		uc.log.Warn().Err(err).Msg("entrada de caché corrupta")
		return nil, false
	}
	return &out, true
}

func (uc *DashboardUseCase) toCache(ctx context.Context, out *dto.DashboardSummaryDTO) {
	if uc.cache == nil || uc.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, dashboardCacheKey, raw, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Msg("escritura de caché fallida")
	}
}
