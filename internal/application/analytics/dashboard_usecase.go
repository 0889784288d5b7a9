// Package analytics contiene los casos de uso del tablero principal.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

const (
	dashboardLowStockTop = 5
	statsWindow          = 30 * 24 * time.Hour
	statsCacheKey        = "dashboard:stats"
	statsCacheTTL        = time.Minute
)

// Tipos de variación.
const (
	ChangeIncrease = "increase"
	ChangeDecrease = "decrease"
)

// DashboardUseCase KPIs del tablero. Las estadísticas se cachean brevemente.
type DashboardUseCase struct {
	repo  repository.DashboardRepository
	cache ports.Cache
	log   *logger.Logger
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache nil = sin caché.
func NewDashboardUseCase(repo repository.DashboardRepository, cache ports.Cache, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{repo: repo, cache: cache, log: log.Named("dashboard"), now: time.Now}
}

// Stats construye los KPIs comparando los últimos 30 días contra los 30 anteriores.
//
// Tres consultas en paralelo: totales actuales, periodo actual y periodo anterior.
// Stock bajo y valor de inventario no tienen histórico: su variación es 0.
func (uc *DashboardUseCase) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	if uc.cache != nil {
		var cached dto.DashboardStatsResponse
		found, err := uc.cache.Get(ctx, statsCacheKey, &cached)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché de tablero no disponible")
		} else if found {
			return &cached, nil
		}
	}

	now := uc.now()
	curFrom := now.Add(-statsWindow)
	prevFrom := curFrom.Add(-statsWindow)

	type totalsResult struct {
		t   *repository.DashboardTotals
		err error
	}
	type activityResult struct {
		a   *repository.PeriodActivity
		err error
	}
	totalsCh := make(chan totalsResult, 1)
	curCh := make(chan activityResult, 1)
	prevCh := make(chan activityResult, 1)

	go func() {
		t, err := uc.repo.Totals(ctx)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		a, err := uc.repo.PeriodActivity(ctx, curFrom, now)
		curCh <- activityResult{a, err}
	}()
	go func() {
		a, err := uc.repo.PeriodActivity(ctx, prevFrom, curFrom)
		prevCh <- activityResult{a, err}
	}()

	totals := <-totalsCh
	cur := <-curCh
	prev := <-prevCh

	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales: %w", totals.err)
	}
	if cur.err != nil {
		return nil, fmt.Errorf("dashboard: periodo actual: %w", cur.err)
	}
	if prev.err != nil {
		return nil, fmt.Errorf("dashboard: periodo anterior: %w", prev.err)
	}

	out := &dto.DashboardStatsResponse{
		TotalProducts:  stat(decimal.NewFromInt(int64(totals.t.Products)), decimal.NewFromInt(int64(cur.a.NewProducts)), decimal.NewFromInt(int64(prev.a.NewProducts))),
		TotalOrders:    stat(decimal.NewFromInt(int64(totals.t.Orders)), decimal.NewFromInt(int64(cur.a.Orders)), decimal.NewFromInt(int64(prev.a.Orders))),
		LowStockItems:  stat(decimal.NewFromInt(int64(totals.t.LowStockItems)), decimal.Zero, decimal.Zero),
		InventoryValue: stat(totals.t.InventoryValue.Round(2), decimal.Zero, decimal.Zero),
		Revenue:        stat(totals.t.Revenue.Round(2), cur.a.Revenue, prev.a.Revenue),
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, statsCacheKey, out, statsCacheTTL); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo cachear el tablero")
		}
	}
	return out, nil
}

// LowStock top 5 de ítems en o por debajo de su mínimo.
func (uc *DashboardUseCase) LowStock(ctx context.Context) (*dto.LowStockResponse, error) {
	rows, total, err := uc.repo.LowStock(ctx, dashboardLowStockTop)
	if err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", err)
	}
	items := make([]dto.LowStockItemDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.LowStockItemDTO{
			ID:           r.ID,
			Name:         r.Name,
			SKU:          r.SKU,
			CurrentStock: r.CurrentStock,
			Threshold:    r.Threshold,
		})
	}
	return &dto.LowStockResponse{Items: items, Total: total}, nil
}

// Invalidate descarta las estadísticas cacheadas.
func (uc *DashboardUseCase) Invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, statsCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché del tablero")
	}
}

// stat arma el KPI; la variación es (cur - prev) / prev * 100, 0 sin periodo anterior.
func stat(value, cur, prev decimal.Decimal) dto.StatValue {
	change := 0
	if prev.IsPositive() {
		change = int(cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	} else if cur.IsPositive() {
		change = 100
	}
	changeType := ChangeIncrease
	if change < 0 {
		changeType = ChangeDecrease
	}
	return dto.StatValue{Value: value, Change: change, ChangeType: changeType}
}
