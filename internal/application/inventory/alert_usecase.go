package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// AlertUseCase alertas de stock bajo: consulta, resolución manual y escaneo periódico.
type AlertUseCase struct {
	alerts repository.AlertRepository
	items  repository.InventoryRepository
	log    *logger.Logger
	now    func() time.Time
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(alerts repository.AlertRepository, items repository.InventoryRepository, log *logger.Logger) *AlertUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AlertUseCase{alerts: alerts, items: items, log: log.Named("alerts"), now: time.Now}
}

// List alertas por estado; vacío = todas.
func (uc *AlertUseCase) List(ctx context.Context, status string) ([]dto.LowStockAlertResponse, error) {
	if status != "" && status != entity.AlertStatusActive && status != entity.AlertStatusResolved {
		return nil, domain.Invalid("status debe ser active o resolved")
	}
	list, err := uc.alerts.List(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockAlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAlertResponse(a))
	}
	return out, nil
}

// Resolve marca una alerta activa como resuelta.
func (uc *AlertUseCase) Resolve(ctx context.Context, id string) (*dto.LowStockAlertResponse, error) {
	a, err := uc.alerts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if a.Status == entity.AlertStatusResolved {
		return nil, domain.Conflict("la alerta ya está resuelta")
	}
	now := uc.now()
	if err := uc.alerts.Resolve(ctx, id, now); err != nil {
		return nil, err
	}
	a.Status = entity.AlertStatusResolved
	a.ResolvedAt = &now
	res := toAlertResponse(a)
	return &res, nil
}

// Scan abre una alerta por cada ítem bajo su mínimo sin alerta activa y resuelve
// las alertas activas cuyo ítem ya se recuperó.
func (uc *AlertUseCase) Scan(ctx context.Context) (*dto.AlertScanResult, error) {
	items, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	active, err := uc.alerts.List(ctx, entity.AlertStatusActive)
	if err != nil {
		return nil, err
	}
	byItem := make(map[string]*entity.LowStockAlert, len(active))
	for _, a := range active {
		byItem[a.InventoryItemID] = a
	}

	res := &dto.AlertScanResult{}
	now := uc.now()
	low := map[string]bool{}
	for _, item := range items {
		if item.Status != entity.InventoryStatusActive || !item.IsLowStock() {
			continue
		}
		low[item.ID] = true
		if _, ok := byItem[item.ID]; ok {
			continue
		}
		alert := &entity.LowStockAlert{
			ID:              uuid.New().String(),
			InventoryItemID: item.ID,
			ProductID:       item.ProductID,
			LocationID:      item.LocationID,
			QuantityOnHand:  item.QuantityOnHand,
			Threshold:       item.MinStockLevel,
			Status:          entity.AlertStatusActive,
			CreatedAt:       now,
		}
		if err := uc.alerts.Create(ctx, alert); err != nil {
			uc.log.Error().Err(err).Str("inventory_item_id", item.ID).Msg("no se pudo abrir la alerta")
			continue
		}
		res.Opened++
	}
	for itemID, a := range byItem {
		if low[itemID] {
			continue
		}
		if err := uc.alerts.Resolve(ctx, a.ID, now); err != nil {
			uc.log.Error().Err(err).Str("alert_id", a.ID).Msg("no se pudo resolver la alerta")
			continue
		}
		res.Resolved++
	}
	if res.Opened > 0 || res.Resolved > 0 {
		uc.log.Info().Int("opened", res.Opened).Int("resolved", res.Resolved).Msg("escaneo de stock bajo")
	}
	return res, nil
}

func toAlertResponse(a *entity.LowStockAlert) dto.LowStockAlertResponse {
	return dto.LowStockAlertResponse{
		ID:              a.ID,
		InventoryItemID: a.InventoryItemID,
		ProductID:       a.ProductID,
		ProductName:     a.ProductName,
		ProductSKU:      a.ProductSKU,
		LocationID:      a.LocationID,
		QuantityOnHand:  a.QuantityOnHand,
		Threshold:       a.Threshold,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		ResolvedAt:      a.ResolvedAt,
	}
}
