package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/inventory"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

const errOverCommitted = "quantity_reserved + quantity_allocated no puede superar quantity_on_hand"

// ItemUseCase casos de uso de ítems de inventario (existencias por producto y bodega).
type ItemUseCase struct {
	items       repository.InventoryRepository
	products    repository.ProductRepository
	warehouses  repository.WarehouseRepository
	movements   repository.MovementRepository
	adjustments repository.AdjustmentRepository
	now         func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	items repository.InventoryRepository,
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	movements repository.MovementRepository,
	adjustments repository.AdjustmentRepository,
) *ItemUseCase {
	return &ItemUseCase{
		items:       items,
		products:    products,
		warehouses:  warehouses,
		movements:   movements,
		adjustments: adjustments,
		now:         time.Now,
	}
}

// Create crea un ítem; (producto, bodega) es único y lo garantiza el índice de la tabla.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	var msgs []string
	if in.ProductID == "" {
		msgs = append(msgs, "product_id es requerido")
	}
	if in.QuantityOnHand < 0 || in.QuantityReserved < 0 || in.QuantityAllocated < 0 || in.QuantityIncoming < 0 {
		msgs = append(msgs, "las cantidades no pueden ser negativas")
	}
	if in.Status != "" && !entity.ValidInventoryStatus(in.Status) {
		msgs = append(msgs, "status inválido")
	}
	if err := domain.NewValidationError(msgs); err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	locName := in.LocationName
	if in.LocationID != nil && *in.LocationID != "" {
		w, err := uc.warehouses.GetByID(ctx, *in.LocationID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, domain.Invalid("bodega no encontrada")
		}
		if locName == "" {
			locName = w.Name
		}
	} else {
		in.LocationID = nil
	}

	now := uc.now()
	item := &entity.InventoryItem{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		LocationID:        in.LocationID,
		LocationName:      locName,
		QuantityOnHand:    in.QuantityOnHand,
		QuantityReserved:  in.QuantityReserved,
		QuantityAllocated: in.QuantityAllocated,
		QuantityIncoming:  in.QuantityIncoming,
		MinStockLevel:     in.MinStockLevel,
		MaxStockLevel:     in.MaxStockLevel,
		ReorderPoint:      in.ReorderPoint,
		ReorderQuantity:   in.ReorderQuantity,
		UnitCost:          product.CostPrice,
		BatchNumber:       in.BatchNumber,
		LotNumber:         in.LotNumber,
		ExpiryDate:        in.ExpiryDate,
		Status:            in.Status,
		IsTracked:         in.IsTracked == nil || *in.IsTracked,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
		ProductName:       product.Name,
		ProductSKU:        product.SKU,
	}
	if in.UnitCost != nil {
		item.UnitCost = *in.UnitCost
	}
	item.AverageCost = item.UnitCost
	if item.Status == "" {
		item.Status = entity.InventoryStatusActive
	}
	item.Recalculate()
	if item.QuantityAvailable < 0 {
		return nil, domain.Invalid(errOverCommitted)
	}
	if err := uc.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// GetByID obtiene un ítem.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.InventoryItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Update aplica cambios parciales y recalcula disponible y costo total.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !entity.ValidInventoryStatus(*in.Status) {
		return nil, domain.Invalid("status inválido")
	}
	for _, q := range []*int{in.QuantityOnHand, in.QuantityReserved, in.QuantityAllocated, in.QuantityIncoming} {
		if q != nil && *q < 0 {
			return nil, domain.Invalid("las cantidades no pueden ser negativas")
		}
	}
	setStr(&item.LocationName, in.LocationName)
	setInt(&item.QuantityOnHand, in.QuantityOnHand)
	setInt(&item.QuantityReserved, in.QuantityReserved)
	setInt(&item.QuantityAllocated, in.QuantityAllocated)
	setInt(&item.QuantityIncoming, in.QuantityIncoming)
	setInt(&item.MinStockLevel, in.MinStockLevel)
	setInt(&item.ReorderPoint, in.ReorderPoint)
	setInt(&item.ReorderQuantity, in.ReorderQuantity)
	setStr(&item.BatchNumber, in.BatchNumber)
	setStr(&item.LotNumber, in.LotNumber)
	setStr(&item.Status, in.Status)
	setStr(&item.Notes, in.Notes)
	if in.MaxStockLevel != nil {
		item.MaxStockLevel = in.MaxStockLevel
	}
	if in.UnitCost != nil {
		item.UnitCost = *in.UnitCost
	}
	if in.ExpiryDate != nil {
		item.ExpiryDate = in.ExpiryDate
	}
	if in.IsTracked != nil {
		item.IsTracked = *in.IsTracked
	}
	if in.LastCountedAt != nil {
		item.LastCountedAt = in.LastCountedAt
	}
	item.UpdatedAt = uc.now()
	item.Recalculate()
	if item.QuantityAvailable < 0 {
		return nil, domain.Invalid(errOverCommitted)
	}
	if err := uc.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return ToItemResponse(item), nil
}

// Delete elimina un ítem.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.items.Delete(ctx, id)
}

// List lista ítems; sin status explícito solo los activos.
func (uc *ItemUseCase) List(ctx context.Context, q dto.InventoryListQuery) (*dto.InventoryListResponse, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	status := q.Status
	switch status {
	case "":
		status = entity.InventoryStatusActive
	case "all":
		status = ""
	}
	list, total, err := uc.items.List(ctx, repository.InventoryFilter{
		LocationID: q.LocationID,
		ProductID:  q.ProductID,
		Status:     status,
		LowStock:   q.LowStock,
		Search:     q.Search,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryListResponse{
		Items: make([]dto.InventoryItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}
	for _, it := range list {
		out.Items = append(out.Items, *ToItemResponse(it))
	}
	return out, nil
}

// BulkUpdate aplica cambios a varios ítems; cada fallo se reporta sin abortar el resto.
func (uc *ItemUseCase) BulkUpdate(ctx context.Context, in dto.BulkInventoryUpdateRequest) (*dto.BulkResult, error) {
	if len(in.Updates) == 0 {
		return nil, domain.Invalid("updates es requerido")
	}
	res := &dto.BulkResult{Errors: []dto.BulkError{}}
	for i, u := range in.Updates {
		_, err := uc.Update(ctx, u.ID, dto.UpdateInventoryItemRequest{
			QuantityOnHand: u.QuantityOnHand,
			MinStockLevel:  u.MinStockLevel,
			MaxStockLevel:  u.MaxStockLevel,
			ReorderPoint:   u.ReorderPoint,
			UnitCost:       u.UnitCost,
			Status:         u.Status,
		})
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, dto.BulkError{ID: u.ID, Index: i, Error: err.Error()})
			continue
		}
		res.Updated++
	}
	return res, nil
}

// Summary agregados globales; total_value con 2 decimales.
func (uc *ItemUseCase) Summary(ctx context.Context) (*dto.InventorySummaryResponse, error) {
	s, err := uc.items.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.InventorySummaryResponse{
		TotalItems:      s.TotalItems,
		TotalValue:      s.TotalValue.Round(2),
		LowStockCount:   s.LowStockCount,
		OutOfStockCount: s.OutOfStockCount,
		TotalLocations:  s.TotalLocations,
	}, nil
}

// History movimientos y ajustes aprobados del producto en la ubicación del ítem, más recientes primero.
// new_quantity se reconstruye hacia atrás desde el stock actual.
func (uc *ItemUseCase) History(ctx context.Context, id string) (*dto.InventoryHistoryResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	keys, err := uc.locationKeys(ctx, item)
	if err != nil {
		return nil, err
	}
	var movs []*entity.StockMovement
	seen := map[string]bool{}
	for k := range keys {
		list, err := uc.movements.ListForLocation(ctx, item.ProductID, k)
		if err != nil {
			return nil, err
		}
		for _, m := range list {
			if !seen[m.ID] {
				seen[m.ID] = true
				movs = append(movs, m)
			}
		}
	}
	adjs, err := uc.adjustments.ListApproved(ctx, item.ProductID, item.LocationID)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.HistoryEntry, 0, len(movs)+len(adjs))
	for _, m := range movs {
		if m.Status != entity.MovementCompleted {
			continue
		}
		change := m.Quantity
		if m.MovementType == entity.MovementTransfer {
			if keys[m.LocationFromID] {
				change = -m.Quantity
			}
		} else if entity.IsOutbound(m.MovementType) {
			change = -m.Quantity
		}
		at := m.CreatedAt
		if m.ProcessedAt != nil {
			at = *m.ProcessedAt
		}
		entries = append(entries, dto.HistoryEntry{
			Date:            at,
			Action:          inventory.MovementLabel(m.MovementType, m.Quantity),
			Source:          "movement",
			QuantityChanged: change,
			User:            m.CreatedBy,
			Reason:          m.Reason,
		})
	}
	for _, a := range adjs {
		at := a.CreatedAt
		if a.ApprovedAt != nil {
			at = *a.ApprovedAt
		}
		entries = append(entries, dto.HistoryEntry{
			Date:            at,
			Action:          inventory.AdjustmentLabel(a.QuantityChange),
			Source:          "adjustment",
			QuantityChanged: a.QuantityChange,
			User:            a.CreatedBy,
			Reason:          a.Reason,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.After(entries[j].Date) })
	qty := item.QuantityOnHand
	for i := range entries {
		entries[i].NewQuantity = qty
		qty -= entries[i].QuantityChanged
	}

	return &dto.InventoryHistoryResponse{
		Success: true,
		History: entries,
		Item:    dto.HistoryItem{ID: item.ID, Name: item.ProductName, SKU: item.ProductSKU},
	}, nil
}

// SetStockLevels asigna mínimo y máximo sugeridos; con UpdateOnlyZero solo a ítems sin niveles.
func (uc *ItemUseCase) SetStockLevels(ctx context.Context, in dto.SetStockLevelsRequest) (*dto.SetStockLevelsResponse, error) {
	settings := dto.StockLevelSettings{
		DefaultMinLevel: inventory.DefaultMinLevel,
		DefaultMaxLevel: inventory.DefaultMaxLevel,
		UpdateOnlyZero:  true,
	}
	if in.DefaultMinLevel != nil {
		settings.DefaultMinLevel = *in.DefaultMinLevel
	}
	if in.DefaultMaxLevel != nil {
		settings.DefaultMaxLevel = *in.DefaultMaxLevel
	}
	if in.UpdateOnlyZero != nil {
		settings.UpdateOnlyZero = *in.UpdateOnlyZero
	}
	if settings.DefaultMinLevel < 0 || settings.DefaultMaxLevel < settings.DefaultMinLevel {
		return nil, domain.Invalid("niveles por defecto inválidos")
	}
	all, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	updated := 0
	for _, it := range all {
		if settings.UpdateOnlyZero && !inventory.NeedsLevels(it) {
			continue
		}
		minLevel, maxLevel := inventory.SuggestLevels(it.QuantityOnHand, settings.DefaultMinLevel, settings.DefaultMaxLevel)
		it.MinStockLevel = minLevel
		it.MaxStockLevel = &maxLevel
		it.UpdatedAt = now
		if err := uc.items.Update(ctx, it); err != nil {
			return nil, err
		}
		updated++
	}
	return &dto.SetStockLevelsResponse{
		Success:        true,
		Message:        fmt.Sprintf("Successfully updated stock levels for %d inventory items", updated),
		TotalProcessed: len(all),
		Updated:        updated,
		Settings:       settings,
	}, nil
}

// StockLevelsReport cuántos ítems carecen de niveles.
func (uc *ItemUseCase) StockLevelsReport(ctx context.Context) (*dto.StockLevelsReport, error) {
	all, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	r := &dto.StockLevelsReport{TotalItems: len(all)}
	for _, it := range all {
		noMin := it.MinStockLevel == 0
		noMax := it.MaxStockLevel == nil || *it.MaxStockLevel == 0
		if noMin {
			r.ItemsWithoutMinLevel++
		}
		if noMax {
			r.ItemsWithoutMaxLevel++
		}
		if !noMin && !noMax {
			r.ItemsWithBothLevels++
		}
	}
	r.SetupRecommended = r.ItemsWithoutMinLevel > 0 || r.ItemsWithoutMaxLevel > 0
	return r, nil
}

// SyncCosts copia el costo del producto al ítem cuando difiere.
func (uc *ItemUseCase) SyncCosts(ctx context.Context) (*dto.SyncCostsResponse, error) {
	all, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	updated := 0
	for _, it := range all {
		cost, ok := inventory.SyncedUnitCost(it)
		if !ok {
			continue
		}
		it.UnitCost = cost
		if it.AverageCost.IsZero() {
			it.AverageCost = cost
		}
		it.UpdatedAt = now
		it.Recalculate()
		if err := uc.items.Update(ctx, it); err != nil {
			return nil, err
		}
		updated++
	}
	return &dto.SyncCostsResponse{
		Success:        true,
		Message:        fmt.Sprintf("Successfully synced costs for %d inventory items", updated),
		TotalProcessed: len(all),
		Updated:        updated,
	}, nil
}

// SyncCostsReport cuántos ítems cambiarían con SyncCosts.
func (uc *ItemUseCase) SyncCostsReport(ctx context.Context) (*dto.SyncCostsReport, error) {
	all, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	r := &dto.SyncCostsReport{TotalItems: len(all)}
	for _, it := range all {
		if it.UnitCost.LessThanOrEqual(decimal.Zero) {
			r.ItemsWithZeroCost++
		}
		if _, ok := inventory.SyncedUnitCost(it); ok {
			r.ItemsNeedingSync++
		}
	}
	r.ItemsWithCost = r.TotalItems - r.ItemsWithZeroCost
	r.SyncRecommended = r.ItemsNeedingSync > 0
	return r, nil
}

// locationKeys valores de location_*_id que identifican la ubicación del ítem en los movimientos.
// La bodega por defecto también se registra como main_warehouse.
func (uc *ItemUseCase) locationKeys(ctx context.Context, item *entity.InventoryItem) (map[string]bool, error) {
	if item.LocationID == nil {
		return map[string]bool{item.LocationName: true}, nil
	}
	keys := map[string]bool{*item.LocationID: true}
	w, err := uc.warehouses.GetByID(ctx, *item.LocationID)
	if err != nil {
		return nil, err
	}
	if w != nil && w.IsDefault {
		keys[entity.DefaultLocationID] = true
	}
	return keys, nil
}

func (uc *ItemUseCase) get(ctx context.Context, id string) (*entity.InventoryItem, error) {
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ToItemResponse convierte la entidad a DTO.
func ToItemResponse(i *entity.InventoryItem) *dto.InventoryItemResponse {
	return &dto.InventoryItemResponse{
		ID:                i.ID,
		ProductID:         i.ProductID,
		ProductName:       i.ProductName,
		ProductSKU:        i.ProductSKU,
		ProductImage:      i.ProductImage,
		LocationID:        i.LocationID,
		LocationName:      i.LocationName,
		QuantityOnHand:    i.QuantityOnHand,
		QuantityAvailable: i.QuantityAvailable,
		QuantityReserved:  i.QuantityReserved,
		QuantityAllocated: i.QuantityAllocated,
		QuantityIncoming:  i.QuantityIncoming,
		MinStockLevel:     i.MinStockLevel,
		MaxStockLevel:     i.MaxStockLevel,
		ReorderPoint:      i.ReorderPoint,
		ReorderQuantity:   i.ReorderQuantity,
		UnitCost:          i.UnitCost,
		TotalCost:         i.TotalCost,
		AverageCost:       i.AverageCost,
		BatchNumber:       i.BatchNumber,
		LotNumber:         i.LotNumber,
		ExpiryDate:        i.ExpiryDate,
		Status:            i.Status,
		IsTracked:         i.IsTracked,
		IsLowStock:        i.IsLowStock(),
		LastCountedAt:     i.LastCountedAt,
		Notes:             i.Notes,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setStr(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
