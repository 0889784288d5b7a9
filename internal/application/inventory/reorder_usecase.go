package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/inventory"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

// ReorderUseCase genera la lista de reposición con los ítems en o bajo su punto de reorden.
type ReorderUseCase struct {
	items repository.InventoryRepository
}

// NewReorderUseCase construye el caso de uso de reposición.
func NewReorderUseCase(items repository.InventoryRepository) *ReorderUseCase {
	return &ReorderUseCase{items: items}
}

// Suggestions devuelve las sugerencias ordenadas por déficit (1 = más urgente).
// locationID vacío considera todas las bodegas.
func (uc *ReorderUseCase) Suggestions(ctx context.Context, locationID string) ([]dto.ReorderSuggestion, error) {
	all, err := uc.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []dto.ReorderSuggestion{}
	for _, item := range all {
		if item.Status != entity.InventoryStatusActive || !inventory.NeedsReorder(item) {
			continue
		}
		if locationID != "" && (item.LocationID == nil || *item.LocationID != locationID) {
			continue
		}
		threshold := inventory.ReorderThreshold(item)
		qty := inventory.SuggestedReorderQuantity(item)
		cost := item.UnitCost
		if cost.IsZero() {
			cost = item.ProductCostPrice
		}
		out = append(out, dto.ReorderSuggestion{
			InventoryItemID:   item.ID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			SKU:               item.ProductSKU,
			LocationID:        item.LocationID,
			LocationName:      item.LocationName,
			CurrentStock:      item.QuantityOnHand,
			ReorderPoint:      threshold,
			Deficit:           threshold - item.QuantityOnHand,
			SuggestedQuantity: qty,
			UnitCost:          cost,
			EstimatedCost:     decimal.NewFromInt(int64(qty)).Mul(cost).Round(2),
		})
	}

	// Mayor déficit primero; a igual déficit, el de menos stock.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Deficit != out[j].Deficit {
			return out[i].Deficit > out[j].Deficit
		}
		return out[i].CurrentStock < out[j].CurrentStock
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
