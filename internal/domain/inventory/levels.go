package inventory

import (
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Valores por defecto de set-stock-levels.
const (
	DefaultMinLevel = 10
	DefaultMaxLevel = 100
)

// SuggestLevels mínimo = max(defaultMin, 20% del stock), máximo = max(defaultMax, 2x el stock).
func SuggestLevels(onHand, defaultMin, defaultMax int) (minLevel, maxLevel int) {
	minLevel = onHand / 5
	if minLevel < defaultMin {
		minLevel = defaultMin
	}
	maxLevel = onHand * 2
	if maxLevel < defaultMax {
		maxLevel = defaultMax
	}
	return minLevel, maxLevel
}

// NeedsLevels indica si el ítem no tiene niveles configurados.
func NeedsLevels(item *entity.InventoryItem) bool {
	return item.MinStockLevel == 0 || item.MaxStockLevel == nil || *item.MaxStockLevel == 0
}

// SyncedUnitCost costo que debería tener el ítem según su producto.
// Usa cost_price si es > 0; si no, selling_price solo cuando el ítem no tiene costo.
// ok = false si no hay cambio.
func SyncedUnitCost(item *entity.InventoryItem) (cost decimal.Decimal, ok bool) {
	switch {
	case item.ProductCostPrice.GreaterThan(decimal.Zero):
		cost = item.ProductCostPrice
	case item.UnitCost.IsZero() && item.ProductSellingPrice.GreaterThan(decimal.Zero):
		cost = item.ProductSellingPrice
	default:
		return decimal.Zero, false
	}
	if cost.Equal(item.UnitCost) {
		return decimal.Zero, false
	}
	return cost, true
}

// ReorderThreshold punto de reorden efectivo: reorder_point o, si no hay, el mínimo.
func ReorderThreshold(item *entity.InventoryItem) int {
	if item.ReorderPoint > 0 {
		return item.ReorderPoint
	}
	return item.MinStockLevel
}

// NeedsReorder indica si el ítem está en o bajo su punto de reorden.
func NeedsReorder(item *entity.InventoryItem) bool {
	t := ReorderThreshold(item)
	return t > 0 && item.QuantityOnHand <= t
}

// SuggestedReorderQuantity max(reorder_quantity, max_stock_level - on_hand); nunca menor a 1.
func SuggestedReorderQuantity(item *entity.InventoryItem) int {
	q := item.ReorderQuantity
	if item.MaxStockLevel != nil {
		if gap := *item.MaxStockLevel - item.QuantityOnHand; gap > q {
			q = gap
		}
	}
	if q < 1 {
		q = 1
	}
	return q
}
