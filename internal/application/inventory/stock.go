package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/inventory"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

// location ubicación de inventario resuelta: bodega (ID) o ítem sin bodega (nil).
type location struct {
	ID   *string
	Name string
}

// resolveLocation traduce la ubicación libre de un movimiento a una bodega.
// UUID = bodega existente; vacío o main_warehouse = bodega por defecto; otro texto = sin bodega.
func resolveLocation(ctx context.Context, warehouses repository.WarehouseRepository, id, name string) (location, error) {
	if _, err := uuid.Parse(id); err == nil {
		w, err := warehouses.GetByID(ctx, id)
		if err != nil {
			return location{}, err
		}
		if w == nil {
			return location{}, domain.Invalid("bodega no encontrada: " + id)
		}
		return location{ID: &w.ID, Name: w.Name}, nil
	}
	if id == "" || id == entity.DefaultLocationID {
		w, err := warehouses.GetDefault(ctx)
		if err != nil {
			return location{}, err
		}
		if w != nil {
			return location{ID: &w.ID, Name: w.Name}, nil
		}
		if name == "" {
			name = entity.DefaultLocationName
		}
		return location{Name: name}, nil
	}
	if name == "" {
		name = id
	}
	return location{Name: name}, nil
}

// applyMovement aplica un movimiento a los ítems de inventario dentro de la transacción r.
// Bloquea cada fila con GetForUpdate antes de modificarla.
func applyMovement(ctx context.Context, r repository.TxRepos, mov *entity.StockMovement, now time.Time) error {
	if entity.IsOutbound(mov.MovementType) {
		from, err := resolveLocation(ctx, r.Warehouses, mov.LocationFromID, mov.LocationFromName)
		if err != nil {
			return err
		}
		if err := takeStock(ctx, r.Inventory, mov.ProductID, from, mov.Quantity, now); err != nil {
			return err
		}
	}
	if entity.IsInbound(mov.MovementType) || mov.MovementType == entity.MovementTransfer {
		to, err := resolveLocation(ctx, r.Warehouses, mov.LocationToID, mov.LocationToName)
		if err != nil {
			return err
		}
		if err := putStock(ctx, r.Inventory, mov.ProductID, to, mov.Quantity, mov.UnitCost, now); err != nil {
			return err
		}
	}
	return nil
}

// takeStock resta qty del ítem. Solo se consume stock disponible (on_hand - reservado - asignado);
// sin ítem o con disponible insuficiente devuelve ErrInsufficientStock.
func takeStock(ctx context.Context, items repository.InventoryRepository, productID string, loc location, qty int, now time.Time) error {
	item, err := items.GetForUpdate(ctx, productID, loc.ID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: %s tiene 0 disponibles, se requieren %d", domain.ErrInsufficientStock, loc.Name, qty)
	}
	item.Recalculate()
	if item.QuantityAvailable < qty {
		return fmt.Errorf("%w: %s tiene %d disponibles (%d comprometidos), se requieren %d",
			domain.ErrInsufficientStock, loc.Name, max(item.QuantityAvailable, 0), item.Committed(), qty)
	}
	item.QuantityOnHand -= qty
	item.UpdatedAt = now
	item.Recalculate()
	return items.Update(ctx, item)
}

// putStock suma qty al ítem (lo crea si no existe) y actualiza el costo promedio ponderado.
func putStock(ctx context.Context, items repository.InventoryRepository, productID string, loc location, qty int, unitCost decimal.Decimal, now time.Time) error {
	item, err := items.GetForUpdate(ctx, productID, loc.ID)
	if err != nil {
		return err
	}
	if item == nil {
		item = &entity.InventoryItem{
			ID:           uuid.New().String(),
			ProductID:    productID,
			LocationID:   loc.ID,
			LocationName: loc.Name,
			UnitCost:     unitCost,
			AverageCost:  unitCost,
			Status:       entity.InventoryStatusActive,
			IsTracked:    true,
			CreatedAt:    now,
		}
		item.QuantityOnHand = qty
		item.UpdatedAt = now
		item.Recalculate()
		return items.Create(ctx, item)
	}
	if unitCost.GreaterThan(decimal.Zero) {
		current := item.AverageCost
		if current.IsZero() {
			current = item.UnitCost
		}
		item.AverageCost = inventory.CostCalculator(item.QuantityOnHand, current, qty, unitCost)
	}
	item.QuantityOnHand += qty
	item.UpdatedAt = now
	item.Recalculate()
	return items.Update(ctx, item)
}

// setStock fija on_hand del ítem (ajuste aprobado); crea el ítem si no existe.
func setStock(ctx context.Context, items repository.InventoryRepository, productID string, loc location, qty int, now time.Time) (*entity.InventoryItem, error) {
	item, err := items.GetForUpdate(ctx, productID, loc.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = &entity.InventoryItem{
			ID:             uuid.New().String(),
			ProductID:      productID,
			LocationID:     loc.ID,
			LocationName:   loc.Name,
			QuantityOnHand: qty,
			Status:         entity.InventoryStatusActive,
			IsTracked:      true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		item.Recalculate()
		return item, items.Create(ctx, item)
	}
	if qty < item.Committed() {
		return nil, fmt.Errorf("%w: el conteo %d es menor a lo comprometido (%d) en %s",
			domain.ErrInsufficientStock, qty, item.Committed(), loc.Name)
	}
	item.QuantityOnHand = qty
	item.UpdatedAt = now
	item.Recalculate()
	return item, items.Update(ctx, item)
}
