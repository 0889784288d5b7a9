package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var (
	_ repository.InventoryRepository = (*InventoryRepo)(nil)
	_ repository.AlertRepository     = (*AlertRepo)(nil)
)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `
	i.id, i.product_id, i.location_id, i.location_name, i.quantity_on_hand, i.quantity_available,
	i.quantity_reserved, i.quantity_allocated, i.quantity_incoming, i.min_stock_level, i.max_stock_level,
	i.reorder_point, i.reorder_quantity, i.unit_cost, i.total_cost, i.average_cost, i.batch_number,
	i.lot_number, i.expiry_date, i.status, i.is_tracked, i.last_counted_at, i.notes, i.created_at, i.updated_at,
	p.name, COALESCE(p.sku, ''), p.featured_image_url, p.cost_price, p.selling_price`

const inventoryFrom = ` FROM inventory_items i JOIN products p ON p.id = i.product_id`

// Create persiste un nuevo ítem de inventario.
func (r *InventoryRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, product_id, location_id, location_name, quantity_on_hand,
			quantity_available, quantity_reserved, quantity_allocated, quantity_incoming, min_stock_level,
			max_stock_level, reorder_point, reorder_quantity, unit_cost, total_cost, average_cost, batch_number,
			lot_number, expiry_date, status, is_tracked, last_counted_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.ProductID, item.LocationID, item.LocationName, item.QuantityOnHand,
		item.QuantityAvailable, item.QuantityReserved, item.QuantityAllocated, item.QuantityIncoming, item.MinStockLevel,
		item.MaxStockLevel, item.ReorderPoint, item.ReorderQuantity, item.UnitCost, item.TotalCost, item.AverageCost,
		item.BatchNumber, item.LotNumber, item.ExpiryDate, item.Status, item.IsTracked, item.LastCountedAt, item.Notes,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert inventory item", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID con datos del producto.
func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+inventoryColumns+inventoryFrom+` WHERE i.id = $1`, id)
}

// GetByProductLocation ítem de un producto en una ubicación; nil si no existe.
func (r *InventoryRepo) GetByProductLocation(ctx context.Context, productID string, locationID *string) (*entity.InventoryItem, error) {
	if !validUUID(productID) {
		return nil, nil
	}
	query := `SELECT ` + inventoryColumns + inventoryFrom + `
		WHERE i.product_id = $1 AND i.location_id IS NOT DISTINCT FROM $2::uuid`
	return r.getOne(ctx, query, productID, locationID)
}

// GetForUpdate igual que GetByProductLocation pero bloquea la fila del ítem (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID string, locationID *string) (*entity.InventoryItem, error) {
	if !validUUID(productID) {
		return nil, nil
	}
	query := `SELECT ` + inventoryColumns + inventoryFrom + `
		WHERE i.product_id = $1 AND i.location_id IS NOT DISTINCT FROM $2::uuid
		FOR UPDATE OF i`
	return r.getOne(ctx, query, productID, locationID)
}

func (r *InventoryRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InventoryItem, error) {
	item, err := scanInventoryItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

// Update actualiza cantidades, niveles, costos y metadatos del ítem.
func (r *InventoryRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET location_id = $2, location_name = $3, quantity_on_hand = $4,
			quantity_available = $5, quantity_reserved = $6, quantity_allocated = $7, quantity_incoming = $8,
			min_stock_level = $9, max_stock_level = $10, reorder_point = $11, reorder_quantity = $12,
			unit_cost = $13, total_cost = $14, average_cost = $15, batch_number = $16, lot_number = $17,
			expiry_date = $18, status = $19, is_tracked = $20, last_counted_at = $21, notes = $22, updated_at = $23
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.LocationID, item.LocationName, item.QuantityOnHand,
		item.QuantityAvailable, item.QuantityReserved, item.QuantityAllocated, item.QuantityIncoming,
		item.MinStockLevel, item.MaxStockLevel, item.ReorderPoint, item.ReorderQuantity,
		item.UnitCost, item.TotalCost, item.AverageCost, item.BatchNumber, item.LotNumber,
		item.ExpiryDate, item.Status, item.IsTracked, item.LastCountedAt, item.Notes, item.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update inventory item", err)
	}
	return nil
}

// Delete elimina un ítem de inventario.
func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id); err != nil {
		return mapDeleteError("delete inventory item", err)
	}
	return nil
}

// List lista ítems con filtros; más recientes primero.
func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.InventoryItem, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.LocationID != "" {
		if !validUUID(f.LocationID) {
			return []*entity.InventoryItem{}, 0, nil
		}
		args = append(args, f.LocationID)
		where += fmt.Sprintf(" AND i.location_id = $%d", len(args))
	}
	if f.ProductID != "" {
		if !validUUID(f.ProductID) {
			return []*entity.InventoryItem{}, 0, nil
		}
		args = append(args, f.ProductID)
		where += fmt.Sprintf(" AND i.product_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	if f.LowStock {
		where += " AND i.quantity_on_hand <= i.min_stock_level"
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, ilike(s))
		n := len(args)
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.sku ILIKE $%d OR i.location_name ILIKE $%d)", n, n, n)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+inventoryFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY i.updated_at DESC, i.id LIMIT $%d OFFSET $%d`,
		inventoryColumns, inventoryFrom, where, len(args)-1, len(args))
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todos los ítems con datos de producto.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]*entity.InventoryItem, error) {
	return r.query(ctx, `SELECT `+inventoryColumns+inventoryFrom+` ORDER BY i.created_at`)
}

// Summary agregados de inventario en una sola consulta.
func (r *InventoryRepo) Summary(ctx context.Context) (*repository.InventorySummary, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(quantity_on_hand * unit_cost), 0),
			COUNT(*) FILTER (WHERE quantity_on_hand <= min_stock_level),
			COUNT(*) FILTER (WHERE quantity_on_hand = 0),
			COUNT(DISTINCT COALESCE(location_id::text, location_name))
		FROM inventory_items`
	var s repository.InventorySummary
	err := r.q.QueryRow(ctx, query).Scan(&s.TotalItems, &s.TotalValue, &s.LowStockCount, &s.OutOfStockCount, &s.TotalLocations)
	if err != nil {
		return nil, fmt.Errorf("inventory summary: %w", err)
	}
	return &s, nil
}

func (r *InventoryRepo) query(ctx context.Context, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryItem, 0)
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func scanInventoryItem(row pgxScanner) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	err := row.Scan(
		&i.ID, &i.ProductID, &i.LocationID, &i.LocationName, &i.QuantityOnHand, &i.QuantityAvailable,
		&i.QuantityReserved, &i.QuantityAllocated, &i.QuantityIncoming, &i.MinStockLevel, &i.MaxStockLevel,
		&i.ReorderPoint, &i.ReorderQuantity, &i.UnitCost, &i.TotalCost, &i.AverageCost, &i.BatchNumber,
		&i.LotNumber, &i.ExpiryDate, &i.Status, &i.IsTracked, &i.LastCountedAt, &i.Notes, &i.CreatedAt, &i.UpdatedAt,
		&i.ProductName, &i.ProductSKU, &i.ProductImage, &i.ProductCostPrice, &i.ProductSellingPrice,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// AlertRepo implementación de AlertRepository sobre PostgreSQL.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas de stock bajo.
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `
	a.id, a.inventory_item_id, a.product_id, a.location_id, a.quantity_on_hand, a.threshold, a.status,
	a.created_at, a.resolved_at, p.name, COALESCE(p.sku, '')`

// Create abre una alerta; el índice parcial impide dos activas para el mismo ítem.
func (r *AlertRepo) Create(ctx context.Context, a *entity.LowStockAlert) error {
	query := `
		INSERT INTO low_stock_alerts (id, inventory_item_id, product_id, location_id, quantity_on_hand,
			threshold, status, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.InventoryItemID, a.ProductID, a.LocationID, a.QuantityOnHand, a.Threshold, a.Status, a.CreatedAt, a.ResolvedAt,
	)
	if err != nil {
		return mapWriteError("insert low stock alert", err)
	}
	return nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.LowStockAlert, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + alertColumns + ` FROM low_stock_alerts a JOIN products p ON p.id = a.product_id WHERE a.id = $1`
	a, err := scanAlert(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return a, nil
}

// List alertas por estado (vacío = todas), más recientes primero.
func (r *AlertRepo) List(ctx context.Context, status string) ([]*entity.LowStockAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_stock_alerts a JOIN products p ON p.id = a.product_id
		WHERE ($1 = '' OR a.status = $1) ORDER BY a.created_at DESC`
	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.LowStockAlert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Resolve marca la alerta como resuelta.
func (r *AlertRepo) Resolve(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE low_stock_alerts SET status = $2, resolved_at = $3 WHERE id = $1`,
		id, entity.AlertStatusResolved, at)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}

func scanAlert(row pgxScanner) (*entity.LowStockAlert, error) {
	var a entity.LowStockAlert
	err := row.Scan(
		&a.ID, &a.InventoryItemID, &a.ProductID, &a.LocationID, &a.QuantityOnHand, &a.Threshold, &a.Status,
		&a.CreatedAt, &a.ResolvedAt, &a.ProductName, &a.ProductSKU,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
