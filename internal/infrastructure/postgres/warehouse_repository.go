package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación del puerto WarehouseRepository sobre PostgreSQL.
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador de persistencia para bodegas.
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `
	w.id, w.name, w.code, w.description, w.address_line1, w.address_line2, w.city, w.state, w.postal_code,
	w.country, w.phone, w.email, w.manager_name, w.is_active, w.is_default, w.timezone, w.max_capacity,
	w.max_volume_m3, w.max_weight_kg, w.supports_receiving, w.supports_shipping, w.supports_returns,
	w.supports_transfers, w.is_temperature_controlled, w.is_hazmat_approved, w.created_at, w.updated_at,
	COALESCE(s.item_count, 0), COALESCE(s.total_quantity, 0), COALESCE(s.total_value, 0)`

const warehouseFrom = `
	FROM warehouses w
	LEFT JOIN (
		SELECT location_id, COUNT(*) AS item_count, SUM(quantity_on_hand) AS total_quantity,
			SUM(quantity_on_hand * unit_cost) AS total_value
		FROM inventory_items WHERE status = 'active' GROUP BY location_id
	) s ON s.location_id = w.id`

// Create persiste una nueva bodega.
func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (id, name, code, description, address_line1, address_line2, city, state,
			postal_code, country, phone, email, manager_name, is_active, is_default, timezone, max_capacity,
			max_volume_m3, max_weight_kg, supports_receiving, supports_shipping, supports_returns,
			supports_transfers, is_temperature_controlled, is_hazmat_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.Name, w.Code, w.Description, w.AddressLine1, w.AddressLine2, w.City, w.State,
		w.PostalCode, w.Country, w.Phone, w.Email, w.ManagerName, w.IsActive, w.IsDefault, w.Timezone, w.MaxCapacity,
		w.MaxVolumeM3, w.MaxWeightKg, w.SupportsReceiving, w.SupportsShipping, w.SupportsReturns,
		w.SupportsTransfers, w.IsTemperatureControlled, w.IsHazmatApproved, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert warehouse", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID con sus estadísticas.
func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+warehouseColumns+warehouseFrom+` WHERE w.id = $1`, id)
}

// GetDefault bodega marcada por defecto; nil si no hay.
func (r *WarehouseRepo) GetDefault(ctx context.Context) (*entity.Warehouse, error) {
	return r.getOne(ctx, `SELECT `+warehouseColumns+warehouseFrom+` WHERE w.is_default LIMIT 1`)
}

func (r *WarehouseRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Warehouse, error) {
	w, err := scanWarehouse(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return w, nil
}

// Update actualiza una bodega existente.
func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET name = $2, code = $3, description = $4, address_line1 = $5, address_line2 = $6,
			city = $7, state = $8, postal_code = $9, country = $10, phone = $11, email = $12, manager_name = $13,
			is_active = $14, is_default = $15, timezone = $16, max_capacity = $17, max_volume_m3 = $18,
			max_weight_kg = $19, supports_receiving = $20, supports_shipping = $21, supports_returns = $22,
			supports_transfers = $23, is_temperature_controlled = $24, is_hazmat_approved = $25, updated_at = $26
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.Name, w.Code, w.Description, w.AddressLine1, w.AddressLine2,
		w.City, w.State, w.PostalCode, w.Country, w.Phone, w.Email, w.ManagerName,
		w.IsActive, w.IsDefault, w.Timezone, w.MaxCapacity, w.MaxVolumeM3,
		w.MaxWeightKg, w.SupportsReceiving, w.SupportsShipping, w.SupportsReturns,
		w.SupportsTransfers, w.IsTemperatureControlled, w.IsHazmatApproved, w.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update warehouse", err)
	}
	return nil
}

// List lista bodegas: la de por defecto primero, luego por nombre.
func (r *WarehouseRepo) List(ctx context.Context, f repository.WarehouseFilter) ([]*entity.Warehouse, error) {
	where := " WHERE 1=1"
	args := []any{}
	if !f.IncludeInactive {
		where += " AND w.is_active"
	}
	if f.City != "" {
		args = append(args, ilike(f.City))
		where += fmt.Sprintf(" AND w.city ILIKE $%d", len(args))
	}
	if f.State != "" {
		args = append(args, ilike(f.State))
		where += fmt.Sprintf(" AND w.state ILIKE $%d", len(args))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, ilike(s))
		n := len(args)
		where += fmt.Sprintf(" AND (w.name ILIKE $%d OR w.code ILIKE $%d OR w.city ILIKE $%d)", n, n, n)
	}
	rows, err := r.q.Query(ctx, `SELECT `+warehouseColumns+warehouseFrom+where+` ORDER BY w.is_default DESC, w.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Warehouse, 0)
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// ClearDefault desmarca la bodega por defecto salvo exceptID.
func (r *WarehouseRepo) ClearDefault(ctx context.Context, exceptID string) error {
	_, err := r.q.Exec(ctx, `UPDATE warehouses SET is_default = FALSE, updated_at = now() WHERE is_default AND id::text <> $1`, exceptID)
	if err != nil {
		return fmt.Errorf("clear default warehouse: %w", err)
	}
	return nil
}

// CountActiveInventory ítems de inventario activos en la bodega.
func (r *WarehouseRepo) CountActiveInventory(ctx context.Context, id string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_items WHERE location_id = $1 AND status = 'active'`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count warehouse inventory: %w", err)
	}
	return n, nil
}

// Delete elimina una bodega por ID.
func (r *WarehouseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM warehouses WHERE id = $1`, id); err != nil {
		return mapDeleteError("delete warehouse", err)
	}
	return nil
}

func scanWarehouse(row pgxScanner) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(
		&w.ID, &w.Name, &w.Code, &w.Description, &w.AddressLine1, &w.AddressLine2, &w.City, &w.State, &w.PostalCode,
		&w.Country, &w.Phone, &w.Email, &w.ManagerName, &w.IsActive, &w.IsDefault, &w.Timezone, &w.MaxCapacity,
		&w.MaxVolumeM3, &w.MaxWeightKg, &w.SupportsReceiving, &w.SupportsShipping, &w.SupportsReturns,
		&w.SupportsTransfers, &w.IsTemperatureControlled, &w.IsHazmatApproved, &w.CreatedAt, &w.UpdatedAt,
		&w.ItemCount, &w.TotalQuantity, &w.TotalValue,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
