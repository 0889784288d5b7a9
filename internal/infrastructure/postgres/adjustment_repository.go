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

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de AdjustmentRepository sobre PostgreSQL (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `
	a.id, a.product_id, a.inventory_item_id, a.adjustment_type, a.quantity_before, a.quantity_after,
	a.quantity_change, a.reason, a.notes, a.location, a.location_id, a.reference_number, a.batch_reference,
	a.cost_impact, a.status, a.created_by, a.approved_by, a.approved_at, a.created_at, a.updated_at,
	p.name, COALESCE(p.sku, '')`

const adjustmentFrom = ` FROM stock_adjustments a JOIN products p ON p.id = a.product_id`

// Create persiste un ajuste.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, product_id, inventory_item_id, adjustment_type, quantity_before,
			quantity_after, quantity_change, reason, notes, location, location_id, reference_number,
			batch_reference, cost_impact, status, created_by, approved_by, approved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ProductID, a.InventoryItemID, a.AdjustmentType, a.QuantityBefore,
		a.QuantityAfter, a.QuantityChange, a.Reason, a.Notes, a.Location, a.LocationID, a.ReferenceNumber,
		a.BatchReference, a.CostImpact, a.Status, a.CreatedBy, a.ApprovedBy, a.ApprovedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert adjustment", err)
	}
	return nil
}

// GetByID obtiene un ajuste con nombre y SKU del producto.
func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	if !validUUID(id) {
		return nil, nil
	}
	a, err := scanAdjustment(r.q.QueryRow(ctx, `SELECT `+adjustmentColumns+adjustmentFrom+` WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return a, nil
}

// Update reescribe los campos editables y de aprobación.
func (r *AdjustmentRepo) Update(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		UPDATE stock_adjustments SET inventory_item_id = $2, adjustment_type = $3, quantity_before = $4,
			quantity_after = $5, quantity_change = $6, reason = $7, notes = $8, location = $9, location_id = $10,
			reference_number = $11, batch_reference = $12, cost_impact = $13, status = $14, approved_by = $15,
			approved_at = $16, updated_at = $17
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.InventoryItemID, a.AdjustmentType, a.QuantityBefore,
		a.QuantityAfter, a.QuantityChange, a.Reason, a.Notes, a.Location, a.LocationID,
		a.ReferenceNumber, a.BatchReference, a.CostImpact, a.Status, a.ApprovedBy,
		a.ApprovedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update adjustment", err)
	}
	return nil
}

// Delete elimina un ajuste.
func (r *AdjustmentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_adjustments WHERE id = $1`, id); err != nil {
		return mapDeleteError("delete adjustment", err)
	}
	return nil
}

// List ajustes filtrados, más recientes primero.
func (r *AdjustmentRepo) List(ctx context.Context, f repository.AdjustmentFilter) ([]*entity.StockAdjustment, error) {
	where := " WHERE 1=1"
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(cond, len(args))
	}
	if f.ProductID != "" {
		if !validUUID(f.ProductID) {
			return []*entity.StockAdjustment{}, nil
		}
		add(" AND a.product_id = $%d", f.ProductID)
	}
	if f.Type != "" {
		add(" AND a.adjustment_type = $%d", f.Type)
	}
	if f.Reason != "" {
		add(" AND a.reason ILIKE $%d", ilike(f.Reason))
	}
	if f.Status != "" {
		add(" AND a.status = $%d", f.Status)
	}
	if f.Location != "" {
		add(" AND a.location ILIKE $%d", ilike(f.Location))
	}
	if f.UserID != "" {
		add(" AND a.created_by = $%d", f.UserID)
	}
	if f.Since != nil {
		add(" AND a.created_at >= $%d", *f.Since)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, ilike(s))
		n := len(args)
		where += fmt.Sprintf(" AND (a.reason ILIKE $%d OR a.notes ILIKE $%d OR a.reference_number ILIKE $%d OR p.name ILIKE $%d)", n, n, n, n)
	}
	query := `SELECT ` + adjustmentColumns + adjustmentFrom + where + ` ORDER BY a.created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return r.query(ctx, query, args...)
}

// ListAll todos los ajustes (resúmenes y agregados).
func (r *AdjustmentRepo) ListAll(ctx context.Context) ([]*entity.StockAdjustment, error) {
	return r.query(ctx, `SELECT `+adjustmentColumns+adjustmentFrom+` ORDER BY a.created_at DESC`)
}

// ListApproved ajustes aprobados de un producto en una ubicación.
func (r *AdjustmentRepo) ListApproved(ctx context.Context, productID string, locationID *string) ([]*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + adjustmentFrom + `
		WHERE a.product_id = $1 AND a.status = 'approved' AND a.location_id IS NOT DISTINCT FROM $2::uuid
		ORDER BY a.created_at DESC`
	return r.query(ctx, query, productID, locationID)
}

func (r *AdjustmentRepo) query(ctx context.Context, query string, args ...any) ([]*entity.StockAdjustment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockAdjustment, 0)
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAdjustment(row pgxScanner) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	err := row.Scan(
		&a.ID, &a.ProductID, &a.InventoryItemID, &a.AdjustmentType, &a.QuantityBefore, &a.QuantityAfter,
		&a.QuantityChange, &a.Reason, &a.Notes, &a.Location, &a.LocationID, &a.ReferenceNumber, &a.BatchReference,
		&a.CostImpact, &a.Status, &a.CreatedBy, &a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt, &a.UpdatedAt,
		&a.ProductName, &a.ProductSKU,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
