package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero principal.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// Totals valores actuales. El ingreso excluye pedidos cancelados.
func (r *DashboardRepo) Totals(ctx context.Context) (*repository.DashboardTotals, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products)                                                AS products,
	    (SELECT COUNT(*) FROM orders)                                                  AS orders,
	    (SELECT COUNT(*) FROM inventory_items
	        WHERE min_stock_level > 0 AND quantity_available <= min_stock_level)       AS low_stock,
	    (SELECT COALESCE(SUM(quantity_available * unit_cost), 0) FROM inventory_items) AS inventory_value,
	    (SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status <> 'cancelled') AS revenue`

	var t repository.DashboardTotals
	err := r.q.QueryRow(ctx, query).Scan(&t.Products, &t.Orders, &t.LowStockItems, &t.InventoryValue, &t.Revenue)
	if err != nil {
		return nil, fmt.Errorf("dashboard.Totals: %w", err)
	}
	return &t, nil
}

// PeriodActivity productos y pedidos creados en [from, to).
func (r *DashboardRepo) PeriodActivity(ctx context.Context, from, to time.Time) (*repository.PeriodActivity, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products WHERE created_at >= $1 AND created_at < $2)  AS new_products,
	    (SELECT COUNT(*) FROM orders   WHERE created_at >= $1 AND created_at < $2)  AS orders,
	    (SELECT COALESCE(SUM(total_amount), 0) FROM orders
	        WHERE created_at >= $1 AND created_at < $2 AND status <> 'cancelled')   AS revenue`

	var a repository.PeriodActivity
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&a.NewProducts, &a.Orders, &a.Revenue); err != nil {
		return nil, fmt.Errorf("dashboard.PeriodActivity: %w", err)
	}
	return &a, nil
}

// LowStock ítems bajo su mínimo, el total y los primeros limit por stock ascendente.
func (r *DashboardRepo) LowStock(ctx context.Context, limit int) ([]repository.LowStockRow, int, error) {
	var total int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM inventory_items
		WHERE min_stock_level > 0 AND quantity_available <= min_stock_level`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("dashboard.LowStock count: %w", err)
	}

	const query = `
	SELECT i.id, p.name, COALESCE(p.sku, ''), i.quantity_available, i.min_stock_level
	FROM inventory_items i
	JOIN products        p ON p.id = i.product_id
	WHERE i.min_stock_level > 0
	  AND i.quantity_available <= i.min_stock_level
	ORDER BY i.quantity_available ASC, p.name
	LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("dashboard.LowStock: %w", err)
	}
	defer rows.Close()
	results := make([]repository.LowStockRow, 0, limit)
	for rows.Next() {
		var row repository.LowStockRow
		if err := rows.Scan(&row.ID, &row.Name, &row.SKU, &row.CurrentStock, &row.Threshold); err != nil {
			return nil, 0, fmt.Errorf("dashboard.LowStock scan: %w", err)
		}
		results = append(results, row)
	}
	return results, total, rows.Err()
}
