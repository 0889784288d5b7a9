package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardTotals valores actuales del tablero.
type DashboardTotals struct {
	Products       int
	Orders         int
	LowStockItems  int
	InventoryValue decimal.Decimal // sum(quantity_available * unit_cost)
	Revenue        decimal.Decimal // pedidos no cancelados
}

// PeriodActivity actividad creada dentro de una ventana de tiempo.
type PeriodActivity struct {
	NewProducts int
	Orders      int
	Revenue     decimal.Decimal
}

// LowStockRow fila del widget de stock bajo.
type LowStockRow struct {
	ID           string
	Name         string
	SKU          string
	CurrentStock int
	Threshold    int
}

// DashboardRepository consultas de solo lectura del tablero principal.
type DashboardRepository interface {
	Totals(ctx context.Context) (*DashboardTotals, error)
	// PeriodActivity cuenta lo creado en [from, to).
	PeriodActivity(ctx context.Context, from, to time.Time) (*PeriodActivity, error)
	// LowStock ítems con quantity_available <= min_stock_level (min > 0), ordenados por stock ascendente.
	LowStock(ctx context.Context, limit int) ([]LowStockRow, int, error)
}
