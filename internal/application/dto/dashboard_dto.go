package dto

import "github.com/shopspring/decimal"

// StatValue KPI con su variación contra el periodo anterior.
type StatValue struct {
	Value      decimal.Decimal `json:"value"`
	Change     int             `json:"change"`     // porcentaje entero
	ChangeType string          `json:"changeType"` // increase | decrease
}

// DashboardStatsResponse respuesta de GET /api/dashboard/stats.
type DashboardStatsResponse struct {
	TotalProducts  StatValue `json:"totalProducts"`
	TotalOrders    StatValue `json:"totalOrders"`
	LowStockItems  StatValue `json:"lowStockItems"`
	InventoryValue StatValue `json:"inventoryValue"`
	Revenue        StatValue `json:"revenue"`
}

// LowStockItemDTO fila del widget de stock bajo.
type LowStockItemDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"current_stock"`
	Threshold    int    `json:"threshold"`
}

// LowStockResponse respuesta de GET /api/dashboard/low-stock.
type LowStockResponse struct {
	Items []LowStockItemDTO `json:"items"`
	Total int               `json:"total"`
}
