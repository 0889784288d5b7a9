package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryItemRequest body para POST /api/inventory.
type CreateInventoryItemRequest struct {
	ProductID         string           `json:"product_id" validate:"required"`
	LocationID        *string          `json:"location_id"`
	LocationName      string           `json:"location_name"`
	QuantityOnHand    int              `json:"quantity_on_hand"`
	QuantityReserved  int              `json:"quantity_reserved"`
	QuantityAllocated int              `json:"quantity_allocated"`
	QuantityIncoming  int              `json:"quantity_incoming"`
	MinStockLevel     int              `json:"min_stock_level"`
	MaxStockLevel     *int             `json:"max_stock_level"`
	ReorderPoint      int              `json:"reorder_point"`
	ReorderQuantity   int              `json:"reorder_quantity"`
	UnitCost          *decimal.Decimal `json:"unit_cost"`
	BatchNumber       string           `json:"batch_number"`
	LotNumber         string           `json:"lot_number"`
	ExpiryDate        *time.Time       `json:"expiry_date"`
	Status            string           `json:"status"`
	IsTracked         *bool            `json:"is_tracked"`
	Notes             string           `json:"notes"`
}

// UpdateInventoryItemRequest cambios parciales de un ítem.
type UpdateInventoryItemRequest struct {
	LocationName      *string          `json:"location_name"`
	QuantityOnHand    *int             `json:"quantity_on_hand"`
	QuantityReserved  *int             `json:"quantity_reserved"`
	QuantityAllocated *int             `json:"quantity_allocated"`
	QuantityIncoming  *int             `json:"quantity_incoming"`
	MinStockLevel     *int             `json:"min_stock_level"`
	MaxStockLevel     *int             `json:"max_stock_level"`
	ReorderPoint      *int             `json:"reorder_point"`
	ReorderQuantity   *int             `json:"reorder_quantity"`
	UnitCost          *decimal.Decimal `json:"unit_cost"`
	BatchNumber       *string          `json:"batch_number"`
	LotNumber         *string          `json:"lot_number"`
	ExpiryDate        *time.Time       `json:"expiry_date"`
	Status            *string          `json:"status"`
	IsTracked         *bool            `json:"is_tracked"`
	LastCountedAt     *time.Time       `json:"last_counted_at"`
	Notes             *string          `json:"notes"`
}

// InventoryItemResponse salida de un ítem de inventario.
type InventoryItemResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	ProductSKU        string          `json:"product_sku,omitempty"`
	ProductImage      string          `json:"product_image,omitempty"`
	LocationID        *string         `json:"location_id"`
	LocationName      string          `json:"location_name"`
	QuantityOnHand    int             `json:"quantity_on_hand"`
	QuantityAvailable int             `json:"quantity_available"`
	QuantityReserved  int             `json:"quantity_reserved"`
	QuantityAllocated int             `json:"quantity_allocated"`
	QuantityIncoming  int             `json:"quantity_incoming"`
	MinStockLevel     int             `json:"min_stock_level"`
	MaxStockLevel     *int            `json:"max_stock_level"`
	ReorderPoint      int             `json:"reorder_point"`
	ReorderQuantity   int             `json:"reorder_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	BatchNumber       string          `json:"batch_number,omitempty"`
	LotNumber         string          `json:"lot_number,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
	Status            string          `json:"status"`
	IsTracked         bool            `json:"is_tracked"`
	IsLowStock        bool            `json:"is_low_stock"`
	LastCountedAt     *time.Time      `json:"last_counted_at"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InventoryListQuery filtros de GET /api/inventory.
type InventoryListQuery struct {
	LocationID string
	ProductID  string
	Status     string
	LowStock   bool
	Search     string
	Limit      int
	Offset     int
}

// InventoryListResponse página de ítems.
type InventoryListResponse struct {
	Items []InventoryItemResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// BulkInventoryUpdate cambio de un ítem dentro de bulk-update.
type BulkInventoryUpdate struct {
	ID             string           `json:"id"`
	QuantityOnHand *int             `json:"quantity_on_hand"`
	MinStockLevel  *int             `json:"min_stock_level"`
	MaxStockLevel  *int             `json:"max_stock_level"`
	ReorderPoint   *int             `json:"reorder_point"`
	UnitCost       *decimal.Decimal `json:"unit_cost"`
	Status         *string          `json:"status"`
}

// BulkInventoryUpdateRequest body de PATCH /api/inventory/bulk-update.
type BulkInventoryUpdateRequest struct {
	Updates []BulkInventoryUpdate `json:"updates"`
}

// BulkResult resultado de una operación masiva con errores por ítem.
type BulkResult struct {
	Updated int         `json:"updated"`
	Failed  int         `json:"failed"`
	Errors  []BulkError `json:"errors"`
}

// InventorySummaryResponse salida de GET /api/inventory/summary.
type InventorySummaryResponse struct {
	TotalItems      int             `json:"total_items"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	TotalLocations  int             `json:"total_locations"`
}

// HistoryEntry línea del historial de un ítem.
type HistoryEntry struct {
	Date            time.Time `json:"date"`
	Action          string    `json:"action"`
	Source          string    `json:"source"` // movement | adjustment
	QuantityChanged int       `json:"quantity_changed"`
	NewQuantity     int       `json:"new_quantity"`
	User            string    `json:"user"`
	Reason          string    `json:"reason,omitempty"`
}

// HistoryItem identificación del ítem en la respuesta de historial.
type HistoryItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// InventoryHistoryResponse salida de GET /api/inventory/:id/history.
type InventoryHistoryResponse struct {
	Success bool           `json:"success"`
	History []HistoryEntry `json:"history"`
	Item    HistoryItem    `json:"item"`
}

// SetStockLevelsRequest body de POST /api/inventory/set-stock-levels.
type SetStockLevelsRequest struct {
	DefaultMinLevel *int  `json:"defaultMinLevel"`
	DefaultMaxLevel *int  `json:"defaultMaxLevel"`
	UpdateOnlyZero  *bool `json:"updateOnlyZero"`
}

// StockLevelSettings parámetros efectivos aplicados.
type StockLevelSettings struct {
	DefaultMinLevel int  `json:"defaultMinLevel"`
	DefaultMaxLevel int  `json:"defaultMaxLevel"`
	UpdateOnlyZero  bool `json:"updateOnlyZero"`
}

// SetStockLevelsResponse resultado de set-stock-levels.
type SetStockLevelsResponse struct {
	Success        bool               `json:"success"`
	Message        string             `json:"message"`
	TotalProcessed int                `json:"totalProcessed"`
	Updated        int                `json:"updated"`
	Settings       StockLevelSettings `json:"settings"`
}

// StockLevelsReport salida de GET /api/inventory/set-stock-levels.
type StockLevelsReport struct {
	TotalItems           int  `json:"totalItems"`
	ItemsWithBothLevels  int  `json:"itemsWithBothLevels"`
	ItemsWithoutMinLevel int  `json:"itemsWithoutMinLevel"`
	ItemsWithoutMaxLevel int  `json:"itemsWithoutMaxLevel"`
	SetupRecommended     bool `json:"setupRecommended"`
}

// SyncCostsResponse resultado de POST /api/inventory/sync-costs.
type SyncCostsResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	TotalProcessed int    `json:"totalProcessed"`
	Updated        int    `json:"updated"`
}

// SyncCostsReport salida de GET /api/inventory/sync-costs.
type SyncCostsReport struct {
	TotalItems        int  `json:"totalItems"`
	ItemsWithCost     int  `json:"itemsWithCost"`
	ItemsWithZeroCost int  `json:"itemsWithZeroCost"`
	ItemsNeedingSync  int  `json:"itemsNeedingSync"`
	SyncRecommended   bool `json:"syncRecommended"`
}

// ReorderSuggestion sugerencia de reposición de un ítem en o bajo su punto de reorden.
type ReorderSuggestion struct {
	InventoryItemID   string          `json:"inventory_item_id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku"`
	LocationID        *string         `json:"location_id"`
	LocationName      string          `json:"location_name"`
	CurrentStock      int             `json:"current_stock"`
	ReorderPoint      int             `json:"reorder_point"`
	Deficit           int             `json:"deficit"`
	SuggestedQuantity int             `json:"suggested_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	Priority          int             `json:"priority"`
}

// LowStockAlertResponse alerta de stock bajo.
type LowStockAlertResponse struct {
	ID              string     `json:"id"`
	InventoryItemID string     `json:"inventory_item_id"`
	ProductID       string     `json:"product_id"`
	ProductName     string     `json:"product_name"`
	ProductSKU      string     `json:"product_sku"`
	LocationID      *string    `json:"location_id"`
	QuantityOnHand  int        `json:"quantity_on_hand"`
	Threshold       int        `json:"threshold"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at"`
}

// AlertScanResult resultado de una pasada del job de alertas.
type AlertScanResult struct {
	Opened   int `json:"opened"`
	Resolved int `json:"resolved"`
}
