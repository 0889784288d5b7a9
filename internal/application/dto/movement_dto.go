package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body de POST /api/movements.
type CreateMovementRequest struct {
	ProductID        string           `json:"product_id"`
	MovementType     string           `json:"movement_type"`
	Quantity         int              `json:"quantity"`
	UnitCost         *decimal.Decimal `json:"unit_cost"`
	LocationFromID   string           `json:"location_from_id"`
	LocationFromName string           `json:"location_from_name"`
	LocationToID     string           `json:"location_to_id"`
	LocationToName   string           `json:"location_to_name"`
	Reason           string           `json:"reason"`
	Notes            string           `json:"notes"`
	ReferenceType    string           `json:"reference_type"`
	ReferenceID      string           `json:"reference_id"`
	ReferenceNumber  string           `json:"reference_number"`
	AutoProcess      bool             `json:"auto_process"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name,omitempty"`
	ProductSKU       string          `json:"product_sku,omitempty"`
	MovementType     string          `json:"movement_type"`
	Quantity         int             `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LocationFromID   string          `json:"location_from_id,omitempty"`
	LocationFromName string          `json:"location_from_name,omitempty"`
	LocationToID     string          `json:"location_to_id,omitempty"`
	LocationToName   string          `json:"location_to_name,omitempty"`
	Reason           string          `json:"reason"`
	Notes            string          `json:"notes,omitempty"`
	ReferenceType    string          `json:"reference_type,omitempty"`
	ReferenceID      string          `json:"reference_id,omitempty"`
	ReferenceNumber  string          `json:"reference_number,omitempty"`
	Status           string          `json:"status"`
	CreatedBy        string          `json:"created_by"`
	ProcessedAt      *time.Time      `json:"processed_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MovementListQuery filtros de GET /api/movements.
type MovementListQuery struct {
	ProductID    string
	MovementType string
	LocationID   string
	Status       string
	Days         int
	Limit        int
}

// BulkMovementsRequest body de POST /api/movements/bulk.
type BulkMovementsRequest struct {
	Movements []CreateMovementRequest `json:"movements"`
}

// MovementSummaryResponse salida de GET /api/movements/summary.
type MovementSummaryResponse struct {
	TotalMovements int             `json:"totalMovements"`
	TotalStockIn   int             `json:"totalStockIn"`
	TotalStockOut  int             `json:"totalStockOut"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	Today          int             `json:"today"`
	ThisWeek       int             `json:"thisWeek"`
	ThisMonth      int             `json:"thisMonth"`
}

// MovementsByProductRow fila de GET /api/movements/by-product.
type MovementsByProductRow struct {
	ProductID     string    `json:"productId"`
	ProductName   string    `json:"productName"`
	ProductSKU    string    `json:"productSku"`
	TotalIn       int       `json:"totalIn"`
	TotalOut      int       `json:"totalOut"`
	NetMovement   int       `json:"netMovement"`
	MovementCount int       `json:"movementCount"`
	LastMovement  time.Time `json:"lastMovement"`
}
