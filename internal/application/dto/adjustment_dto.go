package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest body de POST /api/adjustments y de cada ítem de /bulk.
// Las cantidades son punteros para distinguir 0 de ausente.
type CreateAdjustmentRequest struct {
	ProductID       string           `json:"product_id"`
	InventoryItemID *string          `json:"inventory_item_id"`
	AdjustmentType  string           `json:"adjustment_type"`
	QuantityBefore  *int             `json:"quantity_before"`
	QuantityAfter   *int             `json:"quantity_after"`
	Reason          string           `json:"reason"`
	Notes           string           `json:"notes"`
	Location        string           `json:"location"`
	LocationID      *string          `json:"location_id"`
	ReferenceNumber string           `json:"reference_number"`
	CostImpact      *decimal.Decimal `json:"cost_impact"`
}

// UpdateAdjustmentRequest cambios parciales de un ajuste pendiente.
type UpdateAdjustmentRequest struct {
	AdjustmentType  *string `json:"adjustment_type"`
	QuantityBefore  *int    `json:"quantity_before"`
	QuantityAfter   *int    `json:"quantity_after"`
	Reason          *string `json:"reason"`
	Notes           *string `json:"notes"`
	Location        *string `json:"location"`
	ReferenceNumber *string `json:"reference_number"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	ProductSKU      string          `json:"product_sku,omitempty"`
	InventoryItemID *string         `json:"inventory_item_id"`
	AdjustmentType  string          `json:"adjustment_type"`
	QuantityBefore  int             `json:"quantity_before"`
	QuantityAfter   int             `json:"quantity_after"`
	QuantityChange  int             `json:"quantity_change"`
	Reason          string          `json:"reason"`
	Notes           string          `json:"notes"`
	Location        string          `json:"location"`
	LocationID      *string         `json:"location_id"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	BatchReference  string          `json:"batch_reference,omitempty"`
	CostImpact      decimal.Decimal `json:"cost_impact"`
	Status          string          `json:"status"`
	CreatedBy       string          `json:"created_by"`
	ApprovedBy      string          `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AdjustmentListQuery filtros de GET /api/adjustments.
type AdjustmentListQuery struct {
	ProductID string
	Type      string
	Reason    string
	Status    string
	Location  string
	UserID    string
	Search    string
	Days      int
	Limit     int
}

// ApproveAdjustmentsRequest body de POST /api/adjustments/approve.
type ApproveAdjustmentsRequest struct {
	AdjustmentIDs []string `json:"adjustmentIds"`
	Approved      *bool    `json:"approved"`
	ApprovalNotes string   `json:"approvalNotes"`
	ApprovedBy    string   `json:"approvedBy"`
}

// BulkAdjustmentsRequest body de POST /api/adjustments/bulk.
type BulkAdjustmentsRequest struct {
	Adjustments    []CreateAdjustmentRequest `json:"adjustments"`
	BatchReference string                    `json:"batchReference"`
	Notes          string                    `json:"notes"`
}

// BulkSummary totales de una operación masiva.
type BulkSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BulkAdjustmentsResponse resultado de /bulk.
type BulkAdjustmentsResponse struct {
	Created []AdjustmentResponse `json:"created"`
	Errors  []string             `json:"errors"`
	Summary BulkSummary          `json:"summary"`
}

// AdjustmentSummaryResponse salida de GET /api/adjustments/summary.
type AdjustmentSummaryResponse struct {
	Total           int             `json:"total"`
	Pending         int             `json:"pending"`
	Approved        int             `json:"approved"`
	Rejected        int             `json:"rejected"`
	Increases       int             `json:"increases"`
	Decreases       int             `json:"decreases"`
	TotalCostImpact decimal.Decimal `json:"totalCostImpact"`
	Today           int             `json:"today"`
	ThisWeek        int             `json:"thisWeek"`
	ThisMonth       int             `json:"thisMonth"`
}

// AdjustmentsByProductRow fila de GET /api/adjustments/by-product.
type AdjustmentsByProductRow struct {
	ProductID         string          `json:"productId"`
	ProductName       string          `json:"productName"`
	ProductSKU        string          `json:"productSku"`
	TotalAdjustments  int             `json:"totalAdjustments"`
	TotalIncrease     int             `json:"totalIncrease"`
	TotalDecrease     int             `json:"totalDecrease"`
	NetChange         int             `json:"netChange"`
	LastAdjustment    time.Time       `json:"lastAdjustment"`
	AvgAdjustmentSize decimal.Decimal `json:"avgAdjustmentSize"`
}

// AdjustmentsByReasonRow fila de GET /api/adjustments/by-reason.
type AdjustmentsByReasonRow struct {
	Reason        string          `json:"reason"`
	Count         int             `json:"count"`
	TotalQuantity int             `json:"totalQuantity"`
	Percentage    decimal.Decimal `json:"percentage"`
}
