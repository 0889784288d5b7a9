package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste de stock.
const (
	AdjustmentIncrease   = "increase"
	AdjustmentDecrease   = "decrease"
	AdjustmentRecount    = "recount"
	AdjustmentDamage     = "damage"
	AdjustmentLoss       = "loss"
	AdjustmentFound      = "found"
	AdjustmentCorrection = "correction"
)

// Estados de un ajuste.
const (
	AdjustmentPending  = "pending"
	AdjustmentApproved = "approved"
	AdjustmentRejected = "rejected"
)

// DefaultLocation nombre de ubicación cuando el cliente no indica ninguna.
const DefaultLocation = "Main Warehouse"

// StockAdjustment corrección manual de existencias sujeta a aprobación.
type StockAdjustment struct {
	ID              string
	ProductID       string
	InventoryItemID *string
	AdjustmentType  string
	QuantityBefore  int
	QuantityAfter   int
	QuantityChange  int // QuantityAfter - QuantityBefore
	Reason          string
	Notes           string
	Location        string
	LocationID      *string
	ReferenceNumber string
	BatchReference  string
	CostImpact      decimal.Decimal
	Status          string
	CreatedBy       string
	ApprovedBy      string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	ProductName string
	ProductSKU  string
}

// ValidAdjustmentType indica si t es un tipo de ajuste conocido.
func ValidAdjustmentType(t string) bool {
	switch t {
	case AdjustmentIncrease, AdjustmentDecrease, AdjustmentRecount, AdjustmentDamage,
		AdjustmentLoss, AdjustmentFound, AdjustmentCorrection:
		return true
	}
	return false
}

// ValidAdjustmentStatus indica si s es un estado de ajuste conocido.
func ValidAdjustmentStatus(s string) bool {
	return s == AdjustmentPending || s == AdjustmentApproved || s == AdjustmentRejected
}
