package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementIn         = "in"
	MovementOut        = "out"
	MovementTransfer   = "transfer"
	MovementAdjustment = "adjustment"
	MovementReturn     = "return"
	MovementDamaged    = "damaged"
	MovementLost       = "lost"
)

// Estados de un movimiento.
const (
	MovementPending   = "pending"
	MovementCompleted = "completed"
	MovementCancelled = "cancelled"
)

// Ubicación por defecto de los movimientos de entrada sin destino explícito.
const (
	DefaultLocationID   = "main_warehouse"
	DefaultLocationName = "Main Warehouse"
)

// StockMovement registro de un movimiento de existencias.
// Las ubicaciones son texto libre o el ID de una bodega.
type StockMovement struct {
	ID               string
	ProductID        string
	MovementType     string
	Quantity         int
	UnitCost         decimal.Decimal
	TotalValue       decimal.Decimal
	LocationFromID   string
	LocationFromName string
	LocationToID     string
	LocationToName   string
	Reason           string
	Notes            string
	ReferenceType    string
	ReferenceID      string
	ReferenceNumber  string
	Status           string
	CreatedBy        string
	ProcessedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	ProductName string
	ProductSKU  string
}

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementIn, MovementOut, MovementTransfer, MovementAdjustment,
		MovementReturn, MovementDamaged, MovementLost:
		return true
	}
	return false
}

// IsInbound tipos que suman existencias en destino.
func IsInbound(t string) bool {
	return t == MovementIn || t == MovementReturn || t == MovementAdjustment
}

// IsOutbound tipos que restan existencias en origen.
func IsOutbound(t string) bool {
	return t == MovementOut || t == MovementDamaged || t == MovementLost || t == MovementTransfer
}
