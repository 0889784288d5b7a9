package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un ítem de inventario.
const (
	InventoryStatusActive       = "active"
	InventoryStatusInactive     = "inactive"
	InventoryStatusDiscontinued = "discontinued"
)

// InventoryItem existencias de un producto en una ubicación (bodega).
// QuantityAvailable = QuantityOnHand - QuantityReserved - QuantityAllocated; los casos de uso
// rechazan cualquier cambio que lo deje negativo (CHECK quantity_available >= 0).
type InventoryItem struct {
	ID                string
	ProductID         string
	LocationID        *string
	LocationName      string
	QuantityOnHand    int
	QuantityAvailable int
	QuantityReserved  int
	QuantityAllocated int
	QuantityIncoming  int
	MinStockLevel     int
	MaxStockLevel     *int
	ReorderPoint      int
	ReorderQuantity   int
	UnitCost          decimal.Decimal
	TotalCost         decimal.Decimal
	AverageCost       decimal.Decimal
	BatchNumber       string
	LotNumber         string
	ExpiryDate        *time.Time
	Status            string
	IsTracked         bool
	LastCountedAt     *time.Time
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Datos del producto (join, solo lectura).
	ProductName         string
	ProductSKU          string
	ProductImage        string
	ProductCostPrice    decimal.Decimal
	ProductSellingPrice decimal.Decimal
}

// Recalculate mantiene los campos derivados: disponible y costo total.
func (i *InventoryItem) Recalculate() {
	i.QuantityAvailable = i.QuantityOnHand - i.QuantityReserved - i.QuantityAllocated
	i.TotalCost = decimal.NewFromInt(int64(i.QuantityOnHand)).Mul(i.UnitCost)
}

// Committed unidades reservadas o asignadas a pedidos.
func (i *InventoryItem) Committed() int {
	return i.QuantityReserved + i.QuantityAllocated
}

// IsLowStock indica si el stock está en o bajo el mínimo configurado.
func (i *InventoryItem) IsLowStock() bool {
	return i.MinStockLevel > 0 && i.QuantityOnHand <= i.MinStockLevel
}

// ValidInventoryStatus indica si s es un estado conocido.
func ValidInventoryStatus(s string) bool {
	switch s {
	case InventoryStatusActive, InventoryStatusInactive, InventoryStatusDiscontinued:
		return true
	}
	return false
}

// Estados de alerta de stock bajo.
const (
	AlertStatusActive   = "active"
	AlertStatusResolved = "resolved"
)

// LowStockAlert alerta abierta por el job programado cuando un ítem cae bajo su mínimo.
type LowStockAlert struct {
	ID              string
	InventoryItemID string
	ProductID       string
	LocationID      *string
	QuantityOnHand  int
	Threshold       int
	Status          string
	CreatedAt       time.Time
	ResolvedAt      *time.Time

	ProductName string
	ProductSKU  string
}
