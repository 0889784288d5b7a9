package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Warehouse representa una bodega o ubicación física donde se almacena inventario.
type Warehouse struct {
	ID                      string
	Name                    string
	Code                    string // único, en mayúsculas
	Description             string
	AddressLine1            string
	AddressLine2            string
	City                    string
	State                   string
	PostalCode              string
	Country                 string
	Phone                   string
	Email                   string
	ManagerName             string
	IsActive                bool
	IsDefault               bool
	Timezone                string
	MaxCapacity             *int
	MaxVolumeM3             *decimal.Decimal
	MaxWeightKg             *decimal.Decimal
	SupportsReceiving       bool
	SupportsShipping        bool
	SupportsReturns         bool
	SupportsTransfers       bool
	IsTemperatureControlled bool
	IsHazmatApproved        bool
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// Estadísticas calculadas (solo lectura).
	ItemCount     int
	TotalQuantity int
	TotalValue    decimal.Decimal
}
