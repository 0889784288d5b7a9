package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name                    string           `json:"name" validate:"required,min=1,max=200"`
	Code                    string           `json:"code" validate:"required,max=50"`
	Description             string           `json:"description"`
	AddressLine1            string           `json:"address_line1"`
	AddressLine2            string           `json:"address_line2"`
	City                    string           `json:"city"`
	State                   string           `json:"state"`
	PostalCode              string           `json:"postal_code"`
	Country                 string           `json:"country"`
	Phone                   string           `json:"phone"`
	Email                   string           `json:"email"`
	ManagerName             string           `json:"manager_name"`
	IsActive                *bool            `json:"is_active"`
	IsDefault               bool             `json:"is_default"`
	Timezone                string           `json:"timezone"`
	MaxCapacity             *int             `json:"max_capacity"`
	MaxVolumeM3             *decimal.Decimal `json:"max_volume_m3"`
	MaxWeightKg             *decimal.Decimal `json:"max_weight_kg"`
	SupportsReceiving       *bool            `json:"supports_receiving"`
	SupportsShipping        *bool            `json:"supports_shipping"`
	SupportsReturns         *bool            `json:"supports_returns"`
	SupportsTransfers       *bool            `json:"supports_transfers"`
	IsTemperatureControlled bool             `json:"is_temperature_controlled"`
	IsHazmatApproved        bool             `json:"is_hazmat_approved"`
}

// UpdateWarehouseRequest cambios parciales de una bodega.
type UpdateWarehouseRequest struct {
	Name                    *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Code                    *string          `json:"code"`
	Description             *string          `json:"description"`
	AddressLine1            *string          `json:"address_line1"`
	AddressLine2            *string          `json:"address_line2"`
	City                    *string          `json:"city"`
	State                   *string          `json:"state"`
	PostalCode              *string          `json:"postal_code"`
	Country                 *string          `json:"country"`
	Phone                   *string          `json:"phone"`
	Email                   *string          `json:"email"`
	ManagerName             *string          `json:"manager_name"`
	IsActive                *bool            `json:"is_active"`
	IsDefault               *bool            `json:"is_default"`
	Timezone                *string          `json:"timezone"`
	MaxCapacity             *int             `json:"max_capacity"`
	MaxVolumeM3             *decimal.Decimal `json:"max_volume_m3"`
	MaxWeightKg             *decimal.Decimal `json:"max_weight_kg"`
	SupportsReceiving       *bool            `json:"supports_receiving"`
	SupportsShipping        *bool            `json:"supports_shipping"`
	SupportsReturns         *bool            `json:"supports_returns"`
	SupportsTransfers       *bool            `json:"supports_transfers"`
	IsTemperatureControlled *bool            `json:"is_temperature_controlled"`
	IsHazmatApproved        *bool            `json:"is_hazmat_approved"`
}

// WarehouseResponse salida de una bodega con sus estadísticas de inventario.
type WarehouseResponse struct {
	ID                      string           `json:"id"`
	Name                    string           `json:"name"`
	Code                    string           `json:"code"`
	Description             string           `json:"description"`
	AddressLine1            string           `json:"address_line1"`
	AddressLine2            string           `json:"address_line2"`
	City                    string           `json:"city"`
	State                   string           `json:"state"`
	PostalCode              string           `json:"postal_code"`
	Country                 string           `json:"country"`
	Phone                   string           `json:"phone"`
	Email                   string           `json:"email"`
	ManagerName             string           `json:"manager_name"`
	IsActive                bool             `json:"is_active"`
	IsDefault               bool             `json:"is_default"`
	Timezone                string           `json:"timezone"`
	MaxCapacity             *int             `json:"max_capacity"`
	MaxVolumeM3             *decimal.Decimal `json:"max_volume_m3"`
	MaxWeightKg             *decimal.Decimal `json:"max_weight_kg"`
	SupportsReceiving       bool             `json:"supports_receiving"`
	SupportsShipping        bool             `json:"supports_shipping"`
	SupportsReturns         bool             `json:"supports_returns"`
	SupportsTransfers       bool             `json:"supports_transfers"`
	IsTemperatureControlled bool             `json:"is_temperature_controlled"`
	IsHazmatApproved        bool             `json:"is_hazmat_approved"`
	ItemCount               int              `json:"item_count"`
	TotalQuantity           int              `json:"total_quantity"`
	TotalValue              decimal.Decimal  `json:"total_value"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// WarehouseListResponse listado de bodegas.
type WarehouseListResponse struct {
	Data  []WarehouseResponse `json:"data"`
	Total int                 `json:"total"`
}

// WarehouseListQuery filtros de GET /api/warehouses.
type WarehouseListQuery struct {
	IncludeInactive bool
	City            string
	State           string
	Search          string
}
