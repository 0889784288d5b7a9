package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de proveedor.
const (
	SupplierStatusActive    = "active"
	SupplierStatusInactive  = "inactive"
	SupplierStatusSuspended = "suspended"
	SupplierStatusPending   = "pending"
)

// Supplier representa un proveedor de productos.
type Supplier struct {
	ID                   string
	Name                 string
	Code                 *string
	Email                string
	Phone                string
	Website              string
	AddressLine1         string
	AddressLine2         string
	City                 string
	State                string
	PostalCode           string
	Country              string
	TaxID                string
	BusinessRegistration string
	BusinessType         string
	PrimaryContactName   string
	PrimaryContactEmail  string
	PrimaryContactPhone  string
	PaymentTerms         string
	CreditLimit          *decimal.Decimal
	Currency             string
	Rating               *decimal.Decimal // 0..5
	LeadTimeDays         *int
	MinimumOrderAmount   *decimal.Decimal
	Status               string
	SupplierType         string
	Category             string
	Notes                string
	InternalNotes        string
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ValidSupplierStatus indica si s es un estado de proveedor conocido.
func ValidSupplierStatus(s string) bool {
	switch s {
	case SupplierStatusActive, SupplierStatusInactive, SupplierStatusSuspended, SupplierStatusPending:
		return true
	}
	return false
}
