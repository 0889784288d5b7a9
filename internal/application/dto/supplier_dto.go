package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierRequest entrada de creación y actualización de proveedores.
// En PUT los campos nil no se modifican.
type SupplierRequest struct {
	Name                 *string          `json:"name"`
	Code                 *string          `json:"code"`
	Email                *string          `json:"email"`
	Phone                *string          `json:"phone"`
	Website              *string          `json:"website"`
	AddressLine1         *string          `json:"address_line_1"`
	AddressLine2         *string          `json:"address_line_2"`
	City                 *string          `json:"city"`
	State                *string          `json:"state"`
	PostalCode           *string          `json:"postal_code"`
	Country              *string          `json:"country"`
	TaxID                *string          `json:"tax_id"`
	BusinessRegistration *string          `json:"business_registration"`
	BusinessType         *string          `json:"business_type"`
	PrimaryContactName   *string          `json:"primary_contact_name"`
	PrimaryContactEmail  *string          `json:"primary_contact_email"`
	PrimaryContactPhone  *string          `json:"primary_contact_phone"`
	PaymentTerms         *string          `json:"payment_terms"`
	CreditLimit          *decimal.Decimal `json:"credit_limit"`
	Currency             *string          `json:"currency"`
	Rating               *decimal.Decimal `json:"rating"`
	LeadTimeDays         *int             `json:"lead_time_days"`
	MinimumOrderAmount   *decimal.Decimal `json:"minimum_order_amount"`
	Status               *string          `json:"status"`
	SupplierType         *string          `json:"supplier_type"`
	Category             *string          `json:"category"`
	Notes                *string          `json:"notes"`
	InternalNotes        *string          `json:"internal_notes"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Code                 *string          `json:"code"`
	Email                string           `json:"email"`
	Phone                string           `json:"phone"`
	Website              string           `json:"website"`
	AddressLine1         string           `json:"address_line_1"`
	AddressLine2         string           `json:"address_line_2"`
	City                 string           `json:"city"`
	State                string           `json:"state"`
	PostalCode           string           `json:"postal_code"`
	Country              string           `json:"country"`
	Address              string           `json:"address"`
	TaxID                string           `json:"tax_id"`
	BusinessRegistration string           `json:"business_registration"`
	BusinessType         string           `json:"business_type"`
	PrimaryContactName   string           `json:"primary_contact_name"`
	PrimaryContactEmail  string           `json:"primary_contact_email"`
	PrimaryContactPhone  string           `json:"primary_contact_phone"`
	PaymentTerms         string           `json:"payment_terms"`
	CreditLimit          *decimal.Decimal `json:"credit_limit"`
	Currency             string           `json:"currency"`
	Rating               *decimal.Decimal `json:"rating"`
	LeadTimeDays         *int             `json:"lead_time_days"`
	MinimumOrderAmount   *decimal.Decimal `json:"minimum_order_amount"`
	Status               string           `json:"status"`
	SupplierType         string           `json:"supplier_type"`
	Category             string           `json:"category"`
	Notes                string           `json:"notes"`
	InternalNotes        string           `json:"internal_notes"`
	CreatedBy            string           `json:"created_by"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// SupplierListQuery filtros de GET /api/suppliers.
type SupplierListQuery struct {
	Search         string
	Status         string
	SupplierType   string
	BusinessType   string
	Category       string
	RatingMin      *decimal.Decimal
	RatingMax      *decimal.Decimal
	CreditLimitMin *decimal.Decimal
	CreditLimitMax *decimal.Decimal
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	SortBy         string
	SortOrder      string
	Page           int
	Limit          int
}

// SupplierListResponse página de proveedores.
type SupplierListResponse struct {
	Data  []SupplierResponse `json:"data"`
	Total int                `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// SupplierBucket conteo con porcentaje (por tipo o por desempeño).
type SupplierBucket struct {
	Type       string `json:"type,omitempty"`
	Status     string `json:"status,omitempty"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// SupplierSummaryResponse salida de GET /api/suppliers/summary.
type SupplierSummaryResponse struct {
	TotalSuppliers         int                `json:"total_suppliers"`
	ActiveSuppliers        int                `json:"active_suppliers"`
	InactiveSuppliers      int                `json:"inactive_suppliers"`
	SuspendedSuppliers     int                `json:"suspended_suppliers"`
	PendingSuppliers       int                `json:"pending_suppliers"`
	AverageRating          decimal.Decimal    `json:"average_rating"`
	SuppliersByType        []SupplierBucket   `json:"suppliers_by_type"`
	SuppliersByPerformance []SupplierBucket   `json:"suppliers_by_performance"`
	TopSuppliers           []SupplierResponse `json:"top_suppliers"`
	RecentSuppliers        []SupplierResponse `json:"recent_suppliers"`
}
