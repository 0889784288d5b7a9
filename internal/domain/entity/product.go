package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de publicación de un producto.
const (
	ProductStatusDraft     = "draft"
	ProductStatusPublished = "published"
	ProductStatusArchived  = "archived"
)

// Product representa un producto del catálogo.
// StockQuantity es el stock agregado declarado en catálogo; el stock por bodega vive en InventoryItem.
type Product struct {
	ID                 string
	Name               string
	Slug               string
	Description        string
	ShortDescription   string
	SKU                string // único; vacío se persiste como NULL
	Barcode            string
	Brand              string
	CategoryID         string
	SupplierID         *string
	BasePrice          decimal.Decimal
	SellingPrice       decimal.Decimal
	CostPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	TaxRate            decimal.Decimal
	StockQuantity      int
	MinStockLevel      int
	MaxStockLevel      *int
	TrackInventory     bool
	RequiresShipping   bool
	IsDigital          bool
	Weight             *decimal.Decimal
	Dimensions         string
	Tags               []string
	Status             string
	IsActive           bool
	IsFeatured         bool
	FeaturedImageURL   string
	Attributes         json.RawMessage
	CreatedAt          time.Time
	UpdatedAt          time.Time

	CategoryName string // solo lectura (join)
}

// ValidProductStatus indica si s es un estado de producto conocido.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusDraft, ProductStatusPublished, ProductStatusArchived:
		return true
	}
	return false
}

// EffectivePrice precio mostrado en búsquedas: venta o, si no hay, base.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SellingPrice.GreaterThan(decimal.Zero) {
		return p.SellingPrice
	}
	return p.BasePrice
}
