package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name               string           `json:"name" validate:"required,min=1,max=200"`
	Slug               string           `json:"slug"`
	Description        string           `json:"description"`
	ShortDescription   string           `json:"short_description"`
	SKU                string           `json:"sku"`
	Barcode            string           `json:"barcode"`
	Brand              string           `json:"brand"`
	CategoryID         string           `json:"category_id" validate:"required,uuid"`
	SupplierID         *string          `json:"supplier_id"`
	BasePrice          *decimal.Decimal `json:"base_price" validate:"required"`
	SellingPrice       *decimal.Decimal `json:"selling_price" validate:"required"`
	CostPrice          decimal.Decimal  `json:"cost_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	TaxRate            decimal.Decimal  `json:"tax_rate"`
	StockQuantity      int              `json:"stock_quantity"`
	MinStockLevel      int              `json:"min_stock_level"`
	MaxStockLevel      *int             `json:"max_stock_level"`
	TrackInventory     *bool            `json:"track_inventory"`
	RequiresShipping   *bool            `json:"requires_shipping"`
	IsDigital          bool             `json:"is_digital"`
	Weight             *decimal.Decimal `json:"weight"`
	Dimensions         string           `json:"dimensions"`
	Tags               []string         `json:"tags"`
	Status             string           `json:"status" validate:"omitempty,oneof=draft published archived"`
	IsActive           *bool            `json:"is_active"`
	IsFeatured         bool             `json:"is_featured"`
	FeaturedImageURL   string           `json:"featured_image_url"`
	Attributes         json.RawMessage  `json:"attributes" swaggertype:"object"`
}

// UpdateProductRequest cambios parciales; campos nil no se modifican.
type UpdateProductRequest struct {
	Name               *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Slug               *string          `json:"slug"`
	Description        *string          `json:"description"`
	ShortDescription   *string          `json:"short_description"`
	SKU                *string          `json:"sku"`
	Barcode            *string          `json:"barcode"`
	Brand              *string          `json:"brand"`
	CategoryID         *string          `json:"category_id"`
	SupplierID         *string          `json:"supplier_id"`
	BasePrice          *decimal.Decimal `json:"base_price"`
	SellingPrice       *decimal.Decimal `json:"selling_price"`
	CostPrice          *decimal.Decimal `json:"cost_price"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
	StockQuantity      *int             `json:"stock_quantity"`
	MinStockLevel      *int             `json:"min_stock_level"`
	MaxStockLevel      *int             `json:"max_stock_level"`
	TrackInventory     *bool            `json:"track_inventory"`
	RequiresShipping   *bool            `json:"requires_shipping"`
	IsDigital          *bool            `json:"is_digital"`
	Weight             *decimal.Decimal `json:"weight"`
	Dimensions         *string          `json:"dimensions"`
	Tags               []string         `json:"tags"`
	Status             *string          `json:"status" validate:"omitempty,oneof=draft published archived"`
	IsActive           *bool            `json:"is_active"`
	IsFeatured         *bool            `json:"is_featured"`
	FeaturedImageURL   *string          `json:"featured_image_url"`
	Attributes         json.RawMessage  `json:"attributes" swaggertype:"object"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Slug               string           `json:"slug"`
	Description        string           `json:"description"`
	ShortDescription   string           `json:"short_description"`
	SKU                string           `json:"sku"`
	Barcode            string           `json:"barcode"`
	Brand              string           `json:"brand"`
	CategoryID         string           `json:"category_id"`
	CategoryName       string           `json:"category_name,omitempty"`
	SupplierID         *string          `json:"supplier_id"`
	BasePrice          decimal.Decimal  `json:"base_price"`
	SellingPrice       decimal.Decimal  `json:"selling_price"`
	CostPrice          decimal.Decimal  `json:"cost_price"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	TaxRate            decimal.Decimal  `json:"tax_rate"`
	StockQuantity      int              `json:"stock_quantity"`
	MinStockLevel      int              `json:"min_stock_level"`
	MaxStockLevel      *int             `json:"max_stock_level"`
	TrackInventory     bool             `json:"track_inventory"`
	RequiresShipping   bool             `json:"requires_shipping"`
	IsDigital          bool             `json:"is_digital"`
	Weight             *decimal.Decimal `json:"weight"`
	Dimensions         string           `json:"dimensions"`
	Tags               []string         `json:"tags"`
	Status             string           `json:"status"`
	IsActive           bool             `json:"is_active"`
	IsFeatured         bool             `json:"is_featured"`
	FeaturedImageURL   string           `json:"featured_image_url"`
	Attributes         json.RawMessage  `json:"attributes" swaggertype:"object"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	Search     string
	CategoryID string
	Status     string
	IsActive   *bool
	IsFeatured *bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// ProductSearchResult fila de la búsqueda rápida.
type ProductSearchResult struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

// ImportError error de una fila del CSV de importación.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportResult resultado de la importación de productos.
type ImportResult struct {
	Success      bool          `json:"success"`
	TotalRows    int           `json:"totalRows"`
	SuccessCount int           `json:"successCount"`
	ErrorCount   int           `json:"errorCount"`
	Errors       []ImportError `json:"errors"`
	Message      string        `json:"message"`
}

// ExportQuery parámetros de la exportación.
type ExportQuery struct {
	Format        string // csv | xml
	CategoryID    string
	Status        string
	IncludeImages bool
}

// ExportFile archivo generado para descarga.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}
