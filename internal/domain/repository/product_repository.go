package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string
	CategoryID string
	Status     string
	IsActive   *bool
	IsFeatured *bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	SortBy     string // name, created_at, selling_price, stock_quantity, updated_at
	SortDesc   bool
	Limit      int
	Offset     int
}

// ProductExportFilter filtros de la exportación.
type ProductExportFilter struct {
	CategoryID string
	Status     string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateFeaturedImage(ctx context.Context, productID, url string) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, int, error)
	// Search búsqueda rápida sobre productos activos ordenada por nombre.
	Search(ctx context.Context, q string, limit int) ([]*entity.Product, error)
	ListForExport(ctx context.Context, f ProductExportFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
