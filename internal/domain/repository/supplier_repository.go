package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SupplierFilter filtros del listado de proveedores.
type SupplierFilter struct {
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
	SortBy         string // name, created_at, rating, status
	SortDesc       bool
	Limit          int
	Offset         int
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f SupplierFilter) ([]*entity.Supplier, int, error)
	ListAll(ctx context.Context) ([]*entity.Supplier, error)
}
