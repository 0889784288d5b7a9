package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// WarehouseFilter filtros del listado de bodegas.
type WarehouseFilter struct {
	IncludeInactive bool
	City            string
	State           string
	Search          string
}

// WarehouseRepository define el puerto de persistencia para Warehouse.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	GetDefault(ctx context.Context) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	// List devuelve bodegas con estadísticas de inventario; la de por defecto primero.
	List(ctx context.Context, f WarehouseFilter) ([]*entity.Warehouse, error)
	// ClearDefault desmarca la bodega por defecto actual salvo exceptID.
	ClearDefault(ctx context.Context, exceptID string) error
	CountActiveInventory(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}
