package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryFilter filtros del listado de inventario.
type InventoryFilter struct {
	LocationID string
	ProductID  string
	Status     string // vacío = todos
	LowStock   bool
	Search     string
	Limit      int
	Offset     int
}

// InventorySummary agregados globales de inventario.
type InventorySummary struct {
	TotalItems      int
	TotalValue      decimal.Decimal
	LowStockCount   int
	OutOfStockCount int
	TotalLocations  int
}

// InventoryRepository define el puerto de persistencia para InventoryItem.
type InventoryRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetByProductLocation locationID nil busca el ítem sin ubicación.
	GetByProductLocation(ctx context.Context, productID string, locationID *string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo dentro de una transacción.
	GetForUpdate(ctx context.Context, productID string, locationID *string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f InventoryFilter) ([]*entity.InventoryItem, int, error)
	// ListAll ítems con datos de producto (costo y precio), para cálculos masivos.
	ListAll(ctx context.Context) ([]*entity.InventoryItem, error)
	Summary(ctx context.Context) (*InventorySummary, error)
}

// AlertRepository define el puerto de persistencia para LowStockAlert.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.LowStockAlert) error
	GetByID(ctx context.Context, id string) (*entity.LowStockAlert, error)
	List(ctx context.Context, status string) ([]*entity.LowStockAlert, error)
	Resolve(ctx context.Context, id string, at time.Time) error
}
