package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// AdjustmentFilter filtros del listado de ajustes.
type AdjustmentFilter struct {
	ProductID string
	Type      string
	Reason    string
	Status    string
	Location  string
	UserID    string
	Search    string
	Since     *time.Time
	Limit     int
}

// AdjustmentRepository define el puerto de persistencia para StockAdjustment.
type AdjustmentRepository interface {
	Create(ctx context.Context, adj *entity.StockAdjustment) error
	GetByID(ctx context.Context, id string) (*entity.StockAdjustment, error)
	Update(ctx context.Context, adj *entity.StockAdjustment) error
	Delete(ctx context.Context, id string) error
	// List ordenado por fecha de creación descendente.
	List(ctx context.Context, f AdjustmentFilter) ([]*entity.StockAdjustment, error)
	ListAll(ctx context.Context) ([]*entity.StockAdjustment, error)
	// ListApproved ajustes aprobados de un producto en una ubicación (historial).
	ListApproved(ctx context.Context, productID string, locationID *string) ([]*entity.StockAdjustment, error)
}
