package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
// LocationID coincide con origen o destino.
type MovementFilter struct {
	ProductID    string
	MovementType string
	LocationID   string
	Status       string
	Since        *time.Time
	Limit        int
}

// MovementProductTotals agregado de movimientos de un producto (entradas y salidas de tipo in/out).
type MovementProductTotals struct {
	ProductID     string
	ProductName   string
	ProductSKU    string
	TotalIn       int
	TotalOut      int
	MovementCount int
	LastMovement  time.Time
}

// MovementRepository define el puerto de persistencia para StockMovement.
type MovementRepository interface {
	Create(ctx context.Context, mov *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// GetByIDForUpdate bloquea la fila del movimiento (usar dentro de TxRunner).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockMovement, error)
	// UpdateStatus cambia el estado solo si el movimiento sigue pending; si no, ErrInvalidTransition.
	UpdateStatus(ctx context.Context, mov *entity.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
	ListSince(ctx context.Context, since time.Time) ([]*entity.StockMovement, error)
	// TotalsByProductSince agrega por producto desde since, ordenado por cantidad de movimientos desc.
	TotalsByProductSince(ctx context.Context, since time.Time) ([]MovementProductTotals, error)
	// ListForLocation movimientos de un producto que tocan la ubicación dada.
	ListForLocation(ctx context.Context, productID, locationID string) ([]*entity.StockMovement, error)
}
