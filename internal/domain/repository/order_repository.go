package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderFilter filtros del listado de pedidos.
type OrderFilter struct {
	Statuses        []string
	PaymentStatuses []string
	CustomerID      string
	CustomerEmail   string
	DateFrom        *time.Time
	DateTo          *time.Time
	MinAmount       *decimal.Decimal
	MaxAmount       *decimal.Decimal
	Search          string
	Limit           int
	Offset          int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// Create inserta el pedido y sus líneas; usar dentro de una transacción.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID carga el pedido con sus líneas y el cliente.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	UpdateItemsStatus(ctx context.Context, orderID, status string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, int, error)
	// ListTracked pedidos con número de guía en estado shipped o delivered.
	ListTracked(ctx context.Context) ([]*entity.Order, error)
	// ListBetween pedidos creados en [from, to) sin líneas, para estadísticas.
	ListBetween(ctx context.Context, from, to *time.Time) ([]*entity.Order, error)
}

// FulfillmentRepository define el puerto de persistencia para OrderFulfillment.
type FulfillmentRepository interface {
	Create(ctx context.Context, f *entity.OrderFulfillment) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderFulfillment, error)
}

// TrackingRepository define el puerto de persistencia para TrackingEvent.
type TrackingRepository interface {
	Create(ctx context.Context, ev *entity.TrackingEvent) error
	// ListByOrder eventos ordenados por fecha ascendente.
	ListByOrder(ctx context.Context, orderID string) ([]*entity.TrackingEvent, error)
}

// ReturnFilter filtros del listado de devoluciones.
type ReturnFilter struct {
	Status  string
	OrderID string
	Limit   int
	Offset  int
}

// ReturnRepository define el puerto de persistencia para ReturnRequest.
type ReturnRepository interface {
	Create(ctx context.Context, r *entity.ReturnRequest) error
	GetByID(ctx context.Context, id string) (*entity.ReturnRequest, error)
	Update(ctx context.Context, r *entity.ReturnRequest) error
	// DeletePending elimina la devolución solo si sigue pending; devuelve false si no borró nada.
	DeletePending(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f ReturnFilter) ([]*entity.ReturnRequest, int, error)
	ListAll(ctx context.Context) ([]*entity.ReturnRequest, error)
}
