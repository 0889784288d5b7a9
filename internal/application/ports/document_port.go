package ports

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/order"
)

// ShippingDocuments genera los PDF de despacho.
type ShippingDocuments interface {
	GenerateShippingLabel(ctx context.Context, label order.ShippingLabel) ([]byte, error)
	GeneratePackingSlip(ctx context.Context, o *entity.Order, from order.Party) ([]byte, error)
}
