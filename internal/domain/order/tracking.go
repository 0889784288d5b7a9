package order

import (
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// Estados de seguimiento públicos.
const (
	TrackingLabelCreated = "label_created"
	TrackingPickedUp     = "picked_up"
	TrackingInTransit    = "in_transit"
	TrackingDelivered    = "delivered"
)

// PublicStatus estado mostrado al rastrear: shipped se expone como in_transit.
func PublicStatus(status string) string {
	if status == entity.OrderShipped {
		return TrackingInTransit
	}
	return status
}

// SynthesizeEvents eventos derivados de las fechas del pedido cuando no hay eventos registrados.
func SynthesizeEvents(o *entity.Order) []entity.TrackingEvent {
	var events []entity.TrackingEvent
	add := func(status, desc string, at time.Time) {
		events = append(events, entity.TrackingEvent{
			OrderID:        o.ID,
			TrackingNumber: o.TrackingNumber,
			Status:         status,
			Description:    desc,
			OccurredAt:     at,
		})
	}
	add(TrackingLabelCreated, "Shipping label created", o.CreatedAt)
	if o.ShippedAt != nil {
		add(TrackingPickedUp, "Package picked up by "+carrierOr(o.ShippingCarrier), *o.ShippedAt)
		add(TrackingInTransit, "Package in transit", *o.ShippedAt)
	}
	if o.DeliveredAt != nil {
		add(TrackingDelivered, "Package delivered", *o.DeliveredAt)
	}
	return events
}

func carrierOr(c string) string {
	if c == "" {
		return "carrier"
	}
	return c
}
