package order

import (
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// Valores por defecto de la etiqueta cuando el pedido no trae transportadora.
const (
	DefaultCarrier     = "USPS"
	DefaultServiceType = "Ground"
	DefaultWeight      = "2.5 lbs"
	DefaultDimensions  = "12x8x4 inches"
)

// Party remitente o destinatario de un envío.
type Party struct {
	Name       string
	Address1   string
	Address2   string
	City       string
	State      string
	PostalCode string
	Country    string
}

// ShippingLabel datos impresos en la etiqueta de envío.
type ShippingLabel struct {
	OrderID        string
	OrderNumber    string
	Carrier        string
	TrackingNumber string
	ServiceType    string
	Weight         string
	Dimensions     string
	ShipFrom       Party
	ShipTo         Party
	GeneratedAt    time.Time
}

// PartyFromAddress convierte la dirección de envío del pedido.
func PartyFromAddress(a entity.Address) Party {
	return Party{
		Name:       a.Name,
		Address1:   a.AddressLine1,
		Address2:   a.AddressLine2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// NewShippingLabel arma la etiqueta. El pedido ya debe tener número de guía y transportadora.
func NewShippingLabel(o *entity.Order, from Party, now time.Time) ShippingLabel {
	carrier := o.ShippingCarrier
	if carrier == "" {
		carrier = DefaultCarrier
	}
	return ShippingLabel{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		Carrier:        carrier,
		TrackingNumber: o.TrackingNumber,
		ServiceType:    DefaultServiceType,
		Weight:         DefaultWeight,
		Dimensions:     DefaultDimensions,
		ShipFrom:       from,
		ShipTo:         PartyFromAddress(o.ShippingAddress),
		GeneratedAt:    now,
	}
}

// AssignTracking completa guía y transportadora si faltan. Devuelve true si cambió el pedido.
func AssignTracking(o *entity.Order, now time.Time) bool {
	changed := false
	if o.TrackingNumber == "" {
		o.TrackingNumber = NewTrackingNumber(now)
		changed = true
	}
	if o.ShippingCarrier == "" {
		o.ShippingCarrier = DefaultCarrier
		changed = true
	}
	return changed
}
