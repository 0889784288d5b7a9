package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pedido.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderPacked     = "packed"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
	OrderReturned   = "returned"
	OrderRefunded   = "refunded"
)

// Estados de pago.
const (
	PaymentPending           = "pending"
	PaymentPaid              = "paid"
	PaymentFailed            = "failed"
	PaymentRefunded          = "refunded"
	PaymentPartiallyRefunded = "partially_refunded"
)

// OrderStatuses lista ordenada de estados válidos de pedido.
var OrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderProcessing, OrderPacked, OrderShipped,
	OrderDelivered, OrderCancelled, OrderReturned, OrderRefunded,
}

// ValidOrderStatus indica si s es un estado de pedido conocido.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidPaymentStatus indica si s es un estado de pago conocido.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded, PaymentPartiallyRefunded:
		return true
	}
	return false
}

// Address dirección de envío o facturación (persistida como jsonb).
type Address struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
}

// Order pedido de un cliente.
type Order struct {
	ID              string
	OrderNumber     string
	CustomerID      string
	Status          string
	PaymentStatus   string
	PaymentMethod   string
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	ShippingAmount  decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	Currency        string
	ShippingAddress Address
	BillingAddress  *Address
	Notes           string
	TrackingNumber  string
	TrackingURL     string
	ShippingCarrier string
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItem

	// Datos del cliente (join, solo lectura).
	CustomerName  string
	CustomerEmail string
}

// Estados de línea de pedido.
const (
	OrderItemPending = "pending"
	OrderItemShipped = "shipped"
)

// OrderItem línea de un pedido.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Status      string
	CreatedAt   time.Time
}

// FulfillmentItem cantidad despachada de una línea.
type FulfillmentItem struct {
	OrderItemID string `json:"order_item_id"`
	Quantity    int    `json:"quantity"`
}

// OrderFulfillment registro de un despacho de pedido.
type OrderFulfillment struct {
	ID              string
	OrderID         string
	Status          string
	Carrier         string
	TrackingNumber  string
	TrackingURL     string
	ShippedAt       *time.Time
	Notes           string
	Items           []FulfillmentItem
	CreatedBy       string
	CreatedAt       time.Time
}

// TrackingEvent evento de seguimiento de un envío.
type TrackingEvent struct {
	ID             string
	OrderID        string
	TrackingNumber string
	Status         string
	Location       string
	Description    string
	OccurredAt     time.Time
}
