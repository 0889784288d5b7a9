package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address dirección de envío o facturación.
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

// OrderItemRequest línea de POST /api/orders.
// Quantity es float64 para poder rechazar cantidades no enteras.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  float64         `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest body de POST /api/orders.
type CreateOrderRequest struct {
	CustomerID      string             `json:"customer_id"`
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress *Address           `json:"shipping_address"`
	BillingAddress  *Address           `json:"billing_address"`
	PaymentMethod   string             `json:"payment_method"`
	TaxAmount       *decimal.Decimal   `json:"tax_amount"`
	ShippingAmount  *decimal.Decimal   `json:"shipping_amount"`
	DiscountAmount  *decimal.Decimal   `json:"discount_amount"`
	Currency        string             `json:"currency"`
	Notes           string             `json:"notes"`
}

// UpdateOrderRequest cambios parciales de PUT /api/orders/:id.
type UpdateOrderRequest struct {
	Status          *string  `json:"status"`
	PaymentStatus   *string  `json:"payment_status"`
	TrackingNumber  *string  `json:"tracking_number"`
	TrackingURL     *string  `json:"tracking_url"`
	ShippingCarrier *string  `json:"shipping_carrier"`
	Notes           *string  `json:"notes"`
	ShippingAddress *Address `json:"shipping_address"`
	BillingAddress  *Address `json:"billing_address"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      string          `json:"status"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      string              `json:"customer_id"`
	CustomerName    string              `json:"customer_name,omitempty"`
	CustomerEmail   string              `json:"customer_email,omitempty"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	PaymentMethod   string              `json:"payment_method"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	ShippingAmount  decimal.Decimal     `json:"shipping_amount"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Currency        string              `json:"currency"`
	ShippingAddress Address             `json:"shipping_address"`
	BillingAddress  *Address            `json:"billing_address"`
	Notes           string              `json:"notes"`
	TrackingNumber  string              `json:"tracking_number"`
	TrackingURL     string              `json:"tracking_url"`
	ShippingCarrier string              `json:"shipping_carrier"`
	ShippedAt       *time.Time          `json:"shipped_at"`
	DeliveredAt     *time.Time          `json:"delivered_at"`
	CancelledAt     *time.Time          `json:"cancelled_at"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderListQuery filtros de GET /api/orders.
type OrderListQuery struct {
	Page            int
	Limit           int
	Statuses        []string
	PaymentStatuses []string
	CustomerID      string
	DateFrom        *time.Time
	DateTo          *time.Time
	MinAmount       *decimal.Decimal
	MaxAmount       *decimal.Decimal
	Search          string
}

// Pagination metadatos de página numerada.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination calcula el total de páginas.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// OrderListResponse salida de GET /api/orders.
type OrderListResponse struct {
	Success    bool            `json:"success"`
	Data       []OrderResponse `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// OrderSearchResponse salida de GET /api/orders/search.
type OrderSearchResponse struct {
	Data   []OrderResponse `json:"data"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// OrderStatsResponse salida de GET /api/orders/stats.
type OrderStatsResponse struct {
	TotalOrders       int             `json:"totalOrders"`
	PendingOrders     int             `json:"pendingOrders"`
	ProcessingOrders  int             `json:"processingOrders"`
	ShippedOrders     int             `json:"shippedOrders"`
	DeliveredOrders   int             `json:"deliveredOrders"`
	CancelledOrders   int             `json:"cancelledOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	OrdersToday       int             `json:"ordersToday"`
	RevenueToday      decimal.Decimal `json:"revenueToday"`
}

// MonthRevenue ingresos de un mes (YYYY-MM).
type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// TopCustomer cliente con mayor facturación.
type TopCustomer struct {
	CustomerID string          `json:"customer_id"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// OrderAnalyticsResponse salida de GET /api/orders/analytics.
type OrderAnalyticsResponse struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	OrdersByStatus    map[string]int  `json:"ordersByStatus"`
	RevenueByMonth    []MonthRevenue  `json:"revenueByMonth"`
	TopCustomers      []TopCustomer   `json:"topCustomers"`
}

// ShipmentInfo datos del envío en PUT /api/orders/:id/fulfill.
type ShipmentInfo struct {
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"trackingNumber"`
	TrackingURL    string     `json:"trackingUrl"`
	ShippedAt      *time.Time `json:"shippedAt"`
}

// FulfillOrderRequest body de PUT /api/orders/:id/fulfill.
type FulfillOrderRequest struct {
	Status       string        `json:"status"`
	ShipmentInfo *ShipmentInfo `json:"shipmentInfo"`
	Notes        string        `json:"notes"`
}

// BulkFulfillRequest body de PUT /api/orders/bulk-fulfill.
type BulkFulfillRequest struct {
	OrderIDs []string `json:"orderIds"`
	Action   string   `json:"action"`
}

// BulkFulfillResult resultado por pedido.
type BulkFulfillResult struct {
	OrderID string `json:"orderId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkFulfillResponse salida de PUT /api/orders/bulk-fulfill.
type BulkFulfillResponse struct {
	ProcessedCount int                 `json:"processedCount"`
	FailedCount    int                 `json:"failedCount"`
	Results        []BulkFulfillResult `json:"results"`
}

// FulfillmentItem cantidad despachada de una línea.
type FulfillmentItem struct {
	OrderItemID string `json:"order_item_id"`
	Quantity    int    `json:"quantity"`
}

// FulfillmentResponse registro de despacho.
type FulfillmentResponse struct {
	ID             string            `json:"id"`
	OrderID        string            `json:"order_id"`
	Status         string            `json:"status"`
	Carrier        string            `json:"carrier"`
	TrackingNumber string            `json:"tracking_number"`
	TrackingURL    string            `json:"tracking_url"`
	ShippedAt      *time.Time        `json:"shipped_at"`
	Notes          string            `json:"notes"`
	Items          []FulfillmentItem `json:"items"`
	CreatedBy      string            `json:"created_by"`
	CreatedAt      time.Time         `json:"created_at"`
}

// TrackingEventRequest body de POST /api/orders/:id/tracking-events.
type TrackingEventRequest struct {
	Status      string `json:"status"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// TrackingEventResponse evento de seguimiento.
type TrackingEventResponse struct {
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// TrackingResponse estado de envío de un pedido.
// CustomerID va vacío en el endpoint público.
type TrackingResponse struct {
	OrderID         string                  `json:"order_id"`
	OrderNumber     string                  `json:"order_number"`
	CustomerID      string                  `json:"customer_id,omitempty"`
	Status          string                  `json:"status"`
	TrackingNumber  string                  `json:"tracking_number"`
	TrackingURL     string                  `json:"tracking_url,omitempty"`
	Carrier         string                  `json:"carrier"`
	ShippedAt       *time.Time              `json:"shipped_at"`
	DeliveredAt     *time.Time              `json:"delivered_at"`
	ShippingAddress Address                 `json:"shipping_address"`
	Events          []TrackingEventResponse `json:"events"`
}

// ReturnItemRequest línea de devolución.
type ReturnItemRequest struct {
	OrderItemID  string          `json:"order_item_id"`
	Quantity     int             `json:"quantity"`
	Reason       string          `json:"reason"`
	Condition    string          `json:"condition"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// CreateReturnRequest body de POST /api/orders/returns.
type CreateReturnRequest struct {
	OrderID string              `json:"order_id"`
	Reason  string              `json:"reason"`
	Notes   string              `json:"notes"`
	Items   []ReturnItemRequest `json:"items"`
}

// ReturnResponse salida de una devolución.
type ReturnResponse struct {
	ID                string              `json:"id"`
	ReturnNumber      string              `json:"return_number"`
	OrderID           string              `json:"order_id"`
	OrderNumber       string              `json:"order_number,omitempty"`
	CustomerID        string              `json:"customer_id"`
	Status            string              `json:"status"`
	Reason            string              `json:"reason"`
	Notes             string              `json:"notes"`
	Items             []ReturnItemRequest `json:"items"`
	TotalRefundAmount decimal.Decimal     `json:"total_refund_amount"`
	RefundID          string              `json:"refund_id,omitempty"`
	RefundMethod      string              `json:"refund_method,omitempty"`
	RefundAmount      decimal.Decimal     `json:"refund_amount"`
	ApprovedAt        *time.Time          `json:"approved_at"`
	RejectedAt        *time.Time          `json:"rejected_at"`
	ReceivedAt        *time.Time          `json:"received_at"`
	RefundedAt        *time.Time          `json:"refunded_at"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ReturnListQuery filtros de GET /api/orders/returns.
type ReturnListQuery struct {
	Status  string
	OrderID string
	Page    int
	Limit   int
}

// ReturnListResponse salida de GET /api/orders/returns.
type ReturnListResponse struct {
	Data       []ReturnResponse `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

// UpdateReturnStatusRequest body de PUT /api/orders/returns/:id/status.
type UpdateReturnStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// RefundRequest body de POST /api/orders/returns/:id/refund.
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

// ReturnStatsResponse salida de GET /api/orders/returns/stats.
type ReturnStatsResponse struct {
	Total             int             `json:"total"`
	Pending           int             `json:"pending"`
	Approved          int             `json:"approved"`
	Rejected          int             `json:"rejected"`
	Refunded          int             `json:"refunded"`
	TotalRefundAmount decimal.Decimal `json:"totalRefundAmount"`
	AvgProcessingTime decimal.Decimal `json:"avgProcessingTime"`
}
