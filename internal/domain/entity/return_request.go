package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución.
const (
	ReturnPending  = "pending"
	ReturnApproved = "approved"
	ReturnRejected = "rejected"
	ReturnReceived = "received"
	ReturnRefunded = "refunded"
)

// ValidReturnStatus indica si s es un estado de devolución conocido.
func ValidReturnStatus(s string) bool {
	switch s {
	case ReturnPending, ReturnApproved, ReturnRejected, ReturnReceived, ReturnRefunded:
		return true
	}
	return false
}

// ReturnItem línea devuelta (persistida como jsonb).
type ReturnItem struct {
	OrderItemID  string          `json:"order_item_id"`
	Quantity     int             `json:"quantity"`
	Reason       string          `json:"reason,omitempty"`
	Condition    string          `json:"condition,omitempty"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// ReturnRequest solicitud de devolución de un pedido.
type ReturnRequest struct {
	ID                string
	ReturnNumber      string
	OrderID           string
	CustomerID        string
	Status            string
	Reason            string
	Notes             string
	Items             []ReturnItem
	TotalRefundAmount decimal.Decimal
	RefundID          string
	RefundMethod      string
	RefundAmount      decimal.Decimal
	ApprovedAt        *time.Time
	RejectedAt        *time.Time
	ReceivedAt        *time.Time
	RefundedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time

	OrderNumber string
}
