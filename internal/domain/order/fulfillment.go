package order

import (
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// Acciones de despacho masivo.
const (
	ActionStartProcessing = "start_processing"
	ActionMarkPacked      = "mark_packed"
	ActionMarkShipped     = "mark_shipped"
	ActionMarkDelivered   = "mark_delivered"
	ActionCancel          = "cancel"
)

// StatusForAction estado destino de una acción masiva.
func StatusForAction(action string) (string, bool) {
	switch action {
	case ActionStartProcessing:
		return entity.OrderProcessing, true
	case ActionMarkPacked:
		return entity.OrderPacked, true
	case ActionMarkShipped:
		return entity.OrderShipped, true
	case ActionMarkDelivered:
		return entity.OrderDelivered, true
	case ActionCancel:
		return entity.OrderCancelled, true
	}
	return "", false
}

// ValidFulfillStatus estados aceptados por el endpoint de despacho.
func ValidFulfillStatus(s string) bool {
	switch s {
	case entity.OrderConfirmed, entity.OrderProcessing, entity.OrderPacked, entity.OrderShipped, entity.OrderDelivered:
		return true
	}
	return false
}

// ApplyStatus cambia el estado y fija la marca de tiempo asociada.
// shippedAt nil usa now.
func ApplyStatus(o *entity.Order, status string, shippedAt *time.Time, now time.Time) {
	o.Status = status
	switch status {
	case entity.OrderShipped:
		t := now
		if shippedAt != nil {
			t = *shippedAt
		}
		o.ShippedAt = &t
	case entity.OrderDelivered:
		o.DeliveredAt = &now
	case entity.OrderCancelled:
		o.CancelledAt = &now
	}
	o.UpdatedAt = now
}

// CanDelete solo pedidos pendientes o cancelados.
func CanDelete(o *entity.Order) bool {
	return o.Status == entity.OrderPending || o.Status == entity.OrderCancelled
}

// CanPrintLabel no se generan etiquetas para pedidos cancelados o entregados.
func CanPrintLabel(o *entity.Order) bool {
	return o.Status != entity.OrderCancelled && o.Status != entity.OrderDelivered
}

// CanReturn devoluciones solo de pedidos enviados o entregados.
func CanReturn(o *entity.Order) bool {
	return o.Status == entity.OrderShipped || o.Status == entity.OrderDelivered
}
