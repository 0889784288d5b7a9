package order

import (
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ComputeTotals calcula total por línea, subtotal y total del pedido.
// total = subtotal + impuestos + envío - descuento.
func ComputeTotals(o *entity.Order) {
	subtotal := decimal.Zero
	for i := range o.Items {
		it := &o.Items[i]
		it.TotalPrice = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(it.TotalPrice)
	}
	o.Subtotal = subtotal
	o.TotalAmount = subtotal.Add(o.TaxAmount).Add(o.ShippingAmount).Sub(o.DiscountAmount)
}
