package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func validOrderRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerID: "cust-001",
		Items: []dto.OrderItemRequest{
			{ProductID: "TSH-001", Quantity: 2, UnitPrice: dec("19.99")},
			{ProductID: "unknown-sku", Quantity: 1, UnitPrice: dec("5.00")},
		},
		ShippingAddress: &dto.Address{
			Name:         "Ana <b>Pérez</b>",
			AddressLine1: "742 Evergreen Terrace",
			City:         "Springfield",
			State:        "IL",
			PostalCode:   "62704",
			Country:      "USA",
		},
		PaymentMethod:  "credit_card",
		TaxAmount:      decPtr("3.60"),
		ShippingAmount: decPtr("5.00"),
		DiscountAmount: decPtr("2.00"),
	}
}

func newOrderUC(orders *fakeOrders, tx *txOrders, m *countingMetrics) *OrderUseCase {
	products := &fakeProducts{byID: map[string]*entity.Product{
		"TSH-001": {ID: "TSH-001", Name: "Camiseta", SKU: "TSH-001"},
	}}
	uc := NewOrderUseCase(tx, orders, products, m, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestOrderCreate_CalculaTotales(t *testing.T) {
	orders := newFakeOrders()
	m := &countingMetrics{}
	uc := newOrderUC(orders, &txOrders{orders: orders}, m)

	res, err := uc.Create(context.Background(), validOrderRequest())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.OrderNumber, "ORD-20240603-"), res.OrderNumber)
	assert.Equal(t, entity.OrderPending, res.Status)
	assert.Equal(t, entity.PaymentPending, res.PaymentStatus)
	assert.Equal(t, "USD", res.Currency)
	assert.True(t, res.Subtotal.Equal(dec("44.98")), "subtotal: %s", res.Subtotal)
	// 44.98 + 3.60 + 5.00 - 2.00
	assert.True(t, res.TotalAmount.Equal(dec("51.58")), "total: %s", res.TotalAmount)
	assert.Equal(t, "Ana bPérez/b", res.ShippingAddress.Name)

	require.Len(t, res.Items, 2)
	assert.Equal(t, "Camiseta", res.Items[0].ProductName)
	assert.True(t, res.Items[0].TotalPrice.Equal(dec("39.98")))
	assert.Empty(t, res.Items[1].ProductName)

	assert.Contains(t, orders.byID, res.ID)
	assert.Equal(t, 1, m.ordersCreated)
}

func TestOrderCreate_ErroresDeValidacion(t *testing.T) {
	orders := newFakeOrders()
	uc := newOrderUC(orders, &txOrders{orders: orders}, &countingMetrics{})

	in := validOrderRequest()
	in.CustomerID = " "
	in.Items = []dto.OrderItemRequest{
		{ProductID: "bad id!", Quantity: 1.5, UnitPrice: dec("0")},
	}
	in.ShippingAddress.Country = "Chile"
	in.PaymentMethod = "crypto"
	in.DiscountAmount = decPtr("-1")

	_, err := uc.Create(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"Customer ID is required",
		"Item 1: Invalid product ID format - received: bad id!",
		"Item 1: Valid quantity is required",
		"Item 1: Valid unit price is required",
		"Invalid country",
		"Invalid payment method",
		"Amounts cannot be negative",
	}, verr.Errors)
	assert.Empty(t, orders.byID)
}

func TestOrderCreate_SinDireccionNiItems(t *testing.T) {
	orders := newFakeOrders()
	uc := newOrderUC(orders, &txOrders{orders: orders}, &countingMetrics{})

	_, err := uc.Create(context.Background(), dto.CreateOrderRequest{CustomerID: "c", PaymentMethod: "paypal"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"At least one item is required", "Shipping address is required"}, verr.Errors)
}

func TestOrderCreate_FalloDeTransaccion(t *testing.T) {
	orders := newFakeOrders()
	m := &countingMetrics{}
	boom := errors.New("tx abortada")
	uc := newOrderUC(orders, &txOrders{orders: orders, fail: boom}, m)

	_, err := uc.Create(context.Background(), validOrderRequest())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, m.ordersCreated)
}

func TestOrderDelete_SoloPendientesOCancelados(t *testing.T) {
	orders := newFakeOrders(
		&entity.Order{ID: "o1", Status: entity.OrderShipped},
	)
	uc := newOrderUC(orders, &txOrders{orders: orders}, &countingMetrics{})

	assert.ErrorIs(t, uc.Delete(context.Background(), "o1"), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(context.Background(), "nope"), domain.ErrNotFound)
}

func TestOrderStats_IngresosExcluyenCancelados(t *testing.T) {
	yesterday := fixedNow.Add(-24 * time.Hour)
	orders := newFakeOrders(
		&entity.Order{ID: "a", Status: entity.OrderPending, TotalAmount: dec("10"), CreatedAt: fixedNow},
		&entity.Order{ID: "b", Status: entity.OrderPacked, TotalAmount: dec("20"), CreatedAt: yesterday},
		&entity.Order{ID: "c", Status: entity.OrderCancelled, TotalAmount: dec("100"), CreatedAt: fixedNow},
		&entity.Order{ID: "d", Status: entity.OrderDelivered, TotalAmount: dec("30"), CreatedAt: yesterday},
	)
	uc := newOrderUC(orders, &txOrders{orders: orders}, &countingMetrics{})

	s, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalOrders)
	assert.Equal(t, 1, s.PendingOrders)
	assert.Equal(t, 1, s.ProcessingOrders)
	assert.Equal(t, 1, s.CancelledOrders)
	assert.Equal(t, 1, s.DeliveredOrders)
	assert.Equal(t, 2, s.OrdersToday)
	assert.True(t, s.TotalRevenue.Equal(dec("60")), "revenue: %s", s.TotalRevenue)
	assert.True(t, s.RevenueToday.Equal(dec("10")))
	assert.True(t, s.AverageOrderValue.Equal(dec("20")))
}

func TestOrderUpdate_EstadoInvalido(t *testing.T) {
	orders := newFakeOrders(&entity.Order{ID: "o1", Status: entity.OrderPending})
	uc := newOrderUC(orders, &txOrders{orders: orders}, &countingMetrics{})

	bad := "teleported"
	_, err := uc.Update(context.Background(), "o1", dto.UpdateOrderRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cancelled := entity.OrderCancelled
	res, err := uc.Update(context.Background(), "o1", dto.UpdateOrderRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, res.Status)
	require.NotNil(t, res.CancelledAt)
	assert.Equal(t, fixedNow, *res.CancelledAt)
}
