package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/order"
)

type fulfillmentFixture struct {
	orders       *fakeOrders
	fulfillments *fakeFulfillments
	tracking     *fakeTracking
	docs         *fakeDocs
	uc           *FulfillmentUseCase
}

func newFulfillmentFixture(list ...*entity.Order) *fulfillmentFixture {
	f := &fulfillmentFixture{
		orders:       newFakeOrders(list...),
		fulfillments: &fakeFulfillments{},
		tracking:     &fakeTracking{},
		docs:         &fakeDocs{},
	}
	shipFrom := order.Party{Name: "PMS Store", City: "Austin", State: "TX", Country: "USA"}
	f.uc = NewFulfillmentUseCase(f.orders, f.fulfillments, f.tracking, f.docs, shipFrom, nil)
	f.uc.now = func() time.Time { return fixedNow }
	return f
}

func confirmedOrder(id string) *entity.Order {
	return &entity.Order{
		ID:          id,
		OrderNumber: "ORD-20240601-" + strings.ToUpper(id),
		CustomerID:  "cust-1",
		Status:      entity.OrderConfirmed,
		ShippingAddress: entity.Address{
			Name: "Ana Pérez", AddressLine1: "742 Evergreen Terrace", City: "Springfield", State: "IL", PostalCode: "62704", Country: "USA",
		},
		Items: []entity.OrderItem{
			{ID: id + "-l1", OrderID: id, ProductID: "TSH-001", Quantity: 2},
			{ID: id + "-l2", OrderID: id, ProductID: "MUG-001", Quantity: 1},
		},
		CreatedAt: fixedNow.Add(-48 * time.Hour),
	}
}

func TestFulfill_EnviadoRegistraDespachoYEvento(t *testing.T) {
	f := newFulfillmentFixture(confirmedOrder("o1"))
	shippedAt := fixedNow.Add(-time.Hour)

	res, err := f.uc.Fulfill(context.Background(), "o1", "user-7", dto.FulfillOrderRequest{
		Status: entity.OrderShipped,
		ShipmentInfo: &dto.ShipmentInfo{
			Carrier:        " FedEx ",
			TrackingNumber: "FX123",
			ShippedAt:      &shippedAt,
		},
		Notes: "caja <frágil>",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderShipped, res.Status)
	assert.Equal(t, "FedEx", res.ShippingCarrier)
	assert.Equal(t, "FX123", res.TrackingNumber)
	require.NotNil(t, res.ShippedAt)
	assert.Equal(t, shippedAt, *res.ShippedAt)
	assert.Equal(t, "caja frágil", res.Notes)

	require.Len(t, f.fulfillments.created, 1)
	ff := f.fulfillments.created[0]
	assert.Equal(t, "user-7", ff.CreatedBy)
	assert.Len(t, ff.Items, 2)
	assert.Equal(t, entity.OrderItemShipped, f.orders.itemsStatus["o1"])

	require.Len(t, f.tracking.events, 1)
	assert.Equal(t, "Package shipped via FedEx", f.tracking.events[0].Description)
	assert.Equal(t, shippedAt, f.tracking.events[0].OccurredAt)
}

func TestFulfill_SinShipmentInfoNoRegistraDespacho(t *testing.T) {
	f := newFulfillmentFixture(confirmedOrder("o1"))

	res, err := f.uc.Fulfill(context.Background(), "o1", "", dto.FulfillOrderRequest{Status: entity.OrderShipped})
	require.NoError(t, err)
	require.NotNil(t, res.ShippedAt)
	assert.Equal(t, fixedNow, *res.ShippedAt)
	assert.Empty(t, f.fulfillments.created)
	assert.Empty(t, f.tracking.events)
}

func TestFulfill_FallaDelRegistroNoInterrumpe(t *testing.T) {
	f := newFulfillmentFixture(confirmedOrder("o1"))
	f.fulfillments.err = assert.AnError

	res, err := f.uc.Fulfill(context.Background(), "o1", "", dto.FulfillOrderRequest{
		Status:       entity.OrderShipped,
		ShipmentInfo: &dto.ShipmentInfo{TrackingNumber: "T-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderShipped, res.Status)
	require.Len(t, f.tracking.events, 1)
	assert.Equal(t, "Package shipped via "+order.DefaultCarrier, f.tracking.events[0].Description)
}

func TestFulfill_RechazaEstadosYPedidosCerrados(t *testing.T) {
	cancelled := confirmedOrder("o2")
	cancelled.Status = entity.OrderCancelled
	f := newFulfillmentFixture(confirmedOrder("o1"), cancelled)
	ctx := context.Background()

	_, err := f.uc.Fulfill(ctx, "o1", "", dto.FulfillOrderRequest{Status: entity.OrderCancelled})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Fulfill(ctx, "o2", "", dto.FulfillOrderRequest{Status: entity.OrderProcessing})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.Fulfill(ctx, "missing", "", dto.FulfillOrderRequest{Status: entity.OrderProcessing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBulkFulfill_ResultadoPorPedido(t *testing.T) {
	cancelled := confirmedOrder("o2")
	cancelled.Status = entity.OrderCancelled
	f := newFulfillmentFixture(confirmedOrder("o1"), cancelled)

	res, err := f.uc.BulkFulfill(context.Background(), dto.BulkFulfillRequest{
		OrderIDs: []string{"o1", "o2", "o3"},
		Action:   order.ActionMarkPacked,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ProcessedCount)
	assert.Equal(t, 2, res.FailedCount)
	require.Len(t, res.Results, 3)
	assert.True(t, res.Results[0].Success)
	assert.Equal(t, "el pedido está cancelled", res.Results[1].Error)
	assert.Equal(t, "pedido no encontrado", res.Results[2].Error)
	assert.Equal(t, entity.OrderPacked, f.orders.byID["o1"].Status)

	_, err = f.uc.BulkFulfill(context.Background(), dto.BulkFulfillRequest{OrderIDs: []string{"o1"}, Action: "teleport"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShippingLabel_AsignaGuia(t *testing.T) {
	f := newFulfillmentFixture(confirmedOrder("o1"))

	pdf, name, err := f.uc.ShippingLabel(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-label"), pdf)
	assert.Equal(t, "shipping-label-ORD-20240601-O1.pdf", name)

	o := f.orders.byID["o1"]
	assert.True(t, strings.HasPrefix(o.TrackingNumber, "SHIP-"), o.TrackingNumber)
	assert.Equal(t, order.DefaultCarrier, o.ShippingCarrier)
	assert.Equal(t, "PMS Store", f.docs.label.ShipFrom.Name)
	assert.Equal(t, "Ana Pérez", f.docs.label.ShipTo.Name)
	assert.Equal(t, 1, f.orders.updateCalled)

	delivered := confirmedOrder("o2")
	delivered.Status = entity.OrderDelivered
	f.orders.byID["o2"] = delivered
	_, _, err = f.uc.ShippingLabel(context.Background(), "o2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTracking_EventosYEntrega(t *testing.T) {
	shippedAt := fixedNow.Add(-24 * time.Hour)
	o := confirmedOrder("o1")
	o.Status = entity.OrderShipped
	o.TrackingNumber = "SHIP-1"
	o.ShippedAt = &shippedAt
	f := newFulfillmentFixture(o)
	ctx := context.Background()

	// sin eventos registrados se derivan de las fechas
	res, err := f.uc.PublicTracking(ctx, " SHIP-1 ")
	require.NoError(t, err)
	assert.Equal(t, order.TrackingInTransit, res.Status)
	assert.Empty(t, res.CustomerID)
	require.Len(t, res.Events, 3)
	assert.Equal(t, order.TrackingLabelCreated, res.Events[0].Status)

	_, err = f.uc.AddTrackingEvent(ctx, "o1", dto.TrackingEventRequest{Status: order.TrackingDelivered, Location: "Springfield"})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, f.orders.byID["o1"].Status)

	res, err = f.uc.PublicTracking(ctx, "SHIP-1")
	require.NoError(t, err)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Springfield", res.Events[0].Location)

	_, err = f.uc.PublicTracking(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
