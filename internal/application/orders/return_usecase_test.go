package orders

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
)

func newReturnUC(stock StockRecorder, list ...*entity.Order) (*ReturnUseCase, *fakeReturns, *fakeOrders) {
	returns := &fakeReturns{byID: map[string]*entity.ReturnRequest{}}
	orders := newFakeOrders(list...)
	uc := NewReturnUseCase(returns, orders, stock, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc, returns, orders
}

func deliveredOrder(id string) *entity.Order {
	o := confirmedOrder(id)
	o.Status = entity.OrderDelivered
	o.PaymentStatus = entity.PaymentPaid
	o.TotalAmount = dec("60")
	return o
}

func returnRequest(orderID string) dto.CreateReturnRequest {
	return dto.CreateReturnRequest{
		OrderID: orderID,
		Reason:  "talla incorrecta",
		Items: []dto.ReturnItemRequest{
			{OrderItemID: orderID + "-l1", Quantity: 2, Condition: "new", RefundAmount: dec("40")},
		},
	}
}

func TestReturnCreate(t *testing.T) {
	uc, returns, _ := newReturnUC(nil, deliveredOrder("o1"))

	res, err := uc.Create(context.Background(), returnRequest("o1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.ReturnNumber, "RET-"), res.ReturnNumber)
	assert.Equal(t, entity.ReturnPending, res.Status)
	assert.Equal(t, "cust-1", res.CustomerID)
	assert.True(t, res.TotalRefundAmount.Equal(dec("40")))
	assert.Contains(t, returns.byID, res.ID)
}

func TestReturnCreate_Validacion(t *testing.T) {
	pending := confirmedOrder("o2")
	uc, _, _ := newReturnUC(nil, deliveredOrder("o1"), pending)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateReturnRequest{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"order_id es requerido", "reason es requerido", "se requiere al menos un ítem"}, verr.Errors)

	_, err = uc.Create(ctx, returnRequest("o2"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	in := returnRequest("o1")
	in.Items = []dto.ReturnItemRequest{
		{OrderItemID: "ajena", Quantity: 1},
		{OrderItemID: "o1-l2", Quantity: 5},
	}
	_, err = uc.Create(ctx, in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"Item 1: la línea ajena no pertenece al pedido",
		"Item 2: quantity 5 supera lo pedido (1)",
	}, verr.Errors)
}

func TestReturnUpdateStatus_AprobadoYRecibido(t *testing.T) {
	stock := &stockSpy{}
	uc, _, orders := newReturnUC(stock, deliveredOrder("o1"))
	ctx := context.Background()

	created, err := uc.Create(ctx, returnRequest("o1"))
	require.NoError(t, err)

	res, err := uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnApproved})
	require.NoError(t, err)
	require.NotNil(t, res.ApprovedAt)
	assert.Equal(t, entity.OrderReturned, orders.byID["o1"].Status)
	assert.Empty(t, stock.requests)

	res, err = uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnReceived, Notes: "caja abierta"})
	require.NoError(t, err)
	require.NotNil(t, res.ReceivedAt)
	assert.Equal(t, "caja abierta", res.Notes)

	require.Len(t, stock.requests, 1)
	mv := stock.requests[0]
	assert.Equal(t, "TSH-001", mv.ProductID)
	assert.Equal(t, entity.MovementReturn, mv.MovementType)
	assert.Equal(t, 2, mv.Quantity)
	assert.Equal(t, created.ReturnNumber, mv.ReferenceNumber)
	assert.True(t, mv.AutoProcess)
}

func TestReturnUpdateStatus_FalloDeReingresoNoInterrumpe(t *testing.T) {
	uc, _, _ := newReturnUC(&stockSpy{fail: true}, deliveredOrder("o1"))
	ctx := context.Background()

	created, err := uc.Create(ctx, returnRequest("o1"))
	require.NoError(t, err)
	res, err := uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnReceived})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnReceived, res.Status)
}

func TestReturnUpdateStatus_RefundedSoloPorReembolso(t *testing.T) {
	uc, _, _ := newReturnUC(nil, deliveredOrder("o1"))
	ctx := context.Background()

	created, err := uc.Create(ctx, returnRequest("o1"))
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnRefunded})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReturnRefund(t *testing.T) {
	uc, _, orders := newReturnUC(nil, deliveredOrder("o1"))
	ctx := context.Background()

	created, err := uc.Create(ctx, returnRequest("o1"))
	require.NoError(t, err)

	// pendiente: todavía no se puede reembolsar
	_, err = uc.Refund(ctx, created.ID, dto.RefundRequest{Amount: dec("10")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnApproved})
	require.NoError(t, err)

	_, err = uc.Refund(ctx, created.ID, dto.RefundRequest{Amount: dec("41")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := uc.Refund(ctx, created.ID, dto.RefundRequest{Amount: dec("40")})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnRefunded, res.Status)
	assert.Equal(t, "original_payment", res.RefundMethod)
	assert.Equal(t, "REF-"+fmtUnixMilli(fixedNow), res.RefundID)
	assert.Equal(t, entity.PaymentPartiallyRefunded, orders.byID["o1"].PaymentStatus)

	_, err = uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnRejected})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Refunded)
	assert.True(t, stats.TotalRefundAmount.Equal(dec("40")))
}

func fmtUnixMilli(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func TestReturnUpdateStatus_ReingresaSoloEnLaPrimeraRecepcion(t *testing.T) {
	stock := &stockSpy{}
	uc, _, _ := newReturnUC(stock, deliveredOrder("o1"))
	ctx := context.Background()

	created, err := uc.Create(ctx, returnRequest("o1"))
	require.NoError(t, err)

	first, err := uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnReceived})
	require.NoError(t, err)
	require.NotNil(t, first.ReceivedAt)
	receivedAt := *first.ReceivedAt

	uc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	_, err = uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnPending})
	require.NoError(t, err)
	again, err := uc.UpdateStatus(ctx, created.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnReceived})
	require.NoError(t, err)

	assert.Len(t, stock.requests, len(created.Items))
	assert.Equal(t, receivedAt, *again.ReceivedAt)
}

func TestReturnDelete_SoloPendientes(t *testing.T) {
	uc, returns, _ := newReturnUC(nil, deliveredOrder("o1"))
	ctx := context.Background()

	pending, err := uc.Create(ctx, returnRequest("o1"))
	require.NoError(t, err)
	approved, err := uc.Create(ctx, returnRequest("o1"))
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, approved.ID, "u", dto.UpdateReturnStatusRequest{Status: entity.ReturnApproved})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, pending.ID))
	assert.NotContains(t, returns.byID, pending.ID)

	err = uc.Delete(ctx, approved.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, returns.byID, approved.ID)

	assert.ErrorIs(t, uc.Delete(ctx, pending.ID), domain.ErrNotFound)
}
