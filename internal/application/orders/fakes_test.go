package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/order"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var fixedNow = time.Date(2024, 6, 3, 15, 30, 0, 0, time.UTC)

type fakeProducts struct {
	repository.ProductRepository
	byID map[string]*entity.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return f.byID[id], nil
}

type fakeOrders struct {
	repository.OrderRepository
	byID         map[string]*entity.Order
	itemsStatus  map[string]string
	updateCalled int
}

func newFakeOrders(list ...*entity.Order) *fakeOrders {
	f := &fakeOrders{byID: map[string]*entity.Order{}, itemsStatus: map[string]string{}}
	for _, o := range list {
		f.byID[o.ID] = o
	}
	return f
}

func (f *fakeOrders) Create(_ context.Context, o *entity.Order) error {
	f.byID[o.ID] = o
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id string) (*entity.Order, error) {
	return f.byID[id], nil
}

func (f *fakeOrders) GetByTrackingNumber(_ context.Context, trackingNumber string) (*entity.Order, error) {
	for _, o := range f.byID {
		if o.TrackingNumber == trackingNumber {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrders) Update(_ context.Context, o *entity.Order) error {
	f.updateCalled++
	f.byID[o.ID] = o
	return nil
}

func (f *fakeOrders) UpdateItemsStatus(_ context.Context, orderID, status string) error {
	f.itemsStatus[orderID] = status
	return nil
}

func (f *fakeOrders) ListBetween(_ context.Context, _, _ *time.Time) ([]*entity.Order, error) {
	out := make([]*entity.Order, 0, len(f.byID))
	for _, o := range f.byID {
		out = append(out, o)
	}
	return out, nil
}

// txOrders ejecuta el callback sobre el mismo fake; fail simula un rollback.
type txOrders struct {
	orders *fakeOrders
	fail   error
}

func (t *txOrders) Run(_ context.Context, fn func(repository.TxRepos) error) error {
	if t.fail != nil {
		return t.fail
	}
	return fn(repository.TxRepos{Orders: t.orders})
}

type fakeFulfillments struct {
	created []*entity.OrderFulfillment
	err     error
}

func (f *fakeFulfillments) Create(_ context.Context, ff *entity.OrderFulfillment) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, ff)
	return nil
}

func (f *fakeFulfillments) ListByOrder(_ context.Context, orderID string) ([]*entity.OrderFulfillment, error) {
	var out []*entity.OrderFulfillment
	for _, ff := range f.created {
		if ff.OrderID == orderID {
			out = append(out, ff)
		}
	}
	return out, nil
}

type fakeTracking struct {
	events []*entity.TrackingEvent
}

func (f *fakeTracking) Create(_ context.Context, ev *entity.TrackingEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeTracking) ListByOrder(_ context.Context, orderID string) ([]*entity.TrackingEvent, error) {
	var out []*entity.TrackingEvent
	for _, ev := range f.events {
		if ev.OrderID == orderID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeReturns struct {
	repository.ReturnRepository
	byID map[string]*entity.ReturnRequest
}

func (f *fakeReturns) Create(_ context.Context, r *entity.ReturnRequest) error {
	f.byID[r.ID] = r
	return nil
}

func (f *fakeReturns) GetByID(_ context.Context, id string) (*entity.ReturnRequest, error) {
	return f.byID[id], nil
}

func (f *fakeReturns) Update(_ context.Context, r *entity.ReturnRequest) error {
	f.byID[r.ID] = r
	return nil
}

func (f *fakeReturns) DeletePending(_ context.Context, id string) (bool, error) {
	r, ok := f.byID[id]
	if !ok || r.Status != entity.ReturnPending {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeReturns) ListAll(context.Context) ([]*entity.ReturnRequest, error) {
	out := make([]*entity.ReturnRequest, 0, len(f.byID))
	for _, r := range f.byID {
		out = append(out, r)
	}
	return out, nil
}

type fakeDocs struct {
	label order.ShippingLabel
}

func (d *fakeDocs) GenerateShippingLabel(_ context.Context, l order.ShippingLabel) ([]byte, error) {
	d.label = l
	return []byte("%PDF-label"), nil
}

func (d *fakeDocs) GeneratePackingSlip(context.Context, *entity.Order, order.Party) ([]byte, error) {
	return []byte("%PDF-slip"), nil
}

// stockSpy registra los movimientos pedidos por el flujo de devoluciones.
type stockSpy struct {
	requests []dto.CreateMovementRequest
	fail     bool
}

func (s *stockSpy) Create(_ context.Context, _ string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if s.fail {
		return nil, errors.New("inventario no disponible")
	}
	s.requests = append(s.requests, in)
	return &dto.MovementResponse{}, nil
}

type countingMetrics struct {
	ordersCreated int
}

func (m *countingMetrics) RecordMovement(string, bool)              {}
func (m *countingMetrics) RecordOrderCreated()                      { m.ordersCreated++ }
func (m *countingMetrics) RecordJobRun(string, time.Duration, bool) {}
