package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

// Fakes en memoria. Embeben la interfaz para cubrir los métodos que los tests no usan.

type fakeProducts struct {
	repository.ProductRepository
	byID map[string]*entity.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return f.byID[id], nil
}

type fakeWarehouses struct {
	repository.WarehouseRepository
	byID map[string]*entity.Warehouse
}

func (f *fakeWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return f.byID[id], nil
}

func (f *fakeWarehouses) GetDefault(context.Context) (*entity.Warehouse, error) {
	for _, w := range f.byID {
		if w.IsDefault {
			return w, nil
		}
	}
	return nil, nil
}

type fakeInventory struct {
	repository.InventoryRepository
	byID map[string]*entity.InventoryItem
}

func itemKey(productID string, locationID *string) string {
	if locationID == nil {
		return productID + "|"
	}
	return productID + "|" + *locationID
}

func (f *fakeInventory) find(productID string, locationID *string) *entity.InventoryItem {
	for _, it := range f.byID {
		if itemKey(it.ProductID, it.LocationID) == itemKey(productID, locationID) {
			return it
		}
	}
	return nil
}

func (f *fakeInventory) Create(_ context.Context, item *entity.InventoryItem) error {
	f.byID[item.ID] = item
	return nil
}

func (f *fakeInventory) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	return f.byID[id], nil
}

func (f *fakeInventory) GetByProductLocation(_ context.Context, productID string, locationID *string) (*entity.InventoryItem, error) {
	return f.find(productID, locationID), nil
}

func (f *fakeInventory) GetForUpdate(_ context.Context, productID string, locationID *string) (*entity.InventoryItem, error) {
	return f.find(productID, locationID), nil
}

func (f *fakeInventory) Update(_ context.Context, item *entity.InventoryItem) error {
	f.byID[item.ID] = item
	return nil
}

func (f *fakeInventory) ListAll(context.Context) ([]*entity.InventoryItem, error) {
	out := make([]*entity.InventoryItem, 0, len(f.byID))
	for _, it := range f.byID {
		out = append(out, it)
	}
	return out, nil
}

// fakeMovements guarda copias para que los cambios solo se vean tras UpdateStatus.
// stale simula una lectura tomada antes de que otro proceso confirmara el movimiento.
type fakeMovements struct {
	repository.MovementRepository
	byID   map[string]*entity.StockMovement
	stale  *entity.StockMovement
	locked int
	totals []repository.MovementProductTotals
	since  time.Time
}

func (f *fakeMovements) TotalsByProductSince(_ context.Context, since time.Time) ([]repository.MovementProductTotals, error) {
	f.since = since
	return f.totals, nil
}

func (f *fakeMovements) Create(_ context.Context, m *entity.StockMovement) error {
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMovements) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMovements) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	f.locked++
	if f.stale != nil && f.stale.ID == id {
		cp := *f.stale
		return &cp, nil
	}
	return f.GetByID(ctx, id)
}

func (f *fakeMovements) UpdateStatus(_ context.Context, m *entity.StockMovement) error {
	cur, ok := f.byID[m.ID]
	if !ok || cur.Status != entity.MovementPending {
		return domain.ErrInvalidTransition
	}
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

type fakeAdjustments struct {
	repository.AdjustmentRepository
	byID map[string]*entity.StockAdjustment
}

func (f *fakeAdjustments) Create(_ context.Context, a *entity.StockAdjustment) error {
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAdjustments) GetByID(_ context.Context, id string) (*entity.StockAdjustment, error) {
	return f.byID[id], nil
}

func (f *fakeAdjustments) Update(_ context.Context, a *entity.StockAdjustment) error {
	f.byID[a.ID] = a
	return nil
}

type fakeAlerts struct {
	repository.AlertRepository
	byID map[string]*entity.LowStockAlert
}

func (f *fakeAlerts) Create(_ context.Context, a *entity.LowStockAlert) error {
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAlerts) List(_ context.Context, status string) ([]*entity.LowStockAlert, error) {
	var out []*entity.LowStockAlert
	for _, a := range f.byID {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAlerts) Resolve(_ context.Context, id string, at time.Time) error {
	if a, ok := f.byID[id]; ok {
		a.Status = entity.AlertStatusResolved
		a.ResolvedAt = &at
	}
	return nil
}

// store agrupa los fakes; Run ejecuta el callback sobre los mismos repos y, si falla,
// restaura inventario, movimientos y ajustes como un Rollback.
type store struct {
	products    *fakeProducts
	warehouses  *fakeWarehouses
	inventory   *fakeInventory
	movements   *fakeMovements
	adjustments *fakeAdjustments
}

func newStore() *store {
	return &store{
		products:    &fakeProducts{byID: map[string]*entity.Product{}},
		warehouses:  &fakeWarehouses{byID: map[string]*entity.Warehouse{}},
		inventory:   &fakeInventory{byID: map[string]*entity.InventoryItem{}},
		movements:   &fakeMovements{byID: map[string]*entity.StockMovement{}},
		adjustments: &fakeAdjustments{byID: map[string]*entity.StockAdjustment{}},
	}
}

func (s *store) Run(_ context.Context, fn func(repos repository.TxRepos) error) error {
	items := cloneMap(s.inventory.byID)
	movs := cloneMap(s.movements.byID)
	adjs := cloneMap(s.adjustments.byID)
	err := fn(repository.TxRepos{
		Products:    s.products,
		Warehouses:  s.warehouses,
		Inventory:   s.inventory,
		Adjustments: s.adjustments,
		Movements:   s.movements,
	})
	if err != nil {
		s.inventory.byID = items
		s.movements.byID = movs
		s.adjustments.byID = adjs
	}
	return err
}

func cloneMap[T any](in map[string]*T) map[string]*T {
	out := make(map[string]*T, len(in))
	for k, v := range in {
		cp := *v
		out[k] = &cp
	}
	return out
}

type recordedMovement struct {
	movementType string
	ok           bool
}

type fakeMetrics struct {
	movements []recordedMovement
}

func (m *fakeMetrics) RecordMovement(t string, ok bool) {
	m.movements = append(m.movements, recordedMovement{t, ok})
}
func (m *fakeMetrics) RecordOrderCreated()                      {}
func (m *fakeMetrics) RecordJobRun(string, time.Duration, bool) {}
