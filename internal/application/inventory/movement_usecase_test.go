package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

const (
	mainWarehouseID = "11111111-1111-1111-1111-111111111111"
	backWarehouseID = "22222222-2222-2222-2222-222222222222"
	productID       = "33333333-3333-3333-3333-333333333333"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func seededStore() *store {
	s := newStore()
	s.products.byID[productID] = &entity.Product{ID: productID, Name: "Camiseta", SKU: "TSH-001", CostPrice: decimal.NewFromInt(10)}
	s.warehouses.byID[mainWarehouseID] = &entity.Warehouse{ID: mainWarehouseID, Name: "Principal", IsDefault: true}
	s.warehouses.byID[backWarehouseID] = &entity.Warehouse{ID: backWarehouseID, Name: "Trastienda"}
	return s
}

func newMovementUC(s *store, m *fakeMetrics) *MovementUseCase {
	uc := NewMovementUseCase(s, s.movements, s.products, m, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func stockAt(s *store, locationID string) int {
	it := s.inventory.find(productID, &locationID)
	if it == nil {
		return 0
	}
	return it.QuantityOnHand
}

func TestMovementCreate_EntradaSinDestinoVaALaBodegaPorDefecto(t *testing.T) {
	s := seededStore()
	m := &fakeMetrics{}
	uc := newMovementUC(s, m)

	res, err := uc.Create(context.Background(), "user-1", dto.CreateMovementRequest{
		ProductID: productID, MovementType: entity.MovementIn, Quantity: 10, Reason: "compra", AutoProcess: true,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementCompleted, res.Status)
	assert.Equal(t, entity.DefaultLocationID, res.LocationToID)
	assert.True(t, res.TotalValue.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 10, stockAt(s, mainWarehouseID))
	assert.Equal(t, []recordedMovement{{entity.MovementIn, true}}, m.movements)
}

func TestMovementCreate_CostoPromedioPonderado(t *testing.T) {
	s := seededStore()
	uc := newMovementUC(s, &fakeMetrics{})
	ctx := context.Background()
	twenty := decimal.NewFromInt(20)

	_, err := uc.Create(ctx, "u", dto.CreateMovementRequest{ProductID: productID, MovementType: entity.MovementIn, Quantity: 10, Reason: "compra", AutoProcess: true})
	require.NoError(t, err)
	_, err = uc.Create(ctx, "u", dto.CreateMovementRequest{ProductID: productID, MovementType: entity.MovementIn, Quantity: 10, UnitCost: &twenty, Reason: "compra", AutoProcess: true})
	require.NoError(t, err)

	loc := mainWarehouseID
	item := s.inventory.find(productID, &loc)
	require.NotNil(t, item)
	assert.Equal(t, 20, item.QuantityOnHand)
	assert.True(t, item.AverageCost.Equal(decimal.NewFromInt(15)), "promedio: %s", item.AverageCost)
}

func TestMovementCreate_SalidaSinStockSuficiente(t *testing.T) {
	s := seededStore()
	m := &fakeMetrics{}
	uc := newMovementUC(s, m)
	ctx := context.Background()

	_, err := uc.Create(ctx, "u", dto.CreateMovementRequest{ProductID: productID, MovementType: entity.MovementIn, Quantity: 5, Reason: "compra", AutoProcess: true})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "u", dto.CreateMovementRequest{
		ProductID: productID, MovementType: entity.MovementOut, Quantity: 8, Reason: "venta",
		LocationFromID: mainWarehouseID, AutoProcess: true,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, stockAt(s, mainWarehouseID))
	assert.Len(t, s.movements.byID, 1)
	assert.Equal(t, recordedMovement{entity.MovementOut, false}, m.movements[len(m.movements)-1])
}

func TestMovementCreate_Transferencia(t *testing.T) {
	s := seededStore()
	uc := newMovementUC(s, &fakeMetrics{})
	ctx := context.Background()

	_, err := uc.Create(ctx, "u", dto.CreateMovementRequest{ProductID: productID, MovementType: entity.MovementIn, Quantity: 10, Reason: "compra", AutoProcess: true})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "u", dto.CreateMovementRequest{
		ProductID: productID, MovementType: entity.MovementTransfer, Quantity: 4, Reason: "rebalanceo",
		LocationFromID: mainWarehouseID, LocationToID: backWarehouseID, AutoProcess: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, stockAt(s, mainWarehouseID))
	assert.Equal(t, 4, stockAt(s, backWarehouseID))
}

func TestMovementCreate_Validacion(t *testing.T) {
	uc := newMovementUC(seededStore(), &fakeMetrics{})

	_, err := uc.Create(context.Background(), "u", dto.CreateMovementRequest{
		ProductID: productID, MovementType: entity.MovementTransfer, Quantity: 0,
		LocationFromID: mainWarehouseID, LocationToID: mainWarehouseID,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "quantity debe ser mayor a 0")
	assert.Contains(t, verr.Errors, "reason es requerido")
	assert.Contains(t, verr.Errors, "origen y destino deben ser distintos")
}

func TestMovementProcessYCancel(t *testing.T) {
	s := seededStore()
	uc := newMovementUC(s, &fakeMetrics{})
	ctx := context.Background()

	pending, err := uc.Create(ctx, "u", dto.CreateMovementRequest{ProductID: productID, MovementType: entity.MovementIn, Quantity: 3, Reason: "compra"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementPending, pending.Status)
	assert.Equal(t, 0, stockAt(s, mainWarehouseID))

	done, err := uc.Process(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementCompleted, done.Status)
	require.NotNil(t, done.ProcessedAt)
	assert.Equal(t, 3, stockAt(s, mainWarehouseID))

	_, err = uc.Process(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Cancel(ctx, pending.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other, err := uc.Create(ctx, "u", dto.CreateMovementRequest{ProductID: productID, MovementType: entity.MovementIn, Quantity: 1, Reason: "compra"})
	require.NoError(t, err)
	cancelled, err := uc.Cancel(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementCancelled, cancelled.Status)
	assert.Equal(t, 3, stockAt(s, mainWarehouseID))
}

func TestMovementBulk_OmiteLosQueFallan(t *testing.T) {
	s := seededStore()
	uc := newMovementUC(s, &fakeMetrics{})

	res, err := uc.Bulk(context.Background(), "u", dto.BulkMovementsRequest{Movements: []dto.CreateMovementRequest{
		{ProductID: productID, MovementType: entity.MovementIn, Quantity: 2, Reason: "compra"},
		{ProductID: "no-existe", MovementType: entity.MovementIn, Quantity: 2, Reason: "compra"},
	}})
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestMovementCreate_SalidaNoConsumeReservado(t *testing.T) {
	s := seededStore()
	loc := mainWarehouseID
	s.inventory.byID["item-1"] = &entity.InventoryItem{
		ID: "item-1", ProductID: productID, LocationID: &loc, LocationName: "Principal",
		QuantityOnHand: 10, QuantityReserved: 8, QuantityAvailable: 2,
	}
	uc := newMovementUC(s, &fakeMetrics{})
	ctx := context.Background()

	_, err := uc.Create(ctx, "u", dto.CreateMovementRequest{
		ProductID: productID, MovementType: entity.MovementOut, Quantity: 5, Reason: "venta",
		LocationFromID: mainWarehouseID, AutoProcess: true,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "2 disponibles")
	item := s.inventory.find(productID, &loc)
	assert.Equal(t, 10, item.QuantityOnHand)
	assert.Empty(t, s.movements.byID)

	_, err = uc.Create(ctx, "u", dto.CreateMovementRequest{
		ProductID: productID, MovementType: entity.MovementOut, Quantity: 2, Reason: "venta",
		LocationFromID: mainWarehouseID, AutoProcess: true,
	})
	require.NoError(t, err)
	item = s.inventory.find(productID, &loc)
	assert.Equal(t, 8, item.QuantityOnHand)
	assert.Equal(t, 0, item.QuantityAvailable)
	assert.Equal(t, item.QuantityOnHand-item.Committed(), item.QuantityAvailable)
}

func TestMovementCreate_SalidaRequiereOrigen(t *testing.T) {
	uc := newMovementUC(seededStore(), &fakeMetrics{})

	for _, typ := range []string{entity.MovementOut, entity.MovementDamaged, entity.MovementLost} {
		_, err := uc.Create(context.Background(), "u", dto.CreateMovementRequest{
			ProductID: productID, MovementType: typ, Quantity: 1, Reason: "merma",
		})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, typ)
		assert.Equal(t, []string{typ + " requiere location_from_id"}, verr.Errors)
	}
}

func TestMovementProcess_LecturaDesactualizadaNoAplicaDosVeces(t *testing.T) {
	s := seededStore()
	m := &fakeMetrics{}
	uc := newMovementUC(s, m)
	ctx := context.Background()

	pending, err := uc.Create(ctx, "u", dto.CreateMovementRequest{ProductID: productID, MovementType: entity.MovementIn, Quantity: 3, Reason: "compra"})
	require.NoError(t, err)
	snapshot := *s.movements.byID[pending.ID]

	_, err = uc.Process(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stockAt(s, mainWarehouseID))

	// segundo proceso con la lectura tomada antes del commit del primero
	s.movements.stale = &snapshot
	_, err = uc.Process(ctx, pending.ID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, 3, stockAt(s, mainWarehouseID))
	assert.Equal(t, entity.MovementCompleted, s.movements.byID[pending.ID].Status)
	assert.Equal(t, 2, s.movements.locked)
	assert.Equal(t, recordedMovement{entity.MovementIn, false}, m.movements[len(m.movements)-1])
}

func TestMovementByProduct(t *testing.T) {
	s := seededStore()
	last := fixedNow.Add(-2 * time.Hour)
	s.movements.totals = []repository.MovementProductTotals{
		{ProductID: productID, ProductName: "Camiseta", ProductSKU: "TSH-001", TotalIn: 12, TotalOut: 5, MovementCount: 4, LastMovement: last},
		{ProductID: "p2", ProductName: "Unknown Product", ProductSKU: "N/A", TotalOut: 3, MovementCount: 1, LastMovement: last},
	}
	uc := newMovementUC(s, &fakeMetrics{})

	out, err := uc.ByProduct(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.AddDate(0, 0, -30), s.movements.since)
	assert.Equal(t, []dto.MovementsByProductRow{
		{ProductID: productID, ProductName: "Camiseta", ProductSKU: "TSH-001", TotalIn: 12, TotalOut: 5, NetMovement: 7, MovementCount: 4, LastMovement: last},
		{ProductID: "p2", ProductName: "Unknown Product", ProductSKU: "N/A", TotalOut: 3, NetMovement: -3, MovementCount: 1, LastMovement: last},
	}, out)

	_, err = uc.ByProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), s.movements.since)
}
