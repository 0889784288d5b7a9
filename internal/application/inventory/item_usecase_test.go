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
)

func newItemUC(s *store) *ItemUseCase {
	uc := NewItemUseCase(s.inventory, s.products, s.warehouses, s.movements, s.adjustments)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func seedItem(s *store, id string, onHand, minLevel int, maxLevel *int) *entity.InventoryItem {
	loc := mainWarehouseID
	it := &entity.InventoryItem{
		ID:             id,
		ProductID:      productID + "-" + id,
		LocationID:     &loc,
		QuantityOnHand: onHand,
		MinStockLevel:  minLevel,
		MaxStockLevel:  maxLevel,
		Status:         entity.InventoryStatusActive,
	}
	it.Recalculate()
	s.inventory.byID[id] = it
	return it
}

func TestItemCreate_HeredaCostoYUbicacion(t *testing.T) {
	s := seededStore()
	uc := newItemUC(s)
	loc := mainWarehouseID

	res, err := uc.Create(context.Background(), dto.CreateInventoryItemRequest{
		ProductID:        productID,
		LocationID:       &loc,
		QuantityOnHand:   12,
		QuantityReserved: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Principal", res.LocationName)
	assert.Equal(t, 10, res.QuantityAvailable)
	assert.True(t, res.UnitCost.Equal(decimal.NewFromInt(10)))
	assert.True(t, res.TotalCost.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, entity.InventoryStatusActive, res.Status)
	assert.True(t, res.IsTracked)
	assert.Equal(t, "TSH-001", res.ProductSKU)

	other := "no-existe"
	_, err = uc.Create(context.Background(), dto.CreateInventoryItemRequest{ProductID: productID, LocationID: &other})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(context.Background(), dto.CreateInventoryItemRequest{ProductID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemCreateYUpdate_RechazaComprometidoMayorAlStock(t *testing.T) {
	s := seededStore()
	uc := newItemUC(s)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateInventoryItemRequest{ProductID: productID, QuantityOnHand: 3, QuantityReserved: 2, QuantityAllocated: 2})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), errOverCommitted)
	assert.Empty(t, s.inventory.byID)

	created, err := uc.Create(ctx, dto.CreateInventoryItemRequest{ProductID: productID, QuantityOnHand: 10, QuantityReserved: 4})
	require.NoError(t, err)

	_, err = uc.Update(ctx, created.ID, dto.UpdateInventoryItemRequest{QuantityOnHand: intPtr(3)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := uc.Update(ctx, created.ID, dto.UpdateInventoryItemRequest{QuantityOnHand: intPtr(4)})
	require.NoError(t, err)
	assert.Zero(t, res.QuantityAvailable)
}

func TestItemSetStockLevels(t *testing.T) {
	hundred, fifty := 100, 50
	tests := []struct {
		name        string
		in          dto.SetStockLevelsRequest
		wantUpdated int
		wantMin     map[string]int
		wantMax     map[string]int
	}{
		{
			name:        "solo ítems sin niveles",
			in:          dto.SetStockLevelsRequest{},
			wantUpdated: 2,
			// sin-niveles: 200 en mano -> min 40, max 400; pocos: 5 en mano -> defaults
			wantMin: map[string]int{"sin-niveles": 40, "pocos": 10, "configurado": 7},
			wantMax: map[string]int{"sin-niveles": 400, "pocos": 100, "configurado": 50},
		},
		{
			name:        "todos con defaults propios",
			in:          dto.SetStockLevelsRequest{DefaultMinLevel: intPtr(15), DefaultMaxLevel: intPtr(150), UpdateOnlyZero: boolPtr(false)},
			wantUpdated: 3,
			wantMin:     map[string]int{"sin-niveles": 40, "pocos": 15, "configurado": 15},
			wantMax:     map[string]int{"sin-niveles": 400, "pocos": 150, "configurado": 150},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore()
			seedItem(s, "sin-niveles", 200, 0, nil)
			seedItem(s, "pocos", 5, 0, &hundred)
			seedItem(s, "configurado", 30, 7, &fifty)
			uc := newItemUC(s)

			res, err := uc.SetStockLevels(context.Background(), tt.in)
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, 3, res.TotalProcessed)
			assert.Equal(t, tt.wantUpdated, res.Updated)
			for id, want := range tt.wantMin {
				it := s.inventory.byID[id]
				assert.Equal(t, want, it.MinStockLevel, id)
				require.NotNil(t, it.MaxStockLevel, id)
				assert.Equal(t, tt.wantMax[id], *it.MaxStockLevel, id)
			}
		})
	}

	uc := newItemUC(seededStore())
	_, err := uc.SetStockLevels(context.Background(), dto.SetStockLevelsRequest{DefaultMinLevel: intPtr(20), DefaultMaxLevel: intPtr(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemSyncCosts(t *testing.T) {
	s := seededStore()
	conCosto := seedItem(s, "con-costo", 4, 0, nil)
	conCosto.UnitCost = decimal.NewFromInt(8)
	conCosto.AverageCost = decimal.NewFromInt(8)
	conCosto.ProductCostPrice = decimal.NewFromInt(12)

	sinCosto := seedItem(s, "sin-costo", 2, 0, nil)
	sinCosto.ProductSellingPrice = decimal.NewFromInt(30)

	alDia := seedItem(s, "al-dia", 1, 0, nil)
	alDia.UnitCost = decimal.NewFromInt(5)
	alDia.ProductCostPrice = decimal.NewFromInt(5)

	uc := newItemUC(s)
	ctx := context.Background()

	report, err := uc.SyncCostsReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalItems)
	assert.Equal(t, 2, report.ItemsNeedingSync)
	assert.Equal(t, 1, report.ItemsWithZeroCost)
	assert.True(t, report.SyncRecommended)

	res, err := uc.SyncCosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalProcessed)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, "Successfully synced costs for 2 inventory items", res.Message)

	assert.True(t, conCosto.UnitCost.Equal(decimal.NewFromInt(12)))
	assert.True(t, conCosto.AverageCost.Equal(decimal.NewFromInt(8)), "el promedio existente se conserva")
	assert.True(t, conCosto.TotalCost.Equal(decimal.NewFromInt(48)))
	assert.Equal(t, fixedNow, conCosto.UpdatedAt)

	assert.True(t, sinCosto.UnitCost.Equal(decimal.NewFromInt(30)))
	assert.True(t, sinCosto.AverageCost.Equal(decimal.NewFromInt(30)))

	assert.True(t, alDia.UnitCost.Equal(decimal.NewFromInt(5)))
	assert.True(t, alDia.UpdatedAt.IsZero())

	again, err := uc.SyncCosts(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Updated)
}
