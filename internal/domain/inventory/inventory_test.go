package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/inventory"
)

func intPtr(n int) *int { return &n }

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// 10 u a 5.00 + 10 u a 7.00 = 6.00
	got := inventory.CostCalculator(10, decimal.NewFromInt(5), 10, decimal.NewFromInt(7))
	assert.True(t, got.Equal(decimal.NewFromInt(6)), "got %s", got)
}

func TestCostCalculator_SinStockPrevioUsaCostoEntrada(t *testing.T) {
	got := inventory.CostCalculator(0, decimal.Zero, 4, decimal.RequireFromString("2.50"))
	assert.True(t, got.Equal(decimal.RequireFromString("2.5")))
}

func TestCostCalculator_StockNegativoSeTrataComoCero(t *testing.T) {
	got := inventory.CostCalculator(-3, decimal.NewFromInt(100), 2, decimal.NewFromInt(8))
	assert.True(t, got.Equal(decimal.NewFromInt(8)))
}

func TestSuggestLevels(t *testing.T) {
	cases := []struct {
		onHand, wantMin, wantMax int
	}{
		{0, 10, 100},
		{40, 10, 100},
		{100, 20, 200},
		{57, 11, 114},
	}
	for _, tc := range cases {
		minL, maxL := inventory.SuggestLevels(tc.onHand, inventory.DefaultMinLevel, inventory.DefaultMaxLevel)
		assert.Equal(t, tc.wantMin, minL, "min para %d", tc.onHand)
		assert.Equal(t, tc.wantMax, maxL, "max para %d", tc.onHand)
	}
}

func TestSyncedUnitCost(t *testing.T) {
	t.Run("usa cost_price si es positivo", func(t *testing.T) {
		item := &entity.InventoryItem{UnitCost: decimal.NewFromInt(3), ProductCostPrice: decimal.NewFromInt(4)}
		cost, ok := inventory.SyncedUnitCost(item)
		require.True(t, ok)
		assert.True(t, cost.Equal(decimal.NewFromInt(4)))
	})
	t.Run("usa selling_price solo sin costo previo", func(t *testing.T) {
		item := &entity.InventoryItem{ProductSellingPrice: decimal.NewFromInt(9)}
		cost, ok := inventory.SyncedUnitCost(item)
		require.True(t, ok)
		assert.True(t, cost.Equal(decimal.NewFromInt(9)))

		item.UnitCost = decimal.NewFromInt(2)
		_, ok = inventory.SyncedUnitCost(item)
		assert.False(t, ok)
	})
	t.Run("sin cambio", func(t *testing.T) {
		item := &entity.InventoryItem{UnitCost: decimal.NewFromInt(4), ProductCostPrice: decimal.NewFromInt(4)}
		_, ok := inventory.SyncedUnitCost(item)
		assert.False(t, ok)
	})
}

func TestReorder(t *testing.T) {
	item := &entity.InventoryItem{QuantityOnHand: 5, ReorderPoint: 8, ReorderQuantity: 20, MaxStockLevel: intPtr(50)}
	assert.True(t, inventory.NeedsReorder(item))
	assert.Equal(t, 45, inventory.SuggestedReorderQuantity(item))

	item.MaxStockLevel = intPtr(10)
	assert.Equal(t, 20, inventory.SuggestedReorderQuantity(item))

	// sin reorder_point usa el mínimo
	item = &entity.InventoryItem{QuantityOnHand: 12, MinStockLevel: 10}
	assert.False(t, inventory.NeedsReorder(item))
	item.QuantityOnHand = 10
	assert.True(t, inventory.NeedsReorder(item))
	assert.Equal(t, 1, inventory.SuggestedReorderQuantity(item))
}

func TestMovementLabel(t *testing.T) {
	assert.Equal(t, "Stock In (+5)", inventory.MovementLabel(entity.MovementIn, 5))
	assert.Equal(t, "Stock Out (-3)", inventory.MovementLabel(entity.MovementOut, 3))
	assert.Equal(t, "Adjustment (+2)", inventory.MovementLabel(entity.MovementAdjustment, 2))
	assert.Equal(t, "Transfer", inventory.MovementLabel(entity.MovementTransfer, 9))
	assert.Equal(t, "Return (+1)", inventory.MovementLabel(entity.MovementReturn, 1))
	assert.Equal(t, "Damaged (-4)", inventory.MovementLabel(entity.MovementDamaged, 4))
	assert.Equal(t, "Lost (-6)", inventory.MovementLabel(entity.MovementLost, 6))
	assert.Equal(t, "Stock Change", inventory.MovementLabel("otro", 1))
	assert.Equal(t, "Adjustment (-7)", inventory.AdjustmentLabel(-7))
}

func TestWindowsAt_SemanaIniciaDomingo(t *testing.T) {
	// miércoles 14 de octubre de 2026
	now := time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)
	w := inventory.WindowsAt(now)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), w.Today)
	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), w.WeekStart)
	assert.Equal(t, time.Weekday(0), w.WeekStart.Weekday())
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), w.MonthStart)
}

func TestSummarizeAdjustments(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	list := []*entity.StockAdjustment{
		{Status: entity.AdjustmentPending, QuantityChange: 5, CostImpact: decimal.NewFromInt(10), CreatedAt: now.Add(-time.Hour)},
		{Status: entity.AdjustmentApproved, QuantityChange: -2, CostImpact: decimal.NewFromInt(-4), CreatedAt: now.AddDate(0, 0, -2)},
		{Status: entity.AdjustmentRejected, QuantityChange: 0, CostImpact: decimal.Zero, CreatedAt: now.AddDate(0, -1, 0)},
	}
	s := inventory.SummarizeAdjustments(list, now)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Approved)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 1, s.Increases)
	assert.Equal(t, 1, s.Decreases)
	assert.True(t, s.TotalCostImpact.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 1, s.Today)
	assert.Equal(t, 2, s.ThisWeek)
	assert.Equal(t, 2, s.ThisMonth)
}

func TestAdjustmentsByProductYByReason(t *testing.T) {
	t0 := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	list := []*entity.StockAdjustment{
		{ProductID: "a", Reason: "conteo", QuantityChange: 4, CreatedAt: t0},
		{ProductID: "b", Reason: "daño", QuantityChange: -3, CreatedAt: t0},
		{ProductID: "b", Reason: "daño", QuantityChange: -1, CreatedAt: t0.Add(time.Hour)},
		{ProductID: "b", Reason: "conteo", QuantityChange: 2, CreatedAt: t0.Add(-time.Hour)},
	}
	byProduct := inventory.AdjustmentsByProduct(list)
	require.Len(t, byProduct, 2)
	assert.Equal(t, "b", byProduct[0].ProductID)
	assert.Equal(t, 3, byProduct[0].TotalAdjustments)
	assert.Equal(t, 2, byProduct[0].TotalIncrease)
	assert.Equal(t, 4, byProduct[0].TotalDecrease)
	assert.Equal(t, -2, byProduct[0].NetChange)
	assert.Equal(t, t0.Add(time.Hour), byProduct[0].LastAdjustment)
	assert.True(t, byProduct[0].AvgAdjustmentSize.Equal(decimal.RequireFromString("0.67")))

	byReason := inventory.AdjustmentsByReason(list)
	require.Len(t, byReason, 2)
	assert.Equal(t, 2, byReason[0].Count)
	assert.True(t, byReason[0].Percentage.Equal(decimal.NewFromInt(50)))
	var dano inventory.ReasonStats
	for _, r := range byReason {
		if r.Reason == "daño" {
			dano = r
		}
	}
	assert.Equal(t, 4, dano.TotalQuantity)
}

func TestSummarizeMovements(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	list := []*entity.StockMovement{
		{MovementType: entity.MovementIn, Quantity: 10, UnitCost: decimal.NewFromInt(2), CreatedAt: now},
		{MovementType: entity.MovementOut, Quantity: 3, UnitCost: decimal.NewFromInt(2), CreatedAt: now.AddDate(0, 0, -5)},
		{MovementType: entity.MovementReturn, Quantity: 1, UnitCost: decimal.Zero, CreatedAt: now.AddDate(0, 0, -20)},
	}
	s := inventory.SummarizeMovements(list, now)
	assert.Equal(t, 3, s.TotalMovements)
	assert.Equal(t, 10, s.TotalStockIn)
	assert.Equal(t, 3, s.TotalStockOut)
	assert.True(t, s.TotalValue.Equal(decimal.NewFromInt(26)))
	assert.Equal(t, 1, s.Today)
	assert.Equal(t, 1, s.ThisWeek)
	assert.Equal(t, 2, s.ThisMonth)
}
