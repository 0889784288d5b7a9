package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

func TestAlertScan_AbreYResuelve(t *testing.T) {
	items := &fakeInventory{byID: map[string]*entity.InventoryItem{
		"bajo":       {ID: "bajo", ProductID: "p1", QuantityOnHand: 2, MinStockLevel: 5, Status: entity.InventoryStatusActive},
		"ok":         {ID: "ok", ProductID: "p2", QuantityOnHand: 50, MinStockLevel: 5, Status: entity.InventoryStatusActive},
		"inactivo":   {ID: "inactivo", ProductID: "p3", QuantityOnHand: 0, MinStockLevel: 5, Status: entity.InventoryStatusInactive},
		"recuperado": {ID: "recuperado", ProductID: "p4", QuantityOnHand: 30, MinStockLevel: 10, Status: entity.InventoryStatusActive},
	}}
	alerts := &fakeAlerts{byID: map[string]*entity.LowStockAlert{
		"a-old": {ID: "a-old", InventoryItemID: "recuperado", ProductID: "p4", Status: entity.AlertStatusActive},
	}}
	uc := NewAlertUseCase(alerts, items, nil)
	uc.now = func() time.Time { return fixedNow }

	res, err := uc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Opened)
	assert.Equal(t, 1, res.Resolved)

	assert.Equal(t, entity.AlertStatusResolved, alerts.byID["a-old"].Status)
	active, _ := alerts.List(context.Background(), entity.AlertStatusActive)
	require.Len(t, active, 1)
	assert.Equal(t, "bajo", active[0].InventoryItemID)
	assert.Equal(t, 5, active[0].Threshold)

	// una segunda pasada no duplica la alerta abierta
	res, err = uc.Scan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Opened)
	assert.Zero(t, res.Resolved)
}

func TestReorderSuggestions_OrdenPorDeficit(t *testing.T) {
	maxLevel := 40
	loc := mainWarehouseID
	items := &fakeInventory{byID: map[string]*entity.InventoryItem{
		"a": {ID: "a", ProductID: "p1", LocationID: &loc, QuantityOnHand: 8, ReorderPoint: 10, ReorderQuantity: 5, UnitCost: decimal.NewFromInt(2), Status: entity.InventoryStatusActive},
		"b": {ID: "b", ProductID: "p2", QuantityOnHand: 1, MinStockLevel: 6, MaxStockLevel: &maxLevel, ProductCostPrice: decimal.NewFromInt(3), Status: entity.InventoryStatusActive},
		"c": {ID: "c", ProductID: "p3", QuantityOnHand: 100, ReorderPoint: 10, Status: entity.InventoryStatusActive},
	}}
	uc := NewReorderUseCase(items)

	out, err := uc.Suggestions(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "b", out[0].InventoryItemID)
	assert.Equal(t, 1, out[0].Priority)
	assert.Equal(t, 5, out[0].Deficit)
	assert.Equal(t, 39, out[0].SuggestedQuantity)
	assert.True(t, out[0].EstimatedCost.Equal(decimal.NewFromInt(117)))

	assert.Equal(t, "a", out[1].InventoryItemID)
	assert.Equal(t, 2, out[1].Deficit)
	assert.Equal(t, 5, out[1].SuggestedQuantity)

	byLocation, err := uc.Suggestions(context.Background(), mainWarehouseID)
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "a", byLocation[0].InventoryItemID)
}
