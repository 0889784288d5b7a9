package inventory

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func newAdjustmentUC(s *store) *AdjustmentUseCase {
	uc := NewAdjustmentUseCase(s, s.adjustments, s.products, s.inventory, nil)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func recountRequest(before, after int) dto.CreateAdjustmentRequest {
	return dto.CreateAdjustmentRequest{
		ProductID:      productID,
		AdjustmentType: entity.AdjustmentRecount,
		QuantityBefore: intPtr(before),
		QuantityAfter:  intPtr(after),
		Reason:         "conteo físico",
	}
}

func TestAdjustmentCreate_CalculaCambioYCosto(t *testing.T) {
	s := seededStore()
	loc := mainWarehouseID
	s.inventory.byID["item-1"] = &entity.InventoryItem{ID: "item-1", ProductID: productID, LocationID: &loc, QuantityOnHand: 10, UnitCost: decimal.NewFromInt(4)}
	uc := newAdjustmentUC(s)

	req := recountRequest(10, 7)
	req.LocationID = &loc
	res, err := uc.Create(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.Equal(t, -3, res.QuantityChange)
	assert.Equal(t, entity.AdjustmentPending, res.Status)
	assert.True(t, res.CostImpact.Equal(decimal.NewFromInt(-12)), "cost impact: %s", res.CostImpact)
	require.NotNil(t, res.InventoryItemID)
	assert.Equal(t, "item-1", *res.InventoryItemID)
	assert.Equal(t, entity.DefaultLocation, res.Location)
}

func TestAdjustmentCreate_Validacion(t *testing.T) {
	uc := newAdjustmentUC(seededStore())

	_, err := uc.Create(context.Background(), "u", dto.CreateAdjustmentRequest{ProductID: productID, AdjustmentType: "magia"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"Invalid adjustment type: magia",
		"Both quantity_before and quantity_after are required",
		"Reason is required",
	}, verr.Errors)
}

func TestAdjustmentApprove_FijaElStock(t *testing.T) {
	s := seededStore()
	uc := newAdjustmentUC(s)
	ctx := context.Background()

	created, err := uc.Create(ctx, "u", recountRequest(0, 25))
	require.NoError(t, err)

	res, err := uc.Approve(ctx, dto.ApproveAdjustmentsRequest{
		AdjustmentIDs: []string{created.ID},
		Approved:      boolPtr(true),
		ApprovedBy:    "supervisor",
		ApprovalNotes: "ok",
	})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, entity.AdjustmentApproved, res[0].Status)
	assert.Equal(t, "supervisor", res[0].ApprovedBy)
	assert.Contains(t, res[0].Notes, "Approval Notes: ok")
	assert.Equal(t, 25, stockAt(s, mainWarehouseID))

	// un ajuste ya aprobado no se puede decidir otra vez ni eliminar
	_, err = uc.Approve(ctx, dto.ApproveAdjustmentsRequest{AdjustmentIDs: []string{created.ID}, Approved: boolPtr(false)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrInvalidInput)
}

func TestAdjustmentApprove_RechazoNoTocaStock(t *testing.T) {
	s := seededStore()
	uc := newAdjustmentUC(s)
	ctx := context.Background()

	created, err := uc.Create(ctx, "u", recountRequest(0, 9))
	require.NoError(t, err)

	res, err := uc.Approve(ctx, dto.ApproveAdjustmentsRequest{AdjustmentIDs: []string{created.ID}, Approved: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, entity.AdjustmentRejected, res[0].Status)
	assert.Equal(t, "system", res[0].ApprovedBy)
	assert.Equal(t, 0, stockAt(s, mainWarehouseID))
}

func TestAdjustmentBulk(t *testing.T) {
	s := seededStore()
	uc := newAdjustmentUC(s)
	ctx := context.Background()

	missing := recountRequest(1, 2)
	missing.ProductID = "44444444-4444-4444-4444-444444444444"
	res, err := uc.Bulk(ctx, "u", dto.BulkAdjustmentsRequest{
		Adjustments: []dto.CreateAdjustmentRequest{recountRequest(1, 3), missing, {ProductID: productID}},
		Notes:       "inventario anual",
	})
	require.NoError(t, err)
	assert.Equal(t, dto.BulkSummary{Total: 3, Successful: 1, Failed: 2}, res.Summary)
	assert.Equal(t, "Adjustment 2: Product with ID "+missing.ProductID+" not found", res.Errors[0])
	assert.Equal(t, "Adjustment 3: Adjustment type is required", res.Errors[1])
	assert.Equal(t, "BULK-"+fmtMillis(fixedNow), res.Created[0].BatchReference)
	assert.Contains(t, res.Created[0].Notes, "inventario anual")

	res, err = uc.Bulk(ctx, "u", dto.BulkAdjustmentsRequest{Adjustments: []dto.CreateAdjustmentRequest{missing}})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 1)
	assert.Empty(t, res.Created)
}

func fmtMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func TestAdjustmentApprove_ConteoBajoLoComprometido(t *testing.T) {
	s := seededStore()
	loc := mainWarehouseID
	s.inventory.byID["item-1"] = &entity.InventoryItem{
		ID: "item-1", ProductID: productID, LocationID: &loc, LocationName: "Principal",
		QuantityOnHand: 10, QuantityReserved: 4, QuantityAllocated: 2, QuantityAvailable: 4,
	}
	uc := newAdjustmentUC(s)
	ctx := context.Background()

	req := recountRequest(10, 5)
	req.LocationID = &loc
	created, err := uc.Create(ctx, "u", req)
	require.NoError(t, err)

	_, err = uc.Approve(ctx, dto.ApproveAdjustmentsRequest{AdjustmentIDs: []string{created.ID}, Approved: boolPtr(true)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, stockAt(s, mainWarehouseID))
	assert.Equal(t, entity.AdjustmentPending, s.adjustments.byID[created.ID].Status)
}
