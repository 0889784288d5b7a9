package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/inventory"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// AdjustmentUseCase ajustes manuales de stock con flujo de aprobación.
// Aprobar un ajuste fija quantity_after en el ítem de inventario dentro de una transacción.
type AdjustmentUseCase struct {
	tx          repository.TxRunner
	adjustments repository.AdjustmentRepository
	products    repository.ProductRepository
	items       repository.InventoryRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(
	tx repository.TxRunner,
	adjustments repository.AdjustmentRepository,
	products repository.ProductRepository,
	items repository.InventoryRepository,
	log *logger.Logger,
) *AdjustmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdjustmentUseCase{
		tx:          tx,
		adjustments: adjustments,
		products:    products,
		items:       items,
		log:         log.Named("adjustments"),
		now:         time.Now,
	}
}

// Create registra un ajuste pendiente.
func (uc *AdjustmentUseCase) Create(ctx context.Context, userID string, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if msgs := validateAdjustment(in); len(msgs) > 0 {
		return nil, domain.NewValidationError(msgs)
	}
	adj, err := uc.build(ctx, userID, in, "", "")
	if err != nil {
		return nil, err
	}
	if err := uc.adjustments.Create(ctx, adj); err != nil {
		return nil, err
	}
	return toAdjustmentResponse(adj), nil
}

// build arma la entidad; devuelve ErrNotFound si el producto no existe.
func (uc *AdjustmentUseCase) build(ctx context.Context, userID string, in dto.CreateAdjustmentRequest, batchRef, batchNotes string) (*entity.StockAdjustment, error) {
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if userID == "" {
		userID = "system"
	}
	now := uc.now()
	adj := &entity.StockAdjustment{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		InventoryItemID: in.InventoryItemID,
		AdjustmentType:  in.AdjustmentType,
		QuantityBefore:  *in.QuantityBefore,
		QuantityAfter:   *in.QuantityAfter,
		Reason:          strings.TrimSpace(in.Reason),
		Notes:           joinNotes(batchNotes, in.Notes),
		Location:        in.Location,
		LocationID:      in.LocationID,
		ReferenceNumber: in.ReferenceNumber,
		BatchReference:  batchRef,
		CostImpact:      decimal.Zero,
		Status:          entity.AdjustmentPending,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
		ProductName:     product.Name,
		ProductSKU:      product.SKU,
	}
	if adj.Location == "" {
		adj.Location = entity.DefaultLocation
	}
	adj.QuantityChange = adj.QuantityAfter - adj.QuantityBefore

	item, err := uc.matchItem(ctx, adj)
	if err != nil {
		return nil, err
	}
	switch {
	case item != nil:
		adj.InventoryItemID = &item.ID
		adj.CostImpact = decimal.NewFromInt(int64(adj.QuantityChange)).Mul(item.UnitCost)
	case in.CostImpact != nil:
		adj.CostImpact = *in.CostImpact
	}
	return adj, nil
}

// matchItem ítem de inventario al que aplica el ajuste, o nil.
func (uc *AdjustmentUseCase) matchItem(ctx context.Context, adj *entity.StockAdjustment) (*entity.InventoryItem, error) {
	if adj.InventoryItemID != nil && *adj.InventoryItemID != "" {
		return uc.items.GetByID(ctx, *adj.InventoryItemID)
	}
	return uc.items.GetByProductLocation(ctx, adj.ProductID, adj.LocationID)
}

// GetByID obtiene un ajuste.
func (uc *AdjustmentUseCase) GetByID(ctx context.Context, id string) (*dto.AdjustmentResponse, error) {
	adj, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAdjustmentResponse(adj), nil
}

// Update modifica un ajuste no aprobado y recalcula quantity_change.
func (uc *AdjustmentUseCase) Update(ctx context.Context, id string, in dto.UpdateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	adj, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj.Status == entity.AdjustmentApproved {
		return nil, domain.Invalid("no se puede modificar un ajuste aprobado")
	}
	if in.AdjustmentType != nil {
		if !entity.ValidAdjustmentType(*in.AdjustmentType) {
			return nil, domain.Invalid("adjustment_type inválido")
		}
		adj.AdjustmentType = *in.AdjustmentType
	}
	if (in.QuantityBefore != nil && *in.QuantityBefore < 0) || (in.QuantityAfter != nil && *in.QuantityAfter < 0) {
		return nil, domain.Invalid("las cantidades no pueden ser negativas")
	}
	setInt(&adj.QuantityBefore, in.QuantityBefore)
	setInt(&adj.QuantityAfter, in.QuantityAfter)
	setStr(&adj.Reason, in.Reason)
	setStr(&adj.Notes, in.Notes)
	setStr(&adj.Location, in.Location)
	setStr(&adj.ReferenceNumber, in.ReferenceNumber)
	adj.QuantityChange = adj.QuantityAfter - adj.QuantityBefore
	if item, err := uc.matchItem(ctx, adj); err == nil && item != nil {
		adj.CostImpact = decimal.NewFromInt(int64(adj.QuantityChange)).Mul(item.UnitCost)
	}
	adj.UpdatedAt = uc.now()
	if err := uc.adjustments.Update(ctx, adj); err != nil {
		return nil, err
	}
	return toAdjustmentResponse(adj), nil
}

// Delete elimina un ajuste no aprobado.
func (uc *AdjustmentUseCase) Delete(ctx context.Context, id string) error {
	adj, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if adj.Status == entity.AdjustmentApproved {
		return domain.Invalid("no se puede eliminar un ajuste aprobado")
	}
	return uc.adjustments.Delete(ctx, id)
}

// List ajustes de los últimos Days días, más recientes primero.
func (uc *AdjustmentUseCase) List(ctx context.Context, q dto.AdjustmentListQuery) ([]dto.AdjustmentResponse, error) {
	if q.Days <= 0 {
		q.Days = 30
	}
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 100
	}
	since := uc.now().AddDate(0, 0, -q.Days)
	list, err := uc.adjustments.List(ctx, repository.AdjustmentFilter{
		ProductID: q.ProductID,
		Type:      q.Type,
		Reason:    q.Reason,
		Status:    q.Status,
		Location:  q.Location,
		UserID:    q.UserID,
		Search:    strings.TrimSpace(q.Search),
		Since:     &since,
		Limit:     q.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toAdjustmentResponse(a))
	}
	return out, nil
}

// Approve aprueba o rechaza ajustes. Cada aprobación corre en su propia transacción y
// fija el stock del ítem; los que fallan se omiten. Ninguno actualizado = error de validación.
func (uc *AdjustmentUseCase) Approve(ctx context.Context, in dto.ApproveAdjustmentsRequest) ([]dto.AdjustmentResponse, error) {
	if len(in.AdjustmentIDs) == 0 {
		return nil, domain.Invalid("adjustmentIds es requerido")
	}
	if in.Approved == nil {
		return nil, domain.Invalid("approved es requerido")
	}
	approvedBy := in.ApprovedBy
	if approvedBy == "" {
		approvedBy = "system"
	}
	out := make([]dto.AdjustmentResponse, 0, len(in.AdjustmentIDs))
	for _, id := range in.AdjustmentIDs {
		adj, err := uc.decide(ctx, id, *in.Approved, approvedBy, in.ApprovalNotes)
		if err != nil {
			uc.log.Warn().Err(err).Str("adjustment_id", id).Msg("aprobación omitida")
			continue
		}
		out = append(out, *toAdjustmentResponse(adj))
	}
	if len(out) == 0 {
		return nil, domain.Invalid("No adjustments were updated")
	}
	return out, nil
}

func (uc *AdjustmentUseCase) decide(ctx context.Context, id string, approved bool, by, notes string) (*entity.StockAdjustment, error) {
	var out *entity.StockAdjustment
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		adj, err := r.Adjustments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.ErrNotFound
		}
		if adj.Status != entity.AdjustmentPending {
			return fmt.Errorf("%w: el ajuste ya está %s", domain.ErrInvalidTransition, adj.Status)
		}
		now := uc.now()
		adj.Status = entity.AdjustmentRejected
		if approved {
			adj.Status = entity.AdjustmentApproved
			loc, err := uc.adjustmentLocation(ctx, r, adj)
			if err != nil {
				return err
			}
			item, err := setStock(ctx, r.Inventory, adj.ProductID, loc, adj.QuantityAfter, now)
			if err != nil {
				return err
			}
			adj.InventoryItemID = &item.ID
		}
		adj.ApprovedBy = by
		adj.ApprovedAt = &now
		adj.UpdatedAt = now
		if notes != "" {
			adj.Notes = joinNotes(adj.Notes, "Approval Notes: "+notes)
		}
		out = adj
		return r.Adjustments.Update(ctx, adj)
	})
	return out, err
}

// adjustmentLocation ubicación donde aplica el ajuste: ítem vinculado, bodega indicada
// o, para "Main Warehouse", la bodega por defecto.
func (uc *AdjustmentUseCase) adjustmentLocation(ctx context.Context, r repository.TxRepos, adj *entity.StockAdjustment) (location, error) {
	if adj.InventoryItemID != nil {
		item, err := r.Inventory.GetByID(ctx, *adj.InventoryItemID)
		if err != nil {
			return location{}, err
		}
		if item != nil {
			return location{ID: item.LocationID, Name: item.LocationName}, nil
		}
	}
	if adj.LocationID != nil {
		return resolveLocation(ctx, r.Warehouses, *adj.LocationID, adj.Location)
	}
	if adj.Location == "" || adj.Location == entity.DefaultLocation {
		return resolveLocation(ctx, r.Warehouses, "", entity.DefaultLocationName)
	}
	return resolveLocation(ctx, r.Warehouses, adj.Location, adj.Location)
}

// Bulk crea varios ajustes con una referencia de lote común.
// Si ninguno se crea devuelve la respuesta junto con un *domain.ValidationError con el detalle.
func (uc *AdjustmentUseCase) Bulk(ctx context.Context, userID string, in dto.BulkAdjustmentsRequest) (*dto.BulkAdjustmentsResponse, error) {
	if len(in.Adjustments) == 0 {
		return nil, domain.Invalid("adjustments es requerido")
	}
	batch := in.BatchReference
	if batch == "" {
		batch = fmt.Sprintf("BULK-%d", uc.now().UnixMilli())
	}
	res := &dto.BulkAdjustmentsResponse{Created: []dto.AdjustmentResponse{}, Errors: []string{}}
	for i, a := range in.Adjustments {
		prefix := fmt.Sprintf("Adjustment %d: ", i+1)
		if msgs := validateAdjustment(a); len(msgs) > 0 {
			res.Errors = append(res.Errors, prefix+msgs[0])
			continue
		}
		adj, err := uc.build(ctx, userID, a, batch, in.Notes)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				res.Errors = append(res.Errors, prefix+"Product with ID "+a.ProductID+" not found")
			} else {
				res.Errors = append(res.Errors, prefix+err.Error())
			}
			continue
		}
		if err := uc.adjustments.Create(ctx, adj); err != nil {
			res.Errors = append(res.Errors, prefix+err.Error())
			continue
		}
		res.Created = append(res.Created, *toAdjustmentResponse(adj))
	}
	res.Summary = dto.BulkSummary{Total: len(in.Adjustments), Successful: len(res.Created), Failed: len(res.Errors)}
	if len(res.Created) == 0 {
		return res, &domain.ValidationError{Errors: res.Errors}
	}
	return res, nil
}

// Summary contadores globales de ajustes.
func (uc *AdjustmentUseCase) Summary(ctx context.Context) (*dto.AdjustmentSummaryResponse, error) {
	all, err := uc.adjustments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s := inventory.SummarizeAdjustments(all, uc.now())
	return &dto.AdjustmentSummaryResponse{
		Total:           s.Total,
		Pending:         s.Pending,
		Approved:        s.Approved,
		Rejected:        s.Rejected,
		Increases:       s.Increases,
		Decreases:       s.Decreases,
		TotalCostImpact: s.TotalCostImpact.Round(2),
		Today:           s.Today,
		ThisWeek:        s.ThisWeek,
		ThisMonth:       s.ThisMonth,
	}, nil
}

// ByProduct agregados por producto.
func (uc *AdjustmentUseCase) ByProduct(ctx context.Context) ([]dto.AdjustmentsByProductRow, error) {
	all, err := uc.adjustments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := inventory.AdjustmentsByProduct(all)
	out := make([]dto.AdjustmentsByProductRow, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.AdjustmentsByProductRow{
			ProductID:         s.ProductID,
			ProductName:       s.ProductName,
			ProductSKU:        s.ProductSKU,
			TotalAdjustments:  s.TotalAdjustments,
			TotalIncrease:     s.TotalIncrease,
			TotalDecrease:     s.TotalDecrease,
			NetChange:         s.NetChange,
			LastAdjustment:    s.LastAdjustment,
			AvgAdjustmentSize: s.AvgAdjustmentSize,
		})
	}
	return out, nil
}

// ByReason agregados por motivo.
func (uc *AdjustmentUseCase) ByReason(ctx context.Context) ([]dto.AdjustmentsByReasonRow, error) {
	all, err := uc.adjustments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := inventory.AdjustmentsByReason(all)
	out := make([]dto.AdjustmentsByReasonRow, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.AdjustmentsByReasonRow{
			Reason:        s.Reason,
			Count:         s.Count,
			TotalQuantity: s.TotalQuantity,
			Percentage:    s.Percentage,
		})
	}
	return out, nil
}

func (uc *AdjustmentUseCase) get(ctx context.Context, id string) (*entity.StockAdjustment, error) {
	adj, err := uc.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.ErrNotFound
	}
	return adj, nil
}

func validateAdjustment(in dto.CreateAdjustmentRequest) []string {
	var msgs []string
	if strings.TrimSpace(in.ProductID) == "" {
		msgs = append(msgs, "Product ID is required")
	}
	if in.AdjustmentType == "" {
		msgs = append(msgs, "Adjustment type is required")
	} else if !entity.ValidAdjustmentType(in.AdjustmentType) {
		msgs = append(msgs, "Invalid adjustment type: "+in.AdjustmentType)
	}
	if in.QuantityBefore == nil || in.QuantityAfter == nil {
		msgs = append(msgs, "Both quantity_before and quantity_after are required")
	} else if *in.QuantityBefore < 0 || *in.QuantityAfter < 0 {
		msgs = append(msgs, "Quantities cannot be negative")
	}
	if strings.TrimSpace(in.Reason) == "" {
		msgs = append(msgs, "Reason is required")
	}
	return msgs
}

func joinNotes(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n\n" + b
}

func toAdjustmentResponse(a *entity.StockAdjustment) *dto.AdjustmentResponse {
	return &dto.AdjustmentResponse{
		ID:              a.ID,
		ProductID:       a.ProductID,
		ProductName:     a.ProductName,
		ProductSKU:      a.ProductSKU,
		InventoryItemID: a.InventoryItemID,
		AdjustmentType:  a.AdjustmentType,
		QuantityBefore:  a.QuantityBefore,
		QuantityAfter:   a.QuantityAfter,
		QuantityChange:  a.QuantityChange,
		Reason:          a.Reason,
		Notes:           a.Notes,
		Location:        a.Location,
		LocationID:      a.LocationID,
		ReferenceNumber: a.ReferenceNumber,
		BatchReference:  a.BatchReference,
		CostImpact:      a.CostImpact,
		Status:          a.Status,
		CreatedBy:       a.CreatedBy,
		ApprovedBy:      a.ApprovedBy,
		ApprovedAt:      a.ApprovedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
