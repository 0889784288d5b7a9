package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/inventory"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// MovementUseCase registra movimientos de stock y los aplica al inventario de forma transaccional
// (SELECT FOR UPDATE sobre los ítems afectados, Commit/Rollback vía TxRunner).
type MovementUseCase struct {
	tx        repository.TxRunner
	movements repository.MovementRepository
	products  repository.ProductRepository
	metrics   ports.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	tx repository.TxRunner,
	movements repository.MovementRepository,
	products repository.ProductRepository,
	metrics ports.Metrics,
	log *logger.Logger,
) *MovementUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MovementUseCase{
		tx:        tx,
		movements: movements,
		products:  products,
		metrics:   metrics,
		log:       log.Named("movements"),
		now:       time.Now,
	}
}

// Create valida y registra un movimiento. Con AutoProcess queda completed y se aplica al stock
// en la misma transacción; si no, queda pending.
func (uc *MovementUseCase) Create(ctx context.Context, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	mov := newMovement(in, product, userID, now)

	if !in.AutoProcess {
		if err := uc.movements.Create(ctx, mov); err != nil {
			return nil, err
		}
		return toMovementResponse(mov), nil
	}

	mov.Status = entity.MovementCompleted
	mov.ProcessedAt = &now
	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		if err := applyMovement(ctx, r, mov, now); err != nil {
			return err
		}
		return r.Movements.Create(ctx, mov)
	})
	uc.metrics.RecordMovement(mov.MovementType, err == nil)
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

// GetByID obtiene un movimiento.
func (uc *MovementUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return toMovementResponse(mov), nil
}

// Process pasa un movimiento pending a completed aplicando el stock. La fila del movimiento
// queda bloqueada durante la transacción: un segundo Process concurrente espera y ve completed.
func (uc *MovementUseCase) Process(ctx context.Context, id string) (*dto.MovementResponse, error) {
	var out *entity.StockMovement
	var movType string
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		mov, err := r.Movements.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if mov.Status != entity.MovementPending {
			return domain.Invalid("solo se pueden procesar movimientos pendientes")
		}
		movType = mov.MovementType
		now := uc.now()
		if err := applyMovement(ctx, r, mov, now); err != nil {
			return err
		}
		mov.Status = entity.MovementCompleted
		mov.ProcessedAt = &now
		mov.UpdatedAt = now
		out = mov
		return r.Movements.UpdateStatus(ctx, mov)
	})
	if movType != "" {
		uc.metrics.RecordMovement(movType, err == nil)
	}
	if err != nil {
		return nil, err
	}
	return toMovementResponse(out), nil
}

// Cancel cancela un movimiento pendiente; no toca el stock.
func (uc *MovementUseCase) Cancel(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	if mov.Status != entity.MovementPending {
		return nil, domain.Invalid("solo se pueden cancelar movimientos pendientes")
	}
	mov.Status = entity.MovementCancelled
	mov.UpdatedAt = uc.now()
	if err := uc.movements.UpdateStatus(ctx, mov); err != nil {
		return nil, err
	}
	return toMovementResponse(mov), nil
}

// List lista movimientos de los últimos Days días (30 por defecto).
func (uc *MovementUseCase) List(ctx context.Context, q dto.MovementListQuery) ([]dto.MovementResponse, error) {
	if q.Days <= 0 {
		q.Days = 30
	}
	if q.Limit <= 0 || q.Limit > 500 {
		q.Limit = 100
	}
	since := uc.now().AddDate(0, 0, -q.Days)
	list, err := uc.movements.List(ctx, repository.MovementFilter{
		ProductID:    q.ProductID,
		MovementType: q.MovementType,
		LocationID:   q.LocationID,
		Status:       q.Status,
		Since:        &since,
		Limit:        q.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

// Bulk crea varios movimientos; los que fallan se omiten y se registran en el log.
func (uc *MovementUseCase) Bulk(ctx context.Context, userID string, in dto.BulkMovementsRequest) ([]dto.MovementResponse, error) {
	if len(in.Movements) == 0 {
		return nil, domain.Invalid("movements es requerido")
	}
	out := make([]dto.MovementResponse, 0, len(in.Movements))
	for i, m := range in.Movements {
		res, err := uc.Create(ctx, userID, m)
		if err != nil {
			uc.log.Warn().Err(err).Int("index", i).Str("product_id", m.ProductID).Msg("movimiento masivo omitido")
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

// Summary totales de movimientos de los últimos days días.
func (uc *MovementUseCase) Summary(ctx context.Context, days int) (*dto.MovementSummaryResponse, error) {
	if days <= 0 {
		days = 30
	}
	now := uc.now()
	list, err := uc.movements.ListSince(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	s := inventory.SummarizeMovements(list, now)
	return &dto.MovementSummaryResponse{
		TotalMovements: s.TotalMovements,
		TotalStockIn:   s.TotalStockIn,
		TotalStockOut:  s.TotalStockOut,
		TotalValue:     s.TotalValue.Round(2),
		Today:          s.Today,
		ThisWeek:       s.ThisWeek,
		ThisMonth:      s.ThisMonth,
	}, nil
}

// ByProduct entradas y salidas por producto de los últimos days días (30 por defecto),
// ordenado por cantidad de movimientos descendente.
func (uc *MovementUseCase) ByProduct(ctx context.Context, days int) ([]dto.MovementsByProductRow, error) {
	if days <= 0 {
		days = 30
	}
	totals, err := uc.movements.TotalsByProductSince(ctx, uc.now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementsByProductRow, 0, len(totals))
	for _, t := range totals {
		out = append(out, dto.MovementsByProductRow{
			ProductID:     t.ProductID,
			ProductName:   t.ProductName,
			ProductSKU:    t.ProductSKU,
			TotalIn:       t.TotalIn,
			TotalOut:      t.TotalOut,
			NetMovement:   t.TotalIn - t.TotalOut,
			MovementCount: t.MovementCount,
			LastMovement:  t.LastMovement,
		})
	}
	return out, nil
}

func validateMovement(in dto.CreateMovementRequest) error {
	var msgs []string
	if strings.TrimSpace(in.ProductID) == "" {
		msgs = append(msgs, "product_id es requerido")
	}
	if !entity.ValidMovementType(in.MovementType) {
		msgs = append(msgs, "movement_type inválido")
	}
	if in.Quantity <= 0 {
		msgs = append(msgs, "quantity debe ser mayor a 0")
	}
	if strings.TrimSpace(in.Reason) == "" {
		msgs = append(msgs, "reason es requerido")
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		msgs = append(msgs, "unit_cost no puede ser negativo")
	}
	if entity.IsOutbound(in.MovementType) && in.MovementType != entity.MovementTransfer && strings.TrimSpace(in.LocationFromID) == "" {
		msgs = append(msgs, in.MovementType+" requiere location_from_id")
	}
	if in.MovementType == entity.MovementTransfer {
		if in.LocationFromID == "" || in.LocationToID == "" {
			msgs = append(msgs, "transfer requiere location_from_id y location_to_id")
		} else if in.LocationFromID == in.LocationToID {
			msgs = append(msgs, "origen y destino deben ser distintos")
		}
	}
	return domain.NewValidationError(msgs)
}

// newMovement arma la entidad; las entradas sin destino van a la bodega principal.
func newMovement(in dto.CreateMovementRequest, product *entity.Product, userID string, now time.Time) *entity.StockMovement {
	unitCost := product.CostPrice
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}
	if userID == "" {
		userID = "system"
	}
	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		MovementType:     in.MovementType,
		Quantity:         in.Quantity,
		UnitCost:         unitCost,
		TotalValue:       decimal.NewFromInt(int64(in.Quantity)).Mul(unitCost),
		LocationFromID:   in.LocationFromID,
		LocationFromName: in.LocationFromName,
		LocationToID:     in.LocationToID,
		LocationToName:   in.LocationToName,
		Reason:           strings.TrimSpace(in.Reason),
		Notes:            in.Notes,
		ReferenceType:    in.ReferenceType,
		ReferenceID:      in.ReferenceID,
		ReferenceNumber:  in.ReferenceNumber,
		Status:           entity.MovementPending,
		CreatedBy:        userID,
		CreatedAt:        now,
		UpdatedAt:        now,
		ProductName:      product.Name,
		ProductSKU:       product.SKU,
	}
	if entity.IsInbound(mov.MovementType) && mov.LocationToID == "" {
		mov.LocationToID = entity.DefaultLocationID
		if mov.LocationToName == "" {
			mov.LocationToName = entity.DefaultLocationName
		}
	}
	return mov
}

func toMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		ProductSKU:       m.ProductSKU,
		MovementType:     m.MovementType,
		Quantity:         m.Quantity,
		UnitCost:         m.UnitCost,
		TotalValue:       m.TotalValue,
		LocationFromID:   m.LocationFromID,
		LocationFromName: m.LocationFromName,
		LocationToID:     m.LocationToID,
		LocationToName:   m.LocationToName,
		Reason:           m.Reason,
		Notes:            m.Notes,
		ReferenceType:    m.ReferenceType,
		ReferenceID:      m.ReferenceID,
		ReferenceNumber:  m.ReferenceNumber,
		Status:           m.Status,
		CreatedBy:        m.CreatedBy,
		ProcessedAt:      m.ProcessedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
