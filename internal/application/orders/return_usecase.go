package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/order"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// ReturnUseCase solicitudes de devolución y reembolsos.
type ReturnUseCase struct {
	returns repository.ReturnRepository
	orders  repository.OrderRepository
	stock   StockRecorder
	log     *logger.Logger
	now     func() time.Time
}

// NewReturnUseCase construye el caso de uso. stock puede ser nil (sin reingreso de inventario).
func NewReturnUseCase(returns repository.ReturnRepository, orders repository.OrderRepository, stock StockRecorder, log *logger.Logger) *ReturnUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReturnUseCase{returns: returns, orders: orders, stock: stock, log: log.Named("returns"), now: time.Now}
}

// Create registra una devolución de un pedido enviado o entregado.
func (uc *ReturnUseCase) Create(ctx context.Context, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	var msgs []string
	if strings.TrimSpace(in.OrderID) == "" {
		msgs = append(msgs, "order_id es requerido")
	}
	if strings.TrimSpace(in.Reason) == "" {
		msgs = append(msgs, "reason es requerido")
	}
	if len(in.Items) == 0 {
		msgs = append(msgs, "se requiere al menos un ítem")
	}
	if err := domain.NewValidationError(msgs); err != nil {
		return nil, err
	}
	o, err := getOrder(ctx, uc.orders, in.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.CanReturn(o) {
		return nil, domain.Invalid("solo se aceptan devoluciones de pedidos enviados o entregados")
	}

	ordered := make(map[string]int, len(o.Items))
	for _, it := range o.Items {
		ordered[it.ID] = it.Quantity
	}
	total := decimal.Zero
	items := make([]entity.ReturnItem, 0, len(in.Items))
	for i, it := range in.Items {
		n := i + 1
		qty, ok := ordered[it.OrderItemID]
		switch {
		case !ok:
			msgs = append(msgs, fmt.Sprintf("Item %d: la línea %s no pertenece al pedido", n, it.OrderItemID))
		case it.Quantity <= 0:
			msgs = append(msgs, fmt.Sprintf("Item %d: quantity debe ser mayor a 0", n))
		case it.Quantity > qty:
			msgs = append(msgs, fmt.Sprintf("Item %d: quantity %d supera lo pedido (%d)", n, it.Quantity, qty))
		}
		if it.RefundAmount.IsNegative() {
			msgs = append(msgs, fmt.Sprintf("Item %d: refund_amount no puede ser negativo", n))
		}
		total = total.Add(it.RefundAmount)
		items = append(items, entity.ReturnItem{
			OrderItemID:  it.OrderItemID,
			Quantity:     it.Quantity,
			Reason:       order.Sanitize(it.Reason),
			Condition:    order.Sanitize(it.Condition),
			RefundAmount: it.RefundAmount,
		})
	}
	if err := domain.NewValidationError(msgs); err != nil {
		return nil, err
	}

	now := uc.now()
	r := &entity.ReturnRequest{
		ID:                uuid.New().String(),
		ReturnNumber:      order.NewReturnNumber(now),
		OrderID:           o.ID,
		CustomerID:        o.CustomerID,
		Status:            entity.ReturnPending,
		Reason:            order.Sanitize(in.Reason),
		Notes:             order.Sanitize(in.Notes),
		Items:             items,
		TotalRefundAmount: total,
		RefundAmount:      decimal.Zero,
		CreatedAt:         now,
		UpdatedAt:         now,
		OrderNumber:       o.OrderNumber,
	}
	if err := uc.returns.Create(ctx, r); err != nil {
		return nil, err
	}
	return toReturnResponse(r), nil
}

// GetByID obtiene una devolución.
func (uc *ReturnUseCase) GetByID(ctx context.Context, id string) (*dto.ReturnResponse, error) {
	r, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReturnResponse(r), nil
}

// List listado paginado (page 1, limit 10).
func (uc *ReturnUseCase) List(ctx context.Context, q dto.ReturnListQuery) (*dto.ReturnListResponse, error) {
	if q.Status != "" && !entity.ValidReturnStatus(q.Status) {
		return nil, domain.Invalid("estado de devolución inválido: " + q.Status)
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 10
	}
	list, total, err := uc.returns.List(ctx, repository.ReturnFilter{
		Status:  q.Status,
		OrderID: q.OrderID,
		Limit:   q.Limit,
		Offset:  (q.Page - 1) * q.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReturnResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toReturnResponse(r))
	}
	return &dto.ReturnListResponse{Data: out, Pagination: dto.NewPagination(q.Page, q.Limit, total)}, nil
}

// UpdateStatus cambia el estado y fija su marca de tiempo. approved marca el pedido como
// returned; la primera recepción reingresa las cantidades al inventario (best effort).
// El estado refunded solo se alcanza con Refund.
func (uc *ReturnUseCase) UpdateStatus(ctx context.Context, id, userID string, in dto.UpdateReturnStatusRequest) (*dto.ReturnResponse, error) {
	if !entity.ValidReturnStatus(in.Status) {
		return nil, domain.Invalid("estado de devolución inválido: " + in.Status)
	}
	if in.Status == entity.ReturnRefunded {
		return nil, domain.Invalid("use el endpoint de reembolso para marcar la devolución como refunded")
	}
	r, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status == entity.ReturnRefunded {
		return nil, fmt.Errorf("%w: la devolución ya fue reembolsada", domain.ErrInvalidTransition)
	}
	now := uc.now()
	prev := r.Status
	// el stock se reingresa una sola vez, en la primera recepción
	firstReceipt := in.Status == entity.ReturnReceived && r.ReceivedAt == nil
	r.Status = in.Status
	switch in.Status {
	case entity.ReturnApproved:
		r.ApprovedAt = &now
	case entity.ReturnRejected:
		r.RejectedAt = &now
	case entity.ReturnReceived:
		if firstReceipt {
			r.ReceivedAt = &now
		}
	}
	if in.Notes != "" {
		r.Notes = appendNote(r.Notes, order.Sanitize(in.Notes))
	}
	r.UpdatedAt = now
	if err := uc.returns.Update(ctx, r); err != nil {
		return nil, err
	}

	if in.Status == entity.ReturnApproved && prev != entity.ReturnApproved {
		o, err := getOrder(ctx, uc.orders, r.OrderID)
		if err != nil {
			return nil, err
		}
		order.ApplyStatus(o, entity.OrderReturned, nil, now)
		if err := uc.orders.Update(ctx, o); err != nil {
			return nil, err
		}
	}
	if firstReceipt {
		uc.restock(ctx, r, userID)
	}
	return toReturnResponse(r), nil
}

// Delete elimina una devolución pendiente; en otro estado devuelve ErrInvalidInput (400).
func (uc *ReturnUseCase) Delete(ctx context.Context, id string) error {
	r, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if r.Status != entity.ReturnPending {
		return domain.Invalid("solo se pueden eliminar devoluciones pendientes")
	}
	ok, err := uc.returns.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Invalid("solo se pueden eliminar devoluciones pendientes")
	}
	uc.log.Info().Str("return_id", r.ID).Str("return_number", r.ReturnNumber).Msg("devolución eliminada")
	return nil
}

// restock registra un movimiento return por línea hacia la bodega por defecto.
func (uc *ReturnUseCase) restock(ctx context.Context, r *entity.ReturnRequest, userID string) {
	if uc.stock == nil {
		return
	}
	o, err := uc.orders.GetByID(ctx, r.OrderID)
	if err != nil || o == nil {
		uc.log.Warn().Err(err).Str("return_id", r.ID).Msg("reingreso omitido: pedido no disponible")
		return
	}
	products := make(map[string]string, len(o.Items))
	for _, it := range o.Items {
		products[it.ID] = it.ProductID
	}
	for _, it := range r.Items {
		productID, ok := products[it.OrderItemID]
		if !ok || it.Quantity <= 0 {
			continue
		}
		_, err := uc.stock.Create(ctx, userID, dto.CreateMovementRequest{
			ProductID:       productID,
			MovementType:    entity.MovementReturn,
			Quantity:        it.Quantity,
			Reason:          "Return " + r.ReturnNumber,
			Notes:           it.Condition,
			ReferenceType:   "return",
			ReferenceID:     r.ID,
			ReferenceNumber: r.ReturnNumber,
			AutoProcess:     true,
		})
		if err != nil {
			uc.log.Warn().Err(err).Str("return_id", r.ID).Str("product_id", productID).Msg("no se pudo reingresar el stock devuelto")
		}
	}
}

// Refund reembolsa una devolución aprobada o recibida y actualiza el estado de pago del pedido.
func (uc *ReturnUseCase) Refund(ctx context.Context, id string, in dto.RefundRequest) (*dto.ReturnResponse, error) {
	r, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.Status != entity.ReturnApproved && r.Status != entity.ReturnReceived {
		return nil, domain.Invalid("solo se reembolsan devoluciones aprobadas o recibidas")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("amount debe ser mayor a 0")
	}
	if in.Amount.GreaterThan(r.TotalRefundAmount) {
		return nil, domain.Invalid("amount supera el total reembolsable de la devolución")
	}
	o, err := getOrder(ctx, uc.orders, r.OrderID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = "original_payment"
	}
	r.Status = entity.ReturnRefunded
	r.RefundID = order.NewRefundID(now)
	r.RefundMethod = method
	r.RefundAmount = in.Amount
	r.RefundedAt = &now
	r.UpdatedAt = now
	if err := uc.returns.Update(ctx, r); err != nil {
		return nil, err
	}

	o.PaymentStatus = entity.PaymentRefunded
	if in.Amount.LessThan(o.TotalAmount) {
		o.PaymentStatus = entity.PaymentPartiallyRefunded
	}
	o.UpdatedAt = now
	if err := uc.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_id", r.ID).Str("refund_id", r.RefundID).Str("amount", in.Amount.String()).Msg("reembolso registrado")
	return toReturnResponse(r), nil
}

// Stats contadores; el monto total y el tiempo promedio (días) solo cuentan devoluciones reembolsadas.
func (uc *ReturnUseCase) Stats(ctx context.Context) (*dto.ReturnStatsResponse, error) {
	all, err := uc.returns.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s := &dto.ReturnStatsResponse{Total: len(all), TotalRefundAmount: decimal.Zero, AvgProcessingTime: decimal.Zero}
	var days float64
	processed := 0
	for _, r := range all {
		switch r.Status {
		case entity.ReturnPending:
			s.Pending++
		case entity.ReturnApproved:
			s.Approved++
		case entity.ReturnRejected:
			s.Rejected++
		case entity.ReturnRefunded:
			s.Refunded++
			amount := r.RefundAmount
			if amount.IsZero() {
				amount = r.TotalRefundAmount
			}
			s.TotalRefundAmount = s.TotalRefundAmount.Add(amount)
			if r.RefundedAt != nil {
				days += r.RefundedAt.Sub(r.CreatedAt).Hours() / 24
				processed++
			}
		}
	}
	if processed > 0 {
		s.AvgProcessingTime = decimal.NewFromFloat(days / float64(processed)).Round(1)
	}
	return s, nil
}

func (uc *ReturnUseCase) get(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	r, err := uc.returns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func toReturnResponse(r *entity.ReturnRequest) *dto.ReturnResponse {
	items := make([]dto.ReturnItemRequest, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.ReturnItemRequest{
			OrderItemID:  it.OrderItemID,
			Quantity:     it.Quantity,
			Reason:       it.Reason,
			Condition:    it.Condition,
			RefundAmount: it.RefundAmount,
		})
	}
	return &dto.ReturnResponse{
		ID:                r.ID,
		ReturnNumber:      r.ReturnNumber,
		OrderID:           r.OrderID,
		OrderNumber:       r.OrderNumber,
		CustomerID:        r.CustomerID,
		Status:            r.Status,
		Reason:            r.Reason,
		Notes:             r.Notes,
		Items:             items,
		TotalRefundAmount: r.TotalRefundAmount,
		RefundID:          r.RefundID,
		RefundMethod:      r.RefundMethod,
		RefundAmount:      r.RefundAmount,
		ApprovedAt:        r.ApprovedAt,
		RejectedAt:        r.RejectedAt,
		ReceivedAt:        r.ReceivedAt,
		RefundedAt:        r.RefundedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
