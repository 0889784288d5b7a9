package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/ports"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/order"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// FulfillmentUseCase despacho, seguimiento y documentos de envío de pedidos.
type FulfillmentUseCase struct {
	orders       repository.OrderRepository
	fulfillments repository.FulfillmentRepository
	tracking     repository.TrackingRepository
	docs         ports.ShippingDocuments
	shipFrom     order.Party
	log          *logger.Logger
	now          func() time.Time
}

// NewFulfillmentUseCase construye el caso de uso. shipFrom es el remitente impreso en las etiquetas.
func NewFulfillmentUseCase(
	orders repository.OrderRepository,
	fulfillments repository.FulfillmentRepository,
	tracking repository.TrackingRepository,
	docs ports.ShippingDocuments,
	shipFrom order.Party,
	log *logger.Logger,
) *FulfillmentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &FulfillmentUseCase{
		orders:       orders,
		fulfillments: fulfillments,
		tracking:     tracking,
		docs:         docs,
		shipFrom:     shipFrom,
		log:          log.Named("fulfillment"),
		now:          time.Now,
	}
}

// Fulfill avanza el estado de despacho del pedido. Al marcar shipped con datos de envío
// registra el despacho, marca las líneas y agrega un evento de seguimiento (best effort).
func (uc *FulfillmentUseCase) Fulfill(ctx context.Context, id, userID string, in dto.FulfillOrderRequest) (*dto.OrderResponse, error) {
	if !order.ValidFulfillStatus(in.Status) {
		return nil, domain.Invalid("status debe ser confirmed, processing, packed, shipped o delivered")
	}
	o, err := getOrder(ctx, uc.orders, id)
	if err != nil {
		return nil, err
	}
	if isClosed(o) {
		return nil, fmt.Errorf("%w: el pedido está %s", domain.ErrInvalidTransition, o.Status)
	}
	now := uc.now()
	var shippedAt *time.Time
	if si := in.ShipmentInfo; si != nil {
		shippedAt = si.ShippedAt
		if si.Carrier != "" {
			o.ShippingCarrier = strings.TrimSpace(si.Carrier)
		}
		if si.TrackingNumber != "" {
			o.TrackingNumber = strings.TrimSpace(si.TrackingNumber)
		}
		if si.TrackingURL != "" {
			o.TrackingURL = strings.TrimSpace(si.TrackingURL)
		}
	}
	order.ApplyStatus(o, in.Status, shippedAt, now)
	if in.Notes != "" {
		o.Notes = appendNote(o.Notes, order.Sanitize(in.Notes))
	}
	if err := uc.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	if in.Status == entity.OrderShipped && in.ShipmentInfo != nil {
		uc.recordShipment(ctx, o, userID, in.Notes, now)
	}
	return ToOrderResponse(o), nil
}

// recordShipment efectos secundarios del envío; los fallos solo se registran.
func (uc *FulfillmentUseCase) recordShipment(ctx context.Context, o *entity.Order, userID, notes string, now time.Time) {
	if userID == "" {
		userID = "system"
	}
	f := &entity.OrderFulfillment{
		ID:             uuid.New().String(),
		OrderID:        o.ID,
		Status:         entity.OrderShipped,
		Carrier:        o.ShippingCarrier,
		TrackingNumber: o.TrackingNumber,
		TrackingURL:    o.TrackingURL,
		ShippedAt:      o.ShippedAt,
		Notes:          notes,
		CreatedBy:      userID,
		CreatedAt:      now,
	}
	for _, it := range o.Items {
		f.Items = append(f.Items, entity.FulfillmentItem{OrderItemID: it.ID, Quantity: it.Quantity})
	}
	if err := uc.fulfillments.Create(ctx, f); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo registrar el despacho")
	}
	if err := uc.orders.UpdateItemsStatus(ctx, o.ID, entity.OrderItemShipped); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo actualizar el estado de las líneas")
	}
	ev := &entity.TrackingEvent{
		ID:             uuid.New().String(),
		OrderID:        o.ID,
		TrackingNumber: o.TrackingNumber,
		Status:         entity.OrderShipped,
		Description:    "Package shipped via " + nonEmpty(o.ShippingCarrier, order.DefaultCarrier),
		OccurredAt:     *o.ShippedAt,
	}
	if err := uc.tracking.Create(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo registrar el evento de seguimiento")
	}
}

// BulkFulfill aplica una acción a varios pedidos; cada fallo queda en su resultado.
func (uc *FulfillmentUseCase) BulkFulfill(ctx context.Context, in dto.BulkFulfillRequest) (*dto.BulkFulfillResponse, error) {
	status, ok := order.StatusForAction(in.Action)
	if !ok {
		return nil, domain.Invalid("acción inválida: " + in.Action)
	}
	if len(in.OrderIDs) == 0 {
		return nil, domain.Invalid("orderIds es requerido")
	}
	res := &dto.BulkFulfillResponse{Results: make([]dto.BulkFulfillResult, 0, len(in.OrderIDs))}
	for _, id := range in.OrderIDs {
		err := uc.applyAction(ctx, id, status)
		r := dto.BulkFulfillResult{OrderID: id, Success: err == nil}
		if err != nil {
			r.Error = err.Error()
			res.FailedCount++
		} else {
			res.ProcessedCount++
		}
		res.Results = append(res.Results, r)
	}
	return res, nil
}

func (uc *FulfillmentUseCase) applyAction(ctx context.Context, id, status string) error {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return errors.New("pedido no encontrado")
	}
	if isClosed(o) {
		return fmt.Errorf("el pedido está %s", o.Status)
	}
	order.ApplyStatus(o, status, nil, uc.now())
	return uc.orders.Update(ctx, o)
}

// Fulfillments despachos registrados del pedido.
func (uc *FulfillmentUseCase) Fulfillments(ctx context.Context, id string) ([]dto.FulfillmentResponse, error) {
	if _, err := getOrder(ctx, uc.orders, id); err != nil {
		return nil, err
	}
	list, err := uc.fulfillments.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FulfillmentResponse, 0, len(list))
	for _, f := range list {
		items := make([]dto.FulfillmentItem, 0, len(f.Items))
		for _, it := range f.Items {
			items = append(items, dto.FulfillmentItem{OrderItemID: it.OrderItemID, Quantity: it.Quantity})
		}
		out = append(out, dto.FulfillmentResponse{
			ID:             f.ID,
			OrderID:        f.OrderID,
			Status:         f.Status,
			Carrier:        f.Carrier,
			TrackingNumber: f.TrackingNumber,
			TrackingURL:    f.TrackingURL,
			ShippedAt:      f.ShippedAt,
			Notes:          f.Notes,
			Items:          items,
			CreatedBy:      f.CreatedBy,
			CreatedAt:      f.CreatedAt,
		})
	}
	return out, nil
}

// ShippingLabel genera el PDF de la etiqueta; asigna guía y transportadora si faltan.
// Devuelve el PDF y el nombre de archivo sugerido.
func (uc *FulfillmentUseCase) ShippingLabel(ctx context.Context, id string) ([]byte, string, error) {
	o, err := getOrder(ctx, uc.orders, id)
	if err != nil {
		return nil, "", err
	}
	if !order.CanPrintLabel(o) {
		return nil, "", domain.Invalid("no se puede generar etiqueta para un pedido " + o.Status)
	}
	now := uc.now()
	if order.AssignTracking(o, now) {
		o.UpdatedAt = now
		if err := uc.orders.Update(ctx, o); err != nil {
			return nil, "", err
		}
	}
	pdf, err := uc.docs.GenerateShippingLabel(ctx, order.NewShippingLabel(o, uc.shipFrom, now))
	if err != nil {
		return nil, "", fmt.Errorf("etiqueta de envío: %w", err)
	}
	return pdf, "shipping-label-" + o.OrderNumber + ".pdf", nil
}

// PackingSlip genera el PDF con las líneas del pedido.
func (uc *FulfillmentUseCase) PackingSlip(ctx context.Context, id string) ([]byte, string, error) {
	o, err := getOrder(ctx, uc.orders, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.docs.GeneratePackingSlip(ctx, o, uc.shipFrom)
	if err != nil {
		return nil, "", fmt.Errorf("packing slip: %w", err)
	}
	return pdf, "packing-slip-" + o.OrderNumber + ".pdf", nil
}

// Tracked pedidos con guía en tránsito o entregados, con sus eventos.
func (uc *FulfillmentUseCase) Tracked(ctx context.Context) ([]dto.TrackingResponse, error) {
	list, err := uc.orders.ListTracked(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TrackingResponse, 0, len(list))
	for _, o := range list {
		res, err := uc.trackingFor(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, nil
}

// PublicTracking seguimiento por número de guía, sin datos del cliente.
func (uc *FulfillmentUseCase) PublicTracking(ctx context.Context, trackingNumber string) (*dto.TrackingResponse, error) {
	o, err := uc.orders.GetByTrackingNumber(ctx, strings.TrimSpace(trackingNumber))
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	res, err := uc.trackingFor(ctx, o)
	if err != nil {
		return nil, err
	}
	res.CustomerID = ""
	return res, nil
}

// AddTrackingEvent agrega un evento; delivered también marca el pedido como entregado.
func (uc *FulfillmentUseCase) AddTrackingEvent(ctx context.Context, id string, in dto.TrackingEventRequest) (*dto.TrackingEventResponse, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, domain.Invalid("status es requerido")
	}
	o, err := getOrder(ctx, uc.orders, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	ev := &entity.TrackingEvent{
		ID:             uuid.New().String(),
		OrderID:        o.ID,
		TrackingNumber: o.TrackingNumber,
		Status:         status,
		Location:       order.Sanitize(in.Location),
		Description:    order.Sanitize(in.Description),
		OccurredAt:     now,
	}
	if err := uc.tracking.Create(ctx, ev); err != nil {
		return nil, err
	}
	if status == order.TrackingDelivered && o.Status != entity.OrderDelivered {
		order.ApplyStatus(o, entity.OrderDelivered, nil, now)
		if err := uc.orders.Update(ctx, o); err != nil {
			return nil, err
		}
	}
	return &dto.TrackingEventResponse{
		Status:      ev.Status,
		Location:    ev.Location,
		Description: ev.Description,
		Timestamp:   ev.OccurredAt,
	}, nil
}

// trackingFor arma la respuesta de seguimiento; sin eventos registrados los deriva de las fechas.
func (uc *FulfillmentUseCase) trackingFor(ctx context.Context, o *entity.Order) (*dto.TrackingResponse, error) {
	recorded, err := uc.tracking.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	events := make([]entity.TrackingEvent, 0, len(recorded))
	for _, ev := range recorded {
		events = append(events, *ev)
	}
	if len(events) == 0 {
		events = order.SynthesizeEvents(o)
	}
	res := &dto.TrackingResponse{
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Status:          order.PublicStatus(o.Status),
		TrackingNumber:  o.TrackingNumber,
		TrackingURL:     o.TrackingURL,
		Carrier:         nonEmpty(o.ShippingCarrier, order.DefaultCarrier),
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		ShippingAddress: toAddress(o.ShippingAddress),
		Events:          make([]dto.TrackingEventResponse, 0, len(events)),
	}
	for _, ev := range events {
		res.Events = append(res.Events, dto.TrackingEventResponse{
			Status:      ev.Status,
			Location:    ev.Location,
			Description: ev.Description,
			Timestamp:   ev.OccurredAt,
		})
	}
	return res, nil
}

// isClosed pedidos que ya no admiten cambios de despacho.
func isClosed(o *entity.Order) bool {
	switch o.Status {
	case entity.OrderCancelled, entity.OrderReturned, entity.OrderRefunded:
		return true
	}
	return false
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
