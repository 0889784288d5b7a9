package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var (
	_ repository.FulfillmentRepository = (*FulfillmentRepo)(nil)
	_ repository.TrackingRepository    = (*TrackingRepo)(nil)
)

// FulfillmentRepo registros de despacho por pedido.
type FulfillmentRepo struct {
	q Querier
}

// NewFulfillmentRepository construye el adaptador.
func NewFulfillmentRepository(q Querier) *FulfillmentRepo {
	return &FulfillmentRepo{q: q}
}

// Create persiste un despacho; items se guarda como jsonb.
func (r *FulfillmentRepo) Create(ctx context.Context, f *entity.OrderFulfillment) error {
	if f.Items == nil {
		f.Items = []entity.FulfillmentItem{}
	}
	query := `
		INSERT INTO order_fulfillments (id, order_id, status, carrier, tracking_number, tracking_url,
			shipped_at, notes, items, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.OrderID, f.Status, f.Carrier, f.TrackingNumber, f.TrackingURL,
		f.ShippedAt, f.Notes, f.Items, f.CreatedBy, f.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert fulfillment", err)
	}
	return nil
}

// ListByOrder despachos del pedido, más recientes primero.
func (r *FulfillmentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderFulfillment, error) {
	if !validUUID(orderID) {
		return []*entity.OrderFulfillment{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, status, carrier, tracking_number, tracking_url, shipped_at, notes, items, created_by, created_at
		FROM order_fulfillments WHERE order_id = $1 ORDER BY created_at DESC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list fulfillments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.OrderFulfillment, 0)
	for rows.Next() {
		var f entity.OrderFulfillment
		if err := rows.Scan(&f.ID, &f.OrderID, &f.Status, &f.Carrier, &f.TrackingNumber, &f.TrackingURL,
			&f.ShippedAt, &f.Notes, &f.Items, &f.CreatedBy, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fulfillment: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}

// TrackingRepo eventos de seguimiento de envíos.
type TrackingRepo struct {
	q Querier
}

// NewTrackingRepository construye el adaptador.
func NewTrackingRepository(q Querier) *TrackingRepo {
	return &TrackingRepo{q: q}
}

// Create agrega un evento.
func (r *TrackingRepo) Create(ctx context.Context, ev *entity.TrackingEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tracking_events (id, order_id, tracking_number, status, location, description, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.OrderID, ev.TrackingNumber, ev.Status, ev.Location, ev.Description, ev.OccurredAt,
	)
	if err != nil {
		return mapWriteError("insert tracking event", err)
	}
	return nil
}

// ListByOrder eventos del pedido en orden cronológico.
func (r *TrackingRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.TrackingEvent, error) {
	if !validUUID(orderID) {
		return []*entity.TrackingEvent{}, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, tracking_number, status, location, description, occurred_at
		FROM tracking_events WHERE order_id = $1 ORDER BY occurred_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list tracking events: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.TrackingEvent, 0)
	for rows.Next() {
		var ev entity.TrackingEvent
		if err := rows.Scan(&ev.ID, &ev.OrderID, &ev.TrackingNumber, &ev.Status, &ev.Location,
			&ev.Description, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan tracking event: %w", err)
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
