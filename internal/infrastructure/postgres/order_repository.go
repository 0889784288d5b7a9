package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `
	o.id, o.order_number, o.customer_id, o.status, o.payment_status, o.payment_method, o.subtotal,
	o.tax_amount, o.shipping_amount, o.discount_amount, o.total_amount, o.currency, o.shipping_address,
	o.billing_address, o.notes, o.tracking_number, o.tracking_url, o.shipping_carrier, o.shipped_at,
	o.delivered_at, o.cancelled_at, o.created_at, o.updated_at,
	COALESCE(c.name, ''), COALESCE(c.email, '')`

// customer_id es texto libre; solo se une cuando coincide con un cliente registrado.
const orderFrom = ` FROM orders o LEFT JOIN customers c ON c.id::text = o.customer_id`

// Create inserta cabecera y líneas del pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, order_number, customer_id, status, payment_status, payment_method, subtotal,
			tax_amount, shipping_amount, discount_amount, total_amount, currency, shipping_address,
			billing_address, notes, tracking_number, tracking_url, shipping_carrier, shipped_at,
			delivered_at, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.CustomerID, o.Status, o.PaymentStatus, o.PaymentMethod, o.Subtotal,
		o.TaxAmount, o.ShippingAmount, o.DiscountAmount, o.TotalAmount, o.Currency, o.ShippingAddress,
		o.BillingAddress, o.Notes, o.TrackingNumber, o.TrackingURL, o.ShippingCarrier, o.ShippedAt,
		o.DeliveredAt, o.CancelledAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert order", err)
	}
	for i := range o.Items {
		if err := r.createItem(ctx, &o.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) createItem(ctx context.Context, it *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, sku, quantity, unit_price, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.OrderID, it.ProductID, it.ProductName, it.SKU, it.Quantity, it.UnitPrice, it.TotalPrice, it.Status, it.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert order item", err)
	}
	return nil
}

// GetByID carga el pedido con líneas y datos del cliente.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id = $1`, id)
}

// GetByTrackingNumber pedido con ese número de guía; nil si no existe.
func (r *OrderRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Order, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.tracking_number = $1 LIMIT 1`, trackingNumber)
}

func (r *OrderRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Update actualiza los campos mutables del pedido (no las líneas).
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, payment_status = $3, payment_method = $4, subtotal = $5, tax_amount = $6,
			shipping_amount = $7, discount_amount = $8, total_amount = $9, shipping_address = $10,
			billing_address = $11, notes = $12, tracking_number = $13, tracking_url = $14, shipping_carrier = $15,
			shipped_at = $16, delivered_at = $17, cancelled_at = $18, updated_at = $19
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Status, o.PaymentStatus, o.PaymentMethod, o.Subtotal, o.TaxAmount,
		o.ShippingAmount, o.DiscountAmount, o.TotalAmount, o.ShippingAddress,
		o.BillingAddress, o.Notes, o.TrackingNumber, o.TrackingURL, o.ShippingCarrier,
		o.ShippedAt, o.DeliveredAt, o.CancelledAt, o.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update order", err)
	}
	return nil
}

// UpdateItemsStatus marca todas las líneas del pedido con status.
func (r *OrderRepo) UpdateItemsStatus(ctx context.Context, orderID, status string) error {
	if _, err := r.q.Exec(ctx, `UPDATE order_items SET status = $2 WHERE order_id = $1`, orderID, status); err != nil {
		return fmt.Errorf("update order items status: %w", err)
	}
	return nil
}

// Delete elimina el pedido; las líneas caen en cascada.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return mapDeleteError("delete order", err)
	}
	return nil
}

// List pedidos filtrados y paginados, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(cond, len(args))
	}
	if len(f.Statuses) > 0 {
		add(" AND o.status = ANY($%d)", f.Statuses)
	}
	if len(f.PaymentStatuses) > 0 {
		add(" AND o.payment_status = ANY($%d)", f.PaymentStatuses)
	}
	if f.CustomerID != "" {
		add(" AND o.customer_id = $%d", f.CustomerID)
	}
	if f.CustomerEmail != "" {
		add(" AND lower(c.email) = lower($%d)", f.CustomerEmail)
	}
	if f.DateFrom != nil {
		add(" AND o.created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add(" AND o.created_at <= $%d", *f.DateTo)
	}
	if f.MinAmount != nil {
		add(" AND o.total_amount >= $%d", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		add(" AND o.total_amount <= $%d", *f.MaxAmount)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, ilike(s))
		n := len(args)
		where += fmt.Sprintf(` AND (o.order_number ILIKE $%d OR o.shipping_address->>'name' ILIKE $%d
			OR o.customer_id ILIKE $%d OR c.name ILIKE $%d OR c.email ILIKE $%d)`, n, n, n, n, n)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+orderFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY o.created_at DESC, o.id LIMIT $%d OFFSET $%d`,
		orderColumns, orderFrom, where, len(args)-1, len(args))
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListTracked pedidos enviados o entregados con número de guía.
func (r *OrderRepo) ListTracked(ctx context.Context) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + `
		WHERE o.tracking_number <> '' AND o.status IN ('shipped', 'delivered')
		ORDER BY o.updated_at DESC`
	return r.query(ctx, query)
}

// ListBetween pedidos creados en [from, to); límites nil = abiertos.
func (r *OrderRepo) ListBetween(ctx context.Context, from, to *time.Time) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + `
		WHERE ($1::timestamptz IS NULL OR o.created_at >= $1) AND ($2::timestamptz IS NULL OR o.created_at < $2)
		ORDER BY o.created_at`
	return r.query(ctx, query, from, to)
}

func (r *OrderRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// loadItems carga las líneas de todos los pedidos en una sola consulta.
func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []entity.OrderItem{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, sku, quantity, unit_price, total_price, status, created_at
		FROM order_items WHERE order_id = ANY($1::uuid[]) ORDER BY created_at, id`, ids)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.SKU, &it.Quantity,
			&it.UnitPrice, &it.TotalPrice, &it.Status, &it.CreatedAt); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.PaymentStatus, &o.PaymentMethod, &o.Subtotal,
		&o.TaxAmount, &o.ShippingAmount, &o.DiscountAmount, &o.TotalAmount, &o.Currency, &o.ShippingAddress,
		&o.BillingAddress, &o.Notes, &o.TrackingNumber, &o.TrackingURL, &o.ShippingCarrier, &o.ShippedAt,
		&o.DeliveredAt, &o.CancelledAt, &o.CreatedAt, &o.UpdatedAt,
		&o.CustomerName, &o.CustomerEmail,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
