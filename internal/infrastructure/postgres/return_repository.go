package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación de ReturnRepository sobre PostgreSQL.
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador de devoluciones.
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `
	r.id, r.return_number, r.order_id, r.customer_id, r.status, r.reason, r.notes, r.items,
	r.total_refund_amount, r.refund_id, r.refund_method, r.refund_amount, r.approved_at, r.rejected_at,
	r.received_at, r.refunded_at, r.created_at, r.updated_at, o.order_number`

const returnFrom = ` FROM return_requests r JOIN orders o ON o.id = r.order_id`

// Create persiste la solicitud de devolución.
func (r *ReturnRepo) Create(ctx context.Context, rr *entity.ReturnRequest) error {
	if rr.Items == nil {
		rr.Items = []entity.ReturnItem{}
	}
	query := `
		INSERT INTO return_requests (id, return_number, order_id, customer_id, status, reason, notes, items,
			total_refund_amount, refund_id, refund_method, refund_amount, approved_at, rejected_at,
			received_at, refunded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		rr.ID, rr.ReturnNumber, rr.OrderID, rr.CustomerID, rr.Status, rr.Reason, rr.Notes, rr.Items,
		rr.TotalRefundAmount, rr.RefundID, rr.RefundMethod, rr.RefundAmount, rr.ApprovedAt, rr.RejectedAt,
		rr.ReceivedAt, rr.RefundedAt, rr.CreatedAt, rr.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert return request", err)
	}
	return nil
}

// GetByID obtiene una devolución con el número de pedido.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.ReturnRequest, error) {
	if !validUUID(id) {
		return nil, nil
	}
	rr, err := scanReturn(r.q.QueryRow(ctx, `SELECT `+returnColumns+returnFrom+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return request: %w", err)
	}
	return rr, nil
}

// Update persiste estado, notas, reembolso y marcas de tiempo.
func (r *ReturnRepo) Update(ctx context.Context, rr *entity.ReturnRequest) error {
	query := `
		UPDATE return_requests SET status = $2, notes = $3, refund_id = $4, refund_method = $5, refund_amount = $6,
			approved_at = $7, rejected_at = $8, received_at = $9, refunded_at = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		rr.ID, rr.Status, rr.Notes, rr.RefundID, rr.RefundMethod, rr.RefundAmount,
		rr.ApprovedAt, rr.RejectedAt, rr.ReceivedAt, rr.RefundedAt, rr.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update return request", err)
	}
	return nil
}

// DeletePending borra la devolución si sigue pending.
func (r *ReturnRepo) DeletePending(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM return_requests WHERE id = $1 AND status = $2`, id, entity.ReturnPending)
	if err != nil {
		return false, mapDeleteError("delete return request", err)
	}
	return tag.RowsAffected() == 1, nil
}

// List devoluciones filtradas, más recientes primero.
func (r *ReturnRepo) List(ctx context.Context, f repository.ReturnFilter) ([]*entity.ReturnRequest, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND r.status = $%d", len(args))
	}
	if f.OrderID != "" {
		if !validUUID(f.OrderID) {
			return []*entity.ReturnRequest{}, 0, nil
		}
		args = append(args, f.OrderID)
		where += fmt.Sprintf(" AND r.order_id = $%d", len(args))
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+returnFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count return requests: %w", err)
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`,
		returnColumns, returnFrom, where, len(args)-1, len(args))
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todas las devoluciones (estadísticas).
func (r *ReturnRepo) ListAll(ctx context.Context) ([]*entity.ReturnRequest, error) {
	return r.query(ctx, `SELECT `+returnColumns+returnFrom+` ORDER BY r.created_at DESC`)
}

func (r *ReturnRepo) query(ctx context.Context, query string, args ...any) ([]*entity.ReturnRequest, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list return requests: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ReturnRequest, 0)
	for rows.Next() {
		rr, err := scanReturn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan return request: %w", err)
		}
		list = append(list, rr)
	}
	return list, rows.Err()
}

func scanReturn(row pgxScanner) (*entity.ReturnRequest, error) {
	var rr entity.ReturnRequest
	err := row.Scan(
		&rr.ID, &rr.ReturnNumber, &rr.OrderID, &rr.CustomerID, &rr.Status, &rr.Reason, &rr.Notes, &rr.Items,
		&rr.TotalRefundAmount, &rr.RefundID, &rr.RefundMethod, &rr.RefundAmount, &rr.ApprovedAt, &rr.RejectedAt,
		&rr.ReceivedAt, &rr.RefundedAt, &rr.CreatedAt, &rr.UpdatedAt, &rr.OrderNumber,
	)
	if err != nil {
		return nil, err
	}
	return &rr, nil
}
