package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `
	m.id, m.product_id, m.movement_type, m.quantity, m.unit_cost, m.total_value, m.location_from_id,
	m.location_from_name, m.location_to_id, m.location_to_name, m.reason, m.notes, m.reference_type,
	m.reference_id, m.reference_number, m.status, m.created_by, m.processed_at, m.created_at, m.updated_at,
	p.name, COALESCE(p.sku, '')`

const movementFrom = ` FROM stock_movements m JOIN products p ON p.id = m.product_id`

// Create persiste un movimiento de stock.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, unit_cost, total_value,
			location_from_id, location_from_name, location_to_id, location_to_name, reason, notes,
			reference_type, reference_id, reference_number, status, created_by, processed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.MovementType, m.Quantity, m.UnitCost, m.TotalValue,
		m.LocationFromID, m.LocationFromName, m.LocationToID, m.LocationToName, m.Reason, m.Notes,
		m.ReferenceType, m.ReferenceID, m.ReferenceNumber, m.Status, m.CreatedBy, m.ProcessedAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("create stock movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	if !validUUID(id) {
		return nil, nil
	}
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+movementFrom+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// GetByIDForUpdate obtiene el movimiento bloqueando su fila hasta el fin de la transacción.
func (r *MovementRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	if !validUUID(id) {
		return nil, nil
	}
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+movementFrom+` WHERE m.id = $1 FOR UPDATE OF m`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement for update: %w", err)
	}
	return m, nil
}

// UpdateStatus persiste estado y fecha de procesamiento. Solo cambia movimientos que siguen
// pending; si otro proceso ya lo cerró devuelve ErrInvalidTransition.
func (r *MovementRepo) UpdateStatus(ctx context.Context, m *entity.StockMovement) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_movements SET status = $2, processed_at = $3, updated_at = $4 WHERE id = $1 AND status = $5`,
		m.ID, m.Status, m.ProcessedAt, m.UpdatedAt, entity.MovementPending,
	)
	if err != nil {
		return mapWriteError("update movement status", err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("%w: el movimiento %s ya no está pendiente", domain.ErrInvalidTransition, m.ID)
	}
	return nil
}

// List movimientos filtrados, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + movementFrom + ` WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		if !validUUID(f.ProductID) {
			return []*entity.StockMovement{}, nil
		}
		query += fmt.Sprintf(" AND m.product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.MovementType != "" {
		query += fmt.Sprintf(" AND m.movement_type = $%d", pos)
		args = append(args, f.MovementType)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND (m.location_from_id = $%d OR m.location_to_id = $%d)", pos, pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND m.status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.Since != nil {
		query += fmt.Sprintf(" AND m.created_at >= $%d", pos)
		args = append(args, *f.Since)
		pos++
	}
	query += " ORDER BY m.created_at DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, f.Limit)
	}
	return r.query(ctx, query, args...)
}

// ListSince movimientos creados desde since (resumen).
func (r *MovementRepo) ListSince(ctx context.Context, since time.Time) ([]*entity.StockMovement, error) {
	return r.query(ctx, `SELECT `+movementColumns+movementFrom+` WHERE m.created_at >= $1 ORDER BY m.created_at DESC`, since)
}

// TotalsByProductSince agrega movimientos por producto desde since.
func (r *MovementRepo) TotalsByProductSince(ctx context.Context, since time.Time) ([]repository.MovementProductTotals, error) {
	query := `
		SELECT m.product_id, COALESCE(p.name, 'Unknown Product'), COALESCE(NULLIF(p.sku, ''), 'N/A'),
			COALESCE(SUM(m.quantity) FILTER (WHERE m.movement_type = 'in'), 0),
			COALESCE(SUM(m.quantity) FILTER (WHERE m.movement_type = 'out'), 0),
			COUNT(*), MAX(m.created_at)
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		WHERE m.created_at >= $1
		GROUP BY m.product_id, p.name, p.sku
		ORDER BY COUNT(*) DESC, MAX(m.created_at) DESC`
	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("movements by product: %w", err)
	}
	defer rows.Close()
	out := make([]repository.MovementProductTotals, 0)
	for rows.Next() {
		var t repository.MovementProductTotals
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.ProductSKU, &t.TotalIn, &t.TotalOut, &t.MovementCount, &t.LastMovement); err != nil {
			return nil, fmt.Errorf("scan movements by product: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListForLocation movimientos del producto con origen o destino en locationID.
func (r *MovementRepo) ListForLocation(ctx context.Context, productID, locationID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + movementFrom + `
		WHERE m.product_id = $1 AND (m.location_from_id = $2 OR m.location_to_id = $2)
		ORDER BY m.created_at DESC`
	return r.query(ctx, query, productID, locationID)
}

func (r *MovementRepo) query(ctx context.Context, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgxScanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.MovementType, &m.Quantity, &m.UnitCost, &m.TotalValue, &m.LocationFromID,
		&m.LocationFromName, &m.LocationToID, &m.LocationToName, &m.Reason, &m.Notes, &m.ReferenceType,
		&m.ReferenceID, &m.ReferenceNumber, &m.Status, &m.CreatedBy, &m.ProcessedAt, &m.CreatedAt, &m.UpdatedAt,
		&m.ProductName, &m.ProductSKU,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
