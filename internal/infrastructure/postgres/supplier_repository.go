package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `
	id, name, code, email, phone, website, address_line1, address_line2, city, state, postal_code, country,
	tax_id, business_registration, business_type, primary_contact_name, primary_contact_email,
	primary_contact_phone, payment_terms, credit_limit, currency, rating, lead_time_days,
	minimum_order_amount, status, supplier_type, category, notes, internal_notes, created_by,
	created_at, updated_at`

var supplierSortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"rating":     "rating",
	"status":     "status",
}

// Create persiste un nuevo proveedor.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32)`
	_, err := r.q.Exec(ctx, query, supplierArgs(s)...)
	if err != nil {
		return mapWriteError("insert supplier", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	if !validUUID(id) {
		return nil, nil
	}
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// Update actualiza todos los campos de un proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	query := `
		UPDATE suppliers SET name = $2, code = $3, email = $4, phone = $5, website = $6, address_line1 = $7,
			address_line2 = $8, city = $9, state = $10, postal_code = $11, country = $12, tax_id = $13,
			business_registration = $14, business_type = $15, primary_contact_name = $16,
			primary_contact_email = $17, primary_contact_phone = $18, payment_terms = $19, credit_limit = $20,
			currency = $21, rating = $22, lead_time_days = $23, minimum_order_amount = $24, status = $25,
			supplier_type = $26, category = $27, notes = $28, internal_notes = $29, created_by = $30,
			created_at = $31, updated_at = $32
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, supplierArgs(s)...); err != nil {
		return mapWriteError("update supplier", err)
	}
	return nil
}

// Delete elimina un proveedor por ID.
func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id); err != nil {
		return mapDeleteError("delete supplier", err)
	}
	return nil
}

// List lista proveedores con filtros, orden y paginación.
func (r *SupplierRepo) List(ctx context.Context, f repository.SupplierFilter) ([]*entity.Supplier, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(cond, len(args))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, ilike(s))
		n := len(args)
		where += fmt.Sprintf(" AND (name ILIKE $%d OR code ILIKE $%d OR email ILIKE $%d OR primary_contact_name ILIKE $%d)", n, n, n, n)
	}
	if f.Status != "" {
		add(" AND status = $%d", f.Status)
	}
	if f.SupplierType != "" {
		add(" AND supplier_type = $%d", f.SupplierType)
	}
	if f.BusinessType != "" {
		add(" AND business_type = $%d", f.BusinessType)
	}
	if f.Category != "" {
		add(" AND category = $%d", f.Category)
	}
	if f.RatingMin != nil {
		add(" AND rating >= $%d", *f.RatingMin)
	}
	if f.RatingMax != nil {
		add(" AND rating <= $%d", *f.RatingMax)
	}
	if f.CreditLimitMin != nil {
		add(" AND credit_limit >= $%d", *f.CreditLimitMin)
	}
	if f.CreditLimitMax != nil {
		add(" AND credit_limit <= $%d", *f.CreditLimitMax)
	}
	if f.CreatedFrom != nil {
		add(" AND created_at >= $%d", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		add(" AND created_at <= $%d", *f.CreatedTo)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}
	col, ok := supplierSortColumns[f.SortBy]
	if !ok {
		col = "name"
	}
	dir := "ASC NULLS LAST"
	if f.SortDesc {
		dir = "DESC NULLS LAST"
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM suppliers%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		supplierColumns, where, col, dir, len(args)-1, len(args))
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todos los proveedores (resumen).
func (r *SupplierRepo) ListAll(ctx context.Context) ([]*entity.Supplier, error) {
	return r.query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY created_at DESC`)
}

func (r *SupplierRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func supplierArgs(s *entity.Supplier) []any {
	return []any{
		s.ID, s.Name, s.Code, s.Email, s.Phone, s.Website, s.AddressLine1, s.AddressLine2, s.City, s.State,
		s.PostalCode, s.Country, s.TaxID, s.BusinessRegistration, s.BusinessType, s.PrimaryContactName,
		s.PrimaryContactEmail, s.PrimaryContactPhone, s.PaymentTerms, s.CreditLimit, s.Currency, s.Rating,
		s.LeadTimeDays, s.MinimumOrderAmount, s.Status, s.SupplierType, s.Category, s.Notes, s.InternalNotes,
		s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	}
}

func scanSupplier(row pgxScanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(
		&s.ID, &s.Name, &s.Code, &s.Email, &s.Phone, &s.Website, &s.AddressLine1, &s.AddressLine2, &s.City, &s.State,
		&s.PostalCode, &s.Country, &s.TaxID, &s.BusinessRegistration, &s.BusinessType, &s.PrimaryContactName,
		&s.PrimaryContactEmail, &s.PrimaryContactPhone, &s.PaymentTerms, &s.CreditLimit, &s.Currency, &s.Rating,
		&s.LeadTimeDays, &s.MinimumOrderAmount, &s.Status, &s.SupplierType, &s.Category, &s.Notes, &s.InternalNotes,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
