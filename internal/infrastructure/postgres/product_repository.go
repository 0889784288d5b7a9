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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, p.name, p.slug, p.description, p.short_description, p.sku, p.barcode, p.brand,
	p.category_id, p.supplier_id, p.base_price, p.selling_price, p.cost_price, p.discount_percentage,
	p.tax_rate, p.stock_quantity, p.min_stock_level, p.max_stock_level, p.track_inventory,
	p.requires_shipping, p.is_digital, p.weight, p.dimensions, p.tags, p.status, p.is_active,
	p.is_featured, p.featured_image_url, p.attributes, p.created_at, p.updated_at,
	COALESCE(c.name, '')`

const productFrom = ` FROM products p LEFT JOIN categories c ON c.id = p.category_id`

var productSortColumns = map[string]string{
	"name":           "p.name",
	"created_at":     "p.created_at",
	"selling_price":  "p.selling_price",
	"stock_quantity": "p.stock_quantity",
	"updated_at":     "p.updated_at",
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, short_description, sku, barcode, brand,
			category_id, supplier_id, base_price, selling_price, cost_price, discount_percentage, tax_rate,
			stock_quantity, min_stock_level, max_stock_level, track_inventory, requires_shipping, is_digital,
			weight, dimensions, tags, status, is_active, is_featured, featured_image_url, attributes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.ShortDescription, nullIfEmpty(p.SKU), p.Barcode, p.Brand,
		p.CategoryID, p.SupplierID, p.BasePrice, p.SellingPrice, p.CostPrice, p.DiscountPercentage, p.TaxRate,
		p.StockQuantity, p.MinStockLevel, p.MaxStockLevel, p.TrackInventory, p.RequiresShipping, p.IsDigital,
		p.Weight, p.Dimensions, tagsOrEmpty(p.Tags), p.Status, p.IsActive, p.IsFeatured, p.FeaturedImageURL, p.Attributes,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validUUID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza todos los campos editables de un producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, slug = $3, description = $4, short_description = $5, sku = $6,
			barcode = $7, brand = $8, category_id = $9, supplier_id = $10, base_price = $11,
			selling_price = $12, cost_price = $13, discount_percentage = $14, tax_rate = $15,
			stock_quantity = $16, min_stock_level = $17, max_stock_level = $18, track_inventory = $19,
			requires_shipping = $20, is_digital = $21, weight = $22, dimensions = $23, tags = $24,
			status = $25, is_active = $26, is_featured = $27, featured_image_url = $28, attributes = $29,
			updated_at = $30
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.ShortDescription, nullIfEmpty(p.SKU),
		p.Barcode, p.Brand, p.CategoryID, p.SupplierID, p.BasePrice,
		p.SellingPrice, p.CostPrice, p.DiscountPercentage, p.TaxRate,
		p.StockQuantity, p.MinStockLevel, p.MaxStockLevel, p.TrackInventory,
		p.RequiresShipping, p.IsDigital, p.Weight, p.Dimensions, tagsOrEmpty(p.Tags),
		p.Status, p.IsActive, p.IsFeatured, p.FeaturedImageURL, p.Attributes,
		p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil
	}
	return nil
}

// UpdateFeaturedImage actualiza la imagen destacada.
func (r *ProductRepo) UpdateFeaturedImage(ctx context.Context, productID, url string) error {
	_, err := r.q.Exec(ctx, `UPDATE products SET featured_image_url = $2, updated_at = now() WHERE id = $1`, productID, url)
	if err != nil {
		return fmt.Errorf("update featured image: %w", err)
	}
	return nil
}

// List lista productos con filtros, orden y paginación; devuelve también el total.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(cond, len(args))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, ilike(s))
		n := len(args)
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.sku ILIKE $%d OR p.description ILIKE $%d)", n, n, n)
	}
	if f.CategoryID != "" {
		add(" AND p.category_id = $%d", f.CategoryID)
	}
	if f.Status != "" {
		add(" AND p.status = $%d", f.Status)
	}
	if f.IsActive != nil {
		add(" AND p.is_active = $%d", *f.IsActive)
	}
	if f.IsFeatured != nil {
		add(" AND p.is_featured = $%d", *f.IsFeatured)
	}
	if f.MinPrice != nil {
		add(" AND p.selling_price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add(" AND p.selling_price <= $%d", *f.MaxPrice)
	}
	if f.InStock != nil {
		if *f.InStock {
			where += " AND p.stock_quantity > 0"
		} else {
			where += " AND p.stock_quantity <= 0"
		}
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+productFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	col, ok := productSortColumns[f.SortBy]
	if !ok {
		col = "p.created_at"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY %s %s, p.id LIMIT $%d OFFSET $%d`,
		productColumns, productFrom, where, col, dir, len(args)-1, len(args))
	list, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Search búsqueda rápida por nombre o SKU sobre productos activos.
func (r *ProductRepo) Search(ctx context.Context, q string, limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + productFrom + `
		WHERE p.is_active AND (p.name ILIKE $1 OR p.sku ILIKE $1)
		ORDER BY p.name LIMIT $2`
	return r.queryProducts(ctx, query, ilike(q), limit)
}

// ListForExport productos a exportar (sin paginación), ordenados por nombre.
func (r *ProductRepo) ListForExport(ctx context.Context, f repository.ProductExportFilter) ([]*entity.Product, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where += fmt.Sprintf(" AND p.category_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	return r.queryProducts(ctx, `SELECT `+productColumns+productFrom+where+` ORDER BY p.name`, args...)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return mapDeleteError("delete product", err)
	}
	return nil
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	var sku *string
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription, &sku, &p.Barcode, &p.Brand,
		&p.CategoryID, &p.SupplierID, &p.BasePrice, &p.SellingPrice, &p.CostPrice, &p.DiscountPercentage,
		&p.TaxRate, &p.StockQuantity, &p.MinStockLevel, &p.MaxStockLevel, &p.TrackInventory,
		&p.RequiresShipping, &p.IsDigital, &p.Weight, &p.Dimensions, &p.Tags, &p.Status, &p.IsActive,
		&p.IsFeatured, &p.FeaturedImageURL, &p.Attributes, &p.CreatedAt, &p.UpdatedAt,
		&p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	p.SKU = derefString(sku)
	return &p, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
