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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación de CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// product_count se calcula en la lectura.
const categoryColumns = `
	c.id, c.parent_id, c.name, c.slug, c.description, c.level, c.path, c.image_url, c.icon, c.color,
	c.sort_order, c.is_active, c.is_featured, c.seo_title, c.seo_description, c.meta_keywords,
	(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id), c.created_at, c.updated_at`

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, parent_id, name, slug, description, level, path, image_url, icon, color,
			sort_order, is_active, is_featured, seo_title, seo_description, meta_keywords, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ParentID, c.Name, c.Slug, c.Description, c.Level, c.Path, c.ImageURL, c.Icon, c.Color,
		c.SortOrder, c.IsActive, c.IsFeatured, c.SEOTitle, c.SEODescription, c.MetaKeywords, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert category", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.id = $1`, id)
}

// GetBySlug obtiene una categoría por slug.
func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE c.slug = $1`, slug)
}

// GetByName obtiene una categoría por nombre exacto (sin distinguir mayúsculas).
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories c WHERE lower(c.name) = lower($1) LIMIT 1`, strings.TrimSpace(name))
}

func (r *CategoryRepo) getOne(ctx context.Context, query string, arg any) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Update actualiza una categoría.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categories SET parent_id = $2, name = $3, slug = $4, description = $5, level = $6, path = $7,
			image_url = $8, icon = $9, color = $10, sort_order = $11, is_active = $12, is_featured = $13,
			seo_title = $14, seo_description = $15, meta_keywords = $16, updated_at = $17
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ParentID, c.Name, c.Slug, c.Description, c.Level, c.Path,
		c.ImageURL, c.Icon, c.Color, c.SortOrder, c.IsActive, c.IsFeatured,
		c.SEOTitle, c.SEODescription, c.MetaKeywords, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update category", err)
	}
	return nil
}

// Delete elimina una categoría por ID.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return mapDeleteError("delete category", err)
	}
	return nil
}

// List lista categorías con filtros y paginación.
func (r *CategoryRepo) List(ctx context.Context, f repository.CategoryFilter) ([]*entity.Category, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, ilike(s))
		where += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.description ILIKE $%d)", len(args), len(args))
	}
	if f.RootOnly {
		where += " AND c.parent_id IS NULL"
	} else if f.ParentID != "" {
		args = append(args, f.ParentID)
		where += fmt.Sprintf(" AND c.parent_id = $%d", len(args))
	}
	if f.IsActive != nil {
		args = append(args, *f.IsActive)
		where += fmt.Sprintf(" AND c.is_active = $%d", len(args))
	}
	if f.IsFeatured != nil {
		args = append(args, *f.IsFeatured)
		where += fmt.Sprintf(" AND c.is_featured = $%d", len(args))
	}
	if f.Level != nil {
		args = append(args, *f.Level)
		where += fmt.Sprintf(" AND c.level = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM categories c`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	order := "c.sort_order " + dir + ", c.name ASC"
	switch f.SortBy {
	case "name":
		order = "c.name " + dir
	case "created_at":
		order = "c.created_at " + dir
	case "product_count":
		order = "17 " + dir + ", c.name ASC"
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM categories c%s ORDER BY %s LIMIT $%d OFFSET $%d`,
		categoryColumns, where, order, len(args)-1, len(args))
	list, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll todas las categorías ordenadas por sort_order, name.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]*entity.Category, error) {
	return r.query(ctx, `SELECT `+categoryColumns+` FROM categories c ORDER BY c.sort_order, c.name`)
}

// CountChildren subcategorías directas.
func (r *CategoryRepo) CountChildren(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subcategories: %w", err)
	}
	return n, nil
}

// CountProducts productos asignados a la categoría.
func (r *CategoryRepo) CountProducts(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count category products: %w", err)
	}
	return n, nil
}

// Stats agregados de categorías.
func (r *CategoryRepo) Stats(ctx context.Context) (*entity.CategoryStats, error) {
	query := `
		WITH counts AS (
			SELECT c.id, c.is_active, c.is_featured, c.level, c.created_at,
				(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS products
			FROM categories c
		)
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_active),
			COUNT(*) FILTER (WHERE is_featured),
			COUNT(*) FILTER (WHERE products > 0),
			COALESCE(AVG(products), 0)::float8,
			COALESCE(MAX(level), 0),
			COUNT(*) FILTER (WHERE created_at >= now() - interval '30 days')
		FROM counts`
	var s entity.CategoryStats
	err := r.q.QueryRow(ctx, query).Scan(
		&s.Total, &s.Active, &s.Featured, &s.WithProducts, &s.AvgProductsPerCategory, &s.MaxDepth, &s.Recent,
	)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	return &s, nil
}

func (r *CategoryRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCategory(row pgxScanner) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(
		&c.ID, &c.ParentID, &c.Name, &c.Slug, &c.Description, &c.Level, &c.Path, &c.ImageURL, &c.Icon, &c.Color,
		&c.SortOrder, &c.IsActive, &c.IsFeatured, &c.SEOTitle, &c.SEODescription, &c.MetaKeywords,
		&c.ProductCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
