package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.MediaRepository = (*MediaRepo)(nil)

// MediaRepo metadata de archivos en Supabase Storage.
type MediaRepo struct {
	q Querier
}

// NewMediaRepository construye el adaptador de media.
func NewMediaRepository(q Querier) *MediaRepo {
	return &MediaRepo{q: q}
}

const mediaColumns = `
	id, file_name, file_path, bucket_name, file_size, mime_type, file_extension, width, height, product_id,
	category_id, media_type, usage_type, is_primary, display_order, alt_text, caption, description, tags,
	visibility, is_active, is_featured, thumbnails, created_by, created_at, updated_at`

// Create persiste la metadata de un archivo subido.
func (r *MediaRepo) Create(ctx context.Context, m *entity.Media) error {
	query := `
		INSERT INTO media (` + mediaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.FileName, m.FilePath, m.BucketName, m.FileSize, m.MimeType, m.FileExtension, m.Width, m.Height, m.ProductID,
		m.CategoryID, m.MediaType, m.UsageType, m.IsPrimary, m.DisplayOrder, m.AltText, m.Caption, m.Description, tagsOrEmpty(m.Tags),
		m.Visibility, m.IsActive, m.IsFeatured, thumbnailsOrEmpty(m.Thumbnails), m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert media", err)
	}
	return nil
}

// GetByID obtiene un media por ID.
func (r *MediaRepo) GetByID(ctx context.Context, id string) (*entity.Media, error) {
	if !validUUID(id) {
		return nil, nil
	}
	m, err := scanMedia(r.q.QueryRow(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return m, nil
}

// Update actualiza los campos editables.
func (r *MediaRepo) Update(ctx context.Context, m *entity.Media) error {
	query := `
		UPDATE media SET alt_text = $2, caption = $3, description = $4, is_primary = $5, display_order = $6,
			is_active = $7, is_featured = $8, visibility = $9, tags = $10, thumbnails = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.AltText, m.Caption, m.Description, m.IsPrimary, m.DisplayOrder,
		m.IsActive, m.IsFeatured, m.Visibility, tagsOrEmpty(m.Tags), thumbnailsOrEmpty(m.Thumbnails), m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update media", err)
	}
	return nil
}

// Delete elimina la fila (los objetos del storage se borran aparte).
func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM media WHERE id = $1`, id); err != nil {
		return mapDeleteError("delete media", err)
	}
	return nil
}

// List media filtrados por producto, categoría, tipo o uso.
func (r *MediaRepo) List(ctx context.Context, f repository.MediaFilter) ([]*entity.Media, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if f.ProductID != "" {
		if !validUUID(f.ProductID) {
			return []*entity.Media{}, 0, nil
		}
		args = append(args, f.ProductID)
		where += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if f.CategoryID != "" {
		if !validUUID(f.CategoryID) {
			return []*entity.Media{}, 0, nil
		}
		args = append(args, f.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.MediaType != "" {
		args = append(args, f.MediaType)
		where += fmt.Sprintf(" AND media_type = $%d", len(args))
	}
	if f.UsageType != "" {
		args = append(args, f.UsageType)
		where += fmt.Sprintf(" AND usage_type = $%d", len(args))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM media`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}
	query := `SELECT ` + mediaColumns + ` FROM media` + where + ` ORDER BY display_order, created_at`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Media, 0)
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan media: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// UnsetPrimary quita is_primary a los media del producto excepto exceptID.
func (r *MediaRepo) UnsetPrimary(ctx context.Context, productID, exceptID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE media SET is_primary = FALSE, updated_at = now() WHERE product_id = $1 AND is_primary AND id::text <> $2`,
		productID, exceptID)
	if err != nil {
		return fmt.Errorf("unset primary media: %w", err)
	}
	return nil
}

// SetDisplayOrder fija la posición de un media del producto.
func (r *MediaRepo) SetDisplayOrder(ctx context.Context, productID, mediaID string, order int) error {
	if !validUUID(mediaID) {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE media SET display_order = $3, updated_at = now() WHERE id = $2 AND product_id = $1`,
		productID, mediaID, order)
	if err != nil {
		return fmt.Errorf("set media display order: %w", err)
	}
	return nil
}

// DeleteByProduct elimina todas las filas de media del producto.
func (r *MediaRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM media WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete product media: %w", err)
	}
	return nil
}

func thumbnailsOrEmpty(t map[string]string) map[string]string {
	if t == nil {
		return map[string]string{}
	}
	return t
}

func scanMedia(row pgxScanner) (*entity.Media, error) {
	var m entity.Media
	err := row.Scan(
		&m.ID, &m.FileName, &m.FilePath, &m.BucketName, &m.FileSize, &m.MimeType, &m.FileExtension, &m.Width, &m.Height, &m.ProductID,
		&m.CategoryID, &m.MediaType, &m.UsageType, &m.IsPrimary, &m.DisplayOrder, &m.AltText, &m.Caption, &m.Description, &m.Tags,
		&m.Visibility, &m.IsActive, &m.IsFeatured, &m.Thumbnails, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
