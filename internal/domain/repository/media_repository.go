package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// MediaFilter filtros del listado de media.
type MediaFilter struct {
	ProductID  string
	CategoryID string
	MediaType  string
	UsageType  string
	Limit      int
	Offset     int
}

// MediaRepository define el puerto de persistencia para Media.
type MediaRepository interface {
	Create(ctx context.Context, m *entity.Media) error
	GetByID(ctx context.Context, id string) (*entity.Media, error)
	Update(ctx context.Context, m *entity.Media) error
	Delete(ctx context.Context, id string) error
	// List ordenado por display_order, created_at.
	List(ctx context.Context, f MediaFilter) ([]*entity.Media, int, error)
	// UnsetPrimary quita la marca de principal a los media del producto salvo exceptID.
	UnsetPrimary(ctx context.Context, productID, exceptID string) error
	SetDisplayOrder(ctx context.Context, productID, mediaID string, order int) error
	DeleteByProduct(ctx context.Context, productID string) error
}
