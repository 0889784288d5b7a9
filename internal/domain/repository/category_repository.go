package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// CategoryFilter filtros del listado de categorías.
// RootOnly limita a categorías sin padre; ParentID a hijas directas.
type CategoryFilter struct {
	Search     string
	ParentID   string
	RootOnly   bool
	IsActive   *bool
	IsFeatured *bool
	Level      *int
	SortBy     string // sort_order, name, created_at, product_count
	SortDesc   bool
	Limit      int
	Offset     int
}

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	// GetByName búsqueda exacta sin distinguir mayúsculas (importación CSV).
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f CategoryFilter) ([]*entity.Category, int, error)
	// ListAll todas las categorías ordenadas por sort_order, name.
	ListAll(ctx context.Context) ([]*entity.Category, error)
	CountChildren(ctx context.Context, id string) (int, error)
	CountProducts(ctx context.Context, id string) (int, error)
	Stats(ctx context.Context) (*entity.CategoryStats, error)
}
