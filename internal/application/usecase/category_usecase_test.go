package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

type fakeCategories struct {
	repository.CategoryRepository
	byID     map[string]*entity.Category
	products map[string]int
	filter   repository.CategoryFilter
	deleted  []string
}

func newFakeCategories(list ...*entity.Category) *fakeCategories {
	f := &fakeCategories{byID: map[string]*entity.Category{}, products: map[string]int{}}
	for _, c := range list {
		f.byID[c.ID] = c
	}
	return f
}

func (f *fakeCategories) Create(_ context.Context, c *entity.Category) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	return f.byID[id], nil
}

func (f *fakeCategories) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range f.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range f.byID {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) Update(_ context.Context, c *entity.Category) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeCategories) List(_ context.Context, flt repository.CategoryFilter) ([]*entity.Category, int, error) {
	f.filter = flt
	return nil, 0, nil
}

func (f *fakeCategories) ListAll(context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCategories) CountChildren(_ context.Context, id string) (int, error) {
	n := 0
	for _, c := range f.byID {
		if c.ParentID != nil && *c.ParentID == id {
			n++
		}
	}
	return n, nil
}

func (f *fakeCategories) CountProducts(_ context.Context, id string) (int, error) {
	return f.products[id], nil
}

// spyCache caché en memoria que registra las invalidaciones.
type spyCache struct {
	invalidations int
}

func (c *spyCache) Get(context.Context, string, interface{}) (bool, error)        { return false, nil }
func (c *spyCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (c *spyCache) Delete(context.Context, ...string) error {
	c.invalidations++
	return nil
}

// ropa > hombre > camisas
func categoryTree() *fakeCategories {
	return newFakeCategories(
		&entity.Category{ID: "ropa", Name: "Ropa", Slug: "ropa", Path: "ropa"},
		&entity.Category{ID: "hombre", ParentID: str("ropa"), Name: "Hombre", Slug: "hombre", Level: 1, Path: "ropa/hombre"},
		&entity.Category{ID: "camisas", ParentID: str("hombre"), Name: "Camisas", Slug: "camisas", Level: 2, Path: "ropa/hombre/camisas"},
		&entity.Category{ID: "hogar", Name: "Hogar", Slug: "hogar", Path: "hogar"},
	)
}

func TestCategoryCreate_SlugYUbicacion(t *testing.T) {
	repo := categoryTree()
	cache := &spyCache{}
	uc := NewCategoryUseCase(repo, cache, time.Minute, nil)
	ctx := context.Background()

	res, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: " Pantalones Cortos ", ParentID: str("hombre")})
	require.NoError(t, err)
	assert.Equal(t, "pantalones-cortos", res.Slug)
	assert.Equal(t, 2, res.Level)
	assert.Equal(t, "ropa/hombre/pantalones-cortos", res.Path)
	assert.True(t, res.IsActive)
	assert.Equal(t, 1, cache.invalidations)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Otra ropa", Slug: "ropa"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Huérfana", ParentID: str("no-existe")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryUpdate_PadreNoPuedeSerSiMismaNiDescendiente(t *testing.T) {
	tests := []struct {
		name   string
		parent string
	}{
		{"si misma", "ropa"},
		{"hija", "hombre"},
		{"nieta", "camisas"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewCategoryUseCase(categoryTree(), &spyCache{}, time.Minute, nil)
			_, err := uc.Update(context.Background(), "ropa", dto.UpdateCategoryRequest{ParentID: str(tt.parent)})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCategoryUpdate_MoverRecalculaLaRama(t *testing.T) {
	repo := categoryTree()
	uc := NewCategoryUseCase(repo, &spyCache{}, time.Minute, nil)

	res, err := uc.Update(context.Background(), "hombre", dto.UpdateCategoryRequest{ParentID: str("hogar")})
	require.NoError(t, err)
	assert.Equal(t, "hogar/hombre", res.Path)
	assert.Equal(t, 1, res.Level)
	assert.Equal(t, "hogar/hombre/camisas", repo.byID["camisas"].Path)
	assert.Equal(t, 2, repo.byID["camisas"].Level)

	_, err = uc.Update(context.Background(), "hogar", dto.UpdateCategoryRequest{Slug: str("ropa")})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestCategoryDelete_Guardas(t *testing.T) {
	repo := categoryTree()
	repo.products["hogar"] = 3
	uc := NewCategoryUseCase(repo, &spyCache{}, time.Minute, nil)
	ctx := context.Background()

	assert.ErrorIs(t, uc.Delete(ctx, "hombre"), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Delete(ctx, "hogar"), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, "nope"), domain.ErrNotFound)
	assert.Empty(t, repo.deleted)

	require.NoError(t, uc.Delete(ctx, "camisas"))
	assert.Equal(t, []string{"camisas"}, repo.deleted)
}

func TestCategoryList_LimiteAcotado(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"cero", 0, 20},
		{"negativo", -5, 20},
		{"excesivo", 1000, 100},
		{"normal", 30, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeCategories()
			uc := NewCategoryUseCase(repo, &spyCache{}, time.Minute, nil)

			res, err := uc.List(context.Background(), dto.CategoryListQuery{Page: 2, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, repo.filter.Limit)
			assert.Equal(t, tt.wantLimit, repo.filter.Offset)
			assert.Equal(t, tt.wantLimit, res.Limit)
			assert.True(t, repo.filter.RootOnly)
		})
	}
}
