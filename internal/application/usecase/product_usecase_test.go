package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

type fakeProducts struct {
	repository.ProductRepository
	byID        map[string]*entity.Product
	created     []*entity.Product
	failCreate  map[string]error // por SKU
	featured    map[string]string
	deleted     []string
	searchCalls int
}

func newFakeProducts(list ...*entity.Product) *fakeProducts {
	f := &fakeProducts{byID: map[string]*entity.Product{}, failCreate: map[string]error{}, featured: map[string]string{}}
	for _, p := range list {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	if err := f.failCreate[p.SKU]; err != nil {
		return err
	}
	f.byID[p.ID] = p
	f.created = append(f.created, p)
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return f.byID[id], nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) UpdateFeaturedImage(_ context.Context, productID, url string) error {
	f.featured[productID] = url
	return nil
}

func (f *fakeProducts) Search(_ context.Context, _ string, limit int) ([]*entity.Product, error) {
	f.searchCalls++
	out := make([]*entity.Product, 0, limit)
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductCreate_SlugYValoresPorDefecto(t *testing.T) {
	repo := newFakeProducts()
	uc := NewProductUseCase(repo, categoryTree(), nil, nil, nil)

	res, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:         " Camisa Oxford Azul ",
		CategoryID:   "camisas",
		BasePrice:    price("20"),
		SellingPrice: price("35.50"),
		SupplierID:   str(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Camisa Oxford Azul", res.Name)
	assert.Equal(t, "camisa-oxford-azul", res.Slug)
	assert.Equal(t, entity.ProductStatusDraft, res.Status)

	p := repo.byID[res.ID]
	require.NotNil(t, p)
	assert.True(t, p.TrackInventory)
	assert.True(t, p.RequiresShipping)
	assert.True(t, p.IsActive)
	assert.Nil(t, p.SupplierID)
}

func TestProductCreate_Validacion(t *testing.T) {
	tests := []struct {
		name string
		in   dto.CreateProductRequest
		want []string
	}{
		{
			name: "vacío",
			in:   dto.CreateProductRequest{},
			want: []string{"name es requerido", "category_id es requerido", "base_price es requerido", "selling_price es requerido"},
		},
		{
			name: "precios negativos y estado",
			in:   dto.CreateProductRequest{Name: "X", CategoryID: "ropa", BasePrice: price("-1"), SellingPrice: price("-2"), Status: "oculto"},
			want: []string{"base_price no puede ser negativo", "selling_price no puede ser negativo", "status inválido"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeProducts()
			uc := NewProductUseCase(repo, categoryTree(), nil, nil, nil)

			_, err := uc.Create(context.Background(), tt.in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Errors)
			assert.Empty(t, repo.created)
		})
	}

	uc := NewProductUseCase(newFakeProducts(), categoryTree(), nil, nil, nil)
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name: "X", CategoryID: "no-existe", BasePrice: price("1"), SellingPrice: price("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate_RenombrarRegeneraSlug(t *testing.T) {
	repo := newFakeProducts(&entity.Product{ID: "p1", Name: "Camisa", Slug: "camisa", CategoryID: "camisas", Status: entity.ProductStatusDraft})
	uc := NewProductUseCase(repo, categoryTree(), nil, nil, nil)
	ctx := context.Background()

	res, err := uc.Update(ctx, "p1", dto.UpdateProductRequest{Name: str("Camisa Lino")})
	require.NoError(t, err)
	assert.Equal(t, "camisa-lino", res.Slug)

	res, err = uc.Update(ctx, "p1", dto.UpdateProductRequest{Name: str("Camisa Lino Blanca"), Slug: str("lino-blanca")})
	require.NoError(t, err)
	assert.Equal(t, "lino-blanca", res.Slug)
	assert.Equal(t, "Camisa Lino Blanca", res.Name)

	for name, in := range map[string]dto.UpdateProductRequest{
		"nombre vacío":       {Name: str("  ")},
		"estado inválido":    {Status: str("oculto")},
		"categoría inválida": {CategoryID: str("no-existe")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Update(ctx, "p1", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err = uc.Update(ctx, "nope", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductSearch_MinimoDosCaracteres(t *testing.T) {
	repo := newFakeProducts(&entity.Product{ID: "p1", Name: "Camisa", SKU: "CAM-1", BasePrice: decimal.RequireFromString("10"), SellingPrice: decimal.RequireFromString("12")})
	uc := NewProductUseCase(repo, categoryTree(), nil, nil, nil)

	out, err := uc.Search(context.Background(), " c ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, repo.searchCalls)

	out, err = uc.Search(context.Background(), "ca")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "CAM-1", out[0].SKU)
	assert.True(t, out[0].Price.Equal(decimal.RequireFromString("12")))
}

func TestProductDelete_BorraObjetosDelStorage(t *testing.T) {
	repo := newFakeProducts(&entity.Product{ID: "p1", Name: "Camisa"})
	gallery := newFakeMedia(
		&entity.Media{ID: "m1", ProductID: str("p1"), BucketName: "media-files", FilePath: "products/p1/a.jpg", Thumbnails: map[string]string{"150": "products/p1/a_150.jpg"}},
		&entity.Media{ID: "m2", ProductID: str("p1"), BucketName: "documents", FilePath: "products/p1/ficha.pdf"},
	)
	storage := newFakeStorage()
	uc := NewProductUseCase(repo, categoryTree(), gallery, storage, nil)

	require.NoError(t, uc.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"p1"}, repo.deleted)
	assert.ElementsMatch(t, []string{"products/p1/a.jpg", "products/p1/a_150.jpg"}, storage.removed["media-files"])
	assert.Equal(t, []string{"products/p1/ficha.pdf"}, storage.removed["documents"])

	assert.ErrorIs(t, uc.Delete(context.Background(), "p1"), domain.ErrNotFound)
}

func TestProductDelete_FalloDeStorageNoBloquea(t *testing.T) {
	repo := newFakeProducts(&entity.Product{ID: "p1", Name: "Camisa"})
	gallery := newFakeMedia(&entity.Media{ID: "m1", ProductID: str("p1"), BucketName: "media-files", FilePath: "products/p1/a.jpg"})
	storage := newFakeStorage()
	storage.removeErr = errors.New("storage caído")
	uc := NewProductUseCase(repo, categoryTree(), gallery, storage, nil)

	require.NoError(t, uc.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"p1"}, repo.deleted)
}
