package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var supplierNow = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

type fakeSuppliers struct {
	repository.SupplierRepository
	list    []*entity.Supplier
	created *entity.Supplier
	filter  repository.SupplierFilter
}

func (f *fakeSuppliers) Create(_ context.Context, s *entity.Supplier) error {
	f.created = s
	return nil
}

func (f *fakeSuppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	for _, s := range f.list {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSuppliers) List(_ context.Context, flt repository.SupplierFilter) ([]*entity.Supplier, int, error) {
	f.filter = flt
	return f.list, len(f.list), nil
}

func (f *fakeSuppliers) ListAll(context.Context) ([]*entity.Supplier, error) {
	return f.list, nil
}

func str(s string) *string { return &s }

func rating(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestSupplierCreate_Defaults(t *testing.T) {
	repo := &fakeSuppliers{}
	uc := NewSupplierUseCase(repo)
	uc.now = func() time.Time { return supplierNow }

	res, err := uc.Create(context.Background(), "", dto.SupplierRequest{
		Name:     str("  Textiles del Norte "),
		Email:    str("ventas@textiles.test"),
		Currency: str("mxn"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Textiles del Norte", res.Name)
	require.NotNil(t, repo.created)
	assert.Equal(t, "system", repo.created.CreatedBy)
	assert.Equal(t, entity.SupplierStatusActive, repo.created.Status)
	assert.Equal(t, "manufacturer", repo.created.SupplierType)
	assert.Equal(t, "MXN", repo.created.Currency)
}

func TestSupplierCreate_Validacion(t *testing.T) {
	uc := NewSupplierUseCase(&fakeSuppliers{})
	ctx := context.Background()

	_, err := uc.Create(ctx, "u", dto.SupplierRequest{Name: str("Sin email")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "u", dto.SupplierRequest{Name: str("X"), Email: str("x@y.test"), Rating: rating("5.5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "u", dto.SupplierRequest{Name: str("X"), Email: str("x@y.test"), Status: str("dormido")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupplierList_NormalizaOrdenYPaginacion(t *testing.T) {
	repo := &fakeSuppliers{}
	uc := NewSupplierUseCase(repo)

	res, err := uc.List(context.Background(), dto.SupplierListQuery{Page: 3, Limit: 500, SortBy: "createdAt", SortOrder: "DESC"})
	require.NoError(t, err)
	assert.Equal(t, 50, res.Limit)
	assert.Equal(t, "created_at", repo.filter.SortBy)
	assert.True(t, repo.filter.SortDesc)
	assert.Equal(t, 100, repo.filter.Offset)

	_, err = uc.List(context.Background(), dto.SupplierListQuery{SortBy: "drop table"})
	require.NoError(t, err)
	assert.Equal(t, "name", repo.filter.SortBy)
}

func TestSupplierSummary(t *testing.T) {
	repo := &fakeSuppliers{list: []*entity.Supplier{
		{ID: "a", Name: "A", Status: entity.SupplierStatusActive, SupplierType: "manufacturer", Rating: rating("4.8"), CreatedAt: supplierNow.AddDate(0, 0, -2)},
		{ID: "b", Name: "B", Status: entity.SupplierStatusActive, SupplierType: "distributor", Rating: rating("3.6"), CreatedAt: supplierNow.AddDate(0, -6, 0)},
		{ID: "c", Name: "C", Status: entity.SupplierStatusSuspended, SupplierType: "manufacturer", Rating: rating("1.0"), CreatedAt: supplierNow.AddDate(0, -3, 0)},
		{ID: "d", Name: "D", Status: entity.SupplierStatusPending, CreatedAt: supplierNow.AddDate(0, 0, -10)},
	}}
	uc := NewSupplierUseCase(repo)
	uc.now = func() time.Time { return supplierNow }

	s, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalSuppliers)
	assert.Equal(t, 2, s.ActiveSuppliers)
	assert.Equal(t, 1, s.SuspendedSuppliers)
	assert.Equal(t, 1, s.PendingSuppliers)
	// (4.8 + 3.6 + 1.0) / 3
	assert.True(t, s.AverageRating.Equal(decimal.RequireFromString("3.1")), "promedio: %s", s.AverageRating)

	assert.Equal(t, []dto.SupplierBucket{
		{Type: "manufacturer", Count: 2, Percentage: 50},
		{Type: "distributor", Count: 1, Percentage: 25},
		{Type: "unknown", Count: 1, Percentage: 25},
	}, s.SuppliersByType)
	assert.Equal(t, []dto.SupplierBucket{
		{Status: "excellent", Count: 1, Percentage: 33},
		{Status: "good", Count: 1, Percentage: 33},
		{Status: "fair", Count: 0, Percentage: 0},
		{Status: "poor", Count: 1, Percentage: 33},
		{Status: "not_rated", Count: 1, Percentage: 25},
	}, s.SuppliersByPerformance)

	require.Len(t, s.TopSuppliers, 3)
	assert.Equal(t, "a", s.TopSuppliers[0].ID)
	assert.Equal(t, "c", s.TopSuppliers[2].ID)

	require.Len(t, s.RecentSuppliers, 2)
	assert.Equal(t, "a", s.RecentSuppliers[0].ID)
	assert.Equal(t, "d", s.RecentSuppliers[1].ID)
}

func TestSupplierDelete_NoEncontrado(t *testing.T) {
	uc := NewSupplierUseCase(&fakeSuppliers{})
	assert.ErrorIs(t, uc.Delete(context.Background(), "nope"), domain.ErrNotFound)
}
