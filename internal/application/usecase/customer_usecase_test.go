package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

type fakeCustomers struct {
	repository.CustomerRepository
	byID        map[string]*entity.Customer
	searchCalls int
}

func (f *fakeCustomers) Create(_ context.Context, c *entity.Customer) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return f.byID[id], nil
}

func (f *fakeCustomers) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, c := range f.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomers) Update(_ context.Context, c *entity.Customer) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCustomers) Search(_ context.Context, _ string, limit int) ([]*entity.Customer, error) {
	f.searchCalls++
	out := make([]*entity.Customer, 0, limit)
	for _, c := range f.byID {
		if len(out) == limit {
			break
		}
		out = append(out, c)
	}
	return out, nil
}

func TestCustomerCreate_NormalizaEmailYRechazaDuplicado(t *testing.T) {
	repo := &fakeCustomers{byID: map[string]*entity.Customer{}}
	uc := NewCustomerUseCase(repo)
	ctx := context.Background()

	res, err := uc.Create(ctx, dto.CustomerRequest{Name: str(" Ana Pérez "), Email: str(" Ana@Example.COM "), Phone: str("555-0101")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", res.Name)
	assert.Equal(t, "ana@example.com", res.Email)
	assert.Equal(t, "555-0101", res.Phone)

	_, err = uc.Create(ctx, dto.CustomerRequest{Name: str("Otra"), Email: str("ANA@example.com")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCustomerCreate_Validacion(t *testing.T) {
	uc := NewCustomerUseCase(&fakeCustomers{byID: map[string]*entity.Customer{}})
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CustomerRequest{Email: str("a@b.test")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CustomerRequest{Name: str("Ana"), Email: str("no-es-email")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCustomerUpdate(t *testing.T) {
	repo := &fakeCustomers{byID: map[string]*entity.Customer{
		"c1": {ID: "c1", Name: "Ana", Email: "ana@example.com", Address: "Calle 1"},
	}}
	uc := NewCustomerUseCase(repo)
	ctx := context.Background()

	res, err := uc.Update(ctx, "c1", dto.CustomerRequest{Phone: str("555-0199")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", res.Name)
	assert.Equal(t, "555-0199", res.Phone)
	assert.Equal(t, "Calle 1", res.Address)

	_, err = uc.Update(ctx, "c1", dto.CustomerRequest{Name: str("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "nope", dto.CustomerRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerSearch_MinimoDosCaracteres(t *testing.T) {
	repo := &fakeCustomers{byID: map[string]*entity.Customer{
		"c1": {ID: "c1", Name: "Ana", Email: "ana@example.com"},
	}}
	uc := NewCustomerUseCase(repo)

	out, err := uc.Search(context.Background(), " a ")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, repo.searchCalls)

	out, err = uc.Search(context.Background(), "an")
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 1, repo.searchCalls)
}
