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

type fakeWarehouses struct {
	repository.WarehouseRepository
	byID    map[string]*entity.Warehouse
	active  map[string]int
	deleted []string
}

func newFakeWarehouses(list ...*entity.Warehouse) *fakeWarehouses {
	f := &fakeWarehouses{byID: map[string]*entity.Warehouse{}, active: map[string]int{}}
	for _, w := range list {
		f.byID[w.ID] = w
	}
	return f
}

func (f *fakeWarehouses) Create(_ context.Context, w *entity.Warehouse) error {
	f.byID[w.ID] = w
	return nil
}

func (f *fakeWarehouses) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return f.byID[id], nil
}

func (f *fakeWarehouses) Update(_ context.Context, w *entity.Warehouse) error {
	f.byID[w.ID] = w
	return nil
}

func (f *fakeWarehouses) ClearDefault(_ context.Context, exceptID string) error {
	for _, w := range f.byID {
		if w.ID != exceptID {
			w.IsDefault = false
		}
	}
	return nil
}

func (f *fakeWarehouses) CountActiveInventory(_ context.Context, id string) (int, error) {
	return f.active[id], nil
}

func (f *fakeWarehouses) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

// warehouseTx ejecuta el callback sobre el mismo fake.
type warehouseTx struct {
	repo *fakeWarehouses
}

func (t warehouseTx) Run(_ context.Context, fn func(repository.TxRepos) error) error {
	return fn(repository.TxRepos{Warehouses: t.repo})
}

func newWarehouseUC(repo *fakeWarehouses) *WarehouseUseCase {
	return NewWarehouseUseCase(repo, warehouseTx{repo})
}

func TestWarehouseCreate_PorDefectoDesmarcaLaAnterior(t *testing.T) {
	repo := newFakeWarehouses(&entity.Warehouse{ID: "w1", Name: "Principal", Code: "MAIN", IsDefault: true})
	uc := newWarehouseUC(repo)

	res, err := uc.Create(context.Background(), dto.CreateWarehouseRequest{Name: " Norte ", Code: "nte-01", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, "Norte", res.Name)
	assert.Equal(t, "NTE-01", res.Code)
	assert.Equal(t, "UTC", res.Timezone)
	assert.True(t, res.IsActive)
	assert.True(t, res.SupportsReturns)
	assert.True(t, repo.byID[res.ID].IsDefault)
	assert.False(t, repo.byID["w1"].IsDefault)

	_, err = uc.Create(context.Background(), dto.CreateWarehouseRequest{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name es requerido", "code es requerido"}, verr.Errors)
}

func TestWarehouseUpdate_MarcarPorDefecto(t *testing.T) {
	repo := newFakeWarehouses(
		&entity.Warehouse{ID: "w1", Name: "Principal", Code: "MAIN", IsDefault: true},
		&entity.Warehouse{ID: "w2", Name: "Norte", Code: "NTE"},
	)
	uc := newWarehouseUC(repo)
	yes := true

	res, err := uc.Update(context.Background(), "w2", dto.UpdateWarehouseRequest{IsDefault: &yes, Code: str(" nte-2 ")})
	require.NoError(t, err)
	assert.True(t, res.IsDefault)
	assert.Equal(t, "NTE-2", res.Code)
	assert.False(t, repo.byID["w1"].IsDefault)

	_, err = uc.Update(context.Background(), "w2", dto.UpdateWarehouseRequest{Name: str(" ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(context.Background(), "nope", dto.UpdateWarehouseRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWarehouseDelete_Guardas(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"bodega por defecto", "w1", domain.ErrConflict},
		{"con inventario activo", "w2", domain.ErrConflict},
		{"inexistente", "nope", domain.ErrNotFound},
		{"vacía", "w3", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeWarehouses(
				&entity.Warehouse{ID: "w1", Name: "Principal", IsDefault: true},
				&entity.Warehouse{ID: "w2", Name: "Norte"},
				&entity.Warehouse{ID: "w3", Name: "Sur"},
			)
			repo.active["w2"] = 4
			uc := newWarehouseUC(repo)

			err := uc.Delete(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.deleted)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.id}, repo.deleted)
		})
	}
}
