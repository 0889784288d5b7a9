package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
// El cambio de bodega por defecto se hace en la misma transacción que la escritura.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
	tx   repository.TxRunner
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, tx repository.TxRunner) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, tx: tx}
}

// Create crea una nueva bodega. El código se guarda en mayúsculas.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	var msgs []string
	if strings.TrimSpace(in.Name) == "" {
		msgs = append(msgs, "name es requerido")
	}
	if strings.TrimSpace(in.Code) == "" {
		msgs = append(msgs, "code es requerido")
	}
	if err := domain.NewValidationError(msgs); err != nil {
		return nil, err
	}
	now := time.Now()
	w := &entity.Warehouse{
		ID:                      uuid.New().String(),
		Name:                    strings.TrimSpace(in.Name),
		Code:                    strings.ToUpper(strings.TrimSpace(in.Code)),
		Description:             in.Description,
		AddressLine1:            in.AddressLine1,
		AddressLine2:            in.AddressLine2,
		City:                    in.City,
		State:                   in.State,
		PostalCode:              in.PostalCode,
		Country:                 in.Country,
		Phone:                   in.Phone,
		Email:                   in.Email,
		ManagerName:             in.ManagerName,
		IsActive:                boolOr(in.IsActive, true),
		IsDefault:               in.IsDefault,
		Timezone:                in.Timezone,
		MaxCapacity:             in.MaxCapacity,
		MaxVolumeM3:             in.MaxVolumeM3,
		MaxWeightKg:             in.MaxWeightKg,
		SupportsReceiving:       boolOr(in.SupportsReceiving, true),
		SupportsShipping:        boolOr(in.SupportsShipping, true),
		SupportsReturns:         boolOr(in.SupportsReturns, true),
		SupportsTransfers:       boolOr(in.SupportsTransfers, true),
		IsTemperatureControlled: in.IsTemperatureControlled,
		IsHazmatApproved:        in.IsHazmatApproved,
		TotalValue:              decimal.Zero,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if w.Timezone == "" {
		w.Timezone = "UTC"
	}
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		if w.IsDefault {
			if err := r.Warehouses.ClearDefault(ctx, w.ID); err != nil {
				return err
			}
		}
		return r.Warehouses.Create(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(w), nil
}

// Update actualiza una bodega. Marcarla por defecto desmarca la anterior.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name no puede estar vacío")
		}
		w.Name = name
	}
	if in.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*in.Code))
		if code == "" {
			return nil, domain.Invalid("code no puede estar vacío")
		}
		w.Code = code
	}
	setString(&w.Description, in.Description)
	setString(&w.AddressLine1, in.AddressLine1)
	setString(&w.AddressLine2, in.AddressLine2)
	setString(&w.City, in.City)
	setString(&w.State, in.State)
	setString(&w.PostalCode, in.PostalCode)
	setString(&w.Country, in.Country)
	setString(&w.Phone, in.Phone)
	setString(&w.Email, in.Email)
	setString(&w.ManagerName, in.ManagerName)
	setString(&w.Timezone, in.Timezone)
	setBool(&w.IsActive, in.IsActive)
	setBool(&w.SupportsReceiving, in.SupportsReceiving)
	setBool(&w.SupportsShipping, in.SupportsShipping)
	setBool(&w.SupportsReturns, in.SupportsReturns)
	setBool(&w.SupportsTransfers, in.SupportsTransfers)
	setBool(&w.IsTemperatureControlled, in.IsTemperatureControlled)
	setBool(&w.IsHazmatApproved, in.IsHazmatApproved)
	if in.MaxCapacity != nil {
		w.MaxCapacity = in.MaxCapacity
	}
	if in.MaxVolumeM3 != nil {
		w.MaxVolumeM3 = in.MaxVolumeM3
	}
	if in.MaxWeightKg != nil {
		w.MaxWeightKg = in.MaxWeightKg
	}
	becomesDefault := in.IsDefault != nil && *in.IsDefault && !w.IsDefault
	setBool(&w.IsDefault, in.IsDefault)
	w.UpdatedAt = time.Now()

	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		if becomesDefault {
			if err := r.Warehouses.ClearDefault(ctx, w.ID); err != nil {
				return err
			}
		}
		return r.Warehouses.Update(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// List lista bodegas; la bodega por defecto primero.
func (uc *WarehouseUseCase) List(ctx context.Context, q dto.WarehouseListQuery) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.List(ctx, repository.WarehouseFilter{
		IncludeInactive: q.IncludeInactive,
		City:            q.City,
		State:           q.State,
		Search:          strings.TrimSpace(q.Search),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{Data: items, Total: len(items)}, nil
}

// Delete elimina una bodega sin inventario activo y que no sea la de por defecto.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	if w.IsDefault {
		return domain.Conflict("no se puede eliminar la bodega por defecto")
	}
	n, err := uc.repo.CountActiveInventory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.Conflict("la bodega tiene ítems de inventario activos")
	}
	return uc.repo.Delete(ctx, id)
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:                      w.ID,
		Name:                    w.Name,
		Code:                    w.Code,
		Description:             w.Description,
		AddressLine1:            w.AddressLine1,
		AddressLine2:            w.AddressLine2,
		City:                    w.City,
		State:                   w.State,
		PostalCode:              w.PostalCode,
		Country:                 w.Country,
		Phone:                   w.Phone,
		Email:                   w.Email,
		ManagerName:             w.ManagerName,
		IsActive:                w.IsActive,
		IsDefault:               w.IsDefault,
		Timezone:                w.Timezone,
		MaxCapacity:             w.MaxCapacity,
		MaxVolumeM3:             w.MaxVolumeM3,
		MaxWeightKg:             w.MaxWeightKg,
		SupportsReceiving:       w.SupportsReceiving,
		SupportsShipping:        w.SupportsShipping,
		SupportsReturns:         w.SupportsReturns,
		SupportsTransfers:       w.SupportsTransfers,
		IsTemperatureControlled: w.IsTemperatureControlled,
		IsHazmatApproved:        w.IsHazmatApproved,
		ItemCount:               w.ItemCount,
		TotalQuantity:           w.TotalQuantity,
		TotalValue:              w.TotalValue,
		CreatedAt:               w.CreatedAt,
		UpdatedAt:               w.UpdatedAt,
	}
}
