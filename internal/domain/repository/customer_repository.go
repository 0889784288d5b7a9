package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, int, error)
	// Search por nombre, email o teléfono.
	Search(ctx context.Context, q string, limit int) ([]*entity.Customer, error)
}
