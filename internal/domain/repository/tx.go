package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products    ProductRepository
	Warehouses  WarehouseRepository
	Inventory   InventoryRepository
	Adjustments AdjustmentRepository
	Movements   MovementRepository
	Orders      OrderRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
