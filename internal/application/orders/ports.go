package orders

import (
	"context"

	"github.com/jhoicas/pms-api/internal/application/dto"
)

// StockRecorder registra movimientos de stock desde el flujo de pedidos.
// Lo implementa inventory.MovementUseCase; las devoluciones recibidas reingresan por aquí.
type StockRecorder interface {
	Create(ctx context.Context, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error)
}
