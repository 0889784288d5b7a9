package inventory

import (
	"fmt"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// MovementLabel texto para mostrar un movimiento en el historial.
func MovementLabel(movementType string, quantity int) string {
	switch movementType {
	case entity.MovementIn:
		return fmt.Sprintf("Stock In (+%d)", quantity)
	case entity.MovementOut:
		return fmt.Sprintf("Stock Out (-%d)", quantity)
	case entity.MovementAdjustment:
		return "Adjustment (" + signed(quantity) + ")"
	case entity.MovementTransfer:
		return "Transfer"
	case entity.MovementReturn:
		return fmt.Sprintf("Return (+%d)", quantity)
	case entity.MovementDamaged:
		return fmt.Sprintf("Damaged (-%d)", quantity)
	case entity.MovementLost:
		return fmt.Sprintf("Lost (-%d)", quantity)
	}
	return "Stock Change"
}

// AdjustmentLabel texto de un ajuste aprobado en el historial.
func AdjustmentLabel(change int) string {
	return "Adjustment (" + signed(change) + ")"
}

func signed(n int) string {
	if n >= 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
