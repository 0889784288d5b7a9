package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
)

// featureChecker indica si una capacidad opcional de infraestructura está configurada.
// Lo implementa *usecase.MediaUseCase (StorageEnabled).
type featureChecker interface {
	StorageEnabled() bool
}

// RequireStorage responde 503 STORAGE_UNAVAILABLE cuando no hay almacenamiento de archivos.
func RequireStorage(checker featureChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if checker == nil || !checker.StorageEnabled() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "STORAGE_UNAVAILABLE",
				Message: "el almacenamiento de archivos no está configurado",
			})
		}
		return c.Next()
	}
}
