package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger verifica la conexión a la base de datos (*pgxpool.Pool lo implementa).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health GET /health: {status, service, db}. 503 si la base no responde.
func Health(service string, db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "up"
		status := "ok"
		code := fiber.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				dbStatus, status, code = "down", "degraded", fiber.StatusServiceUnavailable
			}
		}
		return c.Status(code).JSON(fiber.Map{"status": status, "service": service, "db": dbStatus})
	}
}
