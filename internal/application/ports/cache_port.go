package ports

import (
	"context"
	"time"
)

// Cache define el puerto de salida para la caché de lecturas costosas (árbol de categorías, tablero).
// Una implementación sin backend debe reportar siempre miss y aceptar escrituras sin error.
type Cache interface {
	// Get decodifica el valor en dst; found = false si la clave no existe.
	Get(ctx context.Context, key string, dst interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
