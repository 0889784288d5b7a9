package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/pms-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}

// mapWriteError traduce errores de INSERT/UPDATE a errores de dominio.
// Errores no reconocidos se envuelven con op.
func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, constraintField(pgErr))
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrInvalidReference, constraintField(pgErr))
		case pgerrcode.NotNullViolation, pgerrcode.CheckViolation, pgerrcode.InvalidTextRepresentation:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mapDeleteError en DELETE una violación de FK significa que hay registros dependientes.
func mapDeleteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return fmt.Errorf("%w: %s", domain.ErrReferenced, pgErr.TableName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validUUID ids mal formados se tratan como "no encontrado" sin ir a la DB.
func validUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// constraintField deriva un nombre legible del constraint (products_sku_key -> sku).
func constraintField(pgErr *pgconn.PgError) string {
	name := pgErr.ConstraintName
	if name == "" {
		return pgErr.TableName
	}
	name = strings.TrimPrefix(name, pgErr.TableName+"_")
	name = strings.TrimSuffix(name, "_key")
	name = strings.TrimSuffix(name, "_fkey")
	return name
}

// nullIfEmpty convierte "" en NULL para columnas opcionales con unicidad.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ilike patrón %q% para búsquedas parciales.
func ilike(q string) string {
	return "%" + strings.TrimSpace(q) + "%"
}
