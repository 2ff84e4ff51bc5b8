package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/estoque-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isCheckViolation verifica si un error es una violación de CHECK (23514), p. ej. cantidad negativa.
func isCheckViolation(err error) bool {
	return hasCode(err, "23514")
}

// isNoRow es true si la búsqueda no encontró fila o si el id no es un UUID válido (22P02).
// Un id mal formado no puede existir, así que se trata igual que uno ausente.
func isNoRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || hasCode(err, "22P02")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), code)
}

// storageErr envuelve un error de base de datos con ErrStorage conservando el original.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// nullIfEmpty convierte "" en NULL para columnas opcionales (códigos y FKs).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
