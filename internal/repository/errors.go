package repository

import (
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

var (
	ErrGameNotFound  = errors.New("juego no encontrado o dado de baja")
	ErrDuplicateName = errors.New("ya existe un juego activo con ese nombre")
	ErrInvalidPage   = errors.New("página inválida")
)

func checkPage(limit, offset int) error {
	if limit < 1 || offset < 0 {
		return errors.Wrapf(ErrInvalidPage, "limit %d offset %d", limit, offset)
	}
	return nil
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
