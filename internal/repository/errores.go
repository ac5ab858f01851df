package repository

import (
	"errors"

	"tiendapos/internal/apierror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// traducir classifies a gorm/pgx error. entidad names the row kind in the
// client-facing message ("producto", "cuenta").
func traducir(err error, entidad string) error {
	if err == nil {
		return nil
	}
	var domErr *apierror.Error
	if errors.As(err, &domErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NoEncontrado("%s no encontrado", entidad)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &apierror.Error{Kind: apierror.KindConflicto, Msg: "ya existe un " + entidad + " con esos datos", Err: err}
		case pgForeignKeyViolation:
			return &apierror.Error{Kind: apierror.KindNoEncontrado, Msg: "referencia inexistente en " + entidad, Err: err}
		case pgCheckViolation:
			return &apierror.Error{Kind: apierror.KindConflicto, Msg: entidad + " quedaria en un estado invalido", Err: err}
		}
	}
	return apierror.Inesperado(err)
}
