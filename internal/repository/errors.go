package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store failures the services know how to react to. Anything else is
// returned unchanged and treated as unexpected.
var (
	ErrNoEncontrado = errors.New("registro no encontrado")
	ErrDuplicado    = errors.New("violación de restricción única")
	ErrReferencia   = errors.New("violación de clave foránea")
)

// SQLSTATE codes (PostgreSQL class 23, integrity constraint violation).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// clasificar maps a gorm/pgx error onto the package sentinels, keeping the
// original error in the chain for logging.
func clasificar(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNoEncontrado
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicado, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Join(ErrReferencia, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(ErrDuplicado, err)
		case pgForeignKeyViolation:
			return errors.Join(ErrReferencia, err)
		}
	}
	return err
}

// filasAfectadas turns a zero-row UPDATE/DELETE into ErrNoEncontrado.
func filasAfectadas(res *gorm.DB) error {
	if res.Error != nil {
		return clasificar(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoEncontrado
	}
	return nil
}
