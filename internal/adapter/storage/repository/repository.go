package repository

import (
	"errors"

	"github.com/Abdou-Tzrt/ecommerce-api/internal/adapter/storage"
	"github.com/Abdou-Tzrt/ecommerce-api/internal/core/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

// mapDBError translates driver errors into domain sentinels.
func mapDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return domain.ErrConflictingData
		case pgerrcode.ForeignKeyViolation:
			return domain.ErrDataNotFound
		}
	}
	return err
}
