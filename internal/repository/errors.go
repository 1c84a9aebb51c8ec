package repository

import (
	"errors"

	domainRepo "neuropharm-backend/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// translateError maps unique violations to domainRepo.ErrDuplicateKey.
// gorm only translates when opened with TranslateError, so the raw
// postgres code is checked as well.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domainRepo.ErrDuplicateKey
	}
	return err
}
