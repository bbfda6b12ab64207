package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kingrain94/remote-config-api/internal/repository"
)

// mapError converts driver errors into repository sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return repository.ErrDuplicate
	}
	return err
}

// isUniqueViolation catches unique violations on connections opened
// without TranslateError.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
