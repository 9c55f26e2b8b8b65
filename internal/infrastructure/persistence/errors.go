package persistence

import (
	"errors"

	"github.com/finsuite/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateWriteError maps a unique-constraint violation to ALREADY_EXISTS.
// Requires gorm.Config.TranslateError.
func translateWriteError(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.WrapDomainError(shared.CodeAlreadyExists, message, err)
	}
	return err
}

// translateReadError maps a missing row to NOT_FOUND
func translateReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
