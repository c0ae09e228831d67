// Package gormrepo implements the repository interfaces on gorm.
package gormrepo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/loomhaven/api/internal/repositories"
)

// translate maps driver errors onto the repository error taxonomy.
func translate(msg string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.NewNotFound(msg, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicateKey(err):
		return repositories.NewConflict(msg, err)
	default:
		return repositories.NewUnavailable(msg, err)
	}
}

// isDuplicateKey catches unique violations surfaced as raw driver errors.
// Postgres reports SQLSTATE 23505; sqlite reports a UNIQUE constraint message.
func isDuplicateKey(err error) bool {
	s := err.Error()
	return strings.Contains(s, "23505") ||
		strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "UNIQUE constraint")
}
