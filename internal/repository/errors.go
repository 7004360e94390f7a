package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation Postgres SQLSTATE for unique-constraint violations
const uniqueViolation = "23505"

// IsUniqueViolation Report whether err is a unique-constraint violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
