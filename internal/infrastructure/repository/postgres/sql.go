package postgres

import (
	"database/sql"
	"errors"
)

// isNotFound reports whether err is the driver's empty-result sentinel, so
// repositories can translate it into the domain not-found error.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
