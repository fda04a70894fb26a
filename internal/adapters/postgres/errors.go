package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// InvalidTextRepresentationCode is the SQLSTATE raised when a value cannot be cast,
// e.g. malformed JSON into a jsonb column.
const InvalidTextRepresentationCode = "22P02"

// AsPgError unwraps err into a *pgconn.PgError when possible.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
