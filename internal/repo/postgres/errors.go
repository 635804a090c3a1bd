package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

var (
	ErrAgentNotFound      = errors.New("agent not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrDuplicateAgentName = errors.New("agent name already taken")
	ErrDuplicateSwipe     = errors.New("swipe already exists")
)

// uniqueViolation reports whether err is a unique violation, and on which constraint.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}
