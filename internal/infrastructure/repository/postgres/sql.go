package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/devstack-game/leaderboard/internal/usecase"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func wrapConflict(err error, op string) error {
	return fmt.Errorf("%w: %s: %v", usecase.ErrConflict, op, err)
}
