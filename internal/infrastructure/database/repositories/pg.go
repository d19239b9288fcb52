package repositories

import (
	"errors"

	"github.com/grandguard/budget-service/internal/domain/repositories"
	"github.com/jackc/pgx/v5/pgconn"
)

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == repositories.SerializationError
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == repositories.UniqueViolationError
}
