package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/report-tracker/internal/domain"
)

const pgUniqueViolation = "23505"

// translate maps driver errors onto domain sentinels so services never see pgx types.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", resource, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, uniqueField(pgErr.ConstraintName, resource))
	}
	return err
}

func uniqueField(constraint, resource string) string {
	switch constraint {
	case "users_email_key", "idx_users_email":
		return "email"
	case "reports_title_key", "idx_reports_title":
		return "report title"
	}
	return resource
}
