package loader

// errors.go maps PostgreSQL failures onto the pipeline's error taxonomy.
//
// Staging columns are raw text; the merge statement casts them to the
// master column types. A value the cast cannot parse raises a SQLSTATE
// class 22 (data exception) error, and a row whose parent is missing
// raises 23503 (foreign_key_violation). Both abort the transaction, so
// either the whole batch lands or none of it does.

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// TypeCoercionError reports a staged value that could not be converted
// to its typed master column during the merge.
type TypeCoercionError struct {
	Table  string
	Detail string
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("type coercion failed merging into %s: %s", e.Table, e.Detail)
}

// ReferentialViolationError reports a staged row referencing a key that
// does not exist in an already-committed master table.
type ReferentialViolationError struct {
	Table      string
	Constraint string
	Detail     string
}

func (e *ReferentialViolationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("referential violation merging into %s (%s): %s", e.Table, e.Constraint, e.Detail)
	}
	return fmt.Sprintf("referential violation merging into %s (%s)", e.Table, e.Constraint)
}

const (
	pgClassDataException = "22"
	pgFKViolation        = "23503"
	pgNotNullViolation   = "23502"
	pgCheckViolation     = "23514"
)

// classifyMergeError converts a raw database error from the merge step
// into the pipeline taxonomy. Unrecognized errors pass through wrapped.
func classifyMergeError(table string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("merge into %s: %w", table, err)
	}

	switch {
	case len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgClassDataException:
		detail := pgErr.Message
		if pgErr.Detail != "" {
			detail += ": " + pgErr.Detail
		}
		return &TypeCoercionError{Table: table, Detail: detail}

	case pgErr.Code == pgFKViolation:
		return &ReferentialViolationError{
			Table:      table,
			Constraint: pgErr.ConstraintName,
			Detail:     pgErr.Detail,
		}

	case pgErr.Code == pgNotNullViolation, pgErr.Code == pgCheckViolation:
		return &TypeCoercionError{Table: table, Detail: pgErr.Message}
	}

	return fmt.Errorf("merge into %s: %w", table, err)
}
