package loader

// staging.go lands parsed rows into the per-record-type staging table.
//
// Staging is deliberately permissive: no keys, no constraints, every
// column text. The truncate and the bulk copy run inside the same
// transaction as the merge, so a failed attempt rolls back and leaves
// the staging table exactly as the last committed load left it. A
// partial mix of old and new scratch rows is never observable.

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"cusipd/internal/cusip"
)

// stage replaces the staging table contents for spec's record type with
// rows, using TRUNCATE followed by the COPY protocol. Blank fields land
// as NULL.
func stage(ctx context.Context, tx Tx, spec cusip.TableSpec, rows [][]string) (int64, error) {
	if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+spec.StagingTable); err != nil {
		return 0, fmt.Errorf("truncate %s: %w", spec.StagingTable, err)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, field := range row {
			vals[j] = toPgText(field)
		}
		values[i] = vals
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{spec.StagingTable},
		spec.ColumnNames(),
		pgx.CopyFromRows(values),
	)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", spec.StagingTable, err)
	}

	return n, nil
}

// toPgText maps an already-trimmed field to its column value. Empty
// becomes NULL, matching the file format's convention for absent fields.
func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
