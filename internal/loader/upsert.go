package loader

// upsert.go merges staged rows into the master table for one record type.
//
// The merge is a single INSERT ... SELECT ... ON CONFLICT DO UPDATE:
// matching primary keys are fully overwritten with the incoming values
// (no partial-field merge), new keys are inserted. Typed columns are
// cast from staging text here, so a malformed date or numeric aborts
// the statement and the enclosing transaction with it. Re-running the
// same file is therefore a no-op beyond rewriting identical values.

import (
	"context"
	"fmt"
	"strings"

	"cusipd/internal/cusip"
)

// merge applies the staged rows of spec's record type to its master
// table. Returns the number of rows inserted or updated.
func merge(ctx context.Context, tx Tx, spec cusip.TableSpec) (int64, error) {
	tag, err := tx.Exec(ctx, upsertSQL(spec))
	if err != nil {
		return 0, classifyMergeError(spec.MasterTable, err)
	}
	return tag.RowsAffected(), nil
}

// upsertSQL builds the merge statement for one table spec.
func upsertSQL(spec cusip.TableSpec) string {
	names := spec.ColumnNames()

	selects := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		if col.Cast != "" {
			selects[i] = col.Name + "::" + col.Cast
		} else {
			selects[i] = col.Name
		}
	}

	pk := make(map[string]bool, len(spec.PrimaryKey))
	for _, c := range spec.PrimaryKey {
		pk[c] = true
	}

	var sets []string
	for _, name := range names {
		if !pk[name] {
			sets = append(sets, name+" = EXCLUDED."+name)
		}
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s)\nSELECT %s FROM %s\nON CONFLICT (%s) DO UPDATE SET %s",
		spec.MasterTable,
		strings.Join(names, ", "),
		strings.Join(selects, ", "),
		spec.StagingTable,
		strings.Join(spec.PrimaryKey, ", "),
		strings.Join(sets, ", "),
	)
}
