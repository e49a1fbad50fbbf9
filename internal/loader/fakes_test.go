package loader

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"cusipd/internal/cusip"
	"cusipd/internal/source"
)

// fakeSource serves in-memory files keyed by record type.
type fakeSource struct {
	files map[cusip.RecordType]*source.File
	errs  map[cusip.RecordType]error
}

func (f *fakeSource) Fetch(_ context.Context, rt cusip.RecordType, _ time.Time) (*source.File, error) {
	if err, ok := f.errs[rt]; ok {
		return nil, err
	}
	file, ok := f.files[rt]
	if !ok {
		return nil, fmt.Errorf("%s: %w", rt, source.ErrNotFound)
	}
	return file, nil
}

// fakeTx records the statements and copies the pipeline issues.
type fakeTx struct {
	mu sync.Mutex

	execSQL     []string
	copiedTable string
	copiedCols  []string
	copiedRows  [][]any

	truncateErr error
	copyErr     error
	upsertErr   error
	commitErr   error

	upsertRows int64
	execDelay  time.Duration
	onCommit   func()

	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if t.execDelay > 0 {
		time.Sleep(t.execDelay)
	}

	t.mu.Lock()
	t.execSQL = append(t.execSQL, sql)
	t.mu.Unlock()

	switch {
	case strings.HasPrefix(sql, "TRUNCATE"):
		if t.truncateErr != nil {
			return pgconn.CommandTag{}, t.truncateErr
		}
		return pgconn.NewCommandTag("TRUNCATE TABLE"), nil
	case strings.HasPrefix(sql, "INSERT"):
		if t.upsertErr != nil {
			return pgconn.CommandTag{}, t.upsertErr
		}
		return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", t.upsertRows)), nil
	}
	return pgconn.NewCommandTag(""), nil
}

func (t *fakeTx) CopyFrom(_ context.Context, table pgx.Identifier, cols []string, src pgx.CopyFromSource) (int64, error) {
	if t.copyErr != nil {
		return 0, t.copyErr
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.copiedTable = table.Sanitize()
	t.copiedCols = cols
	for src.Next() {
		row, err := src.Values()
		if err != nil {
			return 0, err
		}
		t.copiedRows = append(t.copiedRows, row)
	}
	return int64(len(t.copiedRows)), nil
}

func (t *fakeTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	if t.onCommit != nil {
		t.onCommit()
	}
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

// fakeDB hands out one fakeTx per Begin and keeps them for inspection.
type fakeDB struct {
	mu       sync.Mutex
	beginErr error
	makeTx   func() *fakeTx
	txs      []*fakeTx
}

func newFakeDB() *fakeDB {
	return &fakeDB{makeTx: func() *fakeTx { return &fakeTx{upsertRows: 1} }}
}

func (d *fakeDB) Begin(context.Context) (Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	tx := d.makeTx()
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *fakeDB) begun() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.txs)
}

// dataLine builds a pipe-delimited line with fieldCount fields, the
// first len(vals) of which are populated.
func dataLine(fieldCount int, vals ...string) string {
	fields := make([]string, fieldCount)
	copy(fields, vals)
	return strings.Join(fields, "|")
}

func footerLine(n int) string {
	return fmt.Sprintf("999999|%07d", n)
}

func pipFile(name string, lines ...string) *source.File {
	return &source.File{Name: name, Lines: lines}
}
