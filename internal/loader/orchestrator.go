package loader

// orchestrator.go drives the load pipeline for one or more record types:
// fetch the file, parse it, stage the rows, and merge them into the
// master table inside one transaction.
//
// "Stage + merge" for a record type is a critical section: a keyed
// mutex per record type prevents two concurrent loads of the same type
// from interleaving their staging writes. Loads of different record
// types do not block each other.

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cusipd/internal/cusip"
	"cusipd/internal/logging"
	"cusipd/internal/metrics"
	"cusipd/internal/parse"
	"cusipd/internal/source"
)

// Orchestrator runs load attempts against one database and file source.
type Orchestrator struct {
	db      DB
	source  source.FileSource
	metrics *metrics.Metrics

	mu    sync.Mutex
	locks map[cusip.RecordType]*sync.Mutex
}

// NewOrchestrator creates an Orchestrator. metrics may be nil.
func NewOrchestrator(db DB, src source.FileSource, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		db:      db,
		source:  src,
		metrics: m,
		locks:   make(map[cusip.RecordType]*sync.Mutex),
	}
}

// Load resolves the file for one record type and date, then runs the
// parse-stage-merge pipeline on it. A missing file yields a skipped
// result, not a failure, so re-running on a day with no delivery is a
// harmless no-op. Every failure path produces a populated Result;
// errors never escape.
func (o *Orchestrator) Load(ctx context.Context, rt cusip.RecordType, date time.Time) Result {
	start := time.Now()
	res := newResult(rt, date)
	logger := o.runLogger(ctx, res)

	logger.Debug("load state", "state", StateFetching)
	file, err := o.source.Fetch(ctx, rt, date)
	if errors.Is(err, source.ErrNotFound) {
		res.Status = StatusSkipped
		res.Error = err.Error()
		logger.Info("no file for date, skipping")
		o.metrics.ObserveLoad(rt.String(), string(StatusSkipped), 0, time.Since(start))
		return res
	}
	if err != nil {
		return o.failed(logger, res, StateFetching, start, err)
	}

	return o.loadFile(ctx, logger, res, file, start)
}

// LoadFile runs the parse-stage-merge pipeline on an already-fetched
// file, bypassing discovery. Used by the CLI for explicitly named files.
func (o *Orchestrator) LoadFile(ctx context.Context, rt cusip.RecordType, date time.Time, file *source.File) Result {
	res := newResult(rt, date)
	return o.loadFile(ctx, o.runLogger(ctx, res), res, file, time.Now())
}

func (o *Orchestrator) loadFile(ctx context.Context, logger *slog.Logger, res Result, file *source.File, start time.Time) Result {
	rt := res.Type
	res.File = file.Name

	logger.Debug("load state", "state", StateParsing)
	spec := cusip.Spec(rt)
	rows, err := parse.Records(file.Lines, spec.FieldCount())
	if err != nil {
		return o.failed(logger, res, StateParsing, start, err)
	}
	res.RowsRead = len(rows)
	if len(rows) == 0 {
		logger.Warn("file contains no data records", "file", file.Name)
	}

	// Critical section: staging and merge for this record type must not
	// interleave with another load of the same type.
	lock := o.typeLock(rt)
	lock.Lock()
	defer lock.Unlock()

	logger.Debug("load state", "state", StateStaging)
	tx, err := o.db.Begin(ctx)
	if err != nil {
		return o.failed(logger, res, StateStaging, start, err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if _, err := stage(ctx, tx, spec, rows); err != nil {
		return o.failed(logger, res, StateStaging, start, err)
	}

	logger.Debug("load state", "state", StateMerging)
	n, err := merge(ctx, tx, spec)
	if err != nil {
		return o.failed(logger, res, StateMerging, start, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return o.failed(logger, res, StateMerging, start, classifyMergeError(spec.MasterTable, err))
	}

	res.Status = StatusSucceeded
	res.RowsUpserted = n
	logger.Info("load complete",
		"file", file.Name,
		"rows_read", res.RowsRead,
		"rows_upserted", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	o.metrics.ObserveLoad(rt.String(), string(StatusSucceeded), n, time.Since(start))
	return res
}

// LoadAll loads every record type for the date in dependency order:
// issuer, then issue, then issue attribute. A failed load halts the
// chain: merging issues against an issuer load that did not commit
// would trip spurious referential checks or, worse, pass against stale
// issuer data. A skipped load (missing file) does not halt, since a
// missing file is an empty contribution, not a failed dependency.
func (o *Orchestrator) LoadAll(ctx context.Context, date time.Time) []Result {
	results := make([]Result, 0, len(cusip.LoadOrder))
	for _, rt := range cusip.LoadOrder {
		res := o.Load(ctx, rt, date)
		results = append(results, res)
		if res.Status == StatusFailed {
			break
		}
	}
	return results
}

func newResult(rt cusip.RecordType, date time.Time) Result {
	return Result{
		RunID:  uuid.New(),
		Type:   rt,
		Date:   date.Format("2006-01-02"),
		Status: StatusFailed,
	}
}

func (o *Orchestrator) runLogger(ctx context.Context, res Result) *slog.Logger {
	return logging.WithFields(ctx,
		"record_type", res.Type.String(),
		"date", res.Date,
		"run_id", res.RunID.String(),
	)
}

func (o *Orchestrator) failed(logger *slog.Logger, res Result, state State, start time.Time, err error) Result {
	res.Status = StatusFailed
	res.Error = err.Error()
	logger.Error("load failed", "state", state, "error", err)
	o.metrics.ObserveLoad(res.Type.String(), string(StatusFailed), 0, time.Since(start))
	return res
}

// typeLock returns the mutex guarding stage+merge for one record type.
func (o *Orchestrator) typeLock(rt cusip.RecordType) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[rt]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[rt] = lock
	}
	return lock
}
