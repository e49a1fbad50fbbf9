// Command cusip-load runs PIP file loads from the command line, without
// the HTTP control plane. It either loads explicitly named local files,
// or discovers the files for a date the same way the server does.
//
// Usage:
//
//	cusip-load [flags]                 discover and load by date
//	cusip-load [flags] file.PIP ...    load the named files directly
//
// The record type of a named file is detected from its name suffix
// (R/E/A before the .PIP extension) unless -type pins it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"cusipd/internal/config"
	"cusipd/internal/cusip"
	"cusipd/internal/loader"
	"cusipd/internal/logging"
	"cusipd/internal/parse"
	"cusipd/internal/source"
)

func main() {
	var (
		typeFlag = flag.String("type", "all", "record type to load: issuer, issue, issue_attr, or all")
		dateFlag = flag.String("date", "", "file date as YYYY-MM-DD (default: today)")
	)
	flag.Parse()

	// .env keeps CLI runs consistent with the server's environment.
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		fatal("load configuration", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	date, err := resolveDate(*dateFlag)
	if err != nil {
		fatal("parse -date", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		fatal("connect to database", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		fatal("ping database", err)
	}

	// Discovery needs a file source; explicitly named files do not.
	var src source.FileSource
	if len(flag.Args()) == 0 {
		src, err = source.New(ctx, cfg.Source.Kind, cfg.Source.Dir,
			cfg.Source.S3Bucket, cfg.Source.S3Prefix, cfg.Source.S3Region)
		if err != nil {
			fatal("create file source", err)
		}
	}
	orch := loader.NewOrchestrator(loader.PoolDB{Pool: pool}, src, nil)

	var results []loader.Result
	if files := flag.Args(); len(files) > 0 {
		results, err = loadNamedFiles(ctx, orch, *typeFlag, date, files)
	} else {
		results, err = loadByDate(ctx, orch, *typeFlag, date)
	}
	if err != nil {
		fatal("load", err)
	}

	failed := false
	for _, res := range results {
		slog.Info("result",
			"type", res.Type,
			"status", res.Status,
			"file", res.File,
			"rows_read", res.RowsRead,
			"rows_upserted", res.RowsUpserted,
			"error", res.Error,
		)
		if res.Status == loader.StatusFailed {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// loadNamedFiles loads explicit local files, bypassing discovery.
func loadNamedFiles(ctx context.Context, orch *loader.Orchestrator, typeFlag string, date time.Time, paths []string) ([]loader.Result, error) {
	results := make([]loader.Result, 0, len(paths))
	for _, path := range paths {
		rt, err := fileType(typeFlag, path)
		if err != nil {
			return results, err
		}

		f, err := os.Open(path)
		if err != nil {
			return results, err
		}
		lines, err := parse.ReadLines(f)
		f.Close()
		if err != nil {
			return results, fmt.Errorf("read %s: %w", path, err)
		}

		file := &source.File{Name: filepath.Base(path), Lines: lines}
		res := orch.LoadFile(ctx, rt, date, file)
		results = append(results, res)
		if res.Status == loader.StatusFailed {
			break
		}
	}
	return results, nil
}

// loadByDate discovers files through the configured source, matching
// the server's behavior.
func loadByDate(ctx context.Context, orch *loader.Orchestrator, typeFlag string, date time.Time) ([]loader.Result, error) {
	if typeFlag == "all" {
		return orch.LoadAll(ctx, date), nil
	}
	rt, err := cusip.ParseRecordType(typeFlag)
	if err != nil {
		return nil, err
	}
	return []loader.Result{orch.Load(ctx, rt, date)}, nil
}

// fileType resolves the record type for a named file: the -type flag if
// pinned, otherwise the R/E/A suffix of the filename.
func fileType(typeFlag, path string) (cusip.RecordType, error) {
	if typeFlag != "all" {
		return cusip.ParseRecordType(typeFlag)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(base) > 0 {
		if rt, ok := cusip.FromSuffix(base[len(base)-1]); ok {
			return rt, nil
		}
	}
	return "", fmt.Errorf("cannot detect record type of %s, pass -type", path)
}

func resolveDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
