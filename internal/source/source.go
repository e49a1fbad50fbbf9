// Package source resolves a (record type, calendar date) request to the
// raw lines of the matching PIP file.
//
// Vendor files follow the fixed naming convention CED{MM}-{DD}{T}.PIP,
// where T is the record-type suffix (R = issuer, E = issue, A = issue
// attribute). Some transfers insert extra characters between the date
// and the suffix, so discovery scans for the prefix and suffix rather
// than one exact name. Exactly one file may match: zero matches is the
// expected "not delivered yet" case, more than one is a configuration
// problem that must not be resolved by a silent pick.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cusipd/internal/cusip"
)

// ErrNotFound is returned when no file exists for the requested record
// type and date. Callers treat this as "skip", not as a failure, so a
// re-run on a day with no delivery is a harmless no-op.
var ErrNotFound = errors.New("no file found")

// UnavailableError wraps a transport or auth fault talking to the file
// source. Unlike ErrNotFound it is fatal for the attempt; the caller may
// retry the whole load later.
type UnavailableError struct {
	Source string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s source unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// AmbiguousError is returned when more than one file matches the naming
// template for one (record type, date).
type AmbiguousError struct {
	Pattern string
	Names   []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d files match %s: %v", len(e.Names), e.Pattern, e.Names)
}

// File is a fetched PIP file: its display name and raw lines.
type File struct {
	Name  string
	Lines []string
}

// FileSource fetches the PIP file for one record type and date.
type FileSource interface {
	Fetch(ctx context.Context, rt cusip.RecordType, date time.Time) (*File, error)
}

// namePrefix returns the shared filename prefix for a date: "CED{MM}-{DD}".
func namePrefix(date time.Time) string {
	return date.Format("CED01-02")
}

// nameSuffix returns the record-type filename suffix: "{T}.PIP".
func nameSuffix(rt cusip.RecordType) string {
	return string(rt.Suffix()) + ".PIP"
}

// pattern renders the naming template for error messages.
func pattern(rt cusip.RecordType, date time.Time) string {
	return namePrefix(date) + "*" + nameSuffix(rt)
}
