package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cusipd/internal/cusip"
	"cusipd/internal/parse"
)

// LocalSource reads PIP files from a local directory.
type LocalSource struct {
	dir string
}

// NewLocalSource creates a source scanning the given directory.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

// Fetch scans the directory for the single file matching the naming
// template for rt and date. Matching is case-insensitive on the filename.
func (s *LocalSource) Fetch(ctx context.Context, rt cusip.RecordType, date time.Time) (*File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &UnavailableError{Source: "local", Err: fmt.Errorf("read directory %s: %w", s.dir, err)}
	}

	prefix := strings.ToUpper(namePrefix(date))
	suffix := strings.ToUpper(nameSuffix(rt))

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToUpper(entry.Name())
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			matches = append(matches, entry.Name())
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%s for %s %s: %w", pattern(rt, date), rt, date.Format("2006-01-02"), ErrNotFound)
	case 1:
	default:
		return nil, &AmbiguousError{Pattern: pattern(rt, date), Names: matches}
	}

	path := filepath.Join(s.dir, matches[0])
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnavailableError{Source: "local", Err: fmt.Errorf("open %s: %w", path, err)}
	}
	defer f.Close()

	lines, err := parse.ReadLines(f)
	if err != nil {
		return nil, &UnavailableError{Source: "local", Err: fmt.Errorf("read %s: %w", path, err)}
	}

	return &File{Name: path, Lines: lines}, nil
}
