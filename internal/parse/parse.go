// Package parse converts raw PIP file lines into positional row tuples.
//
// PIP files are pipe-delimited text with a fixed field count per record
// type and a trailing footer line carrying the expected data-record
// count. Parsing validates structure only: fields are split by position
// and trimmed, but never type-coerced. Date and numeric interpretation
// happens during the staged-to-master merge so that a malformed value
// rolls back the whole batch instead of slipping through here.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Delimiter separates fields within a data line.
const Delimiter = "|"

// footerSentinel is the issuer-number value reserved for the trailer record.
const footerSentinel = "999999"

// FooterError reports a missing or inconsistent trailer record. A count
// mismatch means the transfer was truncated or padded; the whole file is
// rejected.
type FooterError struct {
	Expected int  // count declared by the footer
	Actual   int  // data lines actually read
	Missing  bool // no footer line present at all
}

func (e *FooterError) Error() string {
	if e.Missing {
		return "footer record missing"
	}
	return fmt.Sprintf("footer count mismatch: footer declares %d records, file has %d", e.Expected, e.Actual)
}

// MalformedRecordError reports a data line with the wrong field count.
// Line numbers are 1-based positions in the original file.
type MalformedRecordError struct {
	Line int
	Want int
	Got  int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at line %d: expected %d fields, got %d", e.Line, e.Want, e.Got)
}

// Records splits cleaned PIP lines into rows of exactly fieldCount
// trimmed fields, validating the trailing footer count.
//
// An empty file (footer only) is valid and yields zero rows. Any data
// line with the wrong field count fails the whole file: a partially
// accepted snapshot is worse than no snapshot.
func Records(lines []string, fieldCount int) ([][]string, error) {
	type numbered struct {
		text string
		num  int
	}

	// Clean pass: drop blank lines and control characters, keep original
	// line numbers for error reporting. A line of nothing but whitespace
	// is blank; it carries no fields and must not count against the
	// footer total.
	cleaned := make([]numbered, 0, len(lines))
	for i, raw := range lines {
		line := cleanLine(raw)
		if strings.TrimSpace(line) == "" {
			continue
		}
		cleaned = append(cleaned, numbered{text: line, num: i + 1})
	}

	if len(cleaned) == 0 {
		return nil, &FooterError{Missing: true}
	}

	last := cleaned[len(cleaned)-1]
	if !isFooter(last.text) {
		return nil, &FooterError{Missing: true}
	}

	data := cleaned[:len(cleaned)-1]

	expected, err := footerCount(last.text)
	if err != nil {
		return nil, err
	}
	if expected != len(data) {
		return nil, &FooterError{Expected: expected, Actual: len(data)}
	}

	rows := make([][]string, 0, len(data))
	for _, ln := range data {
		fields := strings.Split(ln.text, Delimiter)
		if len(fields) != fieldCount {
			return nil, &MalformedRecordError{Line: ln.num, Want: fieldCount, Got: len(fields)}
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		rows = append(rows, fields)
	}

	return rows, nil
}

// ReadLines splits a raw byte stream into lines. Used by file sources
// that hand the parser an io.Reader rather than pre-split lines.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	return lines, nil
}

// cleanLine strips trailing CR and the DOS EOF marker (ASCII 26 / 0x1A)
// that vendor transfers occasionally append.
func cleanLine(line string) string {
	return strings.TrimRight(line, "\r\n\x1a")
}

// isFooter reports whether the line is the trailer record.
func isFooter(line string) bool {
	return line == footerSentinel || strings.HasPrefix(line, footerSentinel+Delimiter)
}

// footerCount extracts the declared record count from the footer line.
// The count sits in the second pipe-delimited field, zero-padded.
func footerCount(line string) (int, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) < 2 {
		return 0, &FooterError{Missing: true}
	}
	n, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil || n < 0 {
		return 0, &FooterError{Missing: true}
	}
	return n, nil
}
