// Package cusip defines the three CUSIP record types carried by daily PIP
// files and the table metadata used to land them in PostgreSQL.
//
// The files form a three-level hierarchy: an issuer master record, the
// issues belonging to that issuer, and per-issue extended attributes.
// Foreign keys between the master tables dictate the load order exposed
// by LoadOrder.
package cusip

import "fmt"

// RecordType identifies one of the three PIP file types.
type RecordType string

const (
	Issuer         RecordType = "issuer"
	Issue          RecordType = "issue"
	IssueAttribute RecordType = "issue_attr"
)

// LoadOrder is the fixed dependency order for multi-type loads.
// Issues reference issuers, and issue attributes reference issues, so
// loading out of order trips foreign-key checks.
var LoadOrder = []RecordType{Issuer, Issue, IssueAttribute}

// ParseRecordType converts a string to a RecordType.
func ParseRecordType(s string) (RecordType, error) {
	switch RecordType(s) {
	case Issuer, Issue, IssueAttribute:
		return RecordType(s), nil
	}
	return "", fmt.Errorf("unknown record type %q", s)
}

// FromSuffix maps the single-character filename suffix to a record type:
// R = issuer, E = issue, A = issue attribute.
func FromSuffix(suffix byte) (RecordType, bool) {
	switch suffix {
	case 'R', 'r':
		return Issuer, true
	case 'E', 'e':
		return Issue, true
	case 'A', 'a':
		return IssueAttribute, true
	}
	return "", false
}

// Suffix returns the single-character filename suffix for the record type.
func (rt RecordType) Suffix() byte {
	switch rt {
	case Issuer:
		return 'R'
	case Issue:
		return 'E'
	case IssueAttribute:
		return 'A'
	}
	return '?'
}

// String implements fmt.Stringer.
func (rt RecordType) String() string { return string(rt) }
