package core

// violations.go defines the structured validation report. Violations
// are data, not errors: the caller renders them to the user and the
// user fixes the spreadsheet and re-uploads. Nothing here is retried
// or repaired automatically.

import "fmt"

// ViolationKind categorizes a validation failure.
type ViolationKind string

const (
	// MissingColumn: a required column is absent from the header row.
	MissingColumn ViolationKind = "missing_column"

	// EmptyValue: a required cell is blank after normalization.
	EmptyValue ViolationKind = "empty_value"

	// NamingRule: a competency name contains a forbidden character.
	NamingRule ViolationKind = "naming_rule"

	// CrossReference: a competency referenced in one dataset does not
	// exist in the companion dataset.
	CrossReference ViolationKind = "cross_reference"
)

// Violation describes a single validation failure with enough context
// for the user to locate and fix it in the spreadsheet.
type Violation struct {
	Kind    ViolationKind `json:"kind"`
	Dataset DatasetKind   `json:"dataset"`
	Column  string        `json:"column,omitempty"`
	Row     int           `json:"row,omitempty"` // spreadsheet row; header is row 1
	Value   string        `json:"value,omitempty"`
	Message string        `json:"message"`
}

// String formats the violation as a single display line.
func (v Violation) String() string {
	loc := string(v.Dataset)
	if v.Column != "" {
		loc += ", column " + fmt.Sprintf("%q", v.Column)
	}
	if v.Row > 0 {
		loc += fmt.Sprintf(", row %d", v.Row)
	}
	return loc + ": " + v.Message
}

// DroppedRow records a data row removed before validation because every
// required cell in it was blank. Dropped rows are warnings, not
// failures.
type DroppedRow struct {
	Dataset DatasetKind `json:"dataset"`
	Row     int         `json:"row"`
}

// Report accumulates every violation found in one validation pass.
// Checks never short-circuit: the user sees the complete list of
// problems, not just the first one.
type Report struct {
	Violations []Violation  `json:"violations"`
	Dropped    []DroppedRow `json:"droppedRows,omitempty"`
}

// Valid reports whether validation passed with zero violations.
func (r *Report) Valid() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(v Violation) {
	r.Violations = append(r.Violations, v)
}

// Messages returns one display line per violation.
func (r *Report) Messages() []string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.String()
	}
	return msgs
}
