// Package core provides the validation and payload-building logic for
// assessment spreadsheet processing. This package has no UI or transport
// dependencies and can be used by any frontend.
package core

// DatasetKind identifies a category of uploaded spreadsheet.
// Each kind carries its own required-column configuration.
type DatasetKind string

const (
	// KindCompetencyMatrix is the competency matrix spreadsheet:
	// one competency per row with a description and level descriptions.
	KindCompetencyMatrix DatasetKind = "competency_matrix"

	// KindQuestionsAnswers is the Q&A spreadsheet: one answered question
	// per row, keyed by participant email.
	KindQuestionsAnswers DatasetKind = "questions_answers"
)

// Dataset is an in-memory tabular dataset decoded from an uploaded
// spreadsheet. It lives for the duration of one processing run and is
// never persisted.
type Dataset struct {
	Kind     DatasetKind
	FileName string
	Headers  []string
	Rows     [][]string

	// rowNums preserves original spreadsheet row numbers after blank
	// rows are dropped, so reports still point at the rows the user
	// sees in Excel.
	rowNums []int
}

// RowNumber converts a zero-based data-row index to the spreadsheet row
// number users see in Excel (header is row 1, first data row is row 2).
func (d *Dataset) RowNumber(i int) int {
	if d.rowNums != nil && i < len(d.rowNums) {
		return d.rowNums[i]
	}
	return i + 2
}

// HeaderIndex maps cleaned column names to their position in a row.
type HeaderIndex map[string]int

// MakeHeaderIndex builds a HeaderIndex from a header row.
// Header cells are cleaned before indexing so stray whitespace in the
// spreadsheet header does not break column matching.
func MakeHeaderIndex(headers []string) HeaderIndex {
	idx := make(HeaderIndex, len(headers))
	for i, h := range headers {
		idx[CleanCell(h)] = i
	}
	return idx
}

// NamePolicy controls how a column's values are checked against the
// naming rules for competency names.
type NamePolicy int

const (
	// NameAny applies no naming rules.
	NameAny NamePolicy = iota

	// NameSingle holds exactly one competency name. Any forbidden
	// character in the value is a violation.
	NameSingle

	// NameList holds a comma-separated list of competency names. The
	// separator itself is legal; other forbidden characters are
	// violations.
	NameList
)

// FieldSpec defines validation rules for a single spreadsheet column.
type FieldSpec struct {
	Name       string              // Column header name (exact match after cleaning)
	Required   bool                // Column must exist in the header row
	AllowEmpty bool                // If true, empty cells are allowed even when Required
	Policy     NamePolicy          // Naming rules applied to values
	Normalizer func(string) string // Optional transformation applied after cleaning
}

// ColumnRoles names the columns the payload builder reads from a
// dataset. Roles are configuration, not discovery: a different column
// convention only needs a different rule set, not code changes.
type ColumnRoles struct {
	Competency  string // column holding competency name(s)
	Description string // matrix: competency description
	LevelPrefix string // matrix: prefix of level description columns
	Email       string // qa: participant email
	Participant string // qa: participant display name
	Position    string // qa: participant position title
	Question    string // qa: question text
	Answer      string // qa: participant answer text
}

// DatasetSpec contains everything needed to validate and reshape one
// dataset kind.
type DatasetSpec struct {
	Kind       DatasetKind
	Label      string // display name used in reports and logs
	Fields     []FieldSpec
	Roles      ColumnRoles
	ListValued bool // competency column holds a comma-separated list
}

// Columns returns the column names of all field specs, in order.
func (s DatasetSpec) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

// RequiredColumns returns the names of all required columns, in order.
func (s DatasetSpec) RequiredColumns() []string {
	var cols []string
	for _, f := range s.Fields {
		if f.Required {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// RuleSet is the immutable configuration injected into the Validator
// and the payload Builder. Distinct rule sets can coexist so different
// column conventions validate independently.
type RuleSet struct {
	Specs map[DatasetKind]DatasetSpec

	// Forbidden lists the characters rejected in competency names.
	Forbidden []rune

	// ListSeparator splits list-valued competency cells. It is exempt
	// from the forbidden set in NameList columns.
	ListSeparator rune
}

// Spec returns the dataset spec for a kind.
func (r RuleSet) Spec(kind DatasetKind) (DatasetSpec, bool) {
	spec, ok := r.Specs[kind]
	return spec, ok
}
