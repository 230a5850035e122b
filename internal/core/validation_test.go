package core

import (
	"strings"
	"testing"
)

// testRules mirrors the production rule set with an English Q&A column
// convention, exercising the configuration-injection path: a different
// convention needs only a different RuleSet value.
func testRules() RuleSet {
	return RuleSet{
		Specs: map[DatasetKind]DatasetSpec{
			KindCompetencyMatrix: {
				Kind:  KindCompetencyMatrix,
				Label: "competency matrix",
				Fields: []FieldSpec{
					{Name: "name", Required: true, Policy: NameSingle},
					{Name: "description", Required: true},
					{Name: "level_0", Required: true},
					{Name: "level_1", Required: true},
				},
				Roles: ColumnRoles{
					Competency:  "name",
					Description: "description",
					LevelPrefix: "level_",
				},
			},
			KindQuestionsAnswers: {
				Kind:       KindQuestionsAnswers,
				Label:      "Q&A file",
				ListValued: true,
				Fields: []FieldSpec{
					{Name: "Email", Required: true},
					{Name: "Name", Required: true},
					{Name: "Position", Required: true},
					{Name: "Question", Required: true},
					{Name: "Answer", Required: true},
					{Name: "Competencies", Required: true, Policy: NameList},
				},
				Roles: ColumnRoles{
					Competency:  "Competencies",
					Email:       "Email",
					Participant: "Name",
					Position:    "Position",
					Question:    "Question",
					Answer:      "Answer",
				},
			},
		},
		Forbidden:     []rune{',', '(', ')'},
		ListSeparator: ',',
	}
}

func matrixDataset(headers []string, rows ...[]string) *Dataset {
	return &Dataset{Kind: KindCompetencyMatrix, FileName: "matrix.xlsx", Headers: headers, Rows: rows}
}

func qaDataset(headers []string, rows ...[]string) *Dataset {
	return &Dataset{Kind: KindQuestionsAnswers, FileName: "qa.xlsx", Headers: headers, Rows: rows}
}

var matrixHeaders = []string{"name", "description", "level_0", "level_1"}
var qaHeaders = []string{"Email", "Name", "Position", "Question", "Answer", "Competencies"}

func validMatrix() *Dataset {
	return matrixDataset(matrixHeaders,
		[]string{"Leadership", "Leads people", "novice", "expert"},
		[]string{"Communication", "Speaks clearly", "novice", "expert"},
	)
}

func validQA() *Dataset {
	return qaDataset(qaHeaders,
		[]string{"a@example.com", "Alice", "Engineer", "Tell me about a conflict", "I resolved it", "Leadership, Communication"},
		[]string{"a@example.com", "Alice", "Engineer", "How do you present?", "Slides first", "Communication"},
	)
}

func violationsOf(r *Report, kind ViolationKind) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Kind == kind {
			out = append(out, v)
		}
	}
	return out
}

func TestValidatePair_ValidDatasets(t *testing.T) {
	v := NewValidator(testRules())

	report, err := v.ValidatePair(validMatrix(), validQA())
	if err != nil {
		t.Fatalf("ValidatePair() error = %v", err)
	}

	if !report.Valid() {
		t.Fatalf("expected valid report, got violations: %v", report.Messages())
	}
	if len(report.Violations) != 0 {
		t.Errorf("expected 0 violations, got %d", len(report.Violations))
	}
}

func TestValidateDataset_MissingColumn(t *testing.T) {
	v := NewValidator(testRules())

	// No description column at all.
	ds := matrixDataset([]string{"name", "level_0", "level_1"},
		[]string{"Leadership", "novice", "expert"},
	)

	report := &Report{}
	if err := v.ValidateDataset(ds, report); err != nil {
		t.Fatalf("ValidateDataset() error = %v", err)
	}

	missing := violationsOf(report, MissingColumn)
	if len(missing) != 1 {
		t.Fatalf("expected 1 missing-column violation, got %d: %v", len(missing), report.Messages())
	}
	if missing[0].Column != "description" {
		t.Errorf("missing column = %q, want %q", missing[0].Column, "description")
	}

	// A column absent from the header must not also produce per-row
	// empty-value noise.
	for _, ev := range violationsOf(report, EmptyValue) {
		if ev.Column == "description" {
			t.Errorf("unexpected empty-value violation for missing column: %v", ev)
		}
	}
}

func TestValidateDataset_EmptyValue(t *testing.T) {
	v := NewValidator(testRules())

	ds := matrixDataset(matrixHeaders,
		[]string{"Leadership", "Leads people", "novice", "expert"},
		[]string{"Communication", "", "novice", "expert"},
	)

	report := &Report{}
	if err := v.ValidateDataset(ds, report); err != nil {
		t.Fatalf("ValidateDataset() error = %v", err)
	}

	empty := violationsOf(report, EmptyValue)
	if len(empty) != 1 {
		t.Fatalf("expected 1 empty-value violation, got %d: %v", len(empty), report.Messages())
	}
	if empty[0].Column != "description" || empty[0].Row != 3 {
		t.Errorf("violation at %q row %d, want %q row 3", empty[0].Column, empty[0].Row, "description")
	}
}

func TestValidateDataset_WhitespaceOnlyCellIsEmpty(t *testing.T) {
	v := NewValidator(testRules())

	ds := matrixDataset(matrixHeaders,
		[]string{"Leadership", " \t ", "novice", "expert"},
	)

	report := &Report{}
	if err := v.ValidateDataset(ds, report); err != nil {
		t.Fatalf("ValidateDataset() error = %v", err)
	}

	if len(violationsOf(report, EmptyValue)) != 1 {
		t.Errorf("whitespace-only cell not reported empty: %v", report.Messages())
	}
}

func TestValidateDataset_NamingRules(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantChars []string
	}{
		{"parentheses", "Java (Advanced)", []string{"'('", "')'"}},
		{"comma", "SQL, NoSQL", []string{"','"}},
		{"comma and parens", "SQL, NoSQL (both)", []string{"','", "'('", "')'"}},
		{"clean", "Leadership", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(testRules())
			ds := matrixDataset(matrixHeaders,
				[]string{tt.value, "desc", "novice", "expert"},
			)

			report := &Report{}
			if err := v.ValidateDataset(ds, report); err != nil {
				t.Fatalf("ValidateDataset() error = %v", err)
			}

			naming := violationsOf(report, NamingRule)
			if len(naming) != len(tt.wantChars) {
				t.Fatalf("expected %d naming violations, got %d: %v",
					len(tt.wantChars), len(naming), report.Messages())
			}
			for i, want := range tt.wantChars {
				if !strings.Contains(naming[i].Message, want) {
					t.Errorf("violation %d message %q does not mention %s", i, naming[i].Message, want)
				}
			}
		})
	}
}

func TestValidateDataset_ListSeparatorIsLegal(t *testing.T) {
	v := NewValidator(testRules())

	qa := qaDataset(qaHeaders,
		[]string{"a@example.com", "Alice", "Engineer", "Q", "A", "Leadership, Communication"},
		[]string{"b@example.com", "Bob", "Engineer", "Q", "A", "Focus (deep)"},
	)

	report := &Report{}
	if err := v.ValidateDataset(qa, report); err != nil {
		t.Fatalf("ValidateDataset() error = %v", err)
	}

	naming := violationsOf(report, NamingRule)
	if len(naming) != 2 {
		t.Fatalf("expected 2 naming violations (open and close paren), got %d: %v",
			len(naming), report.Messages())
	}
	for _, nv := range naming {
		if nv.Row != 3 {
			t.Errorf("naming violation on row %d, want 3", nv.Row)
		}
		if strings.Contains(nv.Message, "','") {
			t.Errorf("list separator flagged as forbidden: %v", nv)
		}
	}
}

func TestValidatePair_CrossReference(t *testing.T) {
	v := NewValidator(testRules())

	qa := qaDataset(qaHeaders,
		[]string{"a@example.com", "Alice", "Engineer", "Q", "A", "Leadership, Resilience"},
		[]string{"b@example.com", "Bob", "Engineer", "Q", "A", "Resilience"},
	)

	report, err := v.ValidatePair(validMatrix(), qa)
	if err != nil {
		t.Fatalf("ValidatePair() error = %v", err)
	}

	cross := violationsOf(report, CrossReference)
	if len(cross) != 1 {
		t.Fatalf("expected 1 cross-reference violation, got %d: %v", len(cross), report.Messages())
	}
	if cross[0].Value != "Resilience" {
		t.Errorf("cross-reference value = %q, want %q", cross[0].Value, "Resilience")
	}
	if cross[0].Row != 2 {
		t.Errorf("cross-reference row = %d, want 2 (first appearance)", cross[0].Row)
	}
}

func TestValidatePair_NormalizationAlignsNames(t *testing.T) {
	v := NewValidator(testRules())

	// Matrix lists "Leadership", Q&A references "Leadership " with a
	// trailing space and an inner double space elsewhere.
	matrix := matrixDataset(matrixHeaders,
		[]string{"Leadership", "Leads people", "novice", "expert"},
		[]string{"Time management", "Plans ahead", "novice", "expert"},
	)
	qa := qaDataset(qaHeaders,
		[]string{"a@example.com", "Alice", "Engineer", "Q", "A", "Leadership "},
		[]string{"a@example.com", "Alice", "Engineer", "Q", "A", "Time  management"},
	)

	report, err := v.ValidatePair(matrix, qa)
	if err != nil {
		t.Fatalf("ValidatePair() error = %v", err)
	}

	if cross := violationsOf(report, CrossReference); len(cross) != 0 {
		t.Errorf("normalized names should match, got: %v", report.Messages())
	}
}

func TestValidateDataset_DropsBlankRows(t *testing.T) {
	v := NewValidator(testRules())

	ds := matrixDataset(matrixHeaders,
		[]string{"Leadership", "Leads people", "novice", "expert"},
		[]string{"", "", "", ""},
		[]string{"Communication", "", "novice", "expert"},
	)

	report := &Report{}
	if err := v.ValidateDataset(ds, report); err != nil {
		t.Fatalf("ValidateDataset() error = %v", err)
	}

	if len(report.Dropped) != 1 {
		t.Fatalf("expected 1 dropped row, got %d", len(report.Dropped))
	}
	if report.Dropped[0].Row != 3 {
		t.Errorf("dropped row = %d, want 3", report.Dropped[0].Row)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("expected 2 rows after drop, got %d", len(ds.Rows))
	}

	// The partially empty row keeps its original spreadsheet number.
	empty := violationsOf(report, EmptyValue)
	if len(empty) != 1 || empty[0].Row != 4 {
		t.Errorf("expected empty-value violation on row 4, got %v", report.Messages())
	}
}

func TestValidateDataset_ShortRows(t *testing.T) {
	v := NewValidator(testRules())

	// Decoders trim trailing empty cells; a short row means empty
	// trailing columns, not a fatal error.
	ds := matrixDataset(matrixHeaders,
		[]string{"Leadership", "Leads people"},
	)

	report := &Report{}
	if err := v.ValidateDataset(ds, report); err != nil {
		t.Fatalf("ValidateDataset() error = %v", err)
	}

	if got := len(violationsOf(report, EmptyValue)); got != 2 {
		t.Errorf("expected 2 empty-value violations for truncated row, got %d", got)
	}
}

func TestValidateDataset_FatalInput(t *testing.T) {
	v := NewValidator(testRules())

	if err := v.ValidateDataset(nil, &Report{}); err == nil {
		t.Error("expected error for nil dataset")
	}

	noHeader := &Dataset{Kind: KindCompetencyMatrix}
	if err := v.ValidateDataset(noHeader, &Report{}); err == nil {
		t.Error("expected error for dataset without header row")
	}

	unknown := &Dataset{Kind: DatasetKind("bogus"), Headers: []string{"a"}}
	if err := v.ValidateDataset(unknown, &Report{}); err == nil {
		t.Error("expected error for unknown dataset kind")
	}
}

func TestValidateDataset_HeaderCellsAreCleaned(t *testing.T) {
	v := NewValidator(testRules())

	ds := matrixDataset([]string{" name ", "description", "level_0", "level_1"},
		[]string{"Leadership", "Leads people", "novice", "expert"},
	)

	report := &Report{}
	if err := v.ValidateDataset(ds, report); err != nil {
		t.Fatalf("ValidateDataset() error = %v", err)
	}

	if !report.Valid() {
		t.Errorf("padded header cell should still match, got: %v", report.Messages())
	}
}
