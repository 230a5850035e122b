package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"file too large", errors.New("file too large: 25MB exceeds 20MB limit"), "FILE001"},
		{"unreadable spreadsheet", errors.New("matrix.xlsx: not a valid spreadsheet"), "FILE002"},
		{"missing upload", errors.New(`no file provided in field "matrix"`), "FILE003"},
		{"empty spreadsheet", errors.New("competency matrix: dataset has no header row"), "FILE004"},
		{"no data rows", errors.New("no data rows: the Q&A file has no rows with an email"), "FILE005"},
		{"missing column", errors.New(`required column "description" is missing`), "VAL001"},
		{"empty cell", errors.New(`required cell in column "name" is empty`), "VAL002"},
		{"naming rule", errors.New(`competency name "SQL, NoSQL" must not contain ','`), "VAL003"},
		{"cross reference", errors.New(`competency "Resilience" has no match in the competency matrix`), "VAL004"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"), "API001"},
		{"timeout", errors.New("context deadline exceeded"), "API002"},
		{"unknown", errors.New("something unexpected happened"), "ERR000"},
		{"case insensitive", errors.New("FILE TOO LARGE"), "FILE001"},
		{"wrapped", fmt.Errorf("reading upload: %w", errors.New("file too large")), "FILE001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if got.Message == "" {
				t.Errorf("MapError(%v) has no message", tt.err)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	got := MapError(nil)
	if got.Code != "" || got.Message != "" {
		t.Errorf("MapError(nil) = %+v, want zero value", got)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(errors.New("file too large"))

	if !strings.Contains(got, "FILE001") {
		t.Errorf("FormatUserError() = %q, want the support code included", got)
	}
	if !strings.Contains(got, "File exceeds the maximum upload size") {
		t.Errorf("FormatUserError() = %q, want the user message included", got)
	}
}

// Every violation message produced by the validator must map to a
// specific support code, not the ERR000 fallback.
func TestMapError_CoversValidatorMessages(t *testing.T) {
	v := NewValidator(testRules())

	matrix := matrixDataset([]string{"name", "level_0", "level_1"},
		[]string{"Java (Advanced)", "novice", "expert"},
		[]string{"", "", ""},
	)
	qa := qaDataset(qaHeaders,
		[]string{"a@example.com", "Alice", "Engineer", "Q", "", "Resilience"},
	)

	report, err := v.ValidatePair(matrix, qa)
	if err != nil {
		t.Fatalf("ValidatePair() error = %v", err)
	}
	if report.Valid() {
		t.Fatal("fixture is supposed to produce violations")
	}

	for _, viol := range report.Violations {
		msg := MapError(errors.New(viol.Message))
		if msg.Code == "ERR000" {
			t.Errorf("violation %q falls through to ERR000", viol.Message)
		}
	}
}
