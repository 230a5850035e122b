package core

// validation.go checks decoded datasets against their kind's
// required-column configuration.
//
// Validation happens at three levels:
//  1. Header validation: every required column exists in the header row
//  2. Row validation: required cells are non-empty after normalization
//     and competency names obey the naming rules
//  3. Cross-file consistency: every competency referenced in the Q&A
//     file exists in the competency matrix
//
// All checks run in a single pass and accumulate into a Report; nothing
// short-circuits on the first problem. An error return is reserved for
// input outside the contract (nil dataset, no header row, unknown kind).

import (
	"fmt"
	"strings"
)

// Validator validates datasets against an injected rule set.
type Validator struct {
	rules RuleSet
}

// NewValidator creates a validator for the given rule set.
func NewValidator(rules RuleSet) *Validator {
	return &Validator{rules: rules}
}

// ValidatePair validates both datasets and their cross-file
// consistency, returning the accumulated report.
func (v *Validator) ValidatePair(matrix, qa *Dataset) (*Report, error) {
	report := &Report{}
	if err := v.ValidateDataset(matrix, report); err != nil {
		return nil, err
	}
	if err := v.ValidateDataset(qa, report); err != nil {
		return nil, err
	}
	v.crossCheck(matrix, qa, report)
	return report, nil
}

// ValidateDataset validates a single dataset and appends every
// violation found to the report. The dataset is compacted in place:
// fully blank data rows are removed and recorded as dropped.
func (v *Validator) ValidateDataset(ds *Dataset, report *Report) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil")
	}
	spec, ok := v.rules.Spec(ds.Kind)
	if !ok {
		return fmt.Errorf("unknown dataset kind: %s", ds.Kind)
	}
	if len(ds.Headers) == 0 {
		return fmt.Errorf("%s: dataset has no header row", spec.Label)
	}

	idx := MakeHeaderIndex(ds.Headers)

	for _, f := range spec.Fields {
		if !f.Required {
			continue
		}
		if _, ok := idx[f.Name]; !ok {
			report.add(Violation{
				Kind:    MissingColumn,
				Dataset: ds.Kind,
				Column:  f.Name,
				Message: fmt.Sprintf("required column %q is missing", f.Name),
			})
		}
	}

	v.dropBlankRows(ds, spec, idx, report)

	for i, row := range ds.Rows {
		for _, f := range spec.Fields {
			pos, ok := idx[f.Name]
			if !ok {
				// Missing columns are already reported once per header;
				// repeating them per row would drown the report.
				continue
			}
			raw := CleanCell(cellAt(row, pos))
			if f.Normalizer != nil && raw != "" {
				raw = f.Normalizer(raw)
			}

			if raw == "" {
				if f.Required && !f.AllowEmpty {
					report.add(Violation{
						Kind:    EmptyValue,
						Dataset: ds.Kind,
						Column:  f.Name,
						Row:     ds.RowNumber(i),
						Message: fmt.Sprintf("required cell in column %q is empty", f.Name),
					})
				}
				continue
			}

			switch f.Policy {
			case NameSingle:
				v.checkName(ds, report, f.Name, i, raw, false)
			case NameList:
				for _, part := range SplitList(raw, v.rules.ListSeparator) {
					v.checkName(ds, report, f.Name, i, part, true)
				}
			}
		}
	}

	return nil
}

// checkName reports one NamingRule violation per forbidden character
// class present in the value. In list-valued cells the list separator
// is legal and skipped.
func (v *Validator) checkName(ds *Dataset, report *Report, column string, rowIdx int, value string, listValued bool) {
	for _, r := range v.rules.Forbidden {
		if listValued && r == v.rules.ListSeparator {
			continue
		}
		if strings.ContainsRune(value, r) {
			report.add(Violation{
				Kind:    NamingRule,
				Dataset: ds.Kind,
				Column:  column,
				Row:     ds.RowNumber(rowIdx),
				Value:   value,
				Message: fmt.Sprintf("competency name %q must not contain %q", value, r),
			})
		}
	}
}

// dropBlankRows removes data rows whose required cells are all empty.
// Trailing blank rows are a common xlsx export artifact; removing them
// here keeps them out of both validation and payload building. Each
// removal is recorded in the report as a warning.
func (v *Validator) dropBlankRows(ds *Dataset, spec DatasetSpec, idx HeaderIndex, report *Report) {
	required := spec.RequiredColumns()
	if len(required) == 0 {
		return
	}

	kept := ds.Rows[:0]
	var keptNums []int
	for i, row := range ds.Rows {
		blank := true
		for _, col := range required {
			pos, ok := idx[col]
			if !ok {
				continue
			}
			if CleanCell(cellAt(row, pos)) != "" {
				blank = false
				break
			}
		}
		if blank {
			report.Dropped = append(report.Dropped, DroppedRow{
				Dataset: ds.Kind,
				Row:     ds.RowNumber(i),
			})
			continue
		}
		keptNums = append(keptNums, ds.RowNumber(i))
		kept = append(kept, row)
	}
	ds.Rows = kept
	ds.rowNums = keptNums
}

// crossCheck verifies that every competency referenced in the Q&A file
// exists, after normalization, in the competency matrix. Each missing
// name is reported individually with the row where it first appears.
// Matrix competencies never referenced by the Q&A file are not an
// error: an assessment may simply not touch every competency.
func (v *Validator) crossCheck(matrix, qa *Dataset, report *Report) {
	mspec, ok := v.rules.Spec(matrix.Kind)
	if !ok || mspec.Roles.Competency == "" {
		return
	}
	qspec, ok := v.rules.Spec(qa.Kind)
	if !ok || qspec.Roles.Competency == "" {
		return
	}

	mIdx := MakeHeaderIndex(matrix.Headers)
	mPos, ok := mIdx[mspec.Roles.Competency]
	if !ok {
		return // missing column is already reported
	}
	qIdx := MakeHeaderIndex(qa.Headers)
	qPos, ok := qIdx[qspec.Roles.Competency]
	if !ok {
		return
	}

	known := make(map[string]bool)
	for _, row := range matrix.Rows {
		if name := CleanCell(cellAt(row, mPos)); name != "" {
			known[name] = true
		}
	}

	reported := make(map[string]bool)
	for i, row := range qa.Rows {
		raw := CleanCell(cellAt(row, qPos))
		if raw == "" {
			continue
		}
		refs := []string{raw}
		if qspec.ListValued {
			refs = SplitList(raw, v.rules.ListSeparator)
		}
		for _, name := range refs {
			if known[name] || reported[name] {
				continue
			}
			reported[name] = true
			report.add(Violation{
				Kind:    CrossReference,
				Dataset: qa.Kind,
				Column:  qspec.Roles.Competency,
				Row:     qa.RowNumber(i),
				Value:   name,
				Message: fmt.Sprintf("competency %q has no match in the competency matrix", name),
			})
		}
	}
}

// cellAt returns the cell at pos, or "" when the row is shorter than
// the header (spreadsheet decoders trim trailing empty cells).
func cellAt(row []string, pos int) string {
	if pos >= 0 && pos < len(row) {
		return row[pos]
	}
	return ""
}
