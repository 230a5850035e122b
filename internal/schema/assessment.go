// Package schema defines the required-column configuration for each
// supported spreadsheet kind. The column sets are data, not logic:
// a deployment with a different naming convention swaps the rule set
// without touching the validator.
package schema

import "assessment-client/internal/core"

// Column names of the competency matrix spreadsheet.
const (
	MatrixName        = "name"
	MatrixDescription = "description"
	MatrixLevelPrefix = "level_"
)

// Column names of the Q&A spreadsheet. The Q&A template is authored in
// Russian; the names below are the exact headers participants upload.
const (
	QAEmail        = "Email"
	QAName         = "Name"
	QAPosition     = "Позиция"
	QAQuestion     = "Вопрос"
	QAAnswer       = "Ответ участника"
	QACompetencies = "Компетенции"
)

// EvaluationTypes are the evaluator keys accepted by the assessment
// API.
var EvaluationTypes = []string{"external", "internal", "development"}

// ValidEvaluationType reports whether t is a known evaluator key.
func ValidEvaluationType(t string) bool {
	for _, v := range EvaluationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// MatrixFieldSpecs defines the expected columns of the competency
// matrix. Level columns beyond level_3 are picked up by prefix when
// present; the first four are required.
var MatrixFieldSpecs = []core.FieldSpec{
	{Name: MatrixName, Required: true, Policy: core.NameSingle},
	{Name: MatrixDescription, Required: true},
	{Name: MatrixLevelPrefix + "0", Required: true},
	{Name: MatrixLevelPrefix + "1", Required: true},
	{Name: MatrixLevelPrefix + "2", Required: true},
	{Name: MatrixLevelPrefix + "3", Required: true},
}

// QAFieldSpecs defines the expected columns of the Q&A file.
var QAFieldSpecs = []core.FieldSpec{
	{Name: QAEmail, Required: true},
	{Name: QAName, Required: true},
	{Name: QAPosition, Required: true},
	{Name: QAQuestion, Required: true},
	{Name: QAAnswer, Required: true},
	{Name: QACompetencies, Required: true, Policy: core.NameList},
}

// Rules returns the rule set for the standard assessment upload pair.
// Each call builds a fresh value; callers own their copy.
func Rules() core.RuleSet {
	return core.RuleSet{
		Specs: map[core.DatasetKind]core.DatasetSpec{
			core.KindCompetencyMatrix: {
				Kind:   core.KindCompetencyMatrix,
				Label:  "competency matrix",
				Fields: MatrixFieldSpecs,
				Roles: core.ColumnRoles{
					Competency:  MatrixName,
					Description: MatrixDescription,
					LevelPrefix: MatrixLevelPrefix,
				},
			},
			core.KindQuestionsAnswers: {
				Kind:       core.KindQuestionsAnswers,
				Label:      "Q&A file",
				Fields:     QAFieldSpecs,
				ListValued: true,
				Roles: core.ColumnRoles{
					Competency:  QACompetencies,
					Email:       QAEmail,
					Participant: QAName,
					Position:    QAPosition,
					Question:    QAQuestion,
					Answer:      QAAnswer,
				},
			},
		},
		Forbidden:     []rune{',', '(', ')'},
		ListSeparator: ',',
	}
}
