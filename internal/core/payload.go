package core

// payload.go reshapes a validated dataset pair into one JSON payload
// per participant email: the shared competency matrix plus that
// participant's questions and answers. Build assumes validation has
// already passed; it still fails fast on structurally unusable input.

import (
	"fmt"
	"strings"
)

// CompetencyLevel is one proficiency level description of a competency.
type CompetencyLevel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Competency is one row of the competency matrix.
type Competency struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Levels      []CompetencyLevel `json:"levels"`
}

// QAEntry is one answered question of a participant.
type QAEntry struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Competencies []string `json:"competencies"`
}

// Payload is the JSON document posted to the assessment API for a
// single participant.
type Payload struct {
	CompetencyMatrix    []Competency `json:"competency_matrix"`
	QuestionsAndAnswers []QAEntry    `json:"questions_and_answers"`
	WebhookURL          string       `json:"webhook_url"`
	EvaluationType      string       `json:"evaluation_type"`
	AssessmentInfo      string       `json:"assessment_info"`
	UserEmail           string       `json:"user_email"`
	UserName            string       `json:"user_name"`
	PositionTitle       string       `json:"position_title"`
}

// Builder assembles per-participant payloads from validated datasets.
type Builder struct {
	rules      RuleSet
	webhookURL string
}

// NewBuilder creates a payload builder. webhookURL is carried verbatim
// into every payload so the assessment API can report results back.
func NewBuilder(rules RuleSet, webhookURL string) *Builder {
	return &Builder{rules: rules, webhookURL: webhookURL}
}

// Build groups the Q&A rows by participant email (in order of first
// appearance) and returns one payload per email. The competency matrix
// section is shared across all payloads.
func (b *Builder) Build(matrix, qa *Dataset, evaluationType, assessmentInfo string) ([]Payload, error) {
	if matrix == nil || qa == nil {
		return nil, fmt.Errorf("dataset is nil")
	}
	mspec, ok := b.rules.Spec(matrix.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown dataset kind: %s", matrix.Kind)
	}
	qspec, ok := b.rules.Spec(qa.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown dataset kind: %s", qa.Kind)
	}

	competencies, err := b.buildMatrix(matrix, mspec)
	if err != nil {
		return nil, err
	}

	qIdx := MakeHeaderIndex(qa.Headers)
	emailPos, ok := qIdx[qspec.Roles.Email]
	if !ok {
		return nil, fmt.Errorf("%s: column %q not found", qspec.Label, qspec.Roles.Email)
	}

	// Group Q&A rows by email, preserving first-appearance order.
	var emails []string
	grouped := make(map[string][][]string)
	for _, row := range qa.Rows {
		email := CleanCell(cellAt(row, emailPos))
		if email == "" {
			continue
		}
		if _, seen := grouped[email]; !seen {
			emails = append(emails, email)
		}
		grouped[email] = append(grouped[email], row)
	}

	payloads := make([]Payload, 0, len(emails))
	for _, email := range emails {
		rows := grouped[email]
		p := Payload{
			CompetencyMatrix:    competencies,
			QuestionsAndAnswers: make([]QAEntry, 0, len(rows)),
			WebhookURL:          b.webhookURL,
			EvaluationType:      evaluationType,
			AssessmentInfo:      assessmentInfo,
			UserEmail:           email,
			UserName:            email,
		}
		if pos, ok := qIdx[qspec.Roles.Participant]; ok {
			if name := CleanCell(cellAt(rows[0], pos)); name != "" {
				p.UserName = name
			}
		}
		if pos, ok := qIdx[qspec.Roles.Position]; ok {
			p.PositionTitle = CleanCell(cellAt(rows[0], pos))
		}

		for _, row := range rows {
			entry := QAEntry{}
			if pos, ok := qIdx[qspec.Roles.Question]; ok {
				entry.Question = CleanCell(cellAt(row, pos))
			}
			if pos, ok := qIdx[qspec.Roles.Answer]; ok {
				entry.Answer = CleanMultiline(cellAt(row, pos))
			}
			if pos, ok := qIdx[qspec.Roles.Competency]; ok {
				raw := CleanCell(cellAt(row, pos))
				if qspec.ListValued {
					entry.Competencies = SplitList(raw, b.rules.ListSeparator)
				} else if raw != "" {
					entry.Competencies = []string{raw}
				}
			}
			p.QuestionsAndAnswers = append(p.QuestionsAndAnswers, entry)
		}

		payloads = append(payloads, p)
	}

	return payloads, nil
}

// buildMatrix converts the competency matrix dataset into its payload
// section. Level columns are discovered by prefix from the header row,
// in header order, so matrices with more or fewer levels need no code
// change.
func (b *Builder) buildMatrix(matrix *Dataset, spec DatasetSpec) ([]Competency, error) {
	idx := MakeHeaderIndex(matrix.Headers)
	namePos, ok := idx[spec.Roles.Competency]
	if !ok {
		return nil, fmt.Errorf("%s: column %q not found", spec.Label, spec.Roles.Competency)
	}

	type levelColumn struct {
		name string
		pos  int
	}
	var levelCols []levelColumn
	for _, h := range matrix.Headers {
		clean := CleanCell(h)
		if spec.Roles.LevelPrefix != "" && strings.HasPrefix(clean, spec.Roles.LevelPrefix) {
			levelCols = append(levelCols, levelColumn{name: clean, pos: idx[clean]})
		}
	}

	descPos, hasDesc := idx[spec.Roles.Description]

	competencies := make([]Competency, 0, len(matrix.Rows))
	for _, row := range matrix.Rows {
		c := Competency{
			Name:   CleanCell(cellAt(row, namePos)),
			Levels: []CompetencyLevel{},
		}
		if hasDesc {
			c.Description = CleanMultiline(cellAt(row, descPos))
		}
		for _, lc := range levelCols {
			desc := CleanMultiline(cellAt(row, lc.pos))
			if desc == "" {
				continue
			}
			c.Levels = append(c.Levels, CompetencyLevel{Name: lc.name, Description: desc})
		}
		competencies = append(competencies, c)
	}

	return competencies, nil
}
