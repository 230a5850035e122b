package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"assessment-client/internal/api"
	"assessment-client/internal/core"
	"assessment-client/internal/excel"
	"assessment-client/internal/logging"
	"assessment-client/internal/schema"
)

// Multipart form field names for the two spreadsheet uploads.
const (
	fieldMatrix = "matrix"
	fieldQA     = "qa"
)

// ValidateResponse is returned by POST /api/validate.
type ValidateResponse struct {
	Valid  bool         `json:"valid"`
	Report *core.Report `json:"report"`
}

// RunResponse is returned by POST /api/assessments after a forwarding
// run.
type RunResponse struct {
	RunID   string               `json:"runId"`
	Total   int                  `json:"total"`
	Sent    int                  `json:"sent"`
	Failed  int                  `json:"failed"`
	Results []api.DeliveryResult `json:"results"`
	Report  *core.Report         `json:"report,omitempty"`
}

// SchemaInfo describes one dataset kind for GET /api/schemas.
type SchemaInfo struct {
	Kind            core.DatasetKind `json:"kind"`
	Label           string           `json:"label"`
	RequiredColumns []string         `json:"requiredColumns"`
}

// SchemasResponse is returned by GET /api/schemas.
type SchemasResponse struct {
	Datasets        []SchemaInfo `json:"datasets"`
	ForbiddenChars  string       `json:"forbiddenChars"`
	EvaluationTypes []string     `json:"evaluationTypes"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSchemas returns the required-column configuration so a frontend
// can render upload instructions without hard-coding them.
func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	resp := SchemasResponse{
		ForbiddenChars:  string(s.rules.Forbidden),
		EvaluationTypes: schema.EvaluationTypes,
	}
	for _, kind := range []core.DatasetKind{core.KindCompetencyMatrix, core.KindQuestionsAnswers} {
		spec, ok := s.rules.Spec(kind)
		if !ok {
			continue
		}
		resp.Datasets = append(resp.Datasets, SchemaInfo{
			Kind:            spec.Kind,
			Label:           spec.Label,
			RequiredColumns: spec.RequiredColumns(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleValidate validates the uploaded pair and returns the full
// report without forwarding anything.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	matrix, qa, err := s.readUploads(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	report, err := s.validator.ValidatePair(matrix, qa)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{Valid: report.Valid(), Report: report})
}

// handleAssessments validates the uploaded pair, builds one payload per
// participant email and posts each to the assessment API. Delivery is
// sequential; the response carries the per-email outcome of every
// payload.
func (s *Server) handleAssessments(w http.ResponseWriter, r *http.Request) {
	matrix, qa, err := s.readUploads(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	evaluationType := r.FormValue("evaluation_type")
	if !schema.ValidEvaluationType(evaluationType) {
		s.respondError(w, r,
			fmt.Errorf("unknown evaluation type %q", evaluationType),
			http.StatusBadRequest)
		return
	}
	assessmentInfo := r.FormValue("assessment_info")

	report, err := s.validator.ValidatePair(matrix, qa)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if !report.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, ValidateResponse{Valid: false, Report: report})
		return
	}

	payloads, err := s.builder.Build(matrix, qa, evaluationType, assessmentInfo)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(payloads) == 0 {
		s.respondError(w, r,
			fmt.Errorf("no data rows: the Q&A file has no rows with an email"),
			http.StatusUnprocessableEntity)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info("forwarding assessment run",
		"emails", len(payloads),
		"evaluation_type", evaluationType,
	)

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout(len(payloads)))
	defer cancel()

	results := s.client.SendAll(ctx, payloads)

	resp := RunResponse{
		RunID:   uuid.NewString(),
		Total:   len(results),
		Results: results,
	}
	for _, res := range results {
		if res.Status == api.StatusSent {
			resp.Sent++
		} else {
			resp.Failed++
		}
	}
	if len(report.Dropped) > 0 {
		resp.Report = report
	}

	writeJSON(w, http.StatusOK, resp)
}

// readUploads decodes the two multipart spreadsheet uploads.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) (matrix, qa *core.Dataset, err error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, nil, fmt.Errorf("file too large or invalid form: %w", err)
	}

	matrix, err = s.readUpload(r, fieldMatrix, core.KindCompetencyMatrix)
	if err != nil {
		return nil, nil, err
	}
	qa, err = s.readUpload(r, fieldQA, core.KindQuestionsAnswers)
	if err != nil {
		return nil, nil, err
	}
	return matrix, qa, nil
}

func (s *Server) readUpload(r *http.Request, field string, kind core.DatasetKind) (*core.Dataset, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("no file provided in field %q", field)
	}
	defer file.Close()

	return excel.ReadDataset(file, header.Filename, kind)
}
