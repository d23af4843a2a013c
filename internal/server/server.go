// Package server exposes the GPA calculators over a JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/gpa-calculator/internal/calculator"
	"github.com/iwvelando/gpa-calculator/internal/config"
	"github.com/iwvelando/gpa-calculator/internal/draft"
	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/cumulative"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/output"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	drafts        *draft.Service
	validate      *validator.Validate
	translator    ut.Translator
}

// NewHandler constructs the HTTP handler for the calculator API. A nil drafts
// service keeps drafts in memory.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, drafts *draft.Service) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if drafts == nil {
		drafts = draft.NewService(draft.NewMemoryStore(), logger)
	}

	validate, translator := newValidator()
	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		drafts:        drafts,
		validate:      validate,
		translator:    translator,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/scales", h.handleScales)
	mux.HandleFunc("/api/semester", h.handleSemester)
	mux.HandleFunc("/api/cumulative", h.handleCumulative)
	mux.HandleFunc("/api/convert", h.handleConvert)

	// Document export of either worksheet
	mux.HandleFunc("/api/report", h.handleReport)

	// Whole-worksheet upload in the CLI's YAML format
	mux.HandleFunc("/api/worksheet", h.handleWorksheet)

	mux.HandleFunc("/api/draft/", h.handleDraft)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type courseRequest struct {
	Name    string  `json:"name" validate:"max=100"`
	Grade   string  `json:"grade" validate:"max=3"`
	Credits float64 `json:"credits"`
}

type periodRequest struct {
	Name    string  `json:"name" validate:"max=100"`
	GPA     float64 `json:"gpa"`
	Credits float64 `json:"credits"`
}

type semesterRequest struct {
	ScaleID      string          `json:"scaleId" validate:"required"`
	SemesterName string          `json:"semesterName" validate:"max=100"`
	Courses      []courseRequest `json:"courses" validate:"max=200,dive"`
}

type cumulativeRequest struct {
	ScaleID   string          `json:"scaleId" validate:"required"`
	Semesters []periodRequest `json:"semesters" validate:"max=200,dive"`
}

type reportRequest struct {
	Kind         string          `json:"kind" validate:"required,oneof=semester cumulative"`
	ScaleID      string          `json:"scaleId" validate:"required"`
	SemesterName string          `json:"semesterName" validate:"max=100"`
	Courses      []courseRequest `json:"courses" validate:"max=200,dive"`
	Semesters    []periodRequest `json:"semesters" validate:"max=200,dive"`
}

type convertRequest struct {
	ScaleID   string   `json:"scaleId"`
	MaxPoints float64  `json:"maxPoints" validate:"omitempty,gt=0"`
	Values    []string `json:"values" validate:"required,min=1,max=500"`
}

type resultResponse struct {
	Average      float64  `json:"average"`
	TotalCredits float64  `json:"totalCredits"`
	Percentage   float64  `json:"percentage"`
	Tier         gpa.Tier `json:"tier"`
	Feedback     string   `json:"feedback"`
}

type calculationResponse struct {
	ScaleID   string          `json:"scaleId"`
	ScaleName string          `json:"scaleName"`
	MaxPoints float64         `json:"maxPoints"`
	Result    *resultResponse `json:"result"`
	Message   string          `json:"message,omitempty"`
	Issues    []gpa.Issue     `json:"issues"`
}

type scaleResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	MaxPoints float64       `json:"maxPoints"`
	Grades    []scale.Grade `json:"grades"`
}

type convertResponse struct {
	MaxPoints   float64          `json:"maxPoints"`
	Conversions []gpa.Conversion `json:"conversions"`
	Rejected    []string         `json:"rejected,omitempty"`
}

type worksheetResponse struct {
	Reports  []json.RawMessage `json:"reports"`
	Warnings []string          `json:"warnings,omitempty"`
	Duration string            `json:"duration"`
}

func toEntries(courses []courseRequest) []gpa.Entry {
	entries := make([]gpa.Entry, 0, len(courses))
	for _, c := range courses {
		entries = append(entries, gpa.Entry{Label: c.Name, GradeKey: c.Grade, Credits: c.Credits})
	}
	return entries
}

func toPeriods(periods []periodRequest) []cumulative.Period {
	out := make([]cumulative.Period, 0, len(periods))
	for _, p := range periods {
		out = append(out, cumulative.Period{Label: p.Name, AverageGPA: p.GPA, Credits: p.Credits})
	}
	return out
}

func newCalculationResponse(kind output.Kind, s scale.Scale, result *gpa.Result, issues []gpa.Issue) calculationResponse {
	resp := calculationResponse{
		ScaleID:   s.ID,
		ScaleName: s.Name,
		MaxPoints: s.MaxPoints,
		Issues:    issues,
	}
	if resp.Issues == nil {
		resp.Issues = []gpa.Issue{}
	}
	if result == nil {
		resp.Message = output.NotEnoughInformation
		return resp
	}
	resp.Result = &resultResponse{
		Average:      result.Average,
		TotalCredits: result.TotalCredits,
		Percentage:   result.Percentage,
		Tier:         result.Tier,
		Feedback:     result.Tier.Feedback(),
	}
	if kind == output.CumulativeKind {
		resp.Result.Feedback = result.Tier.CumulativeFeedback()
	}
	return resp
}

func (h *handler) handleScales(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	scales := scale.ListScales()
	resp := make([]scaleResponse, 0, len(scales))
	for _, s := range scales {
		resp = append(resp, scaleResponse{ID: s.ID, Name: s.Name, MaxPoints: s.MaxPoints, Grades: s.Grades()})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"default": scale.DefaultID,
		"scales":  resp,
	})
}

func (h *handler) handleSemester(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSemester"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req semesterRequest
	if !h.decodePayload(w, r, &req, op) {
		return
	}

	s, ok := h.lookupScale(w, req.ScaleID, op)
	if !ok {
		return
	}

	result, issues := gpa.Compute(toEntries(req.Courses), s)
	h.writeJSON(w, http.StatusOK, newCalculationResponse(output.SemesterKind, s, result, issues))
}

func (h *handler) handleCumulative(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCumulative"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req cumulativeRequest
	if !h.decodePayload(w, r, &req, op) {
		return
	}

	s, ok := h.lookupScale(w, req.ScaleID, op)
	if !ok {
		return
	}

	result, issues := cumulative.Compute(toPeriods(req.Semesters), s)
	h.writeJSON(w, http.StatusOK, newCalculationResponse(output.CumulativeKind, s, result, issues))
}

func (h *handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConvert"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req convertRequest
	if !h.decodePayload(w, r, &req, op) {
		return
	}

	maxPoints := req.MaxPoints
	if maxPoints == 0 {
		s, err := calculator.ScaleFor(req.ScaleID)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		maxPoints = s.MaxPoints
	}

	conversions, rejected := gpa.ConvertBulk(req.Values, maxPoints)
	if conversions == nil {
		conversions = []gpa.Conversion{}
	}
	h.writeJSON(w, http.StatusOK, convertResponse{
		MaxPoints:   maxPoints,
		Conversions: conversions,
		Rejected:    rejected,
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	outputFormat := r.URL.Query().Get("format")
	if outputFormat == "" {
		outputFormat = constants.OutputFormatCSV
	}
	if outputFormat != constants.OutputFormatCSV && outputFormat != constants.OutputFormatJSON {
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported report format %q (expected csv or json)", outputFormat), op)
		return
	}

	var req reportRequest
	if !h.decodePayload(w, r, &req, op) {
		return
	}

	s, ok := h.lookupScale(w, req.ScaleID, op)
	if !ok {
		return
	}

	now := time.Now()
	var report output.Report
	if req.Kind == string(output.CumulativeKind) {
		report = output.NewCumulativeReport(now, s, toPeriods(req.Semesters))
	} else {
		report = output.NewSemesterReport(now, req.SemesterName, s, toEntries(req.Courses))
	}

	var buf bytes.Buffer
	if err := output.WriteReport(&buf, report, outputFormat, output.Options{}); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if outputFormat == constants.OutputFormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", output.ReportFileName(report.Kind, now, outputFormat)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write report", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleWorksheet(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleWorksheet"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing worksheet file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	conf, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := conf.ValidateConfiguration()
	reports, err := calculator.Worksheet(h.logger, *conf, time.Now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	resp := worksheetResponse{
		Reports:  make([]json.RawMessage, 0, len(reports)),
		Warnings: warnings,
	}
	for _, report := range reports {
		rendered, err := output.RenderReport(report, constants.OutputFormatJSON)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		resp.Reports = append(resp.Reports, json.RawMessage(rendered))
	}
	elapsed := time.Since(start)
	resp.Duration = elapsed.String()

	h.logger.Info("worksheet computed",
		zap.String("op", op),
		zap.Int("reports", len(resp.Reports)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDraft"

	kind, err := draft.ParseKind(strings.TrimPrefix(r.URL.Path, "/api/draft/"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		var payload interface{}
		if kind == draft.CumulativeKind {
			payload, err = h.drafts.LoadCumulative(ctx)
		} else {
			payload, err = h.drafts.LoadSemester(ctx)
		}
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		h.writeJSON(w, http.StatusOK, payload)

	case http.MethodPut:
		if kind == draft.CumulativeKind {
			var req cumulativeRequest
			if !h.decodePayload(w, r, &req, op) {
				return
			}
			err = h.drafts.SaveCumulative(ctx, draft.CumulativeDraft{
				Semesters: toPeriods(req.Semesters),
				ScaleID:   req.ScaleID,
			})
		} else {
			var req semesterRequest
			if !h.decodePayload(w, r, &req, op) {
				return
			}
			err = h.drafts.SaveSemester(ctx, draft.SemesterDraft{
				Courses:      toEntries(req.Courses),
				ScaleID:      req.ScaleID,
				SemesterName: req.SemesterName,
			})
		}
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, scale.ErrUnknownScale) {
				status = http.StatusBadRequest
			}
			h.respondErrorWithOp(w, status, err.Error(), op)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := h.drafts.Reset(ctx, kind); err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodePayload reads a size-limited JSON body into dst and checks its
// structure. It writes the error response itself and reports whether the
// caller should continue.
func (h *handler) decodePayload(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
		case errors.Is(err, io.EOF):
			h.respondErrorWithOp(w, http.StatusBadRequest, "request body is empty", op)
		default:
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		}
		return false
	}

	if err := h.checkPayload(dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return false
	}
	return true
}

func (h *handler) lookupScale(w http.ResponseWriter, id string, op string) (scale.Scale, bool) {
	s, err := scale.GetScale(strings.TrimSpace(id))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return scale.Scale{}, false
	}
	return s, true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
