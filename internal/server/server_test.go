package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/gpa-calculator/internal/draft"
	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/output"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() http.Handler {
	return NewHandler(zap.NewNop(), constants.DefaultMaxUploadSizeBytes, "test", nil)
}

func performJSON(t *testing.T, handler http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp["error"]
}

func TestHandleScales(t *testing.T) {
	rr := performJSON(t, newTestHandler(), http.MethodGet, "/api/scales", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Default string          `json:"default"`
		Scales  []scaleResponse `json:"scales"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Equal(t, scale.DefaultID, resp.Default)
	require.Len(t, resp.Scales, 5)
	assert.Equal(t, scale.DefaultID, resp.Scales[0].ID)
	assert.Equal(t, 4.0, resp.Scales[0].MaxPoints)
	assert.NotEmpty(t, resp.Scales[0].Grades)
}

func TestHandleSemester(t *testing.T) {
	payload := map[string]interface{}{
		"scaleId":      scale.DefaultID,
		"semesterName": "Fall",
		"courses": []map[string]interface{}{
			{"name": "Calculus", "grade": "A", "credits": 3},
			{"name": "Physics", "grade": "B+", "credits": 4},
			{"name": "History", "grade": "B-", "credits": 3},
			{"name": "Art", "grade": "", "credits": 2},
			{"name": "", "grade": "", "credits": 3},
		},
	}

	rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/semester", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp calculationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	require.NotNil(t, resp.Result)
	// (4.0*3 + 3.3*4 + 2.7*3) / 10 = 3.33
	assert.Equal(t, 3.33, resp.Result.Average)
	assert.Equal(t, 10.0, resp.Result.TotalCredits)
	assert.Equal(t, 83.25, resp.Result.Percentage)
	assert.Equal(t, gpa.Excellent, resp.Result.Tier)
	assert.Equal(t, "Excellent Semester!", resp.Result.Feedback)
	assert.Empty(t, resp.Message)

	require.Len(t, resp.Issues, 1)
	assert.Equal(t, 3, resp.Issues[0].Index)
	assert.Equal(t, gpa.MissingGrade, resp.Issues[0].Kind)
}

func TestHandleSemesterNotEnoughInformation(t *testing.T) {
	payload := map[string]interface{}{
		"scaleId": scale.DefaultID,
		"courses": []map[string]interface{}{{"name": "", "grade": "", "credits": 3}},
	}

	rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/semester", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp calculationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Nil(t, resp.Result)
	assert.Equal(t, output.NotEnoughInformation, resp.Message)
	assert.NotNil(t, resp.Issues)
	assert.Empty(t, resp.Issues)
}

func TestHandleSemesterRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name       string
		payload    interface{}
		wantStatus int
		wantError  string
	}{
		{
			name:       "unknown scale",
			payload:    map[string]interface{}{"scaleId": "7.0", "courses": []interface{}{}},
			wantStatus: http.StatusBadRequest,
			wantError:  "7.0",
		},
		{
			name:       "missing scale",
			payload:    map[string]interface{}{"courses": []interface{}{}},
			wantStatus: http.StatusBadRequest,
			wantError:  "scaleId",
		},
		{
			name: "grade too long",
			payload: map[string]interface{}{
				"scaleId": scale.DefaultID,
				"courses": []map[string]interface{}{{"name": "Art", "grade": "EXCELLENT", "credits": 3}},
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "courses[0].grade",
		},
		{
			name:       "unknown field",
			payload:    map[string]interface{}{"scaleId": scale.DefaultID, "extra": true},
			wantStatus: http.StatusBadRequest,
			wantError:  "extra",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/semester", tt.payload)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Contains(t, decodeError(t, rr), tt.wantError)
		})
	}
}

func TestHandleSemesterEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/semester", strings.NewReader(""))
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "request body is empty", decodeError(t, rr))
}

func TestHandleSemesterBodyTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 64, "test", nil)
	payload := map[string]interface{}{
		"scaleId":      scale.DefaultID,
		"semesterName": strings.Repeat("x", 90),
	}

	rr := performJSON(t, handler, http.MethodPost, "/api/semester", payload)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestHandleCumulative(t *testing.T) {
	payload := map[string]interface{}{
		"scaleId": scale.DefaultID,
		"semesters": []map[string]interface{}{
			{"name": "Fall", "gpa": 3.5, "credits": 15},
			{"name": "Spring", "gpa": 3.75, "credits": 16},
			{"name": "Summer", "gpa": 4.5, "credits": 6},
			{"name": "", "gpa": 0, "credits": 0},
		},
	}

	rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/cumulative", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp calculationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	assert.Equal(t, 3.63, resp.Result.Average)
	assert.Equal(t, 31.0, resp.Result.TotalCredits)
	assert.Equal(t, 90.75, resp.Result.Percentage)
	assert.Equal(t, gpa.Outstanding, resp.Result.Tier)
	assert.Equal(t, "Outstanding Academic Record!", resp.Result.Feedback)

	require.Len(t, resp.Issues, 1)
	assert.Equal(t, gpa.InvalidGPA, resp.Issues[0].Kind)
	assert.Equal(t, 2, resp.Issues[0].Index)
}

func TestHandleConvert(t *testing.T) {
	payload := map[string]interface{}{
		"scaleId": "10.0",
		"values":  []string{"8.5", "", "abc", "11"},
	}

	rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/convert", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp convertResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 10.0, resp.MaxPoints)
	require.Len(t, resp.Conversions, 1)
	assert.Equal(t, 85.0, resp.Conversions[0].Percentage)
	assert.Equal(t, "B", resp.Conversions[0].Letter)
	assert.Equal(t, []string{"abc", "11"}, resp.Rejected)
}

func TestHandleConvertCustomMax(t *testing.T) {
	payload := map[string]interface{}{
		"maxPoints": 5.0,
		"values":    []string{"4"},
	}

	rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/convert", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp convertResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Conversions, 1)
	assert.Equal(t, 80.0, resp.Conversions[0].Percentage)
}

func TestHandleConvertRequiresValues(t *testing.T) {
	rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/convert", map[string]interface{}{"scaleId": "5.0"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr), "values")
}

func TestHandleReport(t *testing.T) {
	payload := map[string]interface{}{
		"kind":    "cumulative",
		"scaleId": scale.DefaultID,
		"semesters": []map[string]interface{}{
			{"name": "Fall", "gpa": 3.5, "credits": 15},
			{"name": "Spring", "gpa": 3.75, "credits": 16},
		},
	}

	rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/report?format=csv", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	wantName := output.ReportFileName(output.CumulativeKind, time.Now(), constants.OutputFormatCSV)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), wantName)
	assert.Contains(t, rr.Body.String(), "3.63")
	assert.Contains(t, rr.Body.String(), "Spring")
}

func TestHandleReportJSON(t *testing.T) {
	payload := map[string]interface{}{
		"kind":    "semester",
		"scaleId": "4.3-scale",
		"courses": []map[string]interface{}{{"name": "Calculus", "grade": "A+", "credits": 3}},
	}

	rr := performJSON(t, newTestHandler(), http.MethodPost, "/api/report?format=json", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 4.3, resp["average"])
	assert.Equal(t, "semester", resp["kind"])
}

func TestHandleReportRejectsBadInput(t *testing.T) {
	handler := newTestHandler()

	rr := performJSON(t, handler, http.MethodPost, "/api/report?format=pdf",
		map[string]interface{}{"kind": "semester", "scaleId": scale.DefaultID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = performJSON(t, handler, http.MethodPost, "/api/report",
		map[string]interface{}{"kind": "yearly", "scaleId": scale.DefaultID})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr), "kind")
}

func TestHandleWorksheet(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "config.yaml.example"))
	require.NoError(t, err)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "config.yaml")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/worksheet", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp worksheetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 2)
	assert.NotEmpty(t, resp.Duration)
	assert.Empty(t, resp.Warnings)

	var cumulativeReport map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Reports[1], &cumulativeReport))
	assert.Equal(t, 3.63, cumulativeReport["average"])
}

func TestHandleWorksheetMissingFile(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("other", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/worksheet", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "missing worksheet file", decodeError(t, rr))
}

func TestHandleDraftLifecycle(t *testing.T) {
	handler := NewHandler(zap.NewNop(), 0, "", draft.NewService(draft.NewMemoryStore(), nil))

	rr := performJSON(t, handler, http.MethodGet, "/api/draft/semester", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var loaded draft.SemesterDraft
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loaded))
	assert.Equal(t, draft.DefaultSemester(), loaded)

	saved := map[string]interface{}{
		"scaleId":      "5.0",
		"semesterName": "Spring",
		"courses":      []map[string]interface{}{{"name": "Art", "grade": "A", "credits": 2}},
	}
	rr = performJSON(t, handler, http.MethodPut, "/api/draft/semester", saved)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = performJSON(t, handler, http.MethodGet, "/api/draft/semester", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loaded))
	assert.Equal(t, "5.0", loaded.ScaleID)
	assert.Equal(t, "Spring", loaded.SemesterName)
	require.Len(t, loaded.Courses, 1)
	assert.Equal(t, "Art", loaded.Courses[0].Label)

	rr = performJSON(t, handler, http.MethodDelete, "/api/draft/semester", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = performJSON(t, handler, http.MethodGet, "/api/draft/semester", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loaded))
	assert.Equal(t, draft.DefaultSemester(), loaded)
}

func TestHandleDraftCumulative(t *testing.T) {
	handler := newTestHandler()

	saved := map[string]interface{}{
		"scaleId":   "10.0",
		"semesters": []map[string]interface{}{{"name": "Year 1", "gpa": 8.2, "credits": 40}},
	}
	rr := performJSON(t, handler, http.MethodPut, "/api/draft/cumulative", saved)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = performJSON(t, handler, http.MethodGet, "/api/draft/cumulative", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var loaded draft.CumulativeDraft
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loaded))
	assert.Equal(t, "10.0", loaded.ScaleID)
	require.Len(t, loaded.Semesters, 1)
	assert.Equal(t, 8.2, loaded.Semesters[0].AverageGPA)
}

func TestHandleDraftErrors(t *testing.T) {
	handler := newTestHandler()

	rr := performJSON(t, handler, http.MethodGet, "/api/draft/yearly", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = performJSON(t, handler, http.MethodPut, "/api/draft/semester",
		map[string]interface{}{"scaleId": "7.0"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = performJSON(t, handler, http.MethodPost, "/api/draft/semester", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleVersion(t *testing.T) {
	rr := performJSON(t, newTestHandler(), http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "test", resp["version"])

	rr = performJSON(t, NewHandler(nil, 0, "  ", nil), http.MethodGet, "/api/version", nil)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "dev", resp["version"])
}

func TestMethodNotAllowed(t *testing.T) {
	handler := newTestHandler()
	for _, path := range []string{"/api/semester", "/api/cumulative", "/api/convert", "/api/report", "/api/worksheet"} {
		rr := performJSON(t, handler, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, path)
	}
	rr := performJSON(t, handler, http.MethodPost, "/api/scales", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
