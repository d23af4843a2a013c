package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/cumulative"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
)

var generatedAt = time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)

func semesterReport(t *testing.T) Report {
	t.Helper()
	s, err := scale.GetScale(scale.DefaultID)
	if err != nil {
		t.Fatalf("GetScale() error = %v", err)
	}
	entries := []gpa.Entry{
		{Label: "Physics", GradeKey: "A-", Credits: 3},
		{Label: "History", GradeKey: "B", Credits: 3},
		{Label: "", GradeKey: "C", Credits: 3},
	}
	return NewSemesterReport(generatedAt, "Fall 2024", s, entries)
}

func TestNewSemesterReport(t *testing.T) {
	r := semesterReport(t)

	if r.Result == nil || r.Result.Average != 3.35 {
		t.Fatalf("expected average 3.35, got %+v", r.Result)
	}
	if len(r.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(r.Rows))
	}
	if r.Rows[0].Name != "Physics" || r.Rows[0].Mark != "A-" {
		t.Errorf("unexpected first row %+v", r.Rows[0])
	}
	if len(r.Issues) != 1 {
		t.Errorf("expected 1 issue, got %v", r.Issues)
	}
	if r.Title() != "Semester GPA Report" || r.PeriodName() != "Fall 2024" {
		t.Errorf("unexpected title/period %q %q", r.Title(), r.PeriodName())
	}
}

func TestNewCumulativeReport(t *testing.T) {
	s, _ := scale.GetScale(scale.DefaultID)
	r := NewCumulativeReport(generatedAt, s, []cumulative.Period{
		{Label: "Fall", AverageGPA: 3.5, Credits: 15},
		{Label: "Spring", AverageGPA: 3.8, Credits: 12},
	})
	if r.Result == nil || r.Result.Average != 3.63 {
		t.Fatalf("expected cumulative 3.63, got %+v", r.Result)
	}
	if r.Rows[0].Mark != "3.50" || r.Rows[0].GradePoints != 52.5 {
		t.Errorf("unexpected row %+v", r.Rows[0])
	}
	if r.Title() != "Cumulative GPA Report" || r.AverageLabel() != "Overall CGPA" {
		t.Errorf("unexpected labels %q %q", r.Title(), r.AverageLabel())
	}
}

func TestWritePrettyFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, semesterReport(t), constants.OutputFormatPretty, Options{}); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	out := buf.String()

	ordered := []string{
		"Generated on: 2025-01-31",
		"Grading System: 4.0 Scale (A+ = 4.0)",
		"Semester GPA: 3.35 / 4.0",
		"Total Credits: 6",
		"Percentage: 83.75%",
	}
	last := -1
	for _, want := range ordered {
		idx := strings.Index(out, want)
		if idx < 0 {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
		if idx < last {
			t.Errorf("%q is out of order", want)
		}
		last = idx
	}

	for _, want := range []string{"Semester: Fall 2024", "Tier: Excellent", "Physics", "11.10", "Course with grade C is missing a name"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWritePrettyGroupsLargeNumbers(t *testing.T) {
	s, _ := scale.GetScale(scale.DefaultID)
	r := NewCumulativeReport(generatedAt, s, []cumulative.Period{
		{Label: "Lifetime", AverageGPA: 3.5, Credits: 1200},
	})

	var buf bytes.Buffer
	if err := WriteReport(&buf, r, constants.OutputFormatPretty, Options{}); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Overall CGPA: 3.50 / 4.0",
		"Total Credits: 1,200",
		"Percentage: 87.50%",
		"4,200.00",
		"Excellent Overall Performance!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReportFeedbackByKind(t *testing.T) {
	semester := semesterReport(t)
	if got := semester.Feedback(); got != "Excellent Semester!" {
		t.Errorf("semester Feedback() = %q", got)
	}

	s, _ := scale.GetScale(scale.DefaultID)
	if got := NewCumulativeReport(generatedAt, s, nil).Feedback(); got != "" {
		t.Errorf("expected no feedback without a result, got %q", got)
	}
}

func TestWritePrettyWithoutResult(t *testing.T) {
	s, _ := scale.GetScale("5.0")
	r := NewSemesterReport(generatedAt, "", s, nil)

	var buf bytes.Buffer
	if err := WriteReport(&buf, r, constants.OutputFormatPretty, Options{}); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, NotEnoughInformation) {
		t.Errorf("expected neutral message, got:\n%s", out)
	}
	if !strings.Contains(out, "Semester: Current Semester") {
		t.Errorf("expected placeholder semester name, got:\n%s", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, semesterReport(t), constants.OutputFormatCSV, Options{}); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}

	wantKeys := []string{"generated", "scale", "average", "totalCredits", "percentage", "tier"}
	for i, key := range wantKeys {
		if records[i][0] != key {
			t.Errorf("record %d: expected key %s, got %s", i, key, records[i][0])
		}
	}
	if records[2][1] != "3.35" || records[4][1] != "83.75" {
		t.Errorf("unexpected summary values %v %v", records[2], records[4])
	}
	if records[6][0] != "Course Name" {
		t.Errorf("expected table header, got %v", records[6])
	}
	if len(records) != 9 {
		t.Errorf("expected 9 records, got %d", len(records))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, semesterReport(t), constants.OutputFormatJSON, Options{}); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["average"] != 3.35 {
		t.Errorf("expected average 3.35, got %v", decoded["average"])
	}
	if decoded["tier"] != "Excellent" {
		t.Errorf("expected tier Excellent, got %v", decoded["tier"])
	}
	if decoded["generatedAt"] != "2025-01-31" {
		t.Errorf("unexpected generatedAt %v", decoded["generatedAt"])
	}
}

func TestWriteJSONWithoutResult(t *testing.T) {
	s, _ := scale.GetScale(scale.DefaultID)
	out, err := RenderReport(NewCumulativeReport(generatedAt, s, nil), constants.OutputFormatJSON)
	if err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	if !strings.Contains(out, `"average": null`) {
		t.Errorf("expected null average, got %s", out)
	}
	if !strings.Contains(out, `"rows": []`) {
		t.Errorf("expected empty rows, got %s", out)
	}
}

func TestWriteReportUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, semesterReport(t), "pdf", Options{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestReportFileName(t *testing.T) {
	tests := []struct {
		kind     Kind
		format   string
		expected string
	}{
		{SemesterKind, constants.OutputFormatCSV, "Semester-GPA-Report-2025-01-31.csv"},
		{CumulativeKind, constants.OutputFormatJSON, "Cumulative-GPA-Report-2025-01-31.json"},
		{SemesterKind, constants.OutputFormatPretty, "Semester-GPA-Report-2025-01-31.txt"},
	}
	for _, tt := range tests {
		if got := ReportFileName(tt.kind, generatedAt, tt.format); got != tt.expected {
			t.Errorf("ReportFileName() = %s, expected %s", got, tt.expected)
		}
	}
}

func TestWriteScales(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteScales(&buf, scale.ListScales()); err != nil {
		t.Fatalf("WriteScales() error = %v", err)
	}
	for _, want := range []string{"4.0-with-plus", "10.0", "A+=4.3"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("scale listing missing %q", want)
		}
	}
}

func TestWriteConversions(t *testing.T) {
	conversions, rejects := gpa.ConvertBulk([]string{"3.7", "abc"}, 4.0)
	var buf bytes.Buffer
	if err := WriteConversions(&buf, 4.0, conversions, rejects); err != nil {
		t.Fatalf("WriteConversions() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "92.50%") {
		t.Errorf("expected converted percentage, got:\n%s", out)
	}
	if !strings.Contains(out, `Skipped "abc"`) {
		t.Errorf("expected reject line, got:\n%s", out)
	}
}
