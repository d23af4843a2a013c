// Package output provides utilities for formatting and exporting GPA results.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/cumulative"
	"github.com/iwvelando/gpa-calculator/pkg/format"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
)

// Kind identifies which calculator produced a report.
type Kind string

const (
	SemesterKind   Kind = "semester"
	CumulativeKind Kind = "cumulative"
)

// Row is one line of the report table.
type Row struct {
	Name        string  `json:"name"`
	Mark        string  `json:"mark"`
	Credits     float64 `json:"credits"`
	GradePoints float64 `json:"gradePoints"`
}

// Report is everything the document export writes. Writers emit the summary
// in a fixed order: generation date, scale name, average, total credits,
// percentage.
type Report struct {
	GeneratedAt time.Time
	Kind        Kind
	Period      string
	ScaleID     string
	ScaleName   string
	MaxPoints   float64
	Result      *gpa.Result
	Issues      []gpa.Issue
	Rows        []Row
}

// NewSemesterReport builds a report for a list of courses. Only eligible
// courses appear in the table.
func NewSemesterReport(generatedAt time.Time, period string, s scale.Scale, entries []gpa.Entry) Report {
	result, issues := gpa.Compute(entries, s)
	eligible, _ := gpa.Validate(entries, s)

	rows := make([]Row, 0, len(eligible))
	for _, entry := range eligible {
		rows = append(rows, Row{
			Name:        entry.Label,
			Mark:        entry.GradeKey,
			Credits:     entry.Credits,
			GradePoints: gpa.GradePoints(entry, s),
		})
	}

	return Report{
		GeneratedAt: generatedAt,
		Kind:        SemesterKind,
		Period:      strings.TrimSpace(period),
		ScaleID:     s.ID,
		ScaleName:   s.Name,
		MaxPoints:   s.MaxPoints,
		Result:      result,
		Issues:      issues,
		Rows:        rows,
	}
}

// NewCumulativeReport builds a report for a list of periods.
func NewCumulativeReport(generatedAt time.Time, s scale.Scale, periods []cumulative.Period) Report {
	result, issues := cumulative.Compute(periods, s)
	eligible, _ := cumulative.Validate(periods, s)

	rows := make([]Row, 0, len(eligible))
	for _, period := range eligible {
		rows = append(rows, Row{
			Name:        period.Label,
			Mark:        format.Points(period.AverageGPA),
			Credits:     period.Credits,
			GradePoints: cumulative.GradePoints(period),
		})
	}

	return Report{
		GeneratedAt: generatedAt,
		Kind:        CumulativeKind,
		ScaleID:     s.ID,
		ScaleName:   s.Name,
		MaxPoints:   s.MaxPoints,
		Result:      result,
		Issues:      issues,
		Rows:        rows,
	}
}

// Title is the heading of the report.
func (r Report) Title() string {
	if r.Kind == CumulativeKind {
		return "Cumulative GPA Report"
	}
	return "Semester GPA Report"
}

// AverageLabel names the headline figure.
func (r Report) AverageLabel() string {
	if r.Kind == CumulativeKind {
		return "Overall CGPA"
	}
	return "Semester GPA"
}

// Feedback returns the encouragement line for the report's tier, or "" when
// there is no result.
func (r Report) Feedback() string {
	if r.Result == nil {
		return ""
	}
	if r.Kind == CumulativeKind {
		return r.Result.Tier.CumulativeFeedback()
	}
	return r.Result.Tier.Feedback()
}

// PeriodName returns the semester name or its placeholder.
func (r Report) PeriodName() string {
	if r.Period == "" {
		return "Current Semester"
	}
	return r.Period
}

func (r Report) headers() []string {
	if r.Kind == CumulativeKind {
		return []string{"Semester", "GPA", "Credits", "Grade Points"}
	}
	return []string{"Course Name", "Grade", "Credits", "Grade Points"}
}

// ReportFileName returns the download name for a report, e.g.
// "Semester-GPA-Report-2025-01-31.csv".
func ReportFileName(kind Kind, date time.Time, outputFormat string) string {
	prefix := "Semester"
	if kind == CumulativeKind {
		prefix = "Cumulative"
	}
	ext := "txt"
	switch outputFormat {
	case constants.OutputFormatCSV:
		ext = "csv"
	case constants.OutputFormatJSON:
		ext = "json"
	}
	return fmt.Sprintf("%s-GPA-Report-%s.%s", prefix, date.Format(constants.DateLayout), ext)
}
