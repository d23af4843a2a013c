// Package calculator runs a worksheet through the GPA engines and builds the
// reports for it.
package calculator

import (
	"fmt"
	"time"

	"github.com/iwvelando/gpa-calculator/internal/config"
	"github.com/iwvelando/gpa-calculator/internal/draft"
	"github.com/iwvelando/gpa-calculator/pkg/adapters"
	"github.com/iwvelando/gpa-calculator/pkg/cumulative"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/output"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
	"go.uber.org/zap"
)

// Semester computes the semester worksheet in conf.
func Semester(logger *zap.Logger, conf config.Configuration, generatedAt time.Time) (output.Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := conf.ResolveScale()
	if err != nil {
		return output.Report{}, err
	}

	entries := adapters.CoursesToEntries(conf.Semester.Courses)
	report := output.NewSemesterReport(generatedAt, conf.Semester.Name, s, entries)
	logResult(logger, "calculator.Semester", s, report, len(entries))
	return report, nil
}

// Cumulative computes the cumulative worksheet in conf.
func Cumulative(logger *zap.Logger, conf config.Configuration, generatedAt time.Time) (output.Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s, err := conf.ResolveScale()
	if err != nil {
		return output.Report{}, err
	}

	periods := adapters.SemestersToPeriods(conf.Cumulative.Semesters)
	report := output.NewCumulativeReport(generatedAt, s, periods)
	logResult(logger, "calculator.Cumulative", s, report, len(periods))
	return report, nil
}

// Worksheet computes every non-empty section of conf, semester first.
func Worksheet(logger *zap.Logger, conf config.Configuration, generatedAt time.Time) ([]output.Report, error) {
	var reports []output.Report

	if len(conf.Semester.Courses) > 0 {
		report, err := Semester(logger, conf, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to compute semester GPA: %w", err)
		}
		reports = append(reports, report)
	}

	if len(conf.Cumulative.Semesters) > 0 {
		report, err := Cumulative(logger, conf, generatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cumulative GPA: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func logResult(logger *zap.Logger, op string, s scale.Scale, report output.Report, rows int) {
	for _, issue := range report.Issues {
		logger.Debug(issue.Message,
			zap.String("op", op),
			zap.Int("index", issue.Index),
			zap.String("kind", string(issue.Kind)),
		)
	}

	if report.Result == nil {
		logger.Info("not enough information to calculate",
			zap.String("op", op),
			zap.String("scale", s.ID),
			zap.Int("rows", rows),
			zap.Int("issues", len(report.Issues)),
		)
		return
	}

	logger.Info("calculated",
		zap.String("op", op),
		zap.String("scale", s.ID),
		zap.Float64("average", report.Result.Average),
		zap.Float64("credits", report.Result.TotalCredits),
		zap.Float64("percentage", report.Result.Percentage),
		zap.Stringer("tier", report.Result.Tier),
		zap.Int("issues", len(report.Issues)),
	)
}

// ApplySemesterDraft replaces the semester worksheet and scale in conf with d.
func ApplySemesterDraft(conf *config.Configuration, d draft.SemesterDraft) {
	conf.Scale = d.ScaleID
	conf.Semester = config.Semester{
		Name:    d.SemesterName,
		Courses: adapters.EntriesToCourses(d.Courses),
	}
}

// ApplyCumulativeDraft replaces the cumulative worksheet and scale in conf with d.
func ApplyCumulativeDraft(conf *config.Configuration, d draft.CumulativeDraft) {
	conf.Scale = d.ScaleID
	conf.Cumulative = config.Cumulative{
		Semesters: adapters.PeriodsToSemesters(d.Semesters),
	}
}

// SemesterDraftFrom captures the semester worksheet in conf.
func SemesterDraftFrom(conf config.Configuration) draft.SemesterDraft {
	entries := adapters.CoursesToEntries(conf.Semester.Courses)
	if entries == nil {
		entries = []gpa.Entry{}
	}
	return draft.SemesterDraft{
		Courses:      entries,
		ScaleID:      conf.Scale,
		SemesterName: conf.Semester.Name,
	}
}

// CumulativeDraftFrom captures the cumulative worksheet in conf.
func CumulativeDraftFrom(conf config.Configuration) draft.CumulativeDraft {
	d := draft.CumulativeDraft{
		Semesters: adapters.SemestersToPeriods(conf.Cumulative.Semesters),
		ScaleID:   conf.Scale,
	}
	if d.Semesters == nil {
		d.Semesters = []cumulative.Period{}
	}
	return d
}

// ScaleFor returns the scale with id or the catalog default for an empty id.
func ScaleFor(id string) (scale.Scale, error) {
	if id == "" {
		id = scale.DefaultID
	}
	return scale.GetScale(id)
}
