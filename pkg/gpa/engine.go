package gpa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/mathutil"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
)

// Validate splits entries into the eligible set and the issues found on the
// rest. A row with no label, no grade and either no credits or the default
// credit value has not been started and is skipped silently. A grade that is
// filled in but not on the scale counts as missing once the other two fields
// are present. At most one issue is reported per entry.
func Validate(entries []Entry, s scale.Scale) ([]Entry, []Issue) {
	var eligible []Entry
	var issues []Issue

	for i, entry := range entries {
		label := strings.TrimSpace(entry.Label)
		grade := strings.TrimSpace(entry.GradeKey)
		hasLabel := label != ""
		hasGrade := grade != ""
		hasCredits := mathutil.IsPositive(entry.Credits)
		untouchedCredits := !hasCredits || entry.Credits == constants.DefaultCourseCredits

		switch {
		case !hasLabel && !hasGrade && untouchedCredits:
			continue
		case !hasLabel && !hasGrade:
			issues = append(issues, Issue{
				Index:   i,
				Kind:    MissingLabel,
				Message: fmt.Sprintf("Course with %v credits is missing a name", entry.Credits),
			})
		case !hasLabel:
			issues = append(issues, Issue{
				Index:   i,
				Kind:    MissingLabel,
				Message: fmt.Sprintf("Course with grade %s is missing a name", grade),
			})
		case !hasGrade:
			issues = append(issues, Issue{
				Index:   i,
				Label:   label,
				Kind:    MissingGrade,
				Message: fmt.Sprintf("%s is missing a grade", label),
			})
		case !hasCredits:
			issues = append(issues, Issue{
				Index:   i,
				Label:   label,
				Kind:    InvalidCredits,
				Message: fmt.Sprintf("%s has invalid credit hours", label),
			})
		case !s.Has(grade):
			issues = append(issues, Issue{
				Index:   i,
				Label:   label,
				Kind:    MissingGrade,
				Message: fmt.Sprintf("%s has grade %s which is not on the %s", label, grade, s.Name),
			})
		default:
			eligible = append(eligible, Entry{Label: label, GradeKey: grade, Credits: entry.Credits})
		}
	}

	return eligible, issues
}

// Compute returns the credit-weighted average of the eligible entries together
// with the validation issues. The result is nil when no entry is eligible.
func Compute(entries []Entry, s scale.Scale) (*Result, []Issue) {
	eligible, issues := Validate(entries, s)
	if len(eligible) == 0 {
		return nil, issues
	}

	var totalPoints, totalCredits float64
	for _, entry := range eligible {
		points, _ := s.Points(entry.GradeKey)
		totalPoints += points * entry.Credits
		totalCredits += entry.Credits
	}

	return Summarize(totalPoints, totalCredits, s.MaxPoints), issues
}

// Summarize turns a weighted point total into a Result. The average is
// rounded first and the percentage is derived from the rounded average.
func Summarize(weightedPoints, credits, maxPoints float64) *Result {
	if !mathutil.IsPositive(credits) || !mathutil.IsPositive(maxPoints) {
		return nil
	}

	// Scales with more than two decimals in MaxPoints could otherwise round past the ceiling.
	average := mathutil.Clamp(mathutil.Round(weightedPoints/credits), 0, maxPoints)
	percentage := mathutil.Clamp(mathutil.Round(average/maxPoints*constants.PercentageMultiplier), 0, constants.PercentageMultiplier)

	return &Result{
		Average:      average,
		TotalCredits: credits,
		Percentage:   percentage,
		Tier:         ClassifyTier(percentage),
	}
}

// GradePoints returns points times credits for a single entry, or 0 when the
// grade is not on the scale.
func GradePoints(entry Entry, s scale.Scale) float64 {
	points, ok := s.Points(entry.GradeKey)
	if !ok {
		return 0
	}
	return points * entry.Credits
}

// ParseCredits converts raw credit input. Anything that is not a finite
// positive number becomes 0, which excludes the entry.
func ParseCredits(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !mathutil.IsPositive(value) {
		return 0
	}
	return value
}

// NewEntry returns a blank course row with the default credit value.
func NewEntry() Entry {
	return Entry{Credits: constants.DefaultCourseCredits}
}
