// Package cumulative combines already-computed period GPAs into a cumulative
// GPA weighted by each period's credit total.
package cumulative

import (
	"fmt"
	"strings"

	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/mathutil"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
)

// Period is a summarized term: its GPA and the credits it carried.
type Period struct {
	Label      string  `json:"name"`
	AverageGPA float64 `json:"gpa"`
	Credits    float64 `json:"credits"`
}

// Validate splits periods into the eligible set and the issues found on the
// rest. A period with no label, a zero GPA and zero credits is skipped silently.
func Validate(periods []Period, s scale.Scale) ([]Period, []gpa.Issue) {
	var eligible []Period
	var issues []gpa.Issue

	for i, period := range periods {
		label := strings.TrimSpace(period.Label)
		validGPA := mathutil.IsPositive(period.AverageGPA) && period.AverageGPA <= s.MaxPoints
		validCredits := mathutil.IsPositive(period.Credits)

		switch {
		case label == "" && period.AverageGPA == 0 && period.Credits == 0:
			continue
		case label == "":
			issues = append(issues, gpa.Issue{
				Index:   i,
				Kind:    gpa.MissingLabel,
				Message: fmt.Sprintf("Semester with GPA %v is missing a name", period.AverageGPA),
			})
		case !validGPA:
			issues = append(issues, gpa.Issue{
				Index:   i,
				Label:   label,
				Kind:    gpa.InvalidGPA,
				Message: fmt.Sprintf("%s has invalid GPA %v (expected above 0 and at most %v)", label, period.AverageGPA, s.MaxPoints),
			})
		case !validCredits:
			issues = append(issues, gpa.Issue{
				Index:   i,
				Label:   label,
				Kind:    gpa.InvalidCredits,
				Message: fmt.Sprintf("%s has invalid credit hours", label),
			})
		default:
			eligible = append(eligible, Period{Label: label, AverageGPA: period.AverageGPA, Credits: period.Credits})
		}
	}

	return eligible, issues
}

// Compute returns the credit-weighted cumulative GPA of the eligible periods
// together with the validation issues. The result is nil when no period is eligible.
func Compute(periods []Period, s scale.Scale) (*gpa.Result, []gpa.Issue) {
	eligible, issues := Validate(periods, s)
	if len(eligible) == 0 {
		return nil, issues
	}

	var weighted, credits float64
	for _, period := range eligible {
		weighted += period.AverageGPA * period.Credits
		credits += period.Credits
	}

	return gpa.Summarize(weighted, credits, s.MaxPoints), issues
}

// GradePoints returns GPA times credits for one period.
func GradePoints(period Period) float64 {
	return period.AverageGPA * period.Credits
}
