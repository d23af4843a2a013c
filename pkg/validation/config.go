// Package validation provides worksheet validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
)

// ValidateScaleID returns a warning when id is not a built-in scale.
func ValidateScaleID(id string) string {
	if _, err := scale.GetScale(id); err != nil {
		return fmt.Sprintf("Scale '%s' is not supported (expected one of %s)", id, strings.Join(scale.Default().IDs(), ", "))
	}
	return ""
}

// ValidateCourseCredits warns about credit values above what a single course
// normally carries. The calculation still accepts them.
func ValidateCourseCredits(courseName string, credits float64) string {
	if credits > constants.MaxCreditsPerCourse {
		return fmt.Sprintf("Course '%s' has %v credits, more than the usual maximum of %v",
			courseName, credits, constants.MaxCreditsPerCourse)
	}
	return ""
}

// ValidateDuplicateNames warns once per name that appears more than once.
func ValidateDuplicateNames(kind string, names []string) []string {
	var warnings []string
	seen := make(map[string]int)
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		seen[key]++
		if seen[key] == 2 {
			warnings = append(warnings, fmt.Sprintf("%s '%s' is listed more than once", kind, strings.TrimSpace(name)))
		}
	}
	return warnings
}

// WorksheetValidator performs comprehensive worksheet validation
type WorksheetValidator struct {
	ScaleID  string
	Semester SemesterConfig
	Periods  []PeriodConfig
}

type SemesterConfig struct {
	Name    string
	Courses []CourseConfig
}

type CourseConfig struct {
	Name    string
	Grade   string
	Credits float64
}

type PeriodConfig struct {
	Name    string
	GPA     float64
	Credits float64
}

// ValidateAll validates the entire worksheet and returns warnings
func (wv *WorksheetValidator) ValidateAll() []string {
	var warnings []string

	if warning := ValidateScaleID(wv.ScaleID); warning != "" {
		warnings = append(warnings, warning)
	}

	if len(wv.Semester.Courses) == 0 && len(wv.Periods) == 0 {
		warnings = append(warnings, "Worksheet has no courses and no semesters")
	}

	var courseNames []string
	for _, course := range wv.Semester.Courses {
		if warning := ValidateCourseCredits(course.Name, course.Credits); warning != "" {
			warnings = append(warnings, warning)
		}
		courseNames = append(courseNames, course.Name)
	}
	warnings = append(warnings, ValidateDuplicateNames("Course", courseNames)...)

	var periodNames []string
	for _, period := range wv.Periods {
		periodNames = append(periodNames, period.Name)
	}
	warnings = append(warnings, ValidateDuplicateNames("Semester", periodNames)...)

	return warnings
}
