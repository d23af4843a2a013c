// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"github.com/iwvelando/gpa-calculator/internal/config"
	"github.com/iwvelando/gpa-calculator/pkg/cumulative"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
)

// CoursesToEntries converts config.Course slices to gpa.Entry slices
func CoursesToEntries(courses []config.Course) []gpa.Entry {
	if courses == nil {
		return nil
	}

	entries := make([]gpa.Entry, 0, len(courses))
	for _, course := range courses {
		entries = append(entries, gpa.Entry{
			Label:    course.Name,
			GradeKey: course.Grade,
			Credits:  course.Credits,
		})
	}
	return entries
}

// EntriesToCourses converts gpa.Entry slices back to config.Course slices
func EntriesToCourses(entries []gpa.Entry) []config.Course {
	if entries == nil {
		return nil
	}

	courses := make([]config.Course, 0, len(entries))
	for _, entry := range entries {
		courses = append(courses, config.Course{
			Name:    entry.Label,
			Grade:   entry.GradeKey,
			Credits: entry.Credits,
		})
	}
	return courses
}

// SemestersToPeriods converts config.Period slices to cumulative.Period slices
func SemestersToPeriods(semesters []config.Period) []cumulative.Period {
	if semesters == nil {
		return nil
	}

	periods := make([]cumulative.Period, 0, len(semesters))
	for _, semester := range semesters {
		periods = append(periods, cumulative.Period{
			Label:      semester.Name,
			AverageGPA: semester.GPA,
			Credits:    semester.Credits,
		})
	}
	return periods
}

// PeriodsToSemesters converts cumulative.Period slices back to config.Period slices
func PeriodsToSemesters(periods []cumulative.Period) []config.Period {
	if periods == nil {
		return nil
	}

	semesters := make([]config.Period, 0, len(periods))
	for _, period := range periods {
		semesters = append(semesters, config.Period{
			Name:    period.Label,
			GPA:     period.AverageGPA,
			Credits: period.Credits,
		})
	}
	return semesters
}
