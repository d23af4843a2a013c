// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
)

// MustScale returns a built-in scale or fails the test.
func MustScale(t testing.TB, id string) scale.Scale {
	t.Helper()
	s, err := scale.GetScale(id)
	if err != nil {
		t.Fatalf("GetScale(%q) error = %v", id, err)
	}
	return s
}

// FindIssue finds the issue reported for the row at index.
// Returns a pointer to the issue if found, nil otherwise.
func FindIssue(issues []gpa.Issue, index int) *gpa.Issue {
	for i := range issues {
		if issues[i].Index == index {
			return &issues[i]
		}
	}
	return nil
}

// AlmostEqual compares floats with a tolerance suited to two-decimal results.
func AlmostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
