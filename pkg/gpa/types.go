// Package gpa computes credit-weighted grade point averages over graded course
// entries and derives the percentage and performance tier of the result.
package gpa

import (
	"fmt"

	"github.com/iwvelando/gpa-calculator/pkg/constants"
)

// Entry is one graded course.
type Entry struct {
	Label    string  `json:"name"`
	GradeKey string  `json:"grade"`
	Credits  float64 `json:"credits"`
}

// Result is a computed average. A nil *Result means no eligible data.
type Result struct {
	Average      float64 `json:"average"`
	TotalCredits float64 `json:"totalCredits"`
	Percentage   float64 `json:"percentage"`
	Tier         Tier    `json:"tier"`
}

// IssueKind classifies a validation issue.
type IssueKind string

const (
	MissingLabel   IssueKind = "MissingLabel"
	MissingGrade   IssueKind = "MissingGrade"
	InvalidCredits IssueKind = "InvalidCredits"
	InvalidGPA     IssueKind = "InvalidGPA"
)

// Issue is a non-fatal problem with one input row. Index is the row's position
// in the caller's list.
type Issue struct {
	Index   int       `json:"index"`
	Label   string    `json:"label,omitempty"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return i.Message
}

// Tier is a coarse performance classification. Lower values are better.
type Tier int

const (
	Outstanding Tier = iota
	Excellent
	Good
	Satisfactory
	NeedsImprovement
)

var tierNames = map[Tier]string{
	Outstanding:      "Outstanding",
	Excellent:        "Excellent",
	Good:             "Good",
	Satisfactory:     "Satisfactory",
	NeedsImprovement: "Needs Improvement",
}

var tierFeedback = map[Tier]string{
	Outstanding:      "Outstanding Semester!",
	Excellent:        "Excellent Semester!",
	Good:             "Good Semester!",
	Satisfactory:     "Keep Improving!",
	NeedsImprovement: "Focus Next Semester!",
}

var cumulativeFeedback = map[Tier]string{
	Outstanding:      "Outstanding Academic Record!",
	Excellent:        "Excellent Overall Performance!",
	Good:             "Good Academic Standing!",
	Satisfactory:     "Keep Working Hard!",
	NeedsImprovement: "Focus on Improvement!",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Feedback returns the encouragement line shown next to a semester result.
func (t Tier) Feedback() string {
	return tierFeedback[t]
}

// CumulativeFeedback returns the encouragement line shown next to a CGPA.
func (t Tier) CumulativeFeedback() string {
	return cumulativeFeedback[t]
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	name, ok := tierNames[t]
	if !ok {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(text []byte) error {
	for tier, name := range tierNames {
		if name == string(text) {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown tier %q", string(text))
}

// ClassifyTier maps a percentage onto a tier. Thresholds are on percentage so
// they hold for every scale.
func ClassifyTier(percentage float64) Tier {
	switch {
	case percentage >= constants.OutstandingThreshold:
		return Outstanding
	case percentage >= constants.ExcellentThreshold:
		return Excellent
	case percentage >= constants.GoodThreshold:
		return Good
	case percentage >= constants.SatisfactoryThreshold:
		return Satisfactory
	default:
		return NeedsImprovement
	}
}
