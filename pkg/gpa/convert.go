package gpa

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/mathutil"
)

// Conversion is one GPA converted to a percentage.
type Conversion struct {
	GPA        float64 `json:"gpa"`
	Percentage float64 `json:"percentage"`
	Letter     string  `json:"letter"`
	Tier       Tier    `json:"tier"`
}

// ToPercentage converts a GPA on a scale with the given maximum to a
// percentage rounded to two decimals.
func ToPercentage(value, maxPoints float64) (float64, error) {
	if !mathutil.IsPositive(maxPoints) {
		return 0, fmt.Errorf("scale maximum must be positive, got %v", maxPoints)
	}
	if !mathutil.IsFinite(value) || value < 0 || value > maxPoints {
		return 0, fmt.Errorf("GPA %v is outside [0, %v]", value, maxPoints)
	}
	return mathutil.Round(mathutil.CalculatePercentage(value, maxPoints)), nil
}

// FromPercentage converts a percentage back to a GPA on the given scale maximum.
func FromPercentage(percentage, maxPoints float64) float64 {
	return mathutil.Round(mathutil.ApplyPercentage(maxPoints, percentage))
}

// Convert converts a single GPA and attaches its letter equivalent and tier.
func Convert(value, maxPoints float64) (Conversion, error) {
	percentage, err := ToPercentage(value, maxPoints)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{
		GPA:        value,
		Percentage: percentage,
		Letter:     LetterEquivalent(percentage),
		Tier:       ClassifyTier(percentage),
	}, nil
}

// ConvertBulk converts one GPA per line. Blank lines are ignored; lines that
// do not parse or fall outside the scale are returned as rejects.
func ConvertBulk(lines []string, maxPoints float64) ([]Conversion, []string) {
	var conversions []Conversion
	var rejects []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		value, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			rejects = append(rejects, trimmed)
			continue
		}
		conversion, err := Convert(value, maxPoints)
		if err != nil {
			rejects = append(rejects, trimmed)
			continue
		}
		conversions = append(conversions, conversion)
	}
	return conversions, rejects
}

var letterThresholds = []struct {
	min    float64
	letter string
}{
	{97, "A+"},
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{65, "D"},
}

// LetterEquivalent maps a percentage to the conventional US letter grade.
func LetterEquivalent(percentage float64) string {
	for _, t := range letterThresholds {
		if percentage >= t.min {
			return t.letter
		}
	}
	return "F"
}

// RoundTrips reports whether converting value to a percentage and back lands
// within the rounding tolerance.
func RoundTrips(value, maxPoints float64) bool {
	percentage, err := ToPercentage(value, maxPoints)
	if err != nil {
		return false
	}
	return mathutil.WithinTolerance(FromPercentage(percentage, maxPoints), value, constants.RoundTripTolerance)
}
