// Package format renders engine numbers the way reports display them.
package format

import (
	"fmt"
	"strconv"
)

// Points returns a GPA with two decimals (e.g., "3.35").
func Points(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// OutOf returns a GPA against its scale maximum (e.g., "3.35 / 4.0").
func OutOf(value, maxPoints float64) string {
	return fmt.Sprintf("%.2f / %.1f", value, maxPoints)
}

// Percent returns a percentage with two decimals and a sign (e.g., "83.75%").
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// Credits returns a credit value without trailing zeros (e.g., "3", "1.5").
func Credits(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
