// Package scale defines grading scales and the closed catalog of scales the
// calculators support.
package scale

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultID is the scale used when no scale has been chosen.
const DefaultID = "4.0-with-plus"

// ErrUnknownScale is matched by every UnknownScaleError via errors.Is.
var ErrUnknownScale = errors.New("unknown grading scale")

// UnknownScaleError is returned when a scale id has no catalog entry.
type UnknownScaleError struct {
	ID string
}

func (e *UnknownScaleError) Error() string {
	return fmt.Sprintf("unknown grading scale %q", e.ID)
}

// Is lets errors.Is(err, ErrUnknownScale) match.
func (e *UnknownScaleError) Is(target error) bool {
	return target == ErrUnknownScale
}

// Grade is one letter grade and its point value.
type Grade struct {
	Letter string  `json:"letter"`
	Points float64 `json:"points"`
}

// Scale is a named grading system. Scales are immutable once placed in a Catalog.
type Scale struct {
	ID        string
	Name      string
	MaxPoints float64
	grades    []Grade
}

// New builds a Scale from grades listed in display order.
func New(id, name string, maxPoints float64, grades ...Grade) Scale {
	return Scale{
		ID:        id,
		Name:      name,
		MaxPoints: maxPoints,
		grades:    append([]Grade(nil), grades...),
	}
}

// Grades returns a copy of the scale's grades in display order.
func (s Scale) Grades() []Grade {
	return append([]Grade(nil), s.grades...)
}

// Points resolves a letter grade. Surrounding whitespace is ignored; letters are case-sensitive.
func (s Scale) Points(letter string) (float64, bool) {
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return 0, false
	}
	for _, g := range s.grades {
		if g.Letter == letter {
			return g.Points, true
		}
	}
	return 0, false
}

// Has reports whether letter is defined on the scale.
func (s Scale) Has(letter string) bool {
	_, ok := s.Points(letter)
	return ok
}

// Validate checks the scale invariants: a positive maximum, unique letters and
// every grade value within [0, MaxPoints].
func (s Scale) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("scale id must not be empty")
	}
	if !(s.MaxPoints > 0) {
		return fmt.Errorf("scale %s: max points must be positive, got %v", s.ID, s.MaxPoints)
	}
	if len(s.grades) == 0 {
		return fmt.Errorf("scale %s: no grades defined", s.ID)
	}
	seen := make(map[string]struct{}, len(s.grades))
	for _, g := range s.grades {
		if strings.TrimSpace(g.Letter) == "" {
			return fmt.Errorf("scale %s: empty grade letter", s.ID)
		}
		if _, dup := seen[g.Letter]; dup {
			return fmt.Errorf("scale %s: duplicate grade %q", s.ID, g.Letter)
		}
		seen[g.Letter] = struct{}{}
		if g.Points < 0 || g.Points > s.MaxPoints {
			return fmt.Errorf("scale %s: grade %s has %v points, outside [0, %v]", s.ID, g.Letter, g.Points, s.MaxPoints)
		}
	}
	return nil
}
