package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteScales lists the grading scales and their grade tables.
func WriteScales(w io.Writer, scales []scale.Scale) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Name", "Max", "Grades"})

	var data [][]string
	for _, s := range scales {
		var grades []string
		for _, g := range s.Grades() {
			grades = append(grades, fmt.Sprintf("%s=%.1f", g.Letter, g.Points))
		}
		data = append(data, []string{s.ID, s.Name, fmt.Sprintf("%.1f", s.MaxPoints), strings.Join(grades, " ")})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteConversions prints GPA to percentage conversions and any rejected input.
func WriteConversions(w io.Writer, maxPoints float64, conversions []gpa.Conversion, rejects []string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"GPA", "Scale", "Percentage", "Letter", "Tier"})

	p := message.NewPrinter(language.English)
	var data [][]string
	for _, c := range conversions {
		data = append(data, []string{
			p.Sprintf("%.2f", c.GPA),
			p.Sprintf("%.1f", maxPoints),
			p.Sprintf("%.2f%%", c.Percentage),
			c.Letter,
			c.Tier.String(),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, reject := range rejects {
		if _, err := fmt.Fprintf(w, "Skipped %q: not a GPA between 0 and %.1f\n", reject, maxPoints); err != nil {
			return err
		}
	}
	return nil
}
