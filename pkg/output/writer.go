package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/format"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotEnoughInformation is printed in place of a result when nothing was eligible.
const NotEnoughInformation = "Not enough information to calculate a GPA. Complete course details to calculate."

// Options tune the pretty writer.
type Options struct {
	Color bool
}

// WriteReport writes the report in the requested format.
func WriteReport(w io.Writer, r Report, outputFormat string, opts Options) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return writeCSV(w, r)
	case constants.OutputFormatJSON:
		return writeJSON(w, r)
	case constants.OutputFormatPretty, "":
		return writePretty(w, r, opts)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// RenderReport returns the report as a string.
func RenderReport(r Report, outputFormat string) (string, error) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, r, outputFormat, Options{}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func tierColor(t gpa.Tier, enabled bool) func(...any) string {
	if !enabled {
		return fmt.Sprint
	}
	switch t {
	case gpa.Outstanding, gpa.Excellent:
		return color.New(color.FgGreen).SprintFunc()
	case gpa.Good:
		return color.New(color.FgBlue).SprintFunc()
	case gpa.Satisfactory:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed).SprintFunc()
	}
}

// writePretty outputs a human-readable rather than machine-readable report.
func writePretty(w io.Writer, r Report, opts Options) error {
	p := message.NewPrinter(language.English)

	lines := []string{
		fmt.Sprintf("--- %s ---", r.Title()),
		fmt.Sprintf("Generated on: %s", r.GeneratedAt.Format(constants.DateLayout)),
	}
	if r.Kind == SemesterKind {
		lines = append(lines, fmt.Sprintf("Semester: %s", r.PeriodName()))
	}
	lines = append(lines, fmt.Sprintf("Grading System: %s", r.ScaleName))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if r.Result == nil {
		if _, err := fmt.Fprintln(w, NotEnoughInformation); err != nil {
			return err
		}
	} else {
		paint := tierColor(r.Result.Tier, opts.Color)
		if _, err := p.Fprintf(w, "%s: %.2f / %.1f\n", r.AverageLabel(), r.Result.Average, r.MaxPoints); err != nil {
			return err
		}
		if _, err := p.Fprintf(w, "Total Credits: %v\n", r.Result.TotalCredits); err != nil {
			return err
		}
		if _, err := p.Fprintf(w, "Percentage: %.2f%%\n", r.Result.Percentage); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Tier: %s (%s)\n", paint(r.Result.Tier.String()), r.Feedback()); err != nil {
			return err
		}
	}

	if len(r.Rows) > 0 {
		table := tablewriter.NewWriter(w)
		table.Header(r.headers())
		table.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var data [][]string
		for _, row := range r.Rows {
			data = append(data, []string{
				row.Name,
				row.Mark,
				p.Sprintf("%v", row.Credits),
				p.Sprintf("%.2f", row.GradePoints),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if len(r.Issues) > 0 {
		if _, err := fmt.Fprintln(w, "Please fix the following issues:"); err != nil {
			return err
		}
		for _, issue := range r.Issues {
			if _, err := fmt.Fprintf(w, "  - %s\n", issue.Message); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCSV writes the summary as key/value records followed by the table.
func writeCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"generated", r.GeneratedAt.Format(constants.DateLayout)},
		{"scale", r.ScaleName},
	}
	if r.Result != nil {
		records = append(records,
			[]string{"average", format.Points(r.Result.Average)},
			[]string{"totalCredits", format.Credits(r.Result.TotalCredits)},
			[]string{"percentage", format.Points(r.Result.Percentage)},
			[]string{"tier", r.Result.Tier.String()},
		)
	} else {
		records = append(records,
			[]string{"average", ""},
			[]string{"totalCredits", ""},
			[]string{"percentage", ""},
			[]string{"tier", ""},
		)
	}
	records = append(records, r.headers())
	for _, row := range r.Rows {
		records = append(records, []string{
			row.Name,
			row.Mark,
			format.Credits(row.Credits),
			format.Points(row.GradePoints),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("error writing CSV output: %w", err)
	}
	return nil
}

type jsonReport struct {
	GeneratedAt  string      `json:"generatedAt"`
	Kind         Kind        `json:"kind"`
	Period       string      `json:"period,omitempty"`
	Scale        string      `json:"scale"`
	ScaleID      string      `json:"scaleId"`
	MaxPoints    float64     `json:"maxPoints"`
	Average      *float64    `json:"average"`
	TotalCredits *float64    `json:"totalCredits"`
	Percentage   *float64    `json:"percentage"`
	Tier         *gpa.Tier   `json:"tier"`
	Rows         []Row       `json:"rows"`
	Issues       []gpa.Issue `json:"issues,omitempty"`
}

func writeJSON(w io.Writer, r Report) error {
	out := jsonReport{
		GeneratedAt: r.GeneratedAt.Format(constants.DateLayout),
		Kind:        r.Kind,
		Period:      r.Period,
		Scale:       r.ScaleName,
		ScaleID:     r.ScaleID,
		MaxPoints:   r.MaxPoints,
		Rows:        r.Rows,
		Issues:      r.Issues,
	}
	if out.Rows == nil {
		out.Rows = []Row{}
	}
	if res := r.Result; res != nil {
		out.Average = &res.Average
		out.TotalCredits = &res.TotalCredits
		out.Percentage = &res.Percentage
		out.Tier = &res.Tier
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("error writing JSON output: %w", err)
	}
	return nil
}
