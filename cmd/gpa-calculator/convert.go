package main

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/gpa-calculator/internal/calculator"
	"github.com/iwvelando/gpa-calculator/pkg/format"
	"github.com/iwvelando/gpa-calculator/pkg/gpa"
	"github.com/iwvelando/gpa-calculator/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newConvertCmd(a *app) *cobra.Command {
	var scaleID string
	var maxPoints float64
	var fromPercentage bool

	cmd := &cobra.Command{
		Use:   "convert [GPA...]",
		Short: "Convert GPAs to percentages and letter grades.",
		Long: `Convert one or more GPAs to percentages. With no arguments, one GPA per line
is read from standard input. With --from-percentage the arguments are
percentages and are converted back to GPAs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxPoints <= 0 {
				s, err := calculator.ScaleFor(scaleID)
				if err != nil {
					return err
				}
				maxPoints = s.MaxPoints
			}

			lines := args
			if len(lines) == 0 {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					lines = append(lines, scanner.Text())
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
			}

			if fromPercentage {
				return writePercentages(cmd, lines, maxPoints)
			}

			conversions, rejects := gpa.ConvertBulk(lines, maxPoints)
			for _, reject := range rejects {
				a.logger.Warn("skipping invalid GPA",
					zap.String("op", "main.convert"),
					zap.String("value", reject),
				)
			}
			return output.WriteConversions(cmd.OutOrStdout(), maxPoints, conversions, rejects)
		},
	}

	cmd.Flags().StringVar(&scaleID, "scale", "", "Scale whose maximum is used (default 4.0-with-plus)")
	cmd.Flags().Float64Var(&maxPoints, "max", 0, "Explicit scale maximum, overrides --scale")
	cmd.Flags().BoolVar(&fromPercentage, "from-percentage", false, "Convert percentages to GPAs instead")
	return cmd
}

func writePercentages(cmd *cobra.Command, lines []string, maxPoints float64) error {
	out := cmd.OutOrStdout()
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		percentage, ok := parsePercentage(trimmed)
		if !ok {
			if _, err := fmt.Fprintf(out, "%s\tinvalid percentage\n", trimmed); err != nil {
				return err
			}
			continue
		}
		value := gpa.FromPercentage(percentage, maxPoints)
		if _, err := fmt.Fprintf(out, "%s\t%s\n", format.Percent(percentage), format.OutOf(value, maxPoints)); err != nil {
			return err
		}
	}
	return nil
}

func parsePercentage(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(raw, "%")), 64)
	if err != nil || math.IsNaN(value) || value < 0 || value > 100 {
		return 0, false
	}
	return value, true
}
