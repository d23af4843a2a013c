package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/gpa-calculator/internal/calculator"
	"github.com/iwvelando/gpa-calculator/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type worksheetFlags struct {
	scaleID   string
	saveDraft bool
	fromDraft bool
	exportDir string
}

func (f *worksheetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scaleID, "scale", "", "Grading scale override (see the scales command)")
	cmd.Flags().BoolVar(&f.saveDraft, "save-draft", false, "Save the worksheet as a draft after calculating")
	cmd.Flags().BoolVar(&f.fromDraft, "from-draft", false, "Calculate the saved draft instead of the configuration file")
	cmd.Flags().StringVar(&f.exportDir, "export-dir", "", "Also write the report to a dated file in this directory")
}

func newSemesterCmd(a *app) *cobra.Command {
	flags := &worksheetFlags{}
	var name string

	cmd := &cobra.Command{
		Use:   "semester",
		Short: "Calculate the GPA of one semester's courses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "main.semester"

			if flags.fromDraft || flags.saveDraft {
				drafts, closeDrafts, err := a.openDrafts()
				if err != nil {
					return err
				}
				defer closeDrafts()

				if flags.fromDraft {
					d, err := drafts.LoadSemester(cmd.Context())
					if err != nil {
						return err
					}
					calculator.ApplySemesterDraft(a.conf, d)
				}
				applyOverrides(cmd, a, flags, name)

				if flags.saveDraft {
					if err := drafts.SaveSemester(cmd.Context(), calculator.SemesterDraftFrom(*a.conf)); err != nil {
						return err
					}
					a.logger.Info("saved semester draft", zap.String("op", op))
				}
			} else {
				applyOverrides(cmd, a, flags, name)
			}

			a.warn()
			report, err := calculator.Semester(a.logger, *a.conf, time.Now())
			if err != nil {
				return fmt.Errorf("failed to compute semester GPA: %w", err)
			}
			return a.emit(cmd, report, flags.exportDir)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Semester name override")
	return cmd
}

func newCumulativeCmd(a *app) *cobra.Command {
	flags := &worksheetFlags{}

	cmd := &cobra.Command{
		Use:   "cumulative",
		Short: "Calculate the cumulative GPA across semesters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "main.cumulative"

			if flags.fromDraft || flags.saveDraft {
				drafts, closeDrafts, err := a.openDrafts()
				if err != nil {
					return err
				}
				defer closeDrafts()

				if flags.fromDraft {
					d, err := drafts.LoadCumulative(cmd.Context())
					if err != nil {
						return err
					}
					calculator.ApplyCumulativeDraft(a.conf, d)
				}
				applyOverrides(cmd, a, flags, "")

				if flags.saveDraft {
					if err := drafts.SaveCumulative(cmd.Context(), calculator.CumulativeDraftFrom(*a.conf)); err != nil {
						return err
					}
					a.logger.Info("saved cumulative draft", zap.String("op", op))
				}
			} else {
				applyOverrides(cmd, a, flags, "")
			}

			a.warn()
			report, err := calculator.Cumulative(a.logger, *a.conf, time.Now())
			if err != nil {
				return fmt.Errorf("failed to compute cumulative GPA: %w", err)
			}
			return a.emit(cmd, report, flags.exportDir)
		},
	}

	flags.register(cmd)
	return cmd
}

func applyOverrides(cmd *cobra.Command, a *app, flags *worksheetFlags, name string) {
	if cmd.Flags().Changed("scale") {
		a.conf.Scale = flags.scaleID
	}
	if cmd.Flags().Changed("name") {
		a.conf.Semester.Name = name
	}
}

// emit prints the report and optionally exports it next to earlier reports.
func (a *app) emit(cmd *cobra.Command, report output.Report, exportDir string) error {
	if err := output.WriteReport(cmd.OutOrStdout(), report, a.outputFormat, a.outputOptions()); err != nil {
		return err
	}
	if exportDir == "" {
		return nil
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory %s: %w", exportDir, err)
	}
	path := filepath.Join(exportDir, output.ReportFileName(report.Kind, report.GeneratedAt, a.outputFormat))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}

	if err := output.WriteReport(file, report, a.outputFormat, output.Options{}); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file %s: %w", path, err)
	}
	a.logger.Info("exported report",
		zap.String("op", "main.export"),
		zap.String("path", path),
	)
	return nil
}
