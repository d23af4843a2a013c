package main

import (
	"fmt"

	"github.com/iwvelando/gpa-calculator/internal/calculator"
	"github.com/iwvelando/gpa-calculator/internal/config"
	"github.com/iwvelando/gpa-calculator/internal/draft"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDraftCmd(a *app) *cobra.Command {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or reset saved worksheets.",
	}

	draftCmd.AddCommand(&cobra.Command{
		Use:       "show semester|cumulative",
		Short:     "Print a saved worksheet as YAML that can be used as --config.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(draft.SemesterKind), string(draft.CumulativeKind)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := draft.ParseKind(args[0])
			if err != nil {
				return err
			}

			drafts, closeDrafts, err := a.openDrafts()
			if err != nil {
				return err
			}
			defer closeDrafts()

			var worksheet config.Configuration
			if kind == draft.CumulativeKind {
				d, err := drafts.LoadCumulative(cmd.Context())
				if err != nil {
					return err
				}
				calculator.ApplyCumulativeDraft(&worksheet, d)
			} else {
				d, err := drafts.LoadSemester(cmd.Context())
				if err != nil {
					return err
				}
				calculator.ApplySemesterDraft(&worksheet, d)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(worksheet); err != nil {
				return fmt.Errorf("failed to encode draft: %w", err)
			}
			return enc.Close()
		},
	})

	draftCmd.AddCommand(&cobra.Command{
		Use:       "reset semester|cumulative",
		Short:     "Delete a saved worksheet.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(draft.SemesterKind), string(draft.CumulativeKind)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := draft.ParseKind(args[0])
			if err != nil {
				return err
			}

			drafts, closeDrafts, err := a.openDrafts()
			if err != nil {
				return err
			}
			defer closeDrafts()

			if err := drafts.Reset(cmd.Context(), kind); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Reset %s draft\n", kind)
			return err
		},
	})

	return draftCmd
}
