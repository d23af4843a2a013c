package main

import (
	"github.com/iwvelando/gpa-calculator/pkg/output"
	"github.com/iwvelando/gpa-calculator/pkg/scale"
	"github.com/spf13/cobra"
)

func newScalesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scales",
		Short: "List the supported grading scales.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.WriteScales(cmd.OutOrStdout(), scale.ListScales())
		},
	}
}
