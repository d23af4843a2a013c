package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/gpa-calculator/internal/config"
	"github.com/iwvelando/gpa-calculator/internal/draft"
	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/iwvelando/gpa-calculator/pkg/output"
	"github.com/iwvelando/gpa-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Set by the linker at build time.
var version = "dev"

// app carries what every subcommand needs once the root command has run.
type app struct {
	configPath   string
	outputFormat string
	logLevel     string
	color        bool

	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "gpa-calculator",
		Short:         "Calculate semester and cumulative GPAs.",
		Long:          `gpa-calculator computes credit-weighted semester GPAs and cumulative GPAs on several grading scales.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "Path to the worksheet configuration file")
	rootCmd.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "Output format override: pretty, csv, json")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&a.color, "color", false, "Color the performance tier in pretty output")

	rootCmd.AddCommand(newSemesterCmd(a))
	rootCmd.AddCommand(newCumulativeCmd(a))
	rootCmd.AddCommand(newConvertCmd(a))
	rootCmd.AddCommand(newScalesCmd(a))
	rootCmd.AddCommand(newDraftCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setup loads the worksheet and logger. A missing default config file is not
// an error; an explicitly named one is.
func (a *app) setup(cmd *cobra.Command) error {
	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		_, statErr := os.Stat(a.configPath)
		missing := errors.Is(statErr, fs.ErrNotExist)
		switch {
		case missing && !cmd.Flags().Changed("config"):
			conf = config.Default()
		case missing:
			return fmt.Errorf("configuration file %s does not exist (copy %s to start one): %w",
				a.configPath, constants.ExampleConfigFile, err)
		default:
			return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
		}
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	if a.outputFormat == "" {
		a.outputFormat = conf.Output.Format
	}
	if a.outputFormat == "" {
		a.outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.outputFormat); err != nil {
		return err
	}
	if !cmd.Flags().Changed("color") {
		a.color = conf.Output.Color
	}
	return nil
}

func (a *app) outputOptions() output.Options {
	return output.Options{Color: a.color}
}

// warn logs configuration warnings for the worksheet.
func (a *app) warn() {
	for _, warning := range a.conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}
}

// openDrafts opens the configured draft store.
func (a *app) openDrafts() (*draft.Service, func(), error) {
	store, err := draft.Open(a.conf.Draft)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open draft store: %w", err)
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("failed to close draft store",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
	return draft.NewService(store, a.logger), closeFn, nil
}
