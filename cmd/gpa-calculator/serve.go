package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/gpa-calculator/internal/draft"
	"github.com/iwvelando/gpa-calculator/internal/server"
	"github.com/iwvelando/gpa-calculator/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var serverConfigPath string
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON HTTP API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			const op = "main.serve"

			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			logger, err := initializeLogger(cfg.Logging, a.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			store, err := draft.Open(cfg.Draft)
			if err != nil {
				return fmt.Errorf("failed to open draft store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					logger.Warn("failed to close draft store", zap.String("op", op), zap.Error(err))
				}
			}()

			srv := &http.Server{
				Addr:              cfg.Address,
				Handler:           server.NewHandler(logger, cfg.UploadSizeBytes(), version, draft.NewService(store, logger)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					zap.String("op", op),
					zap.String("address", cfg.Address),
					zap.String("draftBackend", cfg.Draft.Backend),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("shutting down", zap.String("op", op))
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "Path to the server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "Listen address override")
	return cmd
}
