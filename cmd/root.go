package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "assetverify",
	Short:        "Asset verification cycles, compliance roll-up and audit reports",
	Long:         "Runs employee asset verification cycles against the imported inventory snapshot and compiles cross-domain audit reports.",
	SilenceUsage: true,
}

// Execute runs the root command. Called once by main.main().
func Execute(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	logger := slog.New(slog.NewTextHandler(rootCmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	ctx = logging.WithLogger(ctx, logger)
	ctx = logging.WithAttrs(ctx, slog.String("app", "assetverify"))

	rootCmd.SetContext(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(ctx, "command execution failed", slog.Any("err", errs.Loggable(err)))
		return errs.Wrap(err, "execute root command")
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "Config file path")
}
