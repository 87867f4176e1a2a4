package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"assetverify/internal/bootstrap"
	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
	"assetverify/internal/usecase/audit"
	"assetverify/internal/usecase/inventory"
	"assetverify/internal/usecase/verification"
)

// services is what a command can reach once the fx graph has started.
type services struct {
	app          *bootstrap.App
	verification *verification.Service
	audit        *audit.Compiler
	importer     *inventory.Importer
}

func withApp(run func(cmd *cobra.Command, svc services) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var svc services
		fxApp := fx.New(
			bootstrap.Module,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&svc.app, &svc.verification, &svc.audit, &svc.importer),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		logCfg := svc.app.Config.Log
		logger := logging.New(cmd.ErrOrStderr(), logCfg.Format, logCfg.Level)
		cmd.SetContext(logging.WithLogger(ctx, logger))

		if err := run(cmd, svc); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
