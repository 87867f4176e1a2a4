package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
	"assetverify/internal/usecase/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Cross-domain audit reports",
}

var auditReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compile the audit report over assets, verification, licenses and workspace",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		rawFormat, _ := cmd.Flags().GetString("format")
		last, _ := cmd.Flags().GetBool("last")
		format, err := audit.ParseFormat(rawFormat)
		if err != nil {
			return err
		}

		var report audit.Report
		if last {
			cached, found, err := svc.audit.LastReport(ctx)
			if err != nil {
				return errs.Wrap(err, "load last audit report")
			}
			if !found {
				return errs.NotFound(nil, "no audit report has been compiled yet")
			}
			report = cached
		} else {
			report, err = svc.audit.Compile(ctx)
			if err != nil {
				return errs.Wrap(err, "compile audit report")
			}
		}

		if err := audit.Write(cmd.OutOrStdout(), report, format); err != nil {
			return errs.Wrap(err, "write audit report")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditReportCmd)

	auditReportCmd.Flags().String("format", "text", "Output format (text|json|yaml)")
	auditReportCmd.Flags().Bool("last", false, "Print the last compiled report instead of compiling a new one")
}
