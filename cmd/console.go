package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
	"assetverify/internal/usecase/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Terminal console commands",
}

var consoleComplianceCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Browse the cycle compliance roll-up with per-employee detail",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cycleID, _ := cmd.Flags().GetUint64("cycle")
		status, _ := cmd.Flags().GetString("status")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")

		model := console.NewComplianceModel(ctx, svc.verification, console.Options{
			CycleID:         cycleID,
			StatusFilter:    status,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run compliance console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.AddCommand(consoleComplianceCmd)

	consoleComplianceCmd.Flags().Uint64("cycle", 0, "Cycle id (default: active, else latest)")
	consoleComplianceCmd.Flags().String("status", "", "Optional status filter (verified|discrepant|pending)")
	consoleComplianceCmd.Flags().Duration("refresh-interval", 10*time.Second, "Auto refresh interval")
}
