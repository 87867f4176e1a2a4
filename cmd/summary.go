package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
	"assetverify/internal/usecase/verification"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the per-employee compliance roll-up for a cycle",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cycleID, _ := cmd.Flags().GetUint64("cycle")
		rollup, err := svc.verification.GetVerificationSummary(ctx, cycleID)
		if err != nil {
			return errs.Wrap(err, "get verification summary")
		}
		if err := writeRollup(cmd.OutOrStdout(), rollup); err != nil {
			return errs.Wrap(err, "write summary output")
		}
		return nil
	}),
}

func writeRollup(w io.Writer, rollup verification.CycleRollup) error {
	cycle := "none"
	if rollup.Cycle != nil {
		cycle = fmt.Sprintf("%s %q (%s)", rollup.Cycle.Ref(), rollup.Cycle.Title, rollup.Cycle.Status)
	}
	if _, err := fmt.Fprintf(w, "cycle: %s\nemployees=%d verified=%d discrepant=%d pending=%d submitted=%d\n",
		cycle, rollup.TotalEmployees, rollup.Verified, rollup.Discrepant, rollup.Pending, rollup.SubmittedCount); err != nil {
		return err
	}

	rows := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("EMPLOYEE", "NAME", "DEPARTMENT", "ASSIGNED", "MATCHED", "MISMATCHED", "FLAGGED", "STATUS", "COMPLIANCE")
	for _, line := range rollup.Employees {
		s := line.Summary
		rows.Row(s.EmployeeID, line.Employee.FullName, line.Employee.Department,
			strconv.Itoa(s.TotalAssigned), strconv.Itoa(s.Matched), strconv.Itoa(s.Mismatched), strconv.Itoa(s.Flagged),
			string(s.OverallStatus), strconv.Itoa(s.Compliance)+"%")
	}
	_, err := fmt.Fprintln(w, rows.String())
	return err
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().Uint64("cycle", 0, "Cycle id (default: active, else latest)")
}
