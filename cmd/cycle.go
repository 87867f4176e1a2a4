package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"assetverify/internal/bootstrap/logging"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/usecase/verification"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Manage verification cycles",
}

var cycleStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a verification cycle (fails while another cycle is active)",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		title, _ := cmd.Flags().GetString("title")
		actor, _ := cmd.Flags().GetString("actor")
		notes, _ := cmd.Flags().GetString("notes")

		cycle, err := svc.verification.StartCycle(ctx, verification.StartCycleInput{
			Title:     title,
			CreatedBy: actor,
			Notes:     notes,
		})
		if err != nil {
			return errs.Wrap(err, "start cycle")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "started %s %q at %s\n", cycle.Ref(), cycle.Title, formatTime(cycle.StartDate)); err != nil {
			return errs.Wrap(err, "write cycle start output")
		}
		return nil
	}),
}

var cycleCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Close an active verification cycle",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cycleID, _ := cmd.Flags().GetUint64("cycle")
		actor, _ := cmd.Flags().GetString("actor")
		if cycleID == 0 {
			active, found, err := svc.verification.GetActiveCycle(ctx)
			if err != nil {
				return errs.Wrap(err, "get active cycle")
			}
			if !found {
				return errs.Validation("no verification cycle is active; pass --cycle to name one")
			}
			cycleID = active.ID
		}

		cycle, err := svc.verification.CloseCycle(ctx, verification.CloseCycleInput{
			CycleID:  cycleID,
			ClosedBy: actor,
		})
		if err != nil {
			return errs.Wrap(err, "close cycle")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "closed %s %q by %s\n", cycle.Ref(), cycle.Title, cycle.ClosedBy); err != nil {
			return errs.Wrap(err, "write cycle close output")
		}
		return nil
	}),
}

var cycleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List verification cycles, newest first",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cycles, err := svc.verification.ListCycles(ctx)
		if err != nil {
			return errs.Wrap(err, "list cycles")
		}
		if len(cycles) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "no verification cycles")
			return err
		}
		for _, cycle := range cycles {
			if err := writeCycleLine(cmd.OutOrStdout(), cycle); err != nil {
				return errs.Wrap(err, "write cycle list output")
			}
		}
		return nil
	}),
}

var cycleActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active verification cycle",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		cycle, found, err := svc.verification.GetActiveCycle(ctx)
		if err != nil {
			return errs.Wrap(err, "get active cycle")
		}
		if !found {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "no verification cycle is active")
			return err
		}
		return writeCycleLine(cmd.OutOrStdout(), cycle)
	}),
}

func writeCycleLine(w io.Writer, cycle domainverification.Cycle) error {
	end := "-"
	if cycle.EndDate != nil {
		end = formatTime(*cycle.EndDate)
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%q\tstarted=%s by %s\tended=%s\n",
		cycle.Ref(), cycle.Status, cycle.Title, formatTime(cycle.StartDate), cycle.CreatedBy, end)
	return err
}

func formatTime(t time.Time) string {
	return t.Local().Format(time.DateTime)
}

func init() {
	rootCmd.AddCommand(cycleCmd)
	cycleCmd.AddCommand(cycleStartCmd, cycleCloseCmd, cycleListCmd, cycleActiveCmd)

	cycleStartCmd.Flags().String("title", "", "Cycle title (required)")
	cycleStartCmd.Flags().String("actor", "", "Administrator starting the cycle (required)")
	cycleStartCmd.Flags().String("notes", "", "Instructions shown to employees")
	_ = cycleStartCmd.MarkFlagRequired("title")
	_ = cycleStartCmd.MarkFlagRequired("actor")

	cycleCloseCmd.Flags().Uint64("cycle", 0, "Cycle id (default: the active cycle)")
	cycleCloseCmd.Flags().String("actor", "", "Administrator closing the cycle (required)")
	_ = cycleCloseCmd.MarkFlagRequired("actor")
}
