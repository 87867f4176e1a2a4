package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"assetverify/internal/bootstrap/logging"
	domainverification "assetverify/internal/domain/verification"
	"assetverify/internal/errs"
	"assetverify/internal/usecase/verification"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Submit and inspect employee asset verifications",
}

var verifySubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit verification entries for an employee's assigned assets",
	Long: "Each --entry is ASSET=ENTERED[:NOTE]. Enter the tag read off the device, or the lost\n" +
		"sentinel (default __LOST__) to report it lost. All entries are recorded or none are.",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		employeeID, _ := cmd.Flags().GetString("employee")
		cycleID, _ := cmd.Flags().GetUint64("cycle")
		rawEntries, _ := cmd.Flags().GetStringArray("entry")

		entries := make([]verification.SubmitEntry, 0, len(rawEntries))
		for _, raw := range rawEntries {
			entry, err := parseEntryFlag(raw)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		records, err := svc.verification.SubmitBatch(ctx, verification.SubmitBatchInput{
			CycleID:    cycleID,
			EmployeeID: employeeID,
			Entries:    entries,
		})
		if err != nil {
			return errs.Wrap(err, "submit verification")
		}

		out := cmd.OutOrStdout()
		for _, record := range records {
			if _, err := fmt.Fprintf(out, "%s %s entered=%s status=%s %s\n",
				domainverification.FormatCycleRef(record.CycleID), record.AssetID, record.EnteredAssetID, record.Status, record.Notes); err != nil {
				return errs.Wrap(err, "write submit output")
			}
		}
		return nil
	}),
}

var verifyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show an employee's assets, compliance and past sessions",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		employeeID, _ := cmd.Flags().GetString("employee")
		cycleID, _ := cmd.Flags().GetUint64("cycle")

		detail, err := svc.verification.GetEmployeeVerificationDetail(ctx, employeeID, cycleID)
		if err != nil {
			return errs.Wrap(err, "get employee verification detail")
		}
		return writeEmployeeDetail(cmd.OutOrStdout(), detail)
	}),
}

// parseEntryFlag reads ASSET=ENTERED[:NOTE].
func parseEntryFlag(raw string) (verification.SubmitEntry, error) {
	assetID, rest, ok := strings.Cut(raw, "=")
	if !ok {
		return verification.SubmitEntry{}, errs.Validation("entry %q must look like ASSET=ENTERED[:NOTE]", raw)
	}
	entered, note, _ := strings.Cut(rest, ":")
	return verification.SubmitEntry{
		AssetID:        strings.TrimSpace(assetID),
		EnteredAssetID: strings.TrimSpace(entered),
		Notes:          strings.TrimSpace(note),
	}, nil
}

func writeEmployeeDetail(w io.Writer, detail verification.EmployeeDetail) error {
	cycle := "none"
	if detail.Cycle != nil {
		cycle = fmt.Sprintf("%s %q (%s)", detail.Cycle.Ref(), detail.Cycle.Title, detail.Cycle.Status)
	}
	summary := detail.Summary
	if _, err := fmt.Fprintf(w, "%s (%s) %s\ncycle: %s\nstatus: %s compliance=%d%% matched=%d/%d mismatched=%d flagged=%d\n\n",
		detail.Employee.FullName, detail.Employee.EmpID, detail.Employee.Department, cycle,
		summary.OverallStatus, summary.Compliance, summary.Matched, summary.TotalAssigned, summary.Mismatched, summary.Flagged); err != nil {
		return err
	}

	assets := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ASSET", "NAME", "TYPE", "ENTERED", "STATUS", "NOTES")
	for _, line := range detail.Assets {
		assets.Row(line.Asset.Tag, line.Asset.Name, line.Asset.Type,
			firstNonEmpty(line.Record.EnteredAssetID, "-"), string(line.Record.Status), line.Record.Notes)
	}
	if _, err := fmt.Fprintln(w, assets.String()); err != nil {
		return err
	}

	if len(detail.Sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nsessions:"); err != nil {
		return err
	}
	for _, session := range detail.Sessions {
		if _, err := fmt.Fprintf(w, "- %s %s verified=%d/%d discrepant=%d\n",
			domainverification.FormatCycleRef(session.CycleID), formatTime(session.SubmittedAt),
			session.Verified, session.Total, session.Discrepant); err != nil {
			return err
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.AddCommand(verifySubmitCmd, verifyShowCmd)

	verifySubmitCmd.Flags().String("employee", "", "Submitting employee id (required)")
	verifySubmitCmd.Flags().Uint64("cycle", 0, "Cycle id (default: the active cycle)")
	verifySubmitCmd.Flags().StringArray("entry", nil, "ASSET=ENTERED[:NOTE], repeatable")
	_ = verifySubmitCmd.MarkFlagRequired("employee")
	_ = verifySubmitCmd.MarkFlagRequired("entry")

	verifyShowCmd.Flags().String("employee", "", "Employee id (required)")
	verifyShowCmd.Flags().Uint64("cycle", 0, "Cycle id (default: active, else latest)")
	_ = verifyShowCmd.MarkFlagRequired("employee")
}
