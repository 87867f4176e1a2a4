package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"assetverify/internal/bootstrap/logging"
	"assetverify/internal/errs"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage the imported inventory snapshot",
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the inventory snapshot from a TOML or YAML file",
	RunE: withApp(func(cmd *cobra.Command, svc services) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		result, err := svc.importer.ImportFile(ctx, file)
		if err != nil {
			return errs.Wrap(err, "import snapshot")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "snapshot imported: assets=%d employees=%d licenses=%d desks=%d\n",
			result.Assets, result.Employees, result.Licenses, result.Desks); err != nil {
			return errs.Wrap(err, "write snapshot import output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)

	snapshotImportCmd.Flags().String("file", "", "Snapshot file (.toml, .yaml or .yml)")
	_ = snapshotImportCmd.MarkFlagRequired("file")
}
