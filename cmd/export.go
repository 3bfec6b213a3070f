package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-insights/internal/dataset"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export derived lead cards to CSV, XLSX or JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		formatName, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		format, err := dataset.ParseFormat(formatName)
		if err != nil {
			return err
		}

		d, records, err := prepare(ctx, "cli")
		if err != nil {
			return err
		}

		res, err := runDerive(ctx, d, records, filterFromFlags(cmd), 0, cfg.Batch.MaxConcurrent)
		if err != nil {
			return err
		}
		if err := dataset.Export(output, format, res.Leads); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("run_id", res.RunID),
			zap.String("output", output),
			zap.Int("cards", len(res.Leads)),
		)
		return nil
	},
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "csv", "output format: csv, xlsx or json")
	exportCmd.Flags().StringP("output", "o", "", "output file path")
	_ = exportCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(exportCmd)
}
