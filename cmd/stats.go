package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-insights/internal/lead"
	"github.com/sells-group/lead-insights/internal/model"
)

// statsResult is the body of `stats` and GET /v1/stats.
type statsResult struct {
	Stats      lead.Stats `json:"stats"`
	Industries []string   `json:"industries"`
}

func buildStats(records []model.Record) statsResult {
	return statsResult{
		Stats:      lead.Summarize(records),
		Industries: lead.Industries(records),
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize fit labels, contact coverage and industries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("cli"); err != nil {
			return err
		}
		records, err := loadRecords(cmd.Context())
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), buildStats(filterFromFlags(cmd).Apply(records)))
	},
}

func init() {
	addFilterFlags(statsCmd)
	rootCmd.AddCommand(statsCmd)
}
