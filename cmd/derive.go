package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-insights/internal/lead"
	"github.com/sells-group/lead-insights/internal/model"
)

// deriveResult is the JSON envelope printed by derive.
type deriveResult struct {
	RunID   string      `json:"run_id"`
	Total   int         `json:"total"`
	Matched int         `json:"matched"`
	Leads   []lead.Card `json:"leads"`
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive lead cards for every matching attendee",
	Long:  "Loads the dataset, applies the filters and prints one card per matching record as JSON.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		d, records, err := prepare(ctx, "cli")
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		res, err := runDerive(ctx, d, records, filterFromFlags(cmd), limit, cfg.Batch.MaxConcurrent)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

// runDerive filters records, caps the result at limit (0 = no cap) and
// derives cards against the full dataset size.
func runDerive(ctx context.Context, d *lead.Deriver, records []model.Record, f lead.Filter, limit, concurrency int) (*deriveResult, error) {
	matched := f.Apply(records)
	selected := matched
	if limit > 0 && len(selected) > limit {
		selected = selected[:limit]
	}

	cards, err := d.DeriveAll(ctx, selected, len(records), concurrency)
	if err != nil {
		return nil, eris.Wrap(err, "derive")
	}

	res := &deriveResult{
		RunID:   uuid.NewString(),
		Total:   len(records),
		Matched: len(matched),
		Leads:   cards,
	}
	zap.L().Info("derive complete",
		zap.String("run_id", res.RunID),
		zap.Int("total", res.Total),
		zap.Int("matched", res.Matched),
		zap.Int("emitted", len(cards)),
	)
	return res, nil
}

func init() {
	addFilterFlags(deriveCmd)
	deriveCmd.Flags().Int("limit", 0, "max cards to emit (0 = all)")
	rootCmd.AddCommand(deriveCmd)
}
