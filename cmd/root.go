package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-insights/internal/config"
	"github.com/sells-group/lead-insights/internal/dataset"
	"github.com/sells-group/lead-insights/internal/lead"
	"github.com/sells-group/lead-insights/internal/model"
)

var (
	cfg       *config.Config
	inputPath string
)

var rootCmd = &cobra.Command{
	Use:   "lead-insights",
	Short: "Derive lead cards and outreach drafts from attendee data",
	Long: "Reads enriched attendee records, classifies buyer and partner scores, selects a truthful " +
		"value proposition per person and drafts a partnership email built only from verified fields.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "attendee dataset, .json or .csv (default from config)")
}

// loadRecords reads the dataset named by --input or dataset.path.
func loadRecords(ctx context.Context) ([]model.Record, error) {
	path := inputPath
	if path == "" {
		path = cfg.Dataset.Path
	}
	return dataset.Load(ctx, path, dataset.LoadOptions{Charset: cfg.Dataset.Charset})
}

// prepare validates config for mode and loads the deriver and dataset.
func prepare(ctx context.Context, mode string) (*lead.Deriver, []model.Record, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, nil, err
	}
	d, err := cfg.Deriver()
	if err != nil {
		return nil, nil, err
	}
	records, err := loadRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	return d, records, nil
}

// addFilterFlags registers the dataset filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("fit", lead.All, "fit label filter (good_fit, maybe_fit, not_sure, all)")
	cmd.Flags().String("industry", lead.All, "industry filter (exact match, or all)")
	cmd.Flags().StringP("query", "q", "", "case-insensitive search over name, organization, role, niche, offers and priority reason")
}

func filterFromFlags(cmd *cobra.Command) lead.Filter {
	fit, _ := cmd.Flags().GetString("fit")
	industry, _ := cmd.Flags().GetString("industry")
	query, _ := cmd.Flags().GetString("query")
	return lead.Filter{Fit: fit, Industry: industry, Query: query}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
