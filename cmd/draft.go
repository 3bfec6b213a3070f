package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-insights/internal/coerce"
	"github.com/sells-group/lead-insights/internal/lead"
	"github.com/sells-group/lead-insights/internal/model"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Print the outreach draft for one attendee",
	Long:  "Finds one attendee by priority rank or name and prints the subject, body and mailto link.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, records, err := prepare(cmd.Context(), "cli")
		if err != nil {
			return err
		}

		rank, _ := cmd.Flags().GetInt("rank")
		name, _ := cmd.Flags().GetString("name")
		asJSON, _ := cmd.Flags().GetBool("json")

		r, err := findRecord(records, rank, name)
		if err != nil {
			return err
		}
		card := d.Derive(r, len(records))
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), card.Draft)
		}
		return printDraft(cmd.OutOrStdout(), card)
	},
}

// findRecord returns the first record with the given priority rank, or when
// rank is 0 the first whose name matches case-insensitively.
func findRecord(records []model.Record, rank int, name string) (model.Record, error) {
	name = strings.TrimSpace(name)
	for _, r := range records {
		if rank > 0 && coerce.LenientZero(r.Value(model.FieldPriorityRank)) == rank {
			return r, nil
		}
		if rank <= 0 && name != "" && strings.EqualFold(r.String(model.FieldName), name) {
			return r, nil
		}
	}
	if rank > 0 {
		return nil, eris.Errorf("draft: no attendee with rank %d", rank)
	}
	return nil, eris.Errorf("draft: no attendee named %q", name)
}

func printDraft(w io.Writer, c lead.Card) error {
	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\n", orNone(c.Email))
	fmt.Fprintf(&b, "Subject: %s\n\n", c.Draft.Subject)
	b.WriteString(c.Draft.Body)
	b.WriteString("\n")
	if c.Mailto != "" {
		fmt.Fprintf(&b, "\nMailto: %s\n", c.Mailto)
	}
	if c.ValueProp.Text != "" {
		fmt.Fprintf(&b, "\nValue proposition source: %s (score %d)\n", c.ValueProp.Source, c.ValueProp.Score)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func orNone(s string) string {
	if s == "" {
		return "(no email)"
	}
	return s
}

func init() {
	draftCmd.Flags().Int("rank", 0, "priority rank of the attendee")
	draftCmd.Flags().String("name", "", "full name of the attendee")
	draftCmd.Flags().Bool("json", false, "print the draft as JSON")
	draftCmd.MarkFlagsOneRequired("rank", "name")
	draftCmd.MarkFlagsMutuallyExclusive("rank", "name")
	rootCmd.AddCommand(draftCmd)
}
