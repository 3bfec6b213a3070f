package dataset

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/lead-insights/internal/lead"
)

// Format is an export file format.
type Format string

// Supported export formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", eris.Errorf("dataset: unknown export format %q (want csv, xlsx or json)", s)
	}
}

// column is one export column and how to read it from a card.
type column struct {
	header string
	value  func(c *lead.Card) string
}

// exportColumns defines the ordered tabular export columns.
var exportColumns = []column{
	{"Rank", func(c *lead.Card) string { return intOrEmpty(c.Rank) }},
	{"Top Percent", func(c *lead.Card) string {
		if c.TopPercent == nil {
			return ""
		}
		return strconv.Itoa(*c.TopPercent)
	}},
	{"Name", func(c *lead.Card) string { return c.Name }},
	{"Organization", func(c *lead.Card) string { return c.Organization }},
	{"Role", func(c *lead.Card) string { return c.Role }},
	{"Industry", func(c *lead.Card) string { return c.Industry }},
	{"Fit", func(c *lead.Card) string { return c.FitBadge }},
	{"Fit Score", func(c *lead.Card) string { return c.FitScore }},
	{"Buyer Intent", func(c *lead.Card) string { return c.Buyer.Label }},
	{"Partner Strength", func(c *lead.Card) string { return c.Partner.Label }},
	{"JV Readiness", func(c *lead.Card) string { return c.Readiness.Label }},
	{"Offer Types", func(c *lead.Card) string { return strings.Join(c.OfferTypes, " | ") }},
	{"Value Proposition", func(c *lead.Card) string { return c.ValueProp.Text }},
	{"Value Proposition Source", func(c *lead.Card) string { return string(c.ValueProp.Source) }},
	{"Priority Reason", func(c *lead.Card) string { return c.PriorityReason }},
	{"Email", func(c *lead.Card) string { return c.Email }},
	{"Phone", func(c *lead.Card) string { return c.Phone }},
	{"Website", func(c *lead.Card) string { return c.Website }},
	{"LinkedIn", func(c *lead.Card) string { return c.LinkedInURL }},
	{"Draft Subject", func(c *lead.Card) string { return c.Draft.Subject }},
	{"Draft Body", func(c *lead.Card) string { return c.Draft.Body }},
	{"Mailto", func(c *lead.Card) string { return c.Mailto }},
}

// Headers returns the tabular export header row.
func Headers() []string {
	out := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		out[i] = col.header
	}
	return out
}

// Row maps a card to a tabular export row.
func Row(c *lead.Card) []string {
	out := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		out[i] = col.value(c)
	}
	return out
}

// WriteCSV writes cards as CSV with a header row.
func WriteCSV(w io.Writer, cards []lead.Card) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Headers()); err != nil {
		return eris.Wrap(err, "dataset: write csv header")
	}
	for i := range cards {
		if err := cw.Write(Row(&cards[i])); err != nil {
			return eris.Wrap(err, "dataset: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "dataset: flush csv")
}

// WriteJSON writes cards as an indented JSON array.
func WriteJSON(w io.Writer, cards []lead.Card) error {
	if cards == nil {
		cards = []lead.Card{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(cards), "dataset: encode json")
}

// BuildXLSX lays cards out on a single "Leads" sheet.
func BuildXLSX(cards []lead.Card) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return nil, eris.Wrap(err, "dataset: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range Headers() {
		header.AddCell().SetString(h)
	}
	for i := range cards {
		row := sheet.AddRow()
		for j, v := range Row(&cards[i]) {
			cell := row.AddCell()
			// Rank and Top Percent stay numeric so the sheet sorts correctly.
			if n, err := strconv.Atoi(v); err == nil && j < 2 {
				cell.SetInt(n)
				continue
			}
			cell.SetString(v)
		}
	}
	return f, nil
}

// Export writes cards to path in the given format.
func Export(path string, format Format, cards []lead.Card) error {
	switch format {
	case FormatXLSX:
		f, err := BuildXLSX(cards)
		if err != nil {
			return err
		}
		if err := f.Save(path); err != nil {
			return eris.Wrapf(err, "dataset: save %s", path)
		}
	case FormatCSV, FormatJSON:
		out, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "dataset: create %s", path)
		}
		defer out.Close() //nolint:errcheck

		if format == FormatCSV {
			err = WriteCSV(out, cards)
		} else {
			err = WriteJSON(out, cards)
		}
		if err != nil {
			return err
		}
		if err := out.Sync(); err != nil {
			return eris.Wrapf(err, "dataset: sync %s", path)
		}
	default:
		return eris.Errorf("dataset: unknown export format %q", format)
	}

	zap.L().Info("dataset: exported cards",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("cards", len(cards)),
	)
	return nil
}

func intOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
