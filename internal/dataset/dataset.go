// Package dataset loads attendee records from local JSON or CSV files and
// writes derived lead cards back out as CSV, XLSX or JSON.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-insights/internal/model"
)

// LoadOptions configures Load.
type LoadOptions struct {
	// Charset applies to CSV input only; JSON is always UTF-8.
	Charset string
}

// Load reads every record from path. The format is chosen by extension:
// .csv is read as a header-keyed CSV, anything else as a JSON array.
func Load(ctx context.Context, path string, opts LoadOptions) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var (
		recCh <-chan model.Record
		errCh <-chan error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		recCh, errCh = StreamCSV(ctx, f, CSVOptions{Charset: opts.Charset, LazyQuotes: true})
	default:
		recCh, errCh = StreamJSON(ctx, f)
	}

	records, err := Collect(recCh, errCh)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: load %s", path)
	}

	zap.L().Info("dataset: loaded records",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return records, nil
}
