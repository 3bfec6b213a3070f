package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/lead-insights/internal/model"
)

// CSVOptions configures the attendee CSV reader.
type CSVOptions struct {
	Delimiter  rune   // default ','
	Comment    rune   // comment character (0 = none)
	Charset    string // WHATWG encoding label, default utf-8
	LazyQuotes bool
}

// StreamCSV reads an attendee CSV whose first row names the record fields
// and sends one record per data row. Empty cells are omitted from the record
// so they resolve as missing. Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan model.Record, <-chan error) {
	outCh := make(chan model.Record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		src, err := decodeCharset(r, opts.Charset)
		if err != nil {
			errCh <- err
			return
		}

		reader := csv.NewReader(src)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1

		header, err := reader.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			errCh <- eris.Wrap(err, "dataset: read csv header")
			return
		}
		for i, h := range header {
			header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		}

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}

			row, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "dataset: read csv row")
				return
			}

			select {
			case outCh <- rowRecord(header, row):
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}
		}
	}()

	return outCh, errCh
}

// rowRecord zips a row with the header. Cells beyond the header and
// columns with a blank name are dropped.
func rowRecord(header, row []string) model.Record {
	rec := make(model.Record, len(header))
	for i, cell := range row {
		if i >= len(header) || header[i] == "" || cell == "" {
			continue
		}
		rec[header[i]] = cell
	}
	return rec
}

func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	charset = strings.TrimSpace(charset)
	if charset == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: unsupported charset %q", charset)
	}
	name, _ := htmlindex.Name(enc)
	if name == "utf-8" {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}
