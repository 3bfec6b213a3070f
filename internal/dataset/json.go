package dataset

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-insights/internal/model"
)

// StreamJSON decodes a JSON array of records, sending each element to a
// channel as it is read. Input must be of the form [{...},{...}]; empty
// input yields no records. Both channels are closed when processing completes.
func StreamJSON(ctx context.Context, r io.Reader) (<-chan model.Record, <-chan error) {
	outCh := make(chan model.Record, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		decoder := json.NewDecoder(r)

		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			errCh <- eris.Wrap(err, "dataset: read opening token")
			return
		}

		delim, ok := tok.(json.Delim)
		if !ok || delim != '[' {
			errCh <- eris.Errorf("dataset: expected '[', got %v", tok)
			return
		}

		for i := 0; decoder.More(); i++ {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}

			var rec model.Record
			if err := decoder.Decode(&rec); err != nil {
				errCh <- eris.Wrapf(err, "dataset: decode record %d", i)
				return
			}
			if rec == nil {
				// null array element
				rec = model.Record{}
			}

			select {
			case outCh <- rec:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "dataset: context cancelled")
				return
			}
		}

		if _, err := decoder.Token(); err != nil && err != io.EOF {
			errCh <- eris.Wrap(err, "dataset: read closing token")
		}
	}()

	return outCh, errCh
}

// Collect drains a record stream into a slice. It returns the first error
// reported on errCh, after the record channel has been fully drained.
func Collect(recCh <-chan model.Record, errCh <-chan error) ([]model.Record, error) {
	var out []model.Record
	for rec := range recCh {
		out = append(out, rec)
	}
	for err := range errCh {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
