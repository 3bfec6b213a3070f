package lead

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-insights/internal/model"
	"github.com/sells-group/lead-insights/internal/valueprop"
)

// DeriveAll builds a card for every record with at most concurrency
// workers. Output order matches input order. total is passed through to
// Derive; use the full dataset size even when records is a filtered subset.
func (d *Deriver) DeriveAll(ctx context.Context, records []model.Record, total, concurrency int) ([]Card, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	cards := make([]Card, len(records))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, r := range records {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			cards[i] = d.Derive(r, total)
			if cards[i].ValueProp.Source == "" || cards[i].ValueProp.Source == valueprop.SourceStructured {
				zap.L().Debug("lead: no usable value proposition candidate",
					zap.String("name", cards[i].Name),
					zap.Int("rank", cards[i].Rank),
					zap.Int("best_score", cards[i].ValueProp.Score),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "lead: derive cards")
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "lead: derive cards")
	}

	zap.L().Debug("lead: derived cards",
		zap.Int("records", len(records)),
		zap.Int("total", total),
		zap.Int("concurrency", concurrency),
	)
	return cards, nil
}
