package syncer

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"actsync/internal"
	"actsync/internal/classify"
)

// IngestResult summarizes one ingest pass.
type IngestResult struct {
	Fetched int
	Added   int
	Updated int
	Skipped int
}

// Ingestor fetches raw events from the configured sources, normalizes
// and classifies them, and merges them into the ledger.
type Ingestor struct {
	output io.Writer
	mux    internal.Mux
	repo   Repository
	rules  *classify.Ruleset

	nowFunc func() time.Time
}

func NewIngestor(output io.Writer, mux internal.Mux, repo Repository, rules *classify.Ruleset) *Ingestor {
	if output == nil {
		output = os.Stdout
	}
	if rules == nil {
		rules = classify.Default()
	}
	return &Ingestor{
		output:  output,
		mux:     mux,
		repo:    repo,
		rules:   rules,
		nowFunc: time.Now,
	}
}

// Ingest pulls the window from every calendar and merges the results.
// A raw event that fails normalization is logged and skipped; it never
// aborts the batch. Events already in the ledger keep their sync state
// and creation time, only their content fields are refreshed.
func (ing *Ingestor) Ingest(ctx context.Context, cals []*internal.Calendar, from, to internal.Date) (*IngestResult, error) {
	res := &IngestResult{}

	existing, err := ing.repo.LoadEvents(ctx)
	if err != nil {
		return res, &LedgerError{Op: "load", Err: err}
	}
	byID := make(map[string]*Event, len(existing))
	for _, e := range existing {
		byID[e.ID] = e
	}

	now := ing.nowFunc().UTC()
	collection := existing

	for _, cal := range cals {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		source, err := ing.mux.Get(cal.Account.Platform)
		if err != nil {
			logf(ing.output, cal.String(), "Unable to load source: %v", err)
			return res, err
		}

		logf(ing.output, cal.String(), "Fetching events from %s to %s...", from, to)

		raws, err := source.FetchEvents(ctx, cal, from, to)
		if err != nil {
			logf(ing.output, cal.String(), "Unable to fetch events: %v", err)
			return res, err
		}
		res.Fetched += len(raws)

		for _, raw := range raws {
			ev, err := internal.Normalize(raw, cal.Account.Platform, now)
			if err != nil {
				var nerr *internal.NormalizationError
				if errors.As(err, &nerr) {
					logf(ing.output, cal.String(), "Skipping event: %v", err)
					res.Skipped++
					continue
				}
				return res, err
			}

			c := ing.rules.Classify(ev.Title, ev.Description)
			ev.Type = c.Type
			ev.Role = c.Role
			ev.Category = c.Category
			ev.Subcategory = c.Subcategory

			if prev, ok := byID[ev.ID]; ok {
				// Re-normalization refreshes content but never resets
				// the ledger.
				ev.Synced = prev.Synced
				ev.CreatedAt = prev.CreatedAt
				*prev = *ev
				res.Updated++
				continue
			}
			byID[ev.ID] = ev
			collection = append(collection, ev)
			res.Added++
		}
	}

	if err := ing.repo.SaveEvents(ctx, collection); err != nil {
		return res, &LedgerError{Op: "save", Err: err}
	}

	logf(ing.output, "ingest", "%d fetched, %d added, %d updated, %d skipped",
		res.Fetched, res.Added, res.Updated, res.Skipped)
	return res, nil
}
