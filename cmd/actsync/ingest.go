package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"actsync/internal"
	"actsync/internal/syncer"
)

var IngestCommand = _ingestCommand{
	Name:        "ingest",
	Description: "Fetch, normalize and classify events into the ledger",
}

type _ingestCommand struct {
	Name        string
	Description string
}

func (c _ingestCommand) Run(ctx context.Context, opts globalOptions, args []string) error {
	e, err := newEnv(opts)
	if err != nil {
		return err
	}

	var from, to internal.Date

	fs := flag.NewFlagSet(c.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Var(&from, "from", "start of the fetch window (e.g. 2024-03-01)")
	fs.Var(&to, "to", "end of the fetch window (e.g. 2024-04-01)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if from.IsZero() {
		from = internal.Today().AddDate(0, 0, -e.cfg.WindowPastDays)
	}
	if to.IsZero() {
		to = internal.Today().AddDate(0, 0, e.cfg.WindowFutureDays)
	}

	mux, err := e.newSourceMux(opts.Verbose)
	if err != nil {
		return err
	}
	cals, err := e.calendars(ctx)
	if err != nil {
		return err
	}

	ing := syncer.NewIngestor(flag.CommandLine.Output(), mux, e.storage, e.rules)
	res, err := ing.Ingest(ctx, cals, from, to)
	if err != nil {
		return err
	}

	if e.cfg.RetentionDays > 0 {
		cutoff := internal.Today().AddDate(0, 0, -e.cfg.RetentionDays)
		pruned, err := e.storage.PruneBefore(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("pruning old events: %w", err)
		}
		if pruned > 0 {
			fmt.Fprintf(flag.CommandLine.Output(), "Pruned %d event(s) older than %s\n", pruned, cutoff)
		}
	}

	fmt.Fprintf(flag.CommandLine.Output(), "Ingest done: %d fetched, %d added, %d updated, %d skipped\n",
		res.Fetched, res.Added, res.Updated, res.Skipped)
	return nil
}
