package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"actsync/internal/syncer"
)

var SyncCommand = _syncCommand{
	Name:        "sync",
	Description: "Push pending classified events to the configured destinations",
}

type _syncCommand struct {
	Name        string
	Description string
}

func (c _syncCommand) Run(ctx context.Context, opts globalOptions, args []string) error {
	e, err := newEnv(opts)
	if err != nil {
		return err
	}

	var only Strings

	fs := flag.NewFlagSet(c.Name, flag.ExitOnError)
	fs.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage of %s %s:\n", os.Args[0], fs.Name())
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Var(&only, "destination", "sync only this destination (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dests, err := e.destinations(ctx, opts.Verbose, only)
	if err != nil {
		return err
	}
	if len(dests) == 0 {
		return fmt.Errorf("no destinations configured, add some to %s", opts.CfgFilename)
	}

	rec := syncer.New(flag.CommandLine.Output(), e.storage)
	results, err := rec.SyncAll(ctx, dests)

	for name, res := range results {
		fmt.Fprintf(flag.CommandLine.Output(), "%s: %d synced, %d failed\n", name, res.Synced, res.Failed)
	}
	return err
}
