package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var commands = []struct {
	Name        string
	Description string
	Run         func(ctx context.Context, opts globalOptions, args []string) error
}{
	{ConfigureCommand.Name, ConfigureCommand.Description, ConfigureCommand.Run},
	{IngestCommand.Name, IngestCommand.Description, IngestCommand.Run},
	{SyncCommand.Name, SyncCommand.Description, SyncCommand.Run},
	{ServeCommand.Name, ServeCommand.Description, ServeCommand.Run},
}

type globalOptions struct {
	DBFilename  string
	CfgFilename string
	Verbose     bool
}

func main() {
	var opts globalOptions

	flag.StringVar(&opts.DBFilename, "db", "actsync.db", "sqlite database file")
	flag.StringVar(&opts.CfgFilename, "config", "actsync.yml", "configuration file")
	flag.BoolVar(&opts.Verbose, "v", false, "verbose output")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	for _, cmd := range commands {
		if cmd.Name != args[0] {
			continue
		}
		if err := cmd.Run(ctx, opts, args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
	usage()
	os.Exit(2)
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintf(w, "Usage: %s [options] <command> [command options]\n", os.Args[0])
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	flag.PrintDefaults()
}
