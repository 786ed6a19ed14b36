package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"actsync/internal"
	"actsync/source/google"
)

var ConfigureCommand = _configureCommand{
	Name:        "configure",
	Description: "Log in to Google and store account and destination settings",
}

type _configureCommand struct {
	Name        string
	Description string
}

func (c _configureCommand) Run(ctx context.Context, opts globalOptions, args []string) error {
	e, err := newEnv(opts)
	if err != nil {
		return err
	}

	var docDBDatabaseID string

	fs := flag.NewFlagSet(c.Name, flag.ExitOnError)
	fs.StringVar(&docDBDatabaseID, "docdb-database", "", "document database id to create pages in")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := flag.CommandLine.Output()

	if docDBDatabaseID != "" {
		settings, err := e.storage.LoadSettings(ctx)
		if err != nil {
			return err
		}
		settings.DocDBDatabaseID = docDBDatabaseID
		if err := e.storage.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		fmt.Fprintln(w, "Document database saved.")
		return nil
	}

	credJSON, err := e.googleCredentials()
	if err != nil {
		return err
	}
	googleCal, err := google.NewClient(credJSON, oauthScopes...)
	if err != nil {
		return fmt.Errorf("creating client: %v", err)
	}
	googleCal.Verbose = opts.Verbose

	authToken, err := googleCal.Login(ctx, func(authURL string) {
		fmt.Fprintf(w, "Go to the following link in your browser\n%s\n", authURL)
	})
	if err != nil {
		return fmt.Errorf("google: logging in: %v", err)
	}

	acc := internal.Account{
		Platform: googlePlatform,
	}
	fmt.Fprint(w, "Account name (your e-mail): ")
	fmt.Scanln(&acc.Name)
	acc.Auth = func() string {
		v, _ := json.Marshal(authToken)
		return string(v)
	}()

	fmt.Fprintf(w, "Saving account %q for %q platform...\n", acc.Name, acc.Platform)
	if err := e.storage.AddAccount(ctx, &acc); err != nil {
		return fmt.Errorf("saving account: %v", err)
	}

	fmt.Fprintf(w, "Done. Reference this account as %q in %s.\n", acc.Name, opts.CfgFilename)
	return nil
}
