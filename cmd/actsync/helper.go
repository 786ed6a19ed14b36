package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"google.golang.org/api/calendar/v3"

	"actsync/destination"
	"actsync/destination/docdb"
	"actsync/destination/sheets"
	"actsync/internal"
	"actsync/internal/classify"
	"actsync/internal/config"
	"actsync/internal/sqlite"
	"actsync/source"
	"actsync/source/google"
	"actsync/source/ics"
)

type Strings []string

func (i *Strings) String() string {
	return strings.Join(*i, ", ")
}

func (i *Strings) Set(value string) error {
	*i = append(*i, value)
	return nil
}

const googlePlatform = "google"

// env groups everything a subcommand needs to run.
type env struct {
	cfg     *config.Config
	secrets *config.Secrets
	storage *sqlite.Storage
	rules   *classify.Ruleset
}

func newEnv(opts globalOptions) (*env, error) {
	cfg, err := config.Load(opts.CfgFilename)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := sql.Open(sqlite.DriverName, opts.DBFilename)
	if err != nil {
		return nil, err
	}

	rules := classify.Default()
	if cfg.RulesFile != "" {
		rules, err = classify.Load(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("loading ruleset: %w", err)
		}
	}

	return &env{
		cfg:     cfg,
		secrets: config.LoadSecrets(),
		storage: sqlite.NewStorage(db),
		rules:   rules,
	}, nil
}

func (e *env) googleCredentials() ([]byte, error) {
	credJSON, err := os.ReadFile(e.secrets.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading google credentials: %w", err)
	}
	return credJSON, nil
}

// oauthScopes is everything one login must cover: reading calendars
// and writing spreadsheets.
var oauthScopes = []string{calendar.CalendarEventsReadonlyScope, sheets.Scope}

func (e *env) newSourceMux(verbose bool) (internal.Mux, error) {
	mux := source.NewMux()

	credJSON, err := e.googleCredentials()
	if err != nil {
		return nil, err
	}
	googleCal, err := google.NewClient(credJSON, oauthScopes...)
	if err != nil {
		return nil, err
	}
	googleCal.Verbose = verbose
	mux.Register(googlePlatform, googleCal)

	icsSrc := ics.NewSource(nil)
	icsSrc.Verbose = verbose
	mux.Register(ics.Platform, icsSrc)

	return mux, nil
}

// calendars resolves the configured sources into calendars, attaching
// stored account credentials where the platform needs them.
func (e *env) calendars(ctx context.Context) ([]*internal.Calendar, error) {
	cals := make([]*internal.Calendar, 0, len(e.cfg.Sources))
	for _, src := range e.cfg.Sources {
		acc := internal.Account{Platform: src.Platform, Name: src.Account}
		if src.Platform == googlePlatform {
			auth, err := e.storage.AccountAuth(ctx, acc.ID())
			if err != nil {
				return nil, err
			}
			acc.Auth = auth
		}
		cals = append(cals, &internal.Calendar{
			ID:         acc.ID() + "/" + src.CalendarID,
			Name:       src.CalendarID,
			ProviderID: src.CalendarID,
			Account:    acc,
		})
	}
	return cals, nil
}

// destinations builds the adapters enabled in the config.
func (e *env) destinations(ctx context.Context, verbose bool, only Strings) ([]internal.Destination, error) {
	mux := destination.NewMux()

	for _, name := range e.cfg.Destinations {
		switch name {
		case internal.DestSpreadsheet:
			credJSON, err := e.googleCredentials()
			if err != nil {
				return nil, err
			}
			accID := googlePlatform + "/" + e.cfg.SpreadsheetAccount
			auth, err := e.storage.AccountAuth(ctx, accID)
			if err != nil {
				return nil, err
			}
			dest, err := sheets.New(credJSON, auth, e.storage)
			if err != nil {
				return nil, err
			}
			dest.Verbose = verbose
			mux.Register(dest)
		case internal.DestDocumentDB:
			dest := docdb.New(nil, e.secrets.DocDBBaseURL, e.secrets.DocDBToken, e.storage)
			dest.DatabaseID = e.secrets.DocDBDatabaseID
			dest.Verbose = verbose
			mux.Register(dest)
		default:
			return nil, fmt.Errorf("unknown destination %q in config", name)
		}
	}

	names := e.cfg.Destinations
	if len(only) > 0 {
		names = only
	}

	dests := make([]internal.Destination, 0, len(names))
	for _, name := range names {
		dest, err := mux.Get(name)
		if err != nil {
			return nil, err
		}
		dests = append(dests, dest)
	}
	return dests, nil
}
