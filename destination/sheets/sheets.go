// Package sheets appends classified events to per-role Google
// spreadsheets. Spreadsheets are created lazily, one per role, and
// their ids cached in settings so later passes reuse them.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"actsync/internal"
	"actsync/internal/temporal"
)

// Scope is the OAuth scope the destination needs; configure requests
// it together with the calendar scope.
const Scope = sheets.SpreadsheetsScope

const sheetLabel = "Activities"

// header is the fixed first row of every role spreadsheet. Row cells
// are appended in exactly this order.
var header = []string{
	"Title", "Date", "Start Time", "End Time", "Type",
	"Subcategory", "Location", "Description", "Source", "Created At",
}

// SettingsStore persists the per-role spreadsheet ids.
type SettingsStore interface {
	LoadSettings(context.Context) (*internal.Settings, error)
	SaveSettings(context.Context, *internal.Settings) error
}

type Destination struct {
	oauthCfg *oauth2.Config
	auth     string
	settings SettingsStore

	Verbose bool
}

// New builds the destination from the OAuth client credentials and the
// stored token of the configured account.
func New(credJSON []byte, auth string, settings SettingsStore) (*Destination, error) {
	oauthCfg, err := google.ConfigFromJSON(credJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("sheets: parsing credentials file: %v", err)
	}
	return &Destination{
		oauthCfg: oauthCfg,
		auth:     auth,
		settings: settings,
	}, nil
}

func (d *Destination) Name() string {
	return internal.DestSpreadsheet
}

const defaultSleep = 5 * time.Second

// Push appends the whole bucket in one values-append call.
func (d *Destination) Push(ctx context.Context, role internal.Role, events []*internal.Event) error {
	svc, err := d.sheetsSvc(ctx)
	if err != nil {
		return err
	}

	spreadsheetID, err := d.ensureSpreadsheet(ctx, svc, role)
	if err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(events))
	for _, e := range events {
		values = append(values, rowFor(e))
	}

	req := svc.Spreadsheets.Values.
		Append(spreadsheetID, sheetLabel+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx)

	for {
		_, err := req.Do()
		if err == nil {
			d.logf("appended %d %s row(s) to %s", len(values), role, spreadsheetID)
			return nil
		}
		if shouldRetry(err) {
			time.Sleep(defaultSleep)
			continue
		}
		return fmt.Errorf("sheets: appending to %s: %w", spreadsheetID, err)
	}
}

// rowFor renders one event in the fixed header order.
func rowFor(e *internal.Event) []interface{} {
	a := temporal.Analyze(e.StartTime, e.EndTime)
	return []interface{}{
		e.Title,
		a.StartDate,
		a.StartTimeOfDay,
		a.EndTimeOfDay,
		e.Type.String(),
		e.Subcategory,
		e.Location,
		e.Description,
		e.Source,
		e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ensureSpreadsheet returns the cached spreadsheet for the role or
// creates one, writes the header row and caches the id.
func (d *Destination) ensureSpreadsheet(ctx context.Context, svc *sheets.Service, role internal.Role) (string, error) {
	settings, err := d.settings.LoadSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("sheets: loading settings: %w", err)
	}
	if id := settings.SpreadsheetIDs[role]; id != "" {
		return id, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: "Activity Log - " + roleTitle(role),
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetLabel}},
		},
	}
	created, err := svc.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sheets: creating spreadsheet for %s: %w", role, err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	_, err = svc.Spreadsheets.Values.
		Append(created.SpreadsheetId, sheetLabel+"!A1", &sheets.ValueRange{Values: [][]interface{}{headerRow}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("sheets: writing header: %w", err)
	}

	settings.SpreadsheetIDs[role] = created.SpreadsheetId
	if err := d.settings.SaveSettings(ctx, settings); err != nil {
		return "", fmt.Errorf("sheets: caching spreadsheet id: %w", err)
	}

	d.logf("created spreadsheet %s for role %s", created.SpreadsheetId, role)
	return created.SpreadsheetId, nil
}

func roleTitle(role internal.Role) string {
	s := role.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (d *Destination) sheetsSvc(ctx context.Context) (*sheets.Service, error) {
	var tok *oauth2.Token
	if err := json.Unmarshal([]byte(d.auth), &tok); err != nil {
		return nil, fmt.Errorf("sheets: decoding stored token: %w", err)
	}
	httpClient := d.oauthCfg.Client(ctx, tok)
	return sheets.NewService(ctx, option.WithHTTPClient(httpClient))
}

func (d *Destination) logf(format string, a ...any) {
	if d.Verbose {
		internal.Logf(os.Stdout, "sheets:", "", format, a...)
	}
}

func shouldRetry(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	for _, e := range gErr.Errors {
		if e.Reason == "rateLimitExceeded" {
			return true
		}
	}
	return false
}
