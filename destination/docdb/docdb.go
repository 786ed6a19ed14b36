// Package docdb creates one page per event in a Notion-style document
// database. The bucket is the batching unit: Push walks its events and
// fails the whole bucket on the first rejected page, leaving it
// pending for the next pass.
package docdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"actsync/internal"
	"actsync/internal/temporal"
)

const apiVersion = "2022-06-28"

// categoryLabels is the fixed mapping from activity type to the
// database's category select option.
var categoryLabels = map[internal.ActivityType]string{
	internal.TypeLecture:    "Lecture",
	internal.TypeEvaluation: "Evaluation",
	internal.TypeMentoring:  "Mentoring",
}

const fallbackLabel = "Other"

// SettingsStore resolves the target database id, which configure
// stores in settings.
type SettingsStore interface {
	LoadSettings(context.Context) (*internal.Settings, error)
}

type Destination struct {
	httpClient *http.Client
	baseURL    string
	token      string
	settings   SettingsStore

	// DatabaseID, when set, takes precedence over the id stored in
	// settings.
	DatabaseID string

	Verbose bool
}

func New(httpClient *http.Client, baseURL, token string, settings SettingsStore) *Destination {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Destination{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		settings:   settings,
	}
}

func (d *Destination) Name() string {
	return internal.DestDocumentDB
}

func (d *Destination) Push(ctx context.Context, role internal.Role, events []*internal.Event) error {
	databaseID := d.DatabaseID
	if databaseID == "" {
		settings, err := d.settings.LoadSettings(ctx)
		if err != nil {
			return fmt.Errorf("docdb: loading settings: %w", err)
		}
		databaseID = settings.DocDBDatabaseID
	}
	if databaseID == "" {
		return fmt.Errorf("docdb: no database configured, run configure first")
	}

	for _, e := range events {
		if err := d.createPage(ctx, databaseID, e); err != nil {
			return err
		}
	}

	d.logf("created %d %s page(s)", len(events), role)
	return nil
}

// page is the create-page request body.
type page struct {
	Parent     parent              `json:"parent"`
	Properties map[string]property `json:"properties"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type property struct {
	Title    []richText `json:"title,omitempty"`
	RichText []richText `json:"rich_text,omitempty"`
	Select   *selectOpt `json:"select,omitempty"`
	Date     *dateRange `json:"date,omitempty"`
	Number   *float64   `json:"number,omitempty"`
}

type richText struct {
	Text textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

type selectOpt struct {
	Name string `json:"name"`
}

type dateRange struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// propertiesFor maps the event and its temporal analysis onto the
// database's typed fields.
func propertiesFor(e *internal.Event) map[string]property {
	a := temporal.Analyze(e.StartTime, e.EndTime)

	label, ok := categoryLabels[e.Type]
	if !ok {
		label = fallbackLabel
	}

	duration := a.DurationHours
	week := float64(a.WeekNumber)

	props := map[string]property{
		"Name":     {Title: text(e.Title)},
		"Category": {Select: &selectOpt{Name: label}},
		"Date":     {Date: &dateRange{Start: a.StartDate, End: a.EndDate}},
		"Week":     {Number: &week},
		"Duration": {Number: &duration},
		"Source":   {RichText: text(e.Source)},
	}
	if e.Location != "" {
		props["Location"] = property{RichText: text(e.Location)}
	}
	if e.Description != "" {
		props["Description"] = property{RichText: text(e.Description)}
	}
	return props
}

func text(s string) []richText {
	return []richText{{Text: textContent{Content: s}}}
}

func (d *Destination) createPage(ctx context.Context, databaseID string, e *internal.Event) error {
	body, err := json.Marshal(page{
		Parent:     parent{DatabaseID: databaseID},
		Properties: propertiesFor(e),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("docdb: creating page for %s: %w", e.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("docdb: creating page for %s: status %s: %s", e.ID, resp.Status, snippet)
	}

	d.logf("created page for event %s", e.ID)
	return nil
}

func (d *Destination) logf(format string, a ...any) {
	if d.Verbose {
		internal.Logf(os.Stdout, "docdb:", "", format, a...)
	}
}
