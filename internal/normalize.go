package internal

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTitle is used when a raw event carries no summary.
const DefaultTitle = "Untitled Event"

// EventDateTime is either a timed or an all-day boundary. Providers
// set exactly one of the fields; Resolve prefers the timed one.
type EventDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

func (dt EventDateTime) Resolve() (string, bool) {
	if dt.DateTime != "" {
		return dt.DateTime, true
	}
	if dt.Date != "" {
		return dt.Date, true
	}
	return "", false
}

// RawEvent is the provider-shaped event before normalization.
type RawEvent struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       EventDateTime
	End         EventDateTime
}

// NormalizationError marks a raw event that cannot be turned into a
// canonical one. The ingestor skips and logs such events; they never
// abort a batch.
type NormalizationError struct {
	EventID string
	Reason  string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize event %q: %s", e.EventID, e.Reason)
}

// Normalize converts a raw provider event into a canonical Event with
// the sync ledger initialized to all-pending. The end falls back to
// the start when absent, and the date is always the date part of the
// resolved start.
func Normalize(raw *RawEvent, source string, now time.Time) (*Event, error) {
	start, ok := raw.Start.Resolve()
	if !ok {
		return nil, &NormalizationError{
			EventID: raw.ID,
			Reason:  "start has neither dateTime nor date",
		}
	}
	end, ok := raw.End.Resolve()
	if !ok {
		end = start
	}

	title := raw.Summary
	if title == "" {
		title = DefaultTitle
	}

	date, _, _ := strings.Cut(start, "T")

	synced := make(map[string]bool, len(DestinationNames))
	for _, dest := range DestinationNames {
		synced[dest] = false
	}

	return &Event{
		ID:          raw.ID,
		Title:       title,
		Description: raw.Description,
		Location:    raw.Location,
		StartTime:   start,
		EndTime:     end,
		Date:        date,
		Source:      source,
		Synced:      synced,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
