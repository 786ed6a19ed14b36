// Package ics ingests events from ICS subscription URLs. Recurring
// events are expanded into one raw event per occurrence within the
// fetch window.
package ics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"actsync/internal"
)

const Platform = "ics"

// maxOccurrences caps recurrence expansion per event.
const maxOccurrences = 1000

type Source struct {
	httpClient *http.Client

	Verbose bool
}

func NewSource(httpClient *http.Client) *Source {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Source{httpClient: httpClient}
}

// FetchEvents downloads the calendar's ICS payload (the calendar's
// ProviderID is the subscription URL) and converts its VEVENTs.
func (s *Source) FetchEvents(ctx context.Context, cal *internal.Calendar, from, to internal.Date) ([]*internal.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cal.ProviderID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ics: fetching %s: %w", cal.ProviderID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ics: fetching %s: unexpected status %s", cal.ProviderID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	parsed, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: parsing %s: %w", cal.ProviderID, err)
	}

	var raws []*internal.RawEvent
	for _, ve := range parsed.Events() {
		evs, err := s.convert(ve, from, to)
		if err != nil {
			// One bad VEVENT must not kill the rest of the feed.
			s.logf(cal, "skipping event: %v", err)
			continue
		}
		raws = append(raws, evs...)
	}

	s.logf(cal, "fetched %d event(s)", len(raws))
	return raws, nil
}

// convert maps one VEVENT to raw events, expanding RRULEs.
func (s *Source) convert(ve *ical.VEvent, from, to internal.Date) ([]*internal.RawEvent, error) {
	uid := propValue(ve, ical.ComponentPropertyUniqueId)
	if uid == "" {
		uid = uuid.NewString()
	}

	start, allDay, err := boundary(ve, ical.ComponentPropertyDtStart)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", uid, err)
	}
	end, _, err := boundary(ve, ical.ComponentPropertyDtEnd)
	if err != nil {
		end = start
	}

	base := internal.RawEvent{
		ID:          uid,
		Summary:     propValue(ve, ical.ComponentPropertySummary),
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Location:    propValue(ve, ical.ComponentPropertyLocation),
	}

	rawRRule := propValue(ve, ical.ComponentPropertyRrule)
	if rawRRule == "" {
		ev := base
		ev.Start = toEventDateTime(start, allDay)
		ev.End = toEventDateTime(end, allDay)
		return []*internal.RawEvent{&ev}, nil
	}

	r, err := rrule.StrToRRule(rawRRule)
	if err != nil {
		return nil, fmt.Errorf("event %s: parsing rrule: %w", uid, err)
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)

	duration := end.Sub(start)
	occTimes := set.Between(from.In(start.Location()), to.In(start.Location()), true)
	if len(occTimes) > maxOccurrences {
		occTimes = occTimes[:maxOccurrences]
	}

	raws := make([]*internal.RawEvent, 0, len(occTimes))
	for _, occ := range occTimes {
		ev := base
		ev.ID = uid + "/" + occ.UTC().Format("20060102T150405Z")
		ev.Start = toEventDateTime(occ, allDay)
		ev.End = toEventDateTime(occ.Add(duration), allDay)
		raws = append(raws, &ev)
	}
	return raws, nil
}

// boundary reads DTSTART/DTEND, reporting whether it is date-only.
func boundary(ve *ical.VEvent, prop ical.ComponentProperty) (time.Time, bool, error) {
	p := ve.GetProperty(prop)
	if p == nil || p.Value == "" {
		return time.Time{}, false, fmt.Errorf("missing %s", prop)
	}

	allDay := !strings.Contains(p.Value, "T")
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			allDay = true
		}
	}

	var (
		t   time.Time
		err error
	)
	if prop == ical.ComponentPropertyDtStart {
		t, err = ve.GetStartAt()
	} else {
		t, err = ve.GetEndAt()
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing %s: %w", prop, err)
	}
	return t, allDay, nil
}

func toEventDateTime(t time.Time, allDay bool) internal.EventDateTime {
	if allDay {
		return internal.EventDateTime{Date: t.Format(internal.DateFormat)}
	}
	return internal.EventDateTime{DateTime: t.Format(time.RFC3339)}
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

func (s *Source) logf(cal *internal.Calendar, format string, a ...any) {
	if s.Verbose {
		internal.Logf(os.Stdout, "ics:", cal.String(), format, a...)
	}
}
