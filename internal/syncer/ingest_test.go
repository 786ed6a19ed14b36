package syncer

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"actsync/internal"
)

type fakeSource struct {
	raws []*internal.RawEvent
	err  error
}

func (s *fakeSource) FetchEvents(context.Context, *internal.Calendar, internal.Date, internal.Date) ([]*internal.RawEvent, error) {
	return s.raws, s.err
}

type fakeMux struct {
	sources map[string]internal.Source
}

func (m *fakeMux) Get(platform string) (internal.Source, error) {
	src, ok := m.sources[platform]
	if !ok {
		return nil, fmt.Errorf("source %q is not implemented", platform)
	}
	return src, nil
}

func googleCal() *internal.Calendar {
	return &internal.Calendar{
		ID:         "google/me@example.com/primary",
		ProviderID: "primary",
		Account:    internal.Account{Platform: "google", Name: "me@example.com"},
	}
}

func window() (internal.Date, internal.Date) {
	from := internal.NewDate(2024, time.March, 1, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func TestIngestNormalizesAndClassifies(t *testing.T) {
	repo := &fakeRepo{}
	mux := &fakeMux{sources: map[string]internal.Source{
		"google": &fakeSource{raws: []*internal.RawEvent{
			{
				ID:      "g1",
				Summary: "Kuliah Basis Data",
				Start:   internal.EventDateTime{DateTime: "2024-03-05T09:00:00+07:00"},
				End:     internal.EventDateTime{DateTime: "2024-03-05T11:00:00+07:00"},
			},
			{
				ID:    "g2",
				Start: internal.EventDateTime{Date: "2024-03-06"},
			},
		}},
	}}

	from, to := window()
	ing := NewIngestor(io.Discard, mux, repo, nil)
	res, err := ing.Ingest(context.Background(), []*internal.Calendar{googleCal()}, from, to)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if res.Added != 2 || res.Skipped != 0 {
		t.Errorf("result = %+v, want 2 added", res)
	}

	byID := map[string]*Event{}
	for _, e := range repo.events {
		byID[e.ID] = e
	}
	if got := byID["g1"]; got.Type != internal.TypeLecture || got.Role != internal.RoleInstructor {
		t.Errorf("g1 classified as %s/%s, want lecture/instructor", got.Type, got.Role)
	}
	if got := byID["g2"]; got.Title != internal.DefaultTitle || got.Type != internal.TypeOther {
		t.Errorf("g2 = %q/%s, want default title and other", got.Title, got.Type)
	}
}

func TestIngestSkipsUnnormalizableEvents(t *testing.T) {
	repo := &fakeRepo{}
	mux := &fakeMux{sources: map[string]internal.Source{
		"google": &fakeSource{raws: []*internal.RawEvent{
			{ID: "ok", Start: internal.EventDateTime{Date: "2024-03-05"}},
			{ID: "broken", Summary: "no dates at all"},
		}},
	}}

	from, to := window()
	ing := NewIngestor(io.Discard, mux, repo, nil)
	res, err := ing.Ingest(context.Background(), []*internal.Calendar{googleCal()}, from, to)
	if err != nil {
		t.Fatalf("Ingest() error = %v, a bad event must not abort the batch", err)
	}
	if res.Added != 1 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 added, 1 skipped", res)
	}
}

func TestIngestPreservesLedgerOnRefetch(t *testing.T) {
	created := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	prev := event("g1", internal.TypeLecture)
	prev.Title = "stale title"
	prev.CreatedAt = created
	prev.Synced[internal.DestSpreadsheet] = true
	repo := &fakeRepo{events: []*Event{prev}}

	mux := &fakeMux{sources: map[string]internal.Source{
		"google": &fakeSource{raws: []*internal.RawEvent{
			{
				ID:      "g1",
				Summary: "Kuliah Basis Data (updated)",
				Start:   internal.EventDateTime{DateTime: "2024-03-05T10:00:00+07:00"},
				End:     internal.EventDateTime{DateTime: "2024-03-05T12:00:00+07:00"},
			},
		}},
	}}

	from, to := window()
	ing := NewIngestor(io.Discard, mux, repo, nil)
	res, err := ing.Ingest(context.Background(), []*internal.Calendar{googleCal()}, from, to)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if res.Updated != 1 || res.Added != 0 {
		t.Errorf("result = %+v, want 1 updated", res)
	}

	got := repo.events[0]
	if got.Title != "Kuliah Basis Data (updated)" {
		t.Errorf("Title = %q, content fields should refresh", got.Title)
	}
	if !got.SyncedTo(internal.DestSpreadsheet) {
		t.Error("refetch reset the sync ledger")
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want preserved %v", got.CreatedAt, created)
	}
}
