package internal

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeDefaultTitle(t *testing.T) {
	raw := &RawEvent{
		ID:    "evt-1",
		Start: EventDateTime{DateTime: "2024-03-05T09:00:00+07:00"},
		End:   EventDateTime{DateTime: "2024-03-05T11:00:00+07:00"},
	}
	ev, err := Normalize(raw, "google", time.Now())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if ev.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", ev.Title, DefaultTitle)
	}
}

func TestNormalizeDateFromDateTime(t *testing.T) {
	raw := &RawEvent{
		ID:    "evt-2",
		Start: EventDateTime{DateTime: "2024-03-05T09:00:00+07:00"},
	}
	ev, err := Normalize(raw, "google", time.Now())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if ev.Date != "2024-03-05" {
		t.Errorf("Date = %q, want %q", ev.Date, "2024-03-05")
	}
	if ev.EndTime != ev.StartTime {
		t.Errorf("EndTime = %q, want fallback to start %q", ev.EndTime, ev.StartTime)
	}
}

func TestNormalizeDateOnly(t *testing.T) {
	raw := &RawEvent{
		ID:    "evt-3",
		Start: EventDateTime{Date: "2024-03-05"},
		End:   EventDateTime{Date: "2024-03-06"},
	}
	ev, err := Normalize(raw, "ics", time.Now())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if ev.StartTime != "2024-03-05" {
		t.Errorf("StartTime = %q, want %q", ev.StartTime, "2024-03-05")
	}
	if ev.Date != "2024-03-05" {
		t.Errorf("Date = %q, want %q", ev.Date, "2024-03-05")
	}
}

func TestNormalizePrefersDateTime(t *testing.T) {
	raw := &RawEvent{
		ID: "evt-4",
		Start: EventDateTime{
			DateTime: "2024-03-05T09:00:00Z",
			Date:     "2024-03-06",
		},
	}
	ev, err := Normalize(raw, "google", time.Now())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if ev.StartTime != "2024-03-05T09:00:00Z" {
		t.Errorf("StartTime = %q, want the dateTime variant", ev.StartTime)
	}
}

func TestNormalizeMissingStart(t *testing.T) {
	raw := &RawEvent{ID: "evt-5", Summary: "broken"}
	_, err := Normalize(raw, "google", time.Now())

	var nerr *NormalizationError
	if !errors.As(err, &nerr) {
		t.Fatalf("Normalize() error = %v, want NormalizationError", err)
	}
	if nerr.EventID != "evt-5" {
		t.Errorf("EventID = %q, want %q", nerr.EventID, "evt-5")
	}
}

func TestNormalizeLedgerAllPending(t *testing.T) {
	raw := &RawEvent{
		ID:    "evt-6",
		Start: EventDateTime{Date: "2024-03-05"},
	}
	ev, err := Normalize(raw, "ics", time.Now())
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	for _, dest := range DestinationNames {
		if ev.SyncedTo(dest) {
			t.Errorf("SyncedTo(%q) = true for a fresh event", dest)
		}
	}
}

func TestRoleForIsFixedTable(t *testing.T) {
	tests := []struct {
		typ  ActivityType
		role Role
	}{
		{TypeLecture, RoleInstructor},
		{TypeEvaluation, RoleJudge},
		{TypeMentoring, RoleMentor},
		{TypeOther, RoleOther},
		{ActivityType("bogus"), RoleOther},
	}
	for _, tt := range tests {
		if got := RoleFor(tt.typ); got != tt.role {
			t.Errorf("RoleFor(%q) = %q, want %q", tt.typ, got, tt.role)
		}
	}
}
