package temporal

import (
	"testing"
	"time"
)

func TestAnalyzeDuration(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"two hours", "2024-03-05T09:00:00Z", "2024-03-05T11:00:00Z", 2},
		{"ninety minutes", "2024-03-05T09:00:00Z", "2024-03-05T10:30:00Z", 1.5},
		{"rounded", "2024-03-05T09:00:00Z", "2024-03-05T09:20:00Z", 0.33},
		{"end before start clamps to zero", "2024-03-05T11:00:00Z", "2024-03-05T09:00:00Z", 0},
		{"same instant", "2024-03-05T09:00:00Z", "2024-03-05T09:00:00Z", 0},
		{"date only", "2024-03-05", "2024-03-06", 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.start, tt.end)
			if got.DurationHours != tt.want {
				t.Errorf("DurationHours = %v, want %v", got.DurationHours, tt.want)
			}
			if got.DurationHours < 0 {
				t.Errorf("DurationHours = %v, must never be negative", got.DurationHours)
			}
		})
	}
}

func TestAnalyzeISOWeek(t *testing.T) {
	tests := []struct {
		start string
		week  int
	}{
		// 2021-01-01 is a Friday and belongs to the last ISO week of 2020.
		{"2021-01-01", 53},
		// First Monday of 2021 opens week 1.
		{"2021-01-04", 1},
		// 2020-12-31 (Thursday) is still week 53.
		{"2020-12-31T10:00:00Z", 53},
		{"2024-07-01T08:00:00Z", 27},
	}
	for _, tt := range tests {
		got := Analyze(tt.start, "")
		if got.WeekNumber != tt.week {
			t.Errorf("Analyze(%q).WeekNumber = %d, want %d", tt.start, got.WeekNumber, tt.week)
		}
	}
}

func TestAnalyzeDatesAndClocks(t *testing.T) {
	got := Analyze("2024-03-05T09:15:00Z", "2024-03-05T11:45:00Z")

	if got.StartDate != "2024-03-05" || got.EndDate != "2024-03-05" {
		t.Errorf("dates = %q/%q, want 2024-03-05 for both", got.StartDate, got.EndDate)
	}
	if got.StartTimeOfDay != "09:15" {
		t.Errorf("StartTimeOfDay = %q, want %q", got.StartTimeOfDay, "09:15")
	}
	if got.EndTimeOfDay != "11:45" {
		t.Errorf("EndTimeOfDay = %q, want %q", got.EndTimeOfDay, "11:45")
	}
	if got.Month != "3rd month of the year" {
		t.Errorf("Month = %q, want %q", got.Month, "3rd month of the year")
	}
	if got.Year != 2024 {
		t.Errorf("Year = %d, want 2024", got.Year)
	}
	if got.StartFallback || got.EndFallback {
		t.Error("fallback flags set for parseable input")
	}
}

func TestAnalyzeDateOnlyClockIsMidnight(t *testing.T) {
	got := Analyze("2024-03-05", "2024-03-05")
	if got.StartTimeOfDay != "00:00" {
		t.Errorf("StartTimeOfDay = %q, want %q", got.StartTimeOfDay, "00:00")
	}
}

func TestAnalyzeMalformedStartFallsBackToNow(t *testing.T) {
	fixed := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	got := Analyze("not-a-date", "")
	if !got.StartFallback {
		t.Fatal("StartFallback = false for malformed input")
	}
	if !got.EndFallback {
		t.Fatal("EndFallback = false for empty end")
	}
	if got.StartDate != "2024-03-05" {
		t.Errorf("StartDate = %q, want the substituted now", got.StartDate)
	}
	// End falls back to the resolved start, not to now independently.
	if got.EndDate != got.StartDate {
		t.Errorf("EndDate = %q, want %q", got.EndDate, got.StartDate)
	}
	if got.DurationHours != 0 {
		t.Errorf("DurationHours = %v, want 0", got.DurationHours)
	}
}

func TestAnalyzeMalformedEndFallsBackToStart(t *testing.T) {
	got := Analyze("2024-03-05T09:00:00Z", "garbage")
	if !got.EndFallback {
		t.Fatal("EndFallback = false for malformed end")
	}
	if got.EndDate != "2024-03-05" || got.EndTimeOfDay != "09:00" {
		t.Errorf("end = %s %s, want the start substituted", got.EndDate, got.EndTimeOfDay)
	}
}

func TestMonthLabelOutOfRange(t *testing.T) {
	if got := MonthLabel(0); got != "1st month of the year" {
		t.Errorf("MonthLabel(0) = %q, want first entry", got)
	}
	if got := MonthLabel(13); got != "1st month of the year" {
		t.Errorf("MonthLabel(13) = %q, want first entry", got)
	}
	if got := MonthLabel(12); got != "12th month of the year" {
		t.Errorf("MonthLabel(12) = %q", got)
	}
}

func TestParseDateSafe(t *testing.T) {
	fallback := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	got, fb := ParseDateSafe("2024-03-05T09:00:00+07:00", fallback)
	if fb {
		t.Error("wasFallback = true for valid RFC3339")
	}
	if got.Year() != 2024 {
		t.Errorf("Year = %d, want 2024", got.Year())
	}

	got, fb = ParseDateSafe("", fallback)
	if !fb || !got.Equal(fallback) {
		t.Errorf("empty input: got (%v, %v), want fallback", got, fb)
	}

	got, fb = ParseDateSafe("05/03/2024", fallback)
	if !fb || !got.Equal(fallback) {
		t.Errorf("unsupported layout: got (%v, %v), want fallback", got, fb)
	}
}
