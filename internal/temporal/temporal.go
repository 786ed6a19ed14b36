// Package temporal derives calendar fields (ISO week, duration, date
// and clock parts) from an event's start and end. Parsing is
// deliberately forgiving: a malformed upstream date degrades into a
// safe default instead of aborting the batch it came from.
package temporal

import (
	"math"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// layouts accepted for event timestamps, tried in order.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	dateLayout,
}

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// Analysis carries all calendar-derived fields for one event.
type Analysis struct {
	StartDate      string
	EndDate        string
	StartTimeOfDay string
	EndTimeOfDay   string
	DurationHours  float64
	WeekNumber     int
	Year           int
	Month          string

	// StartFallback/EndFallback report that the corresponding input
	// could not be parsed and a default was substituted.
	StartFallback bool
	EndFallback   bool
}

// monthLabels is indexed by time.Month - 1. An out-of-range index
// falls back to the first entry.
var monthLabels = [12]string{
	"1st month of the year",
	"2nd month of the year",
	"3rd month of the year",
	"4th month of the year",
	"5th month of the year",
	"6th month of the year",
	"7th month of the year",
	"8th month of the year",
	"9th month of the year",
	"10th month of the year",
	"11th month of the year",
	"12th month of the year",
}

// MonthLabel returns the ordinal label for a 1-based month number.
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return monthLabels[0]
	}
	return monthLabels[month-1]
}

// ParseDateSafe parses an event timestamp, returning the fallback and
// true when the value is empty or unparseable. Callers can tell a
// genuine date from a substituted one without relying on errors.
func ParseDateSafe(value string, fallback time.Time) (time.Time, bool) {
	if value == "" {
		return fallback, true
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, false
		}
	}
	return fallback, true
}

// Analyze computes the derived fields for a start/end pair. A bad
// start falls back to now, a bad end falls back to the resolved
// start; the duration is clamped to zero when the end precedes the
// start and rounded to two decimals.
func Analyze(startTime, endTime string) Analysis {
	start, startFb := ParseDateSafe(startTime, nowFunc())
	end, endFb := ParseDateSafe(endTime, start)

	hours := end.Sub(start).Hours()
	if hours < 0 {
		hours = 0
	}
	hours = math.Round(hours*100) / 100

	_, week := start.ISOWeek()

	return Analysis{
		StartDate:      start.Format(dateLayout),
		EndDate:        end.Format(dateLayout),
		StartTimeOfDay: start.Format(clockLayout),
		EndTimeOfDay:   end.Format(clockLayout),
		DurationHours:  hours,
		WeekNumber:     week,
		Year:           start.Year(),
		Month:          MonthLabel(int(start.Month())),
		StartFallback:  startFb,
		EndFallback:    endFb,
	}
}
