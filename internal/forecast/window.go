package forecast

import (
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
)

// referenceYear is a leap year so Feb 29 projects onto a real day.
const referenceYear = 2000

// MonthDay is a calendar date with the year discarded.
type MonthDay struct {
	Month time.Month
	Day   int
}

// MonthDayOf projects t onto its (month, day) pair using the calendar fields of t's location.
func MonthDayOf(t time.Time) MonthDay {
	_, m, d := t.Date()
	return MonthDay{Month: m, Day: d}
}

// ordinal returns the day-of-year of md inside the reference year.
func (md MonthDay) ordinal() int {
	return time.Date(referenceYear, md.Month, md.Day, 0, 0, 0, 0, time.UTC).YearDay()
}

// Window is a year-agnostic [From, To] range over month/day pairs.
// When From is after To the window wraps across the year boundary.
type Window struct {
	from int
	to   int
}

// NewWindow builds a window from two dates, ignoring their years.
func NewWindow(from, to time.Time) Window {
	return Window{
		from: MonthDayOf(from).ordinal(),
		to:   MonthDayOf(to).ordinal(),
	}
}

// WindowFor builds the window for a request date range.
func WindowFor(r domain.DateRange) Window {
	return NewWindow(r.From, r.To)
}

// Wraps reports whether the window crosses Dec 31.
func (w Window) Wraps() bool {
	return w.from > w.to
}

// Contains reports whether date falls inside the window by month/day.
// A zero date never matches.
func (w Window) Contains(date time.Time) bool {
	if date.IsZero() {
		return false
	}
	d := MonthDayOf(date).ordinal()
	if w.Wraps() {
		return d >= w.from || d <= w.to
	}
	return d >= w.from && d <= w.to
}

// FilterForecasts keeps the records whose date falls inside the window.
func FilterForecasts(records []domain.ForecastRecord, w Window) []domain.ForecastRecord {
	matched := make([]domain.ForecastRecord, 0, len(records))
	for _, rec := range records {
		if w.Contains(rec.Date) {
			matched = append(matched, rec)
		}
	}
	return matched
}
