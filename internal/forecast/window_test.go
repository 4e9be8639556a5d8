package forecast

import (
	"testing"
	"time"

	"github.com/andresuchdata/storeops/backend-go/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindow_Contains(t *testing.T) {
	tests := []struct {
		name  string
		from  time.Time
		to    time.Time
		date  time.Time
		match bool
	}{
		{"inside plain range", date(2024, 3, 1), date(2024, 3, 31), date(2019, 3, 15), true},
		{"lower bound inclusive", date(2024, 3, 1), date(2024, 3, 31), date(2030, 3, 1), true},
		{"upper bound inclusive", date(2024, 3, 1), date(2024, 3, 31), date(2001, 3, 31), true},
		{"before plain range", date(2024, 3, 1), date(2024, 3, 31), date(2024, 2, 29), false},
		{"after plain range", date(2024, 3, 1), date(2024, 3, 31), date(2024, 4, 1), false},
		{"bounds in different years", date(2023, 6, 1), date(2025, 6, 10), date(2024, 6, 5), true},
		{"wrap matches january", date(2024, 12, 20), date(2025, 1, 10), date(2021, 1, 5), true},
		{"wrap matches december", date(2024, 12, 20), date(2025, 1, 10), date(2022, 12, 25), true},
		{"wrap excludes june", date(2024, 12, 20), date(2025, 1, 10), date(2023, 6, 1), false},
		{"wrap excludes day after end", date(2024, 11, 15), date(2025, 2, 15), date(2024, 2, 16), false},
		{"wrap includes end bound", date(2024, 11, 15), date(2025, 2, 15), date(2024, 2, 15), true},
		{"single day matches same month/day", date(2024, 7, 4), date(2024, 7, 4), date(1999, 7, 4), true},
		{"single day rejects neighbour", date(2024, 7, 4), date(2024, 7, 4), date(1999, 7, 5), false},
		{"leap day inside range", date(2024, 2, 1), date(2024, 3, 1), date(2024, 2, 29), true},
		{"zero date never matches", date(2024, 1, 1), date(2024, 12, 31), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewWindow(tt.from, tt.to).Contains(tt.date)
			if got != tt.match {
				t.Errorf("Contains(%s) on [%s, %s] = %v, want %v",
					tt.date.Format("2006-01-02"), tt.from.Format("2006-01-02"), tt.to.Format("2006-01-02"), got, tt.match)
			}
		})
	}
}

func TestWindow_YearIndependence(t *testing.T) {
	w := NewWindow(date(2024, 4, 10), date(2024, 4, 20))
	for year := 1990; year <= 2040; year++ {
		if !w.Contains(date(year, 4, 15)) {
			t.Fatalf("expected Apr 15 %d to match", year)
		}
		if w.Contains(date(year, 4, 21)) {
			t.Fatalf("expected Apr 21 %d not to match", year)
		}
	}
}

func TestWindow_WrapsAgreesWithOrdering(t *testing.T) {
	// For every pair of month/day bounds, membership must follow the plain or
	// wrapped rule depending on bound order.
	days := []time.Time{
		date(2023, 1, 1), date(2023, 2, 14), date(2023, 5, 31),
		date(2023, 8, 15), date(2023, 11, 15), date(2023, 12, 31),
	}
	for _, from := range days {
		for _, to := range days {
			w := NewWindow(from, to)
			for _, d := range days {
				f, tt, x := MonthDayOf(from).ordinal(), MonthDayOf(to).ordinal(), MonthDayOf(d).ordinal()
				want := f <= x && x <= tt
				if f > tt {
					want = x >= f || x <= tt
				}
				if got := w.Contains(d.AddDate(7, 0, 0)); got != want {
					t.Errorf("window [%s,%s] date %s: got %v want %v",
						from.Format("01-02"), to.Format("01-02"), d.Format("01-02"), got, want)
				}
			}
		}
	}
}

func TestFilterForecasts(t *testing.T) {
	records := []domain.ForecastRecord{
		{ProductID: "1", Date: date(2022, 1, 5), Units: 3},
		{ProductID: "1", Date: date(2022, 6, 1), Units: 7},
		{ProductID: "2", Date: date(2019, 12, 24), Units: 2},
		{ProductID: "3", Date: time.Time{}, Units: 9},
	}

	got := FilterForecasts(records, NewWindow(date(2024, 12, 20), date(2025, 1, 10)))
	if len(got) != 2 {
		t.Fatalf("expected 2 matched records, got %d", len(got))
	}
	if got[0].ProductID != "1" || got[0].Units != 3 {
		t.Errorf("unexpected first record %+v", got[0])
	}
	if got[1].ProductID != "2" {
		t.Errorf("unexpected second record %+v", got[1])
	}
}
