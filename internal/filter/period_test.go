package filter

import (
	"testing"
	"time"
)

func TestResolvePeriod(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// Thursday
	now := time.Date(2024, 2, 29, 15, 4, 5, 0, loc)
	at := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	tests := []struct {
		filter   DateFilter
		wantFrom time.Time
		wantTo   time.Time
	}{
		{DateToday, at(2024, 2, 29), at(2024, 3, 1)},
		{DateYesterday, at(2024, 2, 28), at(2024, 2, 29)},
		{DateThisWeek, at(2024, 2, 26), at(2024, 3, 4)},
		{DateThisMonth, at(2024, 2, 1), at(2024, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			p, ok := ResolvePeriod(tt.filter, now)
			if !ok {
				t.Fatalf("expected %s to resolve", tt.filter)
			}
			if !p.From.Equal(tt.wantFrom) || !p.To.Equal(tt.wantTo) {
				t.Errorf("got [%v, %v), want [%v, %v)", p.From, p.To, tt.wantFrom, tt.wantTo)
			}
			if !p.Contains(now) {
				t.Errorf("period %v should contain now", p)
			}
		})
	}
}

func TestResolvePeriod_WeekStartsMonday(t *testing.T) {
	sunday := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)

	p, _ := ResolvePeriod(DateThisWeek, sunday)

	if p.From.Weekday() != time.Monday || p.From.Day() != 4 {
		t.Errorf("expected week to start Monday 4 March, got %v", p.From)
	}
}

func TestResolvePeriod_Unresolvable(t *testing.T) {
	for _, f := range []DateFilter{DateNone, DateCustom, DateFilter("lastYear")} {
		if _, ok := ResolvePeriod(f, time.Now()); ok {
			t.Errorf("expected %q not to resolve", f)
		}
	}
}

func TestCustomPeriod_IncludesWholeEndDay(t *testing.T) {
	p := CustomPeriod(day("2024-01-01"), day("2024-01-31"), time.UTC)

	if !p.Contains(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)) {
		t.Error("expected last second of end day to be included")
	}
	if p.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected day after end to be excluded")
	}
}
